// internal/domain/book/cascade_test.go
package book

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingNotifier struct {
	title      string
	recipients []string
}

func (n *recordingNotifier) NotifyBookRemoved(ctx context.Context, title string, recipients []string) error {
	n.title = title
	n.recipients = recipients
	return nil
}

func newMockService(t *testing.T, notifier RemovalNotifier) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return NewService(db, &config.Config{}, notifier, log), mock
}

func bookRow(id uint, title string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "author", "price_cents", "stock_quantity", "is_active", "created_at", "updated_at",
	}).AddRow(id, title, "Frank Herbert", int64(1999), 10, true, now, now)
}

// A book referenced by two orders: order 10 holds it as its only line
// and must disappear, order 11 holds it as one of two lines and must
// survive with its total recomputed.
func TestDeleteBookCascade(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, mock := newMockService(t, notifier)

	mock.ExpectQuery(`SELECT (.+) FROM "books"`).
		WillReturnRows(bookRow(5, "Dune"))
	mock.ExpectQuery(`SELECT DISTINCT (.+) FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).
			AddRow("ada@example.com").AddRow("grace@example.com"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reviews" SET "deleted_at"`).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "comments" SET "deleted_at"`).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id", "quantity"}).
			AddRow(1, 10, 5, 1).
			AddRow(2, 11, 5, 1))
	mock.ExpectExec(`DELETE FROM "order_items"`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	// Order 10 is emptied and soft-deleted; the NOT EXISTS guard
	// leaves order 11 alone.
	mock.ExpectExec(`UPDATE "orders" SET "deleted_at"(.+)NOT EXISTS`).
		WithArgs(sqlmock.AnyArg(), 10, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders SET total_cents`).
		WithArgs(10, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "books" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.DeleteBook(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notifier.title != "Dune" {
		t.Errorf("expected removal notice for Dune, got %q", notifier.title)
	}
	if len(notifier.recipients) != 2 {
		t.Errorf("expected 2 notified buyers, got %v", notifier.recipients)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// A book no order references skips the order cleanup entirely.
func TestDeleteBookWithoutOrderReferences(t *testing.T) {
	svc, mock := newMockService(t, nil)

	mock.ExpectQuery(`SELECT (.+) FROM "books"`).
		WillReturnRows(bookRow(6, "Neuromancer"))
	mock.ExpectQuery(`SELECT DISTINCT (.+) FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"email"}))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reviews" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "comments" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id"}))
	mock.ExpectExec(`UPDATE "books" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.DeleteBook(context.Background(), 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
