// internal/domain/review/service_test.go
package review

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

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
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

	return NewService(db, &config.Config{}, log), mock
}

func TestCreateReviewCapturesReviewerIdentity(t *testing.T) {
	svc, mock := newMockService(t)
	now := time.Now()

	// Eligible order: delivered, not yet reviewed, contains the book
	mock.ExpectQuery(`SELECT (.+) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_number", "user_id", "status", "total_cents",
			"phone", "address", "payment_method", "reviewed", "created_at", "updated_at",
		}).AddRow(7, "BK-20260901-00007", 42, "DELIVERED", int64(1999),
			"555-0100", "1 Main St", "Cash on delivery", false, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id", "title", "quantity"}).
			AddRow(1, 7, 5, "Dune", 1))

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_name"}).
			AddRow(42, "ada@example.com", "Ada", "Lovelace"))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "reviews"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "rating" FROM "reviews"`).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(5))
	mock.ExpectExec(`UPDATE "books" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r, err := svc.CreateReview(context.Background(), 42, &CreateReviewRequest{
		OrderID: 7,
		BookID:  5,
		Rating:  5,
		Content: "A masterpiece.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.UserEmail != "ada@example.com" {
		t.Errorf("expected reviewer email captured, got %q", r.UserEmail)
	}
	if r.UserName != "Ada Lovelace" {
		t.Errorf("expected reviewer name captured, got %q", r.UserName)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
