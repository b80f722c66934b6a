// internal/domain/order/service_test.go
package order

import (
	"context"
	"errors"
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

	return NewService(db, &config.Config{}, nil, log), mock
}

func orderRow(id, userID uint, status OrderStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "order_number", "user_id", "status", "total_cents",
		"phone", "address", "reviewed", "created_at", "updated_at",
	}).AddRow(id, "BK-20260901-00001", userID, string(status), int64(1999),
		"555-0100", "1 Main St", false, now, now)
}

func expectOrderLoad(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectQuery(`SELECT (.+) FROM "orders"`).WillReturnRows(rows)
	if rows != nil {
		mock.ExpectQuery(`SELECT (.+) FROM "order_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id"}))
		mock.ExpectQuery(`SELECT (.+) FROM "order_status_history"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "status"}))
	}
}

func TestGetOrderNotFound(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetOrder(context.Background(), 1)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetUserOrderOwnership(t *testing.T) {
	s, mock := newMockService(t)

	expectOrderLoad(mock, orderRow(1, 99, OrderStatusPending))

	_, err := s.GetUserOrder(context.Background(), 1, 42)
	if !errors.Is(err, ErrNotOrderOwner) {
		t.Errorf("expected ErrNotOrderOwner, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	s, _ := newMockService(t)

	_, err := s.UpdateStatus(context.Background(), 1, 1, &UpdateStatusRequest{Status: "SHIPPED"})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	s, mock := newMockService(t)

	// A delivered order is terminal; nothing may be written
	expectOrderLoad(mock, orderRow(1, 42, OrderStatusDelivered))

	_, err := s.UpdateStatus(context.Background(), 1, 1, &UpdateStatusRequest{Status: OrderStatusApproved})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusCommitsStatusAndHistory(t *testing.T) {
	s, mock := newMockService(t)

	expectOrderLoad(mock, orderRow(1, 42, OrderStatusPending))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "order_status_history"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	o, err := s.UpdateStatus(context.Background(), 1, 7, &UpdateStatusRequest{
		Status:  OrderStatusApproved,
		Comment: "payment confirmed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != OrderStatusApproved {
		t.Errorf("expected APPROVED, got %s", o.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
