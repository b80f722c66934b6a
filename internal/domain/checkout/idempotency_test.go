// internal/domain/checkout/idempotency_test.go
package checkout

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/order"
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

	return NewService(db, nil, &config.Config{}, log), mock
}

// Replaying an idempotency key returns the original order without
// touching the cart or writing anything, and the lookup is scoped to
// the calling user.
func TestPlaceOrderIdempotentReplay(t *testing.T) {
	svc, mock := newMockService(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM "orders" WHERE (.+)user_id(.+)idempotency_key`).
		WithArgs(42, "retry-abc123", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_number", "user_id", "status", "total_cents",
			"phone", "address", "payment_method", "reviewed", "created_at", "updated_at",
		}).AddRow(9, "BK-20260901-00009", 42, "PENDING", int64(1999),
			"555-0100", "1 Main St", "Cash on delivery", false, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id", "title", "quantity"}).
			AddRow(1, 9, 5, "Dune", 1))

	o, err := svc.PlaceOrder(context.Background(), 42, "", &PlaceOrderRequest{
		Phone:          "555-0100",
		Address:        "1 Main St",
		PaymentMethod:  "Cash on delivery",
		IdempotencyKey: "retry-abc123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if o.ID != 9 || o.OrderNumber != "BK-20260901-00009" {
		t.Errorf("expected the original order back, got %+v", o)
	}
	if o.PaymentMethod != "Cash on delivery" {
		t.Errorf("expected payment method on the order, got %q", o.PaymentMethod)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Two users may reuse the same idempotency key: the unique index is
// composite over user and key, never the key alone.
func TestIdempotencyIndexIsScopedPerUser(t *testing.T) {
	typ := reflect.TypeOf(order.Order{})

	userField, ok := typ.FieldByName("UserID")
	if !ok {
		t.Fatal("UserID field missing")
	}
	keyField, ok := typ.FieldByName("IdempotencyKey")
	if !ok {
		t.Fatal("IdempotencyKey field missing")
	}

	const index = "uniqueIndex:idx_orders_user_idempotency"
	if !strings.Contains(userField.Tag.Get("gorm"), index) {
		t.Errorf("UserID is not part of the composite index: %q", userField.Tag.Get("gorm"))
	}
	if !strings.Contains(keyField.Tag.Get("gorm"), index) {
		t.Errorf("IdempotencyKey is not part of the composite index: %q", keyField.Tag.Get("gorm"))
	}
	if strings.Contains(keyField.Tag.Get("gorm"), "uniqueIndex;") {
		t.Errorf("IdempotencyKey carries a standalone unique index: %q", keyField.Tag.Get("gorm"))
	}
}
