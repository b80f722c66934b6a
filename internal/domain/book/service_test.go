// internal/domain/book/service_test.go
package book

import (
	"reflect"
	"testing"

	"github.com/tduong196/bookstore/internal/domain/order"
)

func TestAffectedOrderIDs(t *testing.T) {
	items := []order.OrderItem{
		{OrderID: 3, BookID: 1},
		{OrderID: 1, BookID: 1},
		{OrderID: 3, BookID: 1},
		{OrderID: 2, BookID: 1},
		{OrderID: 1, BookID: 1},
	}

	got := AffectedOrderIDs(items)
	want := []uint{3, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AffectedOrderIDs = %v, want %v", got, want)
	}
}

func TestAffectedOrderIDsEmpty(t *testing.T) {
	if got := AffectedOrderIDs(nil); got != nil {
		t.Errorf("expected nil for no items, got %v", got)
	}
}

func TestBuildOrderClause(t *testing.T) {
	tests := []struct {
		sortBy string
		desc   bool
		want   string
	}{
		{"", false, "created_at ASC"},
		{"created_at", true, "created_at DESC"},
		{"price", false, "price_cents ASC"},
		{"price", true, "price_cents DESC"},
		{"rating", true, "rating DESC"},
		{"title", false, "title ASC"},
		// Unknown columns fall back to created_at, never raw input
		{"id; DROP TABLE books", false, "created_at ASC"},
	}

	for _, tt := range tests {
		if got := buildOrderClause(tt.sortBy, tt.desc); got != tt.want {
			t.Errorf("buildOrderClause(%q, %v) = %q, want %q", tt.sortBy, tt.desc, got, tt.want)
		}
	}
}

func TestBookIsPurchasable(t *testing.T) {
	b := &Book{IsActive: true, StockQuantity: 3, PriceCents: 1000}

	if !b.IsPurchasable(3) {
		t.Error("expected purchasable at exact stock")
	}
	if b.IsPurchasable(4) {
		t.Error("expected not purchasable above stock")
	}
	if b.IsPurchasable(0) {
		t.Error("expected not purchasable for zero quantity")
	}

	inactive := &Book{IsActive: false, StockQuantity: 3, PriceCents: 1000}
	if inactive.IsPurchasable(1) {
		t.Error("inactive book should not be purchasable")
	}
}
