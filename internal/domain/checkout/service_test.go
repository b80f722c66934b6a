// internal/domain/checkout/service_test.go
package checkout

import (
	"errors"
	"testing"

	"github.com/tduong196/bookstore/internal/domain/book"
	"github.com/tduong196/bookstore/internal/domain/cart"
)

func catalog() map[uint]book.Book {
	return map[uint]book.Book{
		1: {ID: 1, Title: "Dune", PriceCents: 1999, StockQuantity: 10, IsActive: true},
		2: {ID: 2, Title: "Neuromancer", PriceCents: 1499, StockQuantity: 1, IsActive: true},
		3: {ID: 3, Title: "Retired Title", PriceCents: 999, StockQuantity: 5, IsActive: false},
		4: {ID: 4, Title: "Unpriced", PriceCents: 0, StockQuantity: 5, IsActive: true},
	}
}

func TestValidateDelivery(t *testing.T) {
	if err := ValidateDelivery("555-0100", "1 Main St", "Cash on delivery"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateDelivery("  ", "1 Main St", "Cash on delivery"); !errors.Is(err, ErrMissingPhone) {
		t.Errorf("expected ErrMissingPhone, got %v", err)
	}
	if err := ValidateDelivery("555-0100", "", "Cash on delivery"); !errors.Is(err, ErrMissingAddress) {
		t.Errorf("expected ErrMissingAddress, got %v", err)
	}
	if err := ValidateDelivery("555-0100", "1 Main St", " "); !errors.Is(err, ErrMissingPaymentMethod) {
		t.Errorf("expected ErrMissingPaymentMethod, got %v", err)
	}
}

func TestResolveLines(t *testing.T) {
	items := []cart.CartItem{
		// Stale snapshot: the cart price is ignored in favor of the catalog
		{BookID: 1, Title: "Dune", UnitPriceCents: 1, Quantity: 2},
		{BookID: 2, Title: "Neuromancer", UnitPriceCents: 1499, Quantity: 1},
	}

	lines, err := ResolveLines(items, catalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].UnitPriceCents != 1999 {
		t.Errorf("expected catalog price 1999, got %d", lines[0].UnitPriceCents)
	}
	if lines[0].TotalCents != 3998 {
		t.Errorf("expected line total 3998, got %d", lines[0].TotalCents)
	}
	if got := TotalCents(lines); got != 3998+1499 {
		t.Errorf("expected order total %d, got %d", 3998+1499, got)
	}
}

func TestResolveLinesEmptyCart(t *testing.T) {
	if _, err := ResolveLines(nil, catalog()); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
}

func TestResolveLinesRejectsMissingBook(t *testing.T) {
	items := []cart.CartItem{{BookID: 99, Quantity: 1}}
	if _, err := ResolveLines(items, catalog()); !errors.Is(err, ErrBookUnavailable) {
		t.Errorf("expected ErrBookUnavailable, got %v", err)
	}
}

func TestResolveLinesRejectsInactiveBook(t *testing.T) {
	items := []cart.CartItem{{BookID: 3, Quantity: 1}}
	if _, err := ResolveLines(items, catalog()); !errors.Is(err, ErrBookUnavailable) {
		t.Errorf("expected ErrBookUnavailable, got %v", err)
	}
}

func TestResolveLinesRejectsZeroPrice(t *testing.T) {
	items := []cart.CartItem{{BookID: 4, Quantity: 1}}
	if _, err := ResolveLines(items, catalog()); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestResolveLinesRejectsOverstock(t *testing.T) {
	items := []cart.CartItem{{BookID: 2, Quantity: 3}}
	if _, err := ResolveLines(items, catalog()); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestResolveLinesWholeCheckoutFails(t *testing.T) {
	// One bad line rejects everything, including valid lines
	items := []cart.CartItem{
		{BookID: 1, Quantity: 1},
		{BookID: 3, Quantity: 1},
	}
	lines, err := ResolveLines(items, catalog())
	if err == nil {
		t.Fatal("expected an error")
	}
	if lines != nil {
		t.Errorf("expected no lines on failure, got %v", lines)
	}
}
