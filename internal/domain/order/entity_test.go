// internal/domain/order/entity_test.go
package order

import (
	"strings"
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusApproved, true},
		{OrderStatusPending, OrderStatusRejected, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusApproved, OrderStatusDelivered, true},
		{OrderStatusApproved, OrderStatusRejected, false},
		{OrderStatusApproved, OrderStatusPending, false},
		{OrderStatusRejected, OrderStatusApproved, false},
		{OrderStatusRejected, OrderStatusDelivered, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusApproved, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusApproved, OrderStatusRejected, OrderStatusDelivered} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if OrderStatus("SHIPPED").IsValid() {
		t.Error("unknown status should not be valid")
	}
	if OrderStatus("pending").IsValid() {
		t.Error("status check is case sensitive")
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	o := &Order{ID: 42}
	got := o.GenerateOrderNumber()

	want := "BK-" + time.Now().Format("20060102") + "-00042"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if !strings.HasPrefix(got, "BK-") {
		t.Errorf("order number missing prefix: %s", got)
	}
}

func TestCanBeReviewed(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		reviewed bool
		want     bool
	}{
		{OrderStatusPending, false, false},
		{OrderStatusApproved, false, true},
		{OrderStatusDelivered, false, true},
		{OrderStatusRejected, false, false},
		{OrderStatusApproved, true, false},
		{OrderStatusDelivered, true, false},
	}

	for _, tt := range tests {
		o := &Order{Status: tt.status, Reviewed: tt.reviewed}
		if got := o.CanBeReviewed(); got != tt.want {
			t.Errorf("status=%s reviewed=%v: got %v, want %v", tt.status, tt.reviewed, got, tt.want)
		}
	}
}

func TestAddStatusHistory(t *testing.T) {
	o := &Order{ID: 7}
	o.AddStatusHistory(OrderStatusApproved, "payment confirmed", 1)

	if len(o.StatusHistory) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(o.StatusHistory))
	}
	h := o.StatusHistory[0]
	if h.OrderID != 7 || h.Status != OrderStatusApproved || h.CreatedBy != 1 {
		t.Errorf("unexpected history entry: %+v", h)
	}
}
