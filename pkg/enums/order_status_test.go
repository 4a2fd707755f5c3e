package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("shipped")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != OrderStatusShipped {
		t.Fatalf("unexpected status %s", status)
	}

	if _, err := ParseOrderStatus("teleported"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded} {
		if !status.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	if OrderStatusPending.IsTerminal() {
		t.Fatal("pending must not be terminal")
	}
}

func TestOrderStatusForwardFlow(t *testing.T) {
	if !OrderStatusPending.CanTransitionTo(OrderStatusConfirmed) {
		t.Fatal("pending should move to confirmed")
	}
	if OrderStatusShipped.CanTransitionTo(OrderStatusPending) {
		t.Fatal("shipped must not move back to pending in the forward flow")
	}
	if OrderStatusRefunded.CanTransitionTo(OrderStatusPending) {
		t.Fatal("refunded is a dead end")
	}
}
