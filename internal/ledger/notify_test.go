package ledger

import (
	"testing"
	"time"
)

func TestHubNotifyWakesSubscriber(t *testing.T) {
	h := NewHub()

	wake, detach := h.Register("owner@example.com")
	defer detach()

	h.Notify("owner@example.com")

	select {
	case <-wake:
	case <-time.After(time.Second):
		t.Fatal("subscriber never woke")
	}
}

func TestHubNotifyCoalesces(t *testing.T) {
	h := NewHub()

	wake, detach := h.Register("owner@example.com")
	defer detach()

	// A burst of notifies collapses into one pending wake.
	for i := 0; i < 10; i++ {
		h.Notify("owner@example.com")
	}

	<-wake
	select {
	case <-wake:
		t.Error("expected at most one pending wake after a burst")
	default:
	}
}

func TestHubNotifyScopedToUserKey(t *testing.T) {
	h := NewHub()

	wakeA, detachA := h.Register("a@example.com")
	defer detachA()
	wakeB, detachB := h.Register("b@example.com")
	defer detachB()

	h.Notify("a@example.com")

	select {
	case <-wakeA:
	case <-time.After(time.Second):
		t.Fatal("subscriber for a@example.com never woke")
	}
	select {
	case <-wakeB:
		t.Error("subscriber for b@example.com woke on an unrelated change")
	default:
	}
}

func TestHubDetachIdempotent(t *testing.T) {
	h := NewHub()

	_, detach := h.Register("owner@example.com")
	if got := h.Subscribers("owner@example.com"); got != 1 {
		t.Fatalf("Subscribers = %d, want 1", got)
	}

	detach()
	detach() // must not panic or corrupt the registry

	if got := h.Subscribers("owner@example.com"); got != 0 {
		t.Errorf("Subscribers = %d, want 0", got)
	}

	// Notifying with no subscribers is a no-op.
	h.Notify("owner@example.com")
}

func TestHubMultipleSubscribersSameKey(t *testing.T) {
	h := NewHub()

	wake1, detach1 := h.Register("owner@example.com")
	defer detach1()
	wake2, detach2 := h.Register("owner@example.com")
	defer detach2()

	h.Notify("owner@example.com")

	for i, wake := range []<-chan struct{}{wake1, wake2} {
		select {
		case <-wake:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d never woke", i+1)
		}
	}
}
