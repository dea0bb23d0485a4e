package notify

import (
	"context"
	"testing"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	first, cancelFirst := hub.Subscribe()
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe()
	defer cancelSecond()

	msg := Message{Type: TypeStateChanged, Namespace: "resume-storage", Seq: 7}
	if err := hub.Publish(context.Background(), msg); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for i, ch := range []<-chan Message{first, second} {
		got := <-ch
		if got != msg {
			t.Fatalf("subscriber %d got %+v, want %+v", i, got, msg)
		}
	}
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
	if hub.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", hub.Subscribers())
	}
	if err := hub.Publish(context.Background(), Message{Type: TypeStateChanged}); err != nil {
		t.Fatalf("publish after cancel: %v", err)
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer*3; i++ {
		if err := hub.Publish(context.Background(), Message{Type: TypeStateChanged}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
}
