package server

import (
	"context"
	"testing"
	"time"

	"task-man/operation"
)

func TestFeeds(t *testing.T) {
	feeds := NewFeeds(func() *operation.Feed {
		return operation.NewFeed(nil, 10, operation.Retry{})
	}, time.Minute)

	a := feeds.Get("s1", "alice")
	if feeds.Get("s1", "alice") != a {
		t.Errorf("Get() returns a new feed for the same session")
	}
	b := feeds.Get("s2", "bob")
	feeds.Get("s3", "ALICE")
	if feeds.Len() != 3 {
		t.Fatalf("Len() = %d", feeds.Len())
	}

	if n := feeds.MarkStale("alice"); n != 2 {
		t.Errorf("MarkStale() = %d, want 2", n)
	}
	if !a.Stale() || b.Stale() {
		t.Errorf("stale: alice = %v, bob = %v", a.Stale(), b.Stale())
	}

	feeds.Release("s1")
	if feeds.Len() != 2 {
		t.Errorf("Len() after Release = %d", feeds.Len())
	}

	if n := feeds.Sweep(time.Now()); n != 0 {
		t.Errorf("Sweep() now = %d", n)
	}
	if n := feeds.Sweep(time.Now().Add(time.Hour)); n != 2 || feeds.Len() != 0 {
		t.Errorf("Sweep() later = %d, remain %d", n, feeds.Len())
	}
}

func TestFeeds_Janitor(t *testing.T) {
	feeds := NewFeeds(func() *operation.Feed {
		return operation.NewFeed(nil, 10, operation.Retry{})
	}, time.Millisecond)
	feeds.Get("s1", "alice")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		feeds.Janitor(ctx, time.Millisecond)
		close(done)
	}()
	deadline := time.Now().Add(time.Second)
	for feeds.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done
	if feeds.Len() != 0 {
		t.Errorf("Len() = %d, want 0", feeds.Len())
	}
}
