package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"slotbook/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func exerciseStore(t *testing.T, store SessionStore, clock *testClock) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	sess, err := store.Create(ctx, "s1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if sess.Phase != models.PhaseCollectingService || sess.Intent != models.IntentBooking {
		t.Fatalf("unexpected new session: %+v", sess)
	}

	// Mutating a copy without Touch leaves the stored session alone.
	sess.Service = "Fade"
	got, _ := store.Get(ctx, "s1")
	if got.Service != "" {
		t.Fatalf("stored session changed without Touch: %+v", got)
	}

	clock.Advance(20 * time.Minute)
	if err := store.Touch(ctx, sess); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	clock.Advance(20 * time.Minute)
	got, err = store.Get(ctx, "s1")
	if err != nil || got.Service != "Fade" {
		t.Fatalf("expected touched session to survive, got %+v, %v", got, err)
	}

	clock.Advance(31 * time.Minute)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected expired session to be evicted, got %v", err)
	}

	_, _ = store.Create(ctx, "s2")
	if err := store.Clear(ctx, "s2"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := store.Get(ctx, "s2"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected cleared session gone, got %v", err)
	}
}

func TestMemorySessionStore(t *testing.T) {
	clock := &testClock{t: time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)}
	store := NewMemorySessionStore(30 * time.Minute).WithClock(clock.Now)
	exerciseStore(t, store, clock)
}

func TestMemorySessionStoreSweep(t *testing.T) {
	clock := &testClock{t: time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)}
	store := NewMemorySessionStore(time.Minute).WithClock(clock.Now)
	ctx := context.Background()
	_, _ = store.Create(ctx, "a")
	_, _ = store.Create(ctx, "b")

	clock.Advance(2 * time.Minute)
	if n := store.Sweep(); n != 2 {
		t.Fatalf("expected 2 swept sessions, got %d", n)
	}
}

func TestRedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	clock := &testClock{t: time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)}
	store := NewRedisSessionStore(client, 30*time.Minute).WithClock(clock.Now)
	exerciseStore(t, store, clock)
}

func TestRedisSessionStoreKeyExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisSessionStore(client, 30*time.Minute)
	ctx := context.Background()
	if _, err := store.Create(ctx, "s1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if ttl := mr.TTL(sessionPrefix + "s1"); ttl != 30*time.Minute {
		t.Fatalf("expected key TTL of 30m, got %v", ttl)
	}

	mr.FastForward(31 * time.Minute)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired key to be gone, got %v", err)
	}
}
