package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fineko/fineko-api/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time      { return c.t }
func (c *fakeClock) add(d time.Duration) { c.t = c.t.Add(d) }

func TestSessionStore_CreateResolve(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewSessionStore(clock.now)
	ctx := context.Background()

	sess, err := store.Create(ctx, &domain.Session{Type: domain.SessionTemp, UserID: "u1", RememberMe: true}, domain.TempSessionTTL)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(sess.ID) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(sess.ID))
	}
	if !sess.ExpiresAt.Equal(clock.t.Add(5 * time.Minute)) {
		t.Fatalf("unexpected expiry: %v", sess.ExpiresAt)
	}

	got, err := store.Resolve(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.UserID != "u1" || !got.RememberMe || got.Type != domain.SessionTemp {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewSessionStore(clock.now)
	ctx := context.Background()

	sess, _ := store.Create(ctx, &domain.Session{Type: domain.SessionTemp, UserID: "u1"}, domain.TempSessionTTL)

	clock.add(5*time.Minute - time.Second)
	if _, err := store.Resolve(ctx, sess.ID); err != nil {
		t.Fatalf("expected session alive one second before expiry, got %v", err)
	}

	clock.add(time.Second)
	if _, err := store.Resolve(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound at expiry, got %v", err)
	}
}

func TestSessionStore_UnknownID(t *testing.T) {
	store := NewSessionStore(nil)
	if _, err := store.Resolve(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_ConsumeIsSingleUse(t *testing.T) {
	store := NewSessionStore(nil)
	ctx := context.Background()
	sess, _ := store.Create(ctx, &domain.Session{Type: domain.SessionGroupLink, UserID: "u1", CompanyID: "c1"}, domain.GroupLinkTTL)

	got, err := store.Consume(ctx, sess.ID)
	if err != nil {
		t.Fatalf("first Consume returned error: %v", err)
	}
	if got.CompanyID != "c1" {
		t.Fatalf("unexpected company: %s", got.CompanyID)
	}
	if _, err := store.Consume(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected second Consume to fail, got %v", err)
	}
}

func TestSessionStore_DistinctIDs(t *testing.T) {
	store := NewSessionStore(nil)
	ctx := context.Background()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		sess, err := store.Create(ctx, &domain.Session{Type: domain.SessionTemp, UserID: "u1"}, time.Minute)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if _, dup := seen[sess.ID]; dup {
			t.Fatalf("duplicate session id %s", sess.ID)
		}
		seen[sess.ID] = struct{}{}
	}
}
