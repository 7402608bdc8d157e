package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
	"github.com/fineko/fineko-api/internal/infrastructure/db/memory"
	"github.com/fineko/fineko-api/internal/infrastructure/token"
)

const testSecret = "test-secret-test-secret-test-secret"

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// harness wires the services over the in-memory store, the in-memory
// session store and the real credential codec, all on one fake clock.
type harness struct {
	clock     *testClock
	db        *memory.DB
	sessions  *memory.SessionStore
	codec     *token.Codec
	login     *LoginService
	companies *CompanyService
	members   *MembershipService
	links     *GroupLinkService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)}
	db := memory.New()
	sessions := memory.NewSessionStore(clock.now)
	codec, err := token.NewCodec(testSecret, token.WithClock(clock.now))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	log := zerolog.Nop()
	members := NewMembershipService(db.Memberships(), db.Users())
	login := NewLoginService(db.Users(), sessions, log)
	login.now = clock.now
	companies := NewCompanyService(db.Companies(), db.Memberships(), db.Users(), sessions, members, codec, log)
	companies.now = clock.now
	links := NewGroupLinkService(db.Companies(), sessions, members, log)

	return &harness{
		clock:     clock,
		db:        db,
		sessions:  sessions,
		codec:     codec,
		login:     login,
		companies: companies,
		members:   members,
		links:     links,
	}
}

func (h *harness) loginIvan(t *testing.T, rememberMe bool) *ports.LoginResult {
	t.Helper()
	res, err := h.login.LoginWithExternalIdentity(context.Background(), domain.ExternalIdentity{
		ExternalID: "12345",
		FirstName:  "Ivan",
	}, rememberMe)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return res
}

// failingUsers fails every call with err.
type failingUsers struct{ err error }

func (f failingUsers) FindByID(context.Context, string) (*domain.User, error) { return nil, f.err }
func (f failingUsers) FindByTelegramID(context.Context, string) (*domain.User, error) {
	return nil, f.err
}
func (f failingUsers) Create(context.Context, *domain.User) error { return f.err }

// racingUsers reports "not found" once, then loses the insert race.
type racingUsers struct {
	winner *domain.User
	calls  int
}

func (r *racingUsers) FindByID(context.Context, string) (*domain.User, error) { return r.winner, nil }
func (r *racingUsers) FindByTelegramID(context.Context, string) (*domain.User, error) {
	r.calls++
	if r.calls == 1 {
		return nil, domain.ErrUserNotFound
	}
	return r.winner, nil
}
func (r *racingUsers) Create(context.Context, *domain.User) error { return domain.ErrUserExists }

type failingSessions struct{}

func (failingSessions) Create(context.Context, *domain.Session, time.Duration) (*domain.Session, error) {
	return nil, errors.New("redis: connection refused")
}
func (failingSessions) Resolve(context.Context, string) (*domain.Session, error) {
	return nil, errors.New("redis: connection refused")
}
func (failingSessions) Consume(context.Context, string) (*domain.Session, error) {
	return nil, errors.New("redis: connection refused")
}

// recordingNotifier captures queued bot messages.
type recordingNotifier struct {
	msgs []domain.OutboundMessage
}

func (n *recordingNotifier) Enqueue(msg domain.OutboundMessage) {
	n.msgs = append(n.msgs, msg)
}
