// Package memory holds process-local implementations of the repositories
// and the session store. They back development mode and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fineko/fineko-api/internal/core/domain"
)

// DB is a mutex-guarded set of tables shared by the repository views.
type DB struct {
	mu          sync.RWMutex
	users       map[string]*domain.User
	byTelegram  map[string]string
	companies   map[string]*domain.Company
	memberships map[string]*domain.Membership
}

func New() *DB {
	return &DB{
		users:       make(map[string]*domain.User),
		byTelegram:  make(map[string]string),
		companies:   make(map[string]*domain.Company),
		memberships: make(map[string]*domain.Membership),
	}
}

func (db *DB) Users() *UserRepository             { return &UserRepository{db: db} }
func (db *DB) Companies() *CompanyRepository      { return &CompanyRepository{db: db} }
func (db *DB) Memberships() *MembershipRepository { return &MembershipRepository{db: db} }

// Ping always succeeds.
func (db *DB) Ping(context.Context) error { return nil }

// AddMembership inserts a plain member. Used to seed invitations in tests
// and development.
func (db *DB) AddMembership(m *domain.Membership) {
	db.mu.Lock()
	defer db.mu.Unlock()
	clone := *m
	db.memberships[m.ID] = &clone
}

// RemoveMembership drops every membership of userID in companyID and
// reports whether one existed.
func (db *DB) RemoveMembership(userID, companyID string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	removed := false
	for id, m := range db.memberships {
		if m.UserID == userID && m.CompanyID == companyID {
			delete(db.memberships, id)
			removed = true
		}
	}
	return removed
}

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepository struct{ db *DB }

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramUserID string) (*domain.User, error) {
	r.db.mu.RLock()
	id, ok := r.db.byTelegram[telegramUserID]
	r.db.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, taken := r.db.byTelegram[user.TelegramUserID]; taken {
		return domain.ErrUserExists
	}
	clone := *user
	r.db.users[user.ID] = &clone
	r.db.byTelegram[user.TelegramUserID] = user.ID
	return nil
}

// SetAdmin flips the admin flag. There is no API for this; operators edit
// the store directly.
func (r *UserRepository) SetAdmin(id string, admin bool) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		u.IsAdmin = admin
	}
}

// ── Companies ─────────────────────────────────────────────────────────────────

type CompanyRepository struct{ db *DB }

func (r *CompanyRepository) FindByID(_ context.Context, id string) (*domain.Company, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.companies[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *CompanyRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.Company, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*domain.Company, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.db.companies[id]; ok {
			clone := *c
			out = append(out, &clone)
		}
	}
	sortCompanies(out)
	return out, nil
}

func (r *CompanyRepository) List(_ context.Context, offset, limit int) ([]*domain.Company, int64, error) {
	r.db.mu.RLock()
	all := make([]*domain.Company, 0, len(r.db.companies))
	for _, c := range r.db.companies {
		clone := *c
		all = append(all, &clone)
	}
	r.db.mu.RUnlock()

	sortCompanies(all)
	total := int64(len(all))
	if offset >= len(all) {
		return []*domain.Company{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *CompanyRepository) CreateWithOwner(_ context.Context, company *domain.Company, owner *domain.Membership) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := *company
	m := *owner
	r.db.companies[c.ID] = &c
	r.db.memberships[m.ID] = &m
	return nil
}

func (r *CompanyRepository) SetTelegramChat(_ context.Context, companyID string, chatID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.companies[companyID]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	c.TelegramChatID = chatID
	return nil
}

func sortCompanies(cs []*domain.Company) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].ID < cs[j].ID
		}
		return cs[i].CreatedAt.Before(cs[j].CreatedAt)
	})
}

// ── Memberships ───────────────────────────────────────────────────────────────

type MembershipRepository struct{ db *DB }

func (r *MembershipRepository) Exists(_ context.Context, userID, companyID string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, m := range r.db.memberships {
		if m.UserID == userID && m.CompanyID == companyID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MembershipRepository) ListByUser(_ context.Context, userID string) ([]*domain.Membership, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*domain.Membership, 0)
	for _, m := range r.db.memberships {
		if m.UserID == userID {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
