package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fineko/fineko-api/internal/core/domain"
)

const uniqueViolation = "23505"

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepository struct{ db *sql.DB }

func NewUserRepository(db *sql.DB) *UserRepository { return &UserRepository{db: db} }

const userColumns = `id, first_name, last_name, telegram_user_id, telegram_username, avatar, is_admin, created_at`

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.FirstName, u.LastName, u.TelegramUserID, u.TelegramUsername, u.Avatar, u.IsAdmin, u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramUserID string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_user_id = $1`, telegramUserID)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.TelegramUserID, &u.TelegramUsername, &u.Avatar, &u.IsAdmin, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// ── Companies ─────────────────────────────────────────────────────────────────

type CompanyRepository struct{ db *sql.DB }

func NewCompanyRepository(db *sql.DB) *CompanyRepository { return &CompanyRepository{db: db} }

const companyColumns = `id, name, owner_id, subscription_tier, subscription_expires, trial_ends, telegram_chat_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*domain.Company, error) {
	var (
		c      domain.Company
		subExp sql.NullTime
		trial  sql.NullTime
		chatID sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.OwnerID, &c.SubscriptionTier, &subExp, &trial, &chatID, &c.CreatedAt); err != nil {
		return nil, err
	}
	if subExp.Valid {
		t := subExp.Time.UTC()
		c.SubscriptionExpires = &t
	}
	if trial.Valid {
		t := trial.Time.UTC()
		c.TrialEnds = &t
	}
	c.TelegramChatID = chatID.Int64
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company: %w", err)
	}
	return c, nil
}

func (r *CompanyRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Company, error) {
	return r.query(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = ANY($1) ORDER BY created_at, id`,
		pq.Array(ids),
	)
}

func (r *CompanyRepository) List(ctx context.Context, offset, limit int) ([]*domain.Company, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}
	companies, err := r.query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY created_at, id OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *CompanyRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Company, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return out, nil
}

// CreateWithOwner inserts the company and its owner membership in one
// transaction.
func (r *CompanyRepository) CreateWithOwner(ctx context.Context, c *domain.Company, owner *domain.Membership) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO companies (id, name, owner_id, subscription_tier, subscription_expires, trial_ends, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.OwnerID, c.SubscriptionTier, c.SubscriptionExpires, c.TrialEnds, c.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO memberships (id, user_id, company_id, status, notes, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		owner.ID, owner.UserID, owner.CompanyID, string(owner.Status), owner.Notes, owner.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert owner membership: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *CompanyRepository) SetTelegramChat(ctx context.Context, companyID string, chatID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE companies SET telegram_chat_id = $1 WHERE id = $2`, chatID, companyID)
	if err != nil {
		return fmt.Errorf("set telegram chat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// ── Memberships ───────────────────────────────────────────────────────────────

type MembershipRepository struct{ db *sql.DB }

func NewMembershipRepository(db *sql.DB) *MembershipRepository { return &MembershipRepository{db: db} }

func (r *MembershipRepository) Exists(ctx context.Context, userID, companyID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM memberships WHERE user_id = $1 AND company_id = $2)`,
		userID, companyID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return ok, nil
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, company_id, status, notes, created_at FROM memberships WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query memberships: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Membership, 0)
	for rows.Next() {
		var (
			m      domain.Membership
			status string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.CompanyID, &status, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		m.Status = domain.MembershipStatus(status)
		m.CreatedAt = m.CreatedAt.UTC()
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}
	return out, nil
}

// Add inserts a membership outside the create-company flow, e.g. an
// invited member.
func (r *MembershipRepository) Add(ctx context.Context, m *domain.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (id, user_id, company_id, status, notes, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.UserID, m.CompanyID, string(m.Status), m.Notes, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// Remove deletes the membership of userID in companyID. A missing row is
// domain.ErrNotFound.
func (r *MembershipRepository) Remove(ctx context.Context, userID, companyID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE user_id = $1 AND company_id = $2`,
		userID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("membership %w", domain.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
