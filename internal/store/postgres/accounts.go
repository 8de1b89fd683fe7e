package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SpeedReaderwebserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, email, name, image, password_hash, role, status, created_at, updated_at, last_login_at`

type AccountsStore struct {
	pool *pgxpool.Pool
}

func NewAccountsStore(pool *pgxpool.Pool) *AccountsStore {
	return &AccountsStore{pool: pool}
}

func scanAccount(row pgx.Row) (domain.AccountWithPassword, error) {
	var (
		a           domain.AccountWithPassword
		idUUID      pgtype.UUID
		imageText   pgtype.Text
		hashText    pgtype.Text
		lastLoginTS pgtype.Timestamptz
	)
	err := row.Scan(
		&idUUID,
		&a.Email,
		&a.Name,
		&imageText,
		&hashText,
		&a.Role,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
		&lastLoginTS,
	)
	if err != nil {
		return domain.AccountWithPassword{}, err
	}
	a.ID = uuidOrEmpty(idUUID)
	a.Image = textOrEmpty(imageText)
	a.PasswordHash = textOrEmpty(hashText)
	a.LastLoginAt = timestamptzPtr(lastLoginTS)
	return a, nil
}

func (s *AccountsStore) CreateAccount(ctx context.Context, email, name, passwordHash string) (domain.Account, error) {
	q := `
		INSERT INTO accounts (email, name, password_hash, role, status)
		VALUES ($1, $2, $3, 'user', 'pending')
		RETURNING ` + accountColumns

	a, err := scanAccount(s.pool.QueryRow(ctx, q, email, name, passwordHash))
	if err != nil {
		return domain.Account{}, mapAccountWriteError(err)
	}
	return a.Account, nil
}

// CreateFederatedAccount creates an active account without a password together
// with its external identity link.
func (s *AccountsStore) CreateFederatedAccount(ctx context.Context, provider, providerID, email, name, image string) (domain.Account, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Account{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `
		INSERT INTO accounts (email, name, image, role, status)
		VALUES ($1, $2, $3, 'user', 'active')
		RETURNING ` + accountColumns

	a, err := scanAccount(tx.QueryRow(ctx, q, email, name, nullIfEmpty(image)))
	if err != nil {
		return domain.Account{}, mapAccountWriteError(err)
	}

	const link = `
		INSERT INTO external_accounts (account_id, provider, provider_id, email)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, link, a.ID, provider, providerID, nullIfEmpty(email)); err != nil {
		return domain.Account{}, mapAccountWriteError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Account{}, fmt.Errorf("commit tx: %w", err)
	}
	return a.Account, nil
}

func (s *AccountsStore) LinkExternalAccount(ctx context.Context, accountID, provider, providerID, email string) error {
	const q = `
		INSERT INTO external_accounts (account_id, provider, provider_id, email)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.pool.Exec(ctx, q, accountID, provider, providerID, nullIfEmpty(email)); err != nil {
		return mapAccountWriteError(err)
	}
	return nil
}

func (s *AccountsStore) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	if !validID(id) {
		return domain.Account{}, domain.ErrNotFound
	}
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}
	return a.Account, nil
}

func (s *AccountsStore) GetAccountByEmail(ctx context.Context, email string) (domain.AccountWithPassword, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1) LIMIT 1`

	a, err := scanAccount(s.pool.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AccountWithPassword{}, domain.ErrNotFound
		}
		return domain.AccountWithPassword{}, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

func (s *AccountsStore) GetAccountByExternal(ctx context.Context, provider, providerID string) (domain.Account, error) {
	q := `
		SELECT a.id, a.email, a.name, a.image, a.password_hash, a.role, a.status, a.created_at, a.updated_at, a.last_login_at
		FROM external_accounts e
		JOIN accounts a ON a.id = e.account_id
		WHERE e.provider = $1 AND e.provider_id = $2
	`

	a, err := scanAccount(s.pool.QueryRow(ctx, q, provider, providerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by external: %w", err)
	}
	return a.Account, nil
}

func (s *AccountsStore) SetLastLogin(ctx context.Context, accountID string, when time.Time) error {
	const q = `
		UPDATE accounts
		SET last_login_at = $2, updated_at = now()
		WHERE id = $1
	`
	_, err := s.pool.Exec(ctx, q, accountID, when)
	if err != nil {
		return fmt.Errorf("set last login: %w", err)
	}
	return nil
}

// SetPasswordHash replaces the hash and clears any pending reset token.
func (s *AccountsStore) SetPasswordHash(ctx context.Context, accountID, passwordHash string) error {
	const q = `
		UPDATE accounts
		SET password_hash = $2, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, q, accountID, passwordHash)
	if err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *AccountsStore) SetResetToken(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
	const q = `
		UPDATE accounts
		SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, q, accountID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *AccountsStore) GetResetByTokenHash(ctx context.Context, tokenHash string) (domain.PasswordReset, error) {
	const q = `
		SELECT id, reset_token_hash, reset_token_expires_at
		FROM accounts
		WHERE reset_token_hash = $1
	`
	var (
		reset     domain.PasswordReset
		idUUID    pgtype.UUID
		expiresAt pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, q, tokenHash).Scan(&idUUID, &reset.TokenHash, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PasswordReset{}, domain.ErrNotFound
		}
		return domain.PasswordReset{}, fmt.Errorf("get reset token: %w", err)
	}
	reset.AccountID = uuidOrEmpty(idUUID)
	if expiresAt.Valid {
		reset.ExpiresAt = expiresAt.Time
	}
	return reset, nil
}

func mapAccountWriteError(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		switch pgerr.ConstraintName {
		case "accounts_email_uq":
			return domain.ErrEmailTaken
		case "external_accounts_provider_uq":
			return domain.NewValidationError(map[string]string{"id_token": "identity already linked"})
		default:
			return fmt.Errorf("unique violation (%s): %w", pgerr.ConstraintName, err)
		}
	}
	return fmt.Errorf("write account: %w", err)
}
