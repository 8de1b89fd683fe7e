package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"SpeedReaderwebserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminAccountsStore struct {
	pool *pgxpool.Pool
}

func NewAdminAccountsStore(pool *pgxpool.Pool) *AdminAccountsStore {
	return &AdminAccountsStore{pool: pool}
}

func (s *AdminAccountsStore) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	limit = clampLimit(limit, 50, 200)
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return collectAccounts(rows, "list accounts")
}

func (s *AdminAccountsStore) SearchAccounts(ctx context.Context, query string, limit, offset int) ([]domain.Account, error) {
	limit = clampLimit(limit, 50, 200)
	if offset < 0 {
		offset = 0
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Account{}, nil
	}

	like := "%" + query + "%"
	q := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id::text ILIKE $1
		   OR name ILIKE $1
		   OR email ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, q, like, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	return collectAccounts(rows, "search accounts")
}

func (s *AdminAccountsStore) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	return NewAccountsStore(s.pool).GetAccountByID(ctx, id)
}

func (s *AdminAccountsStore) SetStatus(ctx context.Context, accountID string, status domain.AccountStatus) (domain.Account, error) {
	return s.update(ctx, `UPDATE accounts SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+accountColumns, accountID, string(status))
}

func (s *AdminAccountsStore) SetRole(ctx context.Context, accountID string, role domain.Role) (domain.Account, error) {
	return s.update(ctx, `UPDATE accounts SET role = $2, updated_at = now() WHERE id = $1 RETURNING `+accountColumns, accountID, string(role))
}

func (s *AdminAccountsStore) update(ctx context.Context, q, accountID, value string) (domain.Account, error) {
	if !validID(accountID) {
		return domain.Account{}, domain.ErrNotFound
	}
	a, err := scanAccount(s.pool.QueryRow(ctx, q, accountID, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("update account: %w", err)
	}
	return a.Account, nil
}

func collectAccounts(rows pgx.Rows, op string) ([]domain.Account, error) {
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a.Account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
