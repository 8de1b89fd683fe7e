package postgres

import (
	"context"
	"fmt"

	"SpeedReaderwebserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const readingColumns = `id, account_id, passage_id, passage_title, start_wpm, end_wpm, was_ramping, duration_seconds, words_read, completed_at`

type ReadingSessionsStore struct {
	pool *pgxpool.Pool
}

func NewReadingSessionsStore(pool *pgxpool.Pool) *ReadingSessionsStore {
	return &ReadingSessionsStore{pool: pool}
}

func scanReading(row pgx.Row) (domain.ReadingSessionRecord, error) {
	var (
		r           domain.ReadingSessionRecord
		idUUID      pgtype.UUID
		accountUUID pgtype.UUID
	)
	err := row.Scan(
		&idUUID,
		&accountUUID,
		&r.PassageID,
		&r.PassageTitle,
		&r.StartWPM,
		&r.EndWPM,
		&r.WasRamping,
		&r.DurationSeconds,
		&r.WordsRead,
		&r.CompletedAt,
	)
	if err != nil {
		return domain.ReadingSessionRecord{}, err
	}
	r.ID = uuidOrEmpty(idUUID)
	r.AccountID = uuidOrEmpty(accountUUID)
	return r, nil
}

func (s *ReadingSessionsStore) AppendReadingSession(ctx context.Context, rec domain.ReadingSessionRecord) (domain.ReadingSessionRecord, error) {
	if !validID(rec.AccountID) {
		return domain.ReadingSessionRecord{}, domain.ErrNotFound
	}
	q := `
		INSERT INTO reading_sessions (account_id, passage_id, passage_title, start_wpm, end_wpm, was_ramping, duration_seconds, words_read, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + readingColumns

	out, err := scanReading(s.pool.QueryRow(ctx, q,
		rec.AccountID,
		rec.PassageID,
		rec.PassageTitle,
		rec.StartWPM,
		rec.EndWPM,
		rec.WasRamping,
		rec.DurationSeconds,
		rec.WordsRead,
		rec.CompletedAt,
	))
	if err != nil {
		return domain.ReadingSessionRecord{}, mapRecordWriteError("append reading session", err)
	}
	return out, nil
}

func (s *ReadingSessionsStore) ListReadingSessionsByAccount(ctx context.Context, accountID string, limit int) ([]domain.ReadingSessionRecord, error) {
	if !validID(accountID) {
		return []domain.ReadingSessionRecord{}, nil
	}
	limit = clampLimit(limit, 20, 100)

	q := `
		SELECT ` + readingColumns + `
		FROM reading_sessions
		WHERE account_id = $1
		ORDER BY completed_at DESC, id DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, q, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reading sessions: %w", err)
	}
	defer rows.Close()

	out := []domain.ReadingSessionRecord{}
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading session: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reading sessions: %w", err)
	}
	return out, nil
}
