package postgres

import (
	"context"
	"errors"
	"fmt"

	"SpeedReaderwebserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const drillColumns = `id, account_id, drill_type, wpm, comprehension_score, duration_seconds, passage_id, passage_title, words_read, completed_at`

type DrillsStore struct {
	pool *pgxpool.Pool
}

func NewDrillsStore(pool *pgxpool.Pool) *DrillsStore {
	return &DrillsStore{pool: pool}
}

func scanDrill(row pgx.Row) (domain.DrillRecord, error) {
	var (
		d            domain.DrillRecord
		idUUID       pgtype.UUID
		accountUUID  pgtype.UUID
		score        pgtype.Int4
		passageID    pgtype.Text
		passageTitle pgtype.Text
		wordsRead    pgtype.Int4
	)
	err := row.Scan(
		&idUUID,
		&accountUUID,
		&d.DrillType,
		&d.WPM,
		&score,
		&d.DurationSeconds,
		&passageID,
		&passageTitle,
		&wordsRead,
		&d.CompletedAt,
	)
	if err != nil {
		return domain.DrillRecord{}, err
	}
	d.ID = uuidOrEmpty(idUUID)
	d.AccountID = uuidOrEmpty(accountUUID)
	d.ComprehensionScore = int4Ptr(score)
	d.PassageID = textOrEmpty(passageID)
	d.PassageTitle = textOrEmpty(passageTitle)
	d.WordsRead = int4Ptr(wordsRead)
	return d, nil
}

func (s *DrillsStore) AppendDrill(ctx context.Context, rec domain.DrillRecord) (domain.DrillRecord, error) {
	if !validID(rec.AccountID) {
		return domain.DrillRecord{}, domain.ErrNotFound
	}
	q := `
		INSERT INTO drill_records (account_id, drill_type, wpm, comprehension_score, duration_seconds, passage_id, passage_title, words_read, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + drillColumns

	out, err := scanDrill(s.pool.QueryRow(ctx, q,
		rec.AccountID,
		string(rec.DrillType),
		rec.WPM,
		nullIfNil(rec.ComprehensionScore),
		rec.DurationSeconds,
		nullIfEmpty(rec.PassageID),
		nullIfEmpty(rec.PassageTitle),
		nullIfNil(rec.WordsRead),
		rec.CompletedAt,
	))
	if err != nil {
		return domain.DrillRecord{}, mapRecordWriteError("append drill", err)
	}
	return out, nil
}

// ListDrillsByAccount returns the newest records first. Unknown or malformed
// account ids yield an empty list.
func (s *DrillsStore) ListDrillsByAccount(ctx context.Context, accountID string, limit int) ([]domain.DrillRecord, error) {
	if !validID(accountID) {
		return []domain.DrillRecord{}, nil
	}
	limit = clampLimit(limit, 20, 100)

	q := `
		SELECT ` + drillColumns + `
		FROM drill_records
		WHERE account_id = $1
		ORDER BY completed_at DESC, seq DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, q, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list drills: %w", err)
	}
	defer rows.Close()

	out := []domain.DrillRecord{}
	for rows.Next() {
		d, err := scanDrill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan drill: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drills: %w", err)
	}
	return out, nil
}

func mapRecordWriteError(op string, err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		switch pgerr.Code {
		case "23503":
			// owning account vanished between the gate and the insert
			return domain.ErrNotFound
		case "23514":
			return domain.NewValidationError(map[string]string{"record": "value out of range"})
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
