package postgres

import (
	"context"
	"errors"
	"fmt"

	"SpeedReaderwebserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassagesStore struct {
	pool *pgxpool.Pool
}

func NewPassagesStore(pool *pgxpool.Pool) *PassagesStore {
	return &PassagesStore{pool: pool}
}

// InsertPassages adds passages whose title is not present yet and reports how many were new.
func (s *PassagesStore) InsertPassages(ctx context.Context, passages []domain.Passage) (int, error) {
	const q = `
		INSERT INTO passages (title, content, excerpt, word_count, reading_time_minutes, difficulty, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (title) DO NOTHING
	`
	batch := &pgx.Batch{}
	for _, p := range passages {
		batch.Queue(q, p.Title, p.Content, p.Excerpt, p.WordCount, p.ReadingTimeMins, string(p.Difficulty), p.Category)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range passages {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert passage: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (s *PassagesStore) ListPassages(ctx context.Context, difficulty domain.Difficulty, category string) ([]domain.Passage, error) {
	const q = `
		SELECT id, title, excerpt, word_count, reading_time_minutes, difficulty, category
		FROM passages
		WHERE ($1::text = '' OR difficulty = $1::text)
		  AND ($2::text = '' OR lower(category) = lower($2::text))
		ORDER BY title ASC
	`
	rows, err := s.pool.Query(ctx, q, string(difficulty), category)
	if err != nil {
		return nil, fmt.Errorf("list passages: %w", err)
	}
	defer rows.Close()

	out := []domain.Passage{}
	for rows.Next() {
		var (
			p      domain.Passage
			idUUID pgtype.UUID
		)
		if err := rows.Scan(&idUUID, &p.Title, &p.Excerpt, &p.WordCount, &p.ReadingTimeMins, &p.Difficulty, &p.Category); err != nil {
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		p.ID = uuidOrEmpty(idUUID)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list passages: %w", err)
	}
	return out, nil
}

func (s *PassagesStore) GetPassage(ctx context.Context, id string) (domain.Passage, error) {
	if !validID(id) {
		return domain.Passage{}, domain.ErrNotFound
	}
	const q = `
		SELECT id, title, content, excerpt, word_count, reading_time_minutes, difficulty, category
		FROM passages
		WHERE id = $1
	`
	var (
		p      domain.Passage
		idUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(&idUUID, &p.Title, &p.Content, &p.Excerpt, &p.WordCount, &p.ReadingTimeMins, &p.Difficulty, &p.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Passage{}, domain.ErrNotFound
		}
		return domain.Passage{}, fmt.Errorf("get passage: %w", err)
	}
	p.ID = uuidOrEmpty(idUUID)
	return p, nil
}
