package postgres

import (
	"context"
	"fmt"

	"SpeedReaderwebserver/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsStore struct {
	pool *pgxpool.Pool
}

func NewStatsStore(pool *pgxpool.Pool) *StatsStore {
	return &StatsStore{pool: pool}
}

func (s *StatsStore) DrillTotals(ctx context.Context, accountID string) (domain.DrillTotals, error) {
	if !validID(accountID) {
		return domain.DrillTotals{}, nil
	}

	const q = `
		SELECT
			COUNT(*)::int AS drills,
			COALESCE(SUM(wpm), 0)::bigint AS sum_wpm,
			COALESCE(MAX(wpm), 0)::int AS best_wpm,
			COUNT(comprehension_score)::int AS scored,
			COALESCE(SUM(comprehension_score), 0)::bigint AS sum_score,
			COALESCE(SUM(words_read), 0)::bigint AS words_read
		FROM drill_records
		WHERE account_id = $1
	`
	var t domain.DrillTotals
	if err := s.pool.QueryRow(ctx, q, accountID).Scan(&t.Count, &t.SumWPM, &t.BestWPM, &t.ScoredCount, &t.SumScore, &t.WordsRead); err != nil {
		return domain.DrillTotals{}, fmt.Errorf("drill totals: %w", err)
	}

	const byKind = `
		SELECT drill_type, COUNT(*)::int, COALESCE(SUM(wpm), 0)::bigint, COALESCE(MAX(wpm), 0)::int
		FROM drill_records
		WHERE account_id = $1
		GROUP BY drill_type
		ORDER BY COUNT(*) DESC, drill_type ASC
	`
	rows, err := s.pool.Query(ctx, byKind, accountID)
	if err != nil {
		return domain.DrillTotals{}, fmt.Errorf("drill totals by kind: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k domain.DrillKindTotals
		if err := rows.Scan(&k.DrillType, &k.Count, &k.SumWPM, &k.BestWPM); err != nil {
			return domain.DrillTotals{}, fmt.Errorf("scan drill totals: %w", err)
		}
		t.ByKind = append(t.ByKind, k)
	}
	if err := rows.Err(); err != nil {
		return domain.DrillTotals{}, fmt.Errorf("drill totals by kind: %w", err)
	}
	return t, nil
}

func (s *StatsStore) ReadingTotals(ctx context.Context, accountID string) (domain.ReadingTotals, error) {
	if !validID(accountID) {
		return domain.ReadingTotals{}, nil
	}

	const q = `
		SELECT COUNT(*)::int, COALESCE(SUM(words_read), 0)::bigint
		FROM reading_sessions
		WHERE account_id = $1
	`
	var t domain.ReadingTotals
	if err := s.pool.QueryRow(ctx, q, accountID).Scan(&t.Count, &t.WordsRead); err != nil {
		return domain.ReadingTotals{}, fmt.Errorf("reading totals: %w", err)
	}
	return t, nil
}

// Leaderboard ranks drill records by WPM. Equal WPM goes to the earlier
// completion, then to the earlier insert.
func (s *StatsStore) Leaderboard(ctx context.Context, drillType domain.DrillKind, limit int) ([]domain.LeaderboardEntry, error) {
	limit = clampLimit(limit, 10, 100)

	const q = `
		SELECT d.id, d.account_id, a.name, a.image, d.drill_type, d.wpm, d.comprehension_score, d.completed_at
		FROM drill_records d
		JOIN accounts a ON a.id = d.account_id
		WHERE ($1::text = '' OR d.drill_type = $1::text)
		ORDER BY d.wpm DESC, d.completed_at ASC, d.seq ASC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, q, string(drillType), limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	out := []domain.LeaderboardEntry{}
	for rows.Next() {
		var (
			e           domain.LeaderboardEntry
			idUUID      pgtype.UUID
			accountUUID pgtype.UUID
			image       pgtype.Text
			score       pgtype.Int4
		)
		if err := rows.Scan(&idUUID, &accountUUID, &e.Name, &image, &e.DrillType, &e.WPM, &score, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		e.Rank = len(out) + 1
		e.RecordID = uuidOrEmpty(idUUID)
		e.AccountID = uuidOrEmpty(accountUUID)
		e.Image = textOrEmpty(image)
		e.ComprehensionScore = int4Ptr(score)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return out, nil
}
