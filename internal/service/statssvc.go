package service

import (
	"context"
	"math"
	"strings"

	"SpeedReaderwebserver/internal/domain"
)

type StatsStore interface {
	DrillTotals(ctx context.Context, accountID string) (domain.DrillTotals, error)
	ReadingTotals(ctx context.Context, accountID string) (domain.ReadingTotals, error)
	Leaderboard(ctx context.Context, drillType domain.DrillKind, limit int) ([]domain.LeaderboardEntry, error)
}

type StatsService struct {
	Stats StatsStore
}

func roundedMean(sum int64, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// ComputeUserStats recomputes the summary from the raw records on every call.
func (s *StatsService) ComputeUserStats(ctx context.Context, accountID string) (domain.UserStats, error) {
	drills, err := s.Stats.DrillTotals(ctx, accountID)
	if err != nil {
		return domain.UserStats{}, err
	}
	readings, err := s.Stats.ReadingTotals(ctx, accountID)
	if err != nil {
		return domain.UserStats{}, err
	}

	out := domain.UserStats{
		AverageWPM:           roundedMean(drills.SumWPM, drills.Count),
		BestWPM:              drills.BestWPM,
		TotalSessions:        drills.Count + readings.Count,
		AverageComprehension: roundedMean(drills.SumScore, drills.ScoredCount),
		TotalWordsRead:       drills.WordsRead + readings.WordsRead,
		DrillBreakdown:       make([]domain.DrillTypeStat, 0, len(drills.ByKind)),
	}
	for _, k := range drills.ByKind {
		out.DrillBreakdown = append(out.DrillBreakdown, domain.DrillTypeStat{
			DrillType:  k.DrillType,
			Count:      k.Count,
			AverageWPM: roundedMean(k.SumWPM, k.Count),
			BestWPM:    k.BestWPM,
		})
	}
	return out, nil
}

// Leaderboard returns the fastest drill records. An empty drill type ranks all kinds.
func (s *StatsService) Leaderboard(ctx context.Context, drillType string, limit int) ([]domain.LeaderboardEntry, error) {
	kind := domain.DrillKind(strings.TrimSpace(drillType))
	if kind != "" && !kind.Valid() {
		return nil, domain.NewValidationError(map[string]string{"drill_type": "unknown drill type"})
	}
	if limit < 1 {
		return nil, domain.NewValidationError(map[string]string{"limit": "must be at least 1"})
	}
	return s.Stats.Leaderboard(ctx, kind, limit)
}
