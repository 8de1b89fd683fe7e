package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"SpeedReaderwebserver/internal/domain"
)

type stubStatsStore struct {
	t *testing.T

	drillTotalsFunc   func(context.Context, string) (domain.DrillTotals, error)
	readingTotalsFunc func(context.Context, string) (domain.ReadingTotals, error)
	leaderboardFunc   func(context.Context, domain.DrillKind, int) ([]domain.LeaderboardEntry, error)
}

func (s *stubStatsStore) DrillTotals(ctx context.Context, accountID string) (domain.DrillTotals, error) {
	if s.drillTotalsFunc != nil {
		return s.drillTotalsFunc(ctx, accountID)
	}
	s.t.Fatalf("DrillTotals called unexpectedly")
	return domain.DrillTotals{}, errors.New("unexpected call")
}

func (s *stubStatsStore) ReadingTotals(ctx context.Context, accountID string) (domain.ReadingTotals, error) {
	if s.readingTotalsFunc != nil {
		return s.readingTotalsFunc(ctx, accountID)
	}
	s.t.Fatalf("ReadingTotals called unexpectedly")
	return domain.ReadingTotals{}, errors.New("unexpected call")
}

func (s *stubStatsStore) Leaderboard(ctx context.Context, kind domain.DrillKind, limit int) ([]domain.LeaderboardEntry, error) {
	if s.leaderboardFunc != nil {
		return s.leaderboardFunc(ctx, kind, limit)
	}
	s.t.Fatalf("Leaderboard called unexpectedly")
	return nil, errors.New("unexpected call")
}

func TestComputeUserStatsTwoRSVPDrills(t *testing.T) {
	svc := &StatsService{Stats: &stubStatsStore{
		t: t,
		drillTotalsFunc: func(_ context.Context, id string) (domain.DrillTotals, error) {
			require.Equal(t, "acct-1", id)
			return domain.DrillTotals{
				Count:   2,
				SumWPM:  640,
				BestWPM: 340,
				ByKind: []domain.DrillKindTotals{
					{DrillType: domain.DrillRSVP, Count: 2, SumWPM: 640, BestWPM: 340},
				},
			}, nil
		},
		readingTotalsFunc: func(context.Context, string) (domain.ReadingTotals, error) {
			return domain.ReadingTotals{}, nil
		},
	}}

	stats, err := svc.ComputeUserStats(context.Background(), "acct-1")
	require.NoError(t, err)
	require.Equal(t, 320, stats.AverageWPM)
	require.Equal(t, 340, stats.BestWPM)
	require.Equal(t, 2, stats.TotalSessions)
	require.Equal(t, 0, stats.AverageComprehension)
	require.Equal(t, []domain.DrillTypeStat{
		{DrillType: domain.DrillRSVP, Count: 2, AverageWPM: 320, BestWPM: 340},
	}, stats.DrillBreakdown)
}

func TestComputeUserStatsMergesReadingSessions(t *testing.T) {
	svc := &StatsService{Stats: &stubStatsStore{
		t: t,
		drillTotalsFunc: func(context.Context, string) (domain.DrillTotals, error) {
			return domain.DrillTotals{
				Count:       3,
				SumWPM:      1001,
				BestWPM:     400,
				ScoredCount: 2,
				SumScore:    155,
				WordsRead:   900,
			}, nil
		},
		readingTotalsFunc: func(context.Context, string) (domain.ReadingTotals, error) {
			return domain.ReadingTotals{Count: 4, WordsRead: 2100}, nil
		},
	}}

	stats, err := svc.ComputeUserStats(context.Background(), "acct-1")
	require.NoError(t, err)
	require.Equal(t, 334, stats.AverageWPM)
	require.Equal(t, 7, stats.TotalSessions)
	require.Equal(t, 78, stats.AverageComprehension)
	require.Equal(t, int64(3000), stats.TotalWordsRead)
	require.Equal(t, 0, stats.ReadingStreak)
}

func TestComputeUserStatsNoRecords(t *testing.T) {
	svc := &StatsService{Stats: &stubStatsStore{
		t: t,
		drillTotalsFunc: func(context.Context, string) (domain.DrillTotals, error) {
			return domain.DrillTotals{}, nil
		},
		readingTotalsFunc: func(context.Context, string) (domain.ReadingTotals, error) {
			return domain.ReadingTotals{}, nil
		},
	}}

	stats, err := svc.ComputeUserStats(context.Background(), "acct-new")
	require.NoError(t, err)
	require.Equal(t, domain.UserStats{DrillBreakdown: []domain.DrillTypeStat{}}, stats)
}

func TestLeaderboardValidatesDrillType(t *testing.T) {
	svc := &StatsService{Stats: &stubStatsStore{t: t}}
	_, err := svc.Leaderboard(context.Background(), "juggling", 10)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestLeaderboardPassesFilter(t *testing.T) {
	svc := &StatsService{Stats: &stubStatsStore{
		t: t,
		leaderboardFunc: func(_ context.Context, kind domain.DrillKind, limit int) ([]domain.LeaderboardEntry, error) {
			require.Equal(t, domain.DrillSchulteTable, kind)
			require.Equal(t, 5, limit)
			return []domain.LeaderboardEntry{{Rank: 1, WPM: 500}, {Rank: 2, WPM: 450}}, nil
		},
	}}
	entries, err := svc.Leaderboard(context.Background(), "schulte-table", 5)
	require.NoError(t, err)
	require.LessOrEqual(t, len(entries), 5)
	for i := 1; i < len(entries); i++ {
		require.GreaterOrEqual(t, entries[i-1].WPM, entries[i].WPM)
	}
}

func TestLeaderboardRejectsNonPositiveLimit(t *testing.T) {
	svc := &StatsService{Stats: &stubStatsStore{t: t}}
	for _, limit := range []int{0, -1} {
		_, err := svc.Leaderboard(context.Background(), "", limit)
		require.ErrorIs(t, err, domain.ErrValidation, "limit %d", limit)
	}
}
