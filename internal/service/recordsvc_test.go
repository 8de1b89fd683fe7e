package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SpeedReaderwebserver/internal/domain"
)

type stubDrillsStore struct {
	t *testing.T

	appendFunc func(context.Context, domain.DrillRecord) (domain.DrillRecord, error)
	listFunc   func(context.Context, string, int) ([]domain.DrillRecord, error)
}

func (s *stubDrillsStore) AppendDrill(ctx context.Context, rec domain.DrillRecord) (domain.DrillRecord, error) {
	if s.appendFunc != nil {
		return s.appendFunc(ctx, rec)
	}
	s.t.Fatalf("AppendDrill called unexpectedly")
	return domain.DrillRecord{}, errors.New("unexpected call")
}

func (s *stubDrillsStore) ListDrillsByAccount(ctx context.Context, accountID string, limit int) ([]domain.DrillRecord, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, accountID, limit)
	}
	s.t.Fatalf("ListDrillsByAccount called unexpectedly")
	return nil, errors.New("unexpected call")
}

type stubReadingSessionsStore struct {
	t *testing.T

	appendFunc func(context.Context, domain.ReadingSessionRecord) (domain.ReadingSessionRecord, error)
}

func (s *stubReadingSessionsStore) AppendReadingSession(ctx context.Context, rec domain.ReadingSessionRecord) (domain.ReadingSessionRecord, error) {
	if s.appendFunc != nil {
		return s.appendFunc(ctx, rec)
	}
	s.t.Fatalf("AppendReadingSession called unexpectedly")
	return domain.ReadingSessionRecord{}, errors.New("unexpected call")
}

func (s *stubReadingSessionsStore) ListReadingSessionsByAccount(context.Context, string, int) ([]domain.ReadingSessionRecord, error) {
	s.t.Fatalf("ListReadingSessionsByAccount called unexpectedly")
	return nil, errors.New("unexpected call")
}

func intp(v int) *int { return &v }

func TestRecordServiceAppendDrillStampsCompletion(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	svc := &RecordService{
		Now: func() time.Time { return now },
		Drills: &stubDrillsStore{
			t: t,
			appendFunc: func(_ context.Context, rec domain.DrillRecord) (domain.DrillRecord, error) {
				require.Equal(t, "acct-1", rec.AccountID)
				require.Equal(t, domain.DrillRSVP, rec.DrillType)
				require.Equal(t, 300, rec.WPM)
				require.True(t, rec.CompletedAt.Equal(now))
				rec.ID = "rec-1"
				return rec, nil
			},
		},
	}

	rec, err := svc.AppendDrill(context.Background(), "acct-1", DrillInput{
		DrillType:       "rsvp",
		WPM:             intp(300),
		DurationSeconds: intp(60),
	})
	require.NoError(t, err)
	require.Equal(t, "rec-1", rec.ID)
}

func TestRecordServiceAppendDrillValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    DrillInput
		field string
	}{
		{name: "unknown kind", in: DrillInput{DrillType: "juggling", WPM: intp(1), DurationSeconds: intp(1)}, field: "drill_type"},
		{name: "missing wpm", in: DrillInput{DrillType: "rsvp", DurationSeconds: intp(1)}, field: "wpm"},
		{name: "negative wpm", in: DrillInput{DrillType: "rsvp", WPM: intp(-5), DurationSeconds: intp(1)}, field: "wpm"},
		{name: "missing duration", in: DrillInput{DrillType: "rsvp", WPM: intp(200)}, field: "duration_seconds"},
		{name: "score too high", in: DrillInput{DrillType: "chunking", WPM: intp(200), DurationSeconds: intp(1), ComprehensionScore: intp(101)}, field: "comprehension_score"},
		{name: "negative words", in: DrillInput{DrillType: "chunking", WPM: intp(200), DurationSeconds: intp(1), WordsRead: intp(-1)}, field: "words_read"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &RecordService{Drills: &stubDrillsStore{t: t}}
			_, err := svc.AppendDrill(context.Background(), "acct-1", tc.in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestRecordServiceAppendReadingSessionRequiresFields(t *testing.T) {
	svc := &RecordService{Readings: &stubReadingSessionsStore{t: t}}
	_, err := svc.AppendReadingSession(context.Background(), "acct-1", ReadingSessionInput{StartWPM: intp(250)})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "end_wpm")
	require.Contains(t, verr.Fields, "duration_seconds")
	require.Contains(t, verr.Fields, "words_read")
	require.NotContains(t, verr.Fields, "start_wpm")
}

func TestRecordServiceAppendReadingSession(t *testing.T) {
	svc := &RecordService{Readings: &stubReadingSessionsStore{
		t: t,
		appendFunc: func(_ context.Context, rec domain.ReadingSessionRecord) (domain.ReadingSessionRecord, error) {
			require.Equal(t, "Compound Interest Explained", rec.PassageTitle)
			require.True(t, rec.WasRamping)
			require.False(t, rec.CompletedAt.IsZero())
			return rec, nil
		},
	}}
	_, err := svc.AppendReadingSession(context.Background(), "acct-1", ReadingSessionInput{
		PassageTitle:    " Compound Interest Explained ",
		StartWPM:        intp(250),
		EndWPM:          intp(320),
		WasRamping:      true,
		DurationSeconds: intp(180),
		WordsRead:       intp(850),
	})
	require.NoError(t, err)
}
