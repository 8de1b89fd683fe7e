package service

import (
	"context"
	"strings"
	"time"

	"SpeedReaderwebserver/internal/domain"
)

type DrillsStore interface {
	AppendDrill(ctx context.Context, rec domain.DrillRecord) (domain.DrillRecord, error)
	ListDrillsByAccount(ctx context.Context, accountID string, limit int) ([]domain.DrillRecord, error)
}

type ReadingSessionsStore interface {
	AppendReadingSession(ctx context.Context, rec domain.ReadingSessionRecord) (domain.ReadingSessionRecord, error)
	ListReadingSessionsByAccount(ctx context.Context, accountID string, limit int) ([]domain.ReadingSessionRecord, error)
}

// DrillInput is a drill result as submitted by a client. Nil means the field was absent.
type DrillInput struct {
	DrillType          string `json:"drill_type"`
	WPM                *int   `json:"wpm"`
	ComprehensionScore *int   `json:"comprehension_score"`
	DurationSeconds    *int   `json:"duration_seconds"`
	PassageID          string `json:"passage_id"`
	PassageTitle       string `json:"passage_title"`
	WordsRead          *int   `json:"words_read"`
}

type ReadingSessionInput struct {
	PassageID       string `json:"passage_id"`
	PassageTitle    string `json:"passage_title"`
	StartWPM        *int   `json:"start_wpm"`
	EndWPM          *int   `json:"end_wpm"`
	WasRamping      bool   `json:"was_ramping"`
	DurationSeconds *int   `json:"duration_seconds"`
	WordsRead       *int   `json:"words_read"`
}

type RecordService struct {
	Drills   DrillsStore
	Readings ReadingSessionsStore
	Now      func() time.Time
}

func requireNonNegative(fields map[string]string, name string, v *int) {
	if v == nil {
		fields[name] = "required"
	} else if *v < 0 {
		fields[name] = "must be zero or greater"
	}
}

func (s *RecordService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *RecordService) AppendDrill(ctx context.Context, accountID string, in DrillInput) (domain.DrillRecord, error) {
	fields := map[string]string{}
	kind := domain.DrillKind(strings.TrimSpace(in.DrillType))
	if kind == "" {
		fields["drill_type"] = "required"
	} else if !kind.Valid() {
		fields["drill_type"] = "unknown drill type"
	}
	requireNonNegative(fields, "wpm", in.WPM)
	requireNonNegative(fields, "duration_seconds", in.DurationSeconds)
	if in.ComprehensionScore != nil && (*in.ComprehensionScore < 0 || *in.ComprehensionScore > 100) {
		fields["comprehension_score"] = "must be between 0 and 100"
	}
	if in.WordsRead != nil && *in.WordsRead < 0 {
		fields["words_read"] = "must be zero or greater"
	}
	if len(fields) > 0 {
		return domain.DrillRecord{}, domain.NewValidationError(fields)
	}

	return s.Drills.AppendDrill(ctx, domain.DrillRecord{
		AccountID:          accountID,
		DrillType:          kind,
		WPM:                *in.WPM,
		ComprehensionScore: in.ComprehensionScore,
		DurationSeconds:    *in.DurationSeconds,
		PassageID:          strings.TrimSpace(in.PassageID),
		PassageTitle:       strings.TrimSpace(in.PassageTitle),
		WordsRead:          in.WordsRead,
		CompletedAt:        s.now(),
	})
}

func (s *RecordService) AppendReadingSession(ctx context.Context, accountID string, in ReadingSessionInput) (domain.ReadingSessionRecord, error) {
	fields := map[string]string{}
	requireNonNegative(fields, "start_wpm", in.StartWPM)
	requireNonNegative(fields, "end_wpm", in.EndWPM)
	requireNonNegative(fields, "duration_seconds", in.DurationSeconds)
	requireNonNegative(fields, "words_read", in.WordsRead)
	if len(fields) > 0 {
		return domain.ReadingSessionRecord{}, domain.NewValidationError(fields)
	}

	return s.Readings.AppendReadingSession(ctx, domain.ReadingSessionRecord{
		AccountID:       accountID,
		PassageID:       strings.TrimSpace(in.PassageID),
		PassageTitle:    strings.TrimSpace(in.PassageTitle),
		StartWPM:        *in.StartWPM,
		EndWPM:          *in.EndWPM,
		WasRamping:      in.WasRamping,
		DurationSeconds: *in.DurationSeconds,
		WordsRead:       *in.WordsRead,
		CompletedAt:     s.now(),
	})
}

func (s *RecordService) ListDrills(ctx context.Context, accountID string, limit int) ([]domain.DrillRecord, error) {
	return s.Drills.ListDrillsByAccount(ctx, accountID, limit)
}

func (s *RecordService) ListReadingSessions(ctx context.Context, accountID string, limit int) ([]domain.ReadingSessionRecord, error) {
	return s.Readings.ListReadingSessionsByAccount(ctx, accountID, limit)
}
