package service

import (
	"context"
	"log/slog"
	"strings"

	"SpeedReaderwebserver/internal/domain"
	"SpeedReaderwebserver/internal/passages"
)

type PassagesStore interface {
	InsertPassages(ctx context.Context, ps []domain.Passage) (int, error)
	ListPassages(ctx context.Context, difficulty domain.Difficulty, category string) ([]domain.Passage, error)
	GetPassage(ctx context.Context, id string) (domain.Passage, error)
}

type PassageService struct {
	Passages PassagesStore
	Logger   *slog.Logger
}

// Seed inserts the built-in library. Titles already present are left alone.
func (s *PassageService) Seed(ctx context.Context) error {
	n, err := s.Passages.InsertPassages(ctx, passages.BuiltIn())
	if err != nil {
		return err
	}
	if s.Logger != nil && n > 0 {
		s.Logger.Info("seeded passages", "count", n)
	}
	return nil
}

func (s *PassageService) List(ctx context.Context, difficulty, category string) ([]domain.Passage, error) {
	d := domain.Difficulty(strings.TrimSpace(difficulty))
	if d != "" && !d.Valid() {
		return nil, domain.NewValidationError(map[string]string{"difficulty": "must be one of Easy, Medium, Hard"})
	}
	return s.Passages.ListPassages(ctx, d, strings.TrimSpace(category))
}

func (s *PassageService) Get(ctx context.Context, id string) (domain.Passage, error) {
	return s.Passages.GetPassage(ctx, strings.TrimSpace(id))
}
