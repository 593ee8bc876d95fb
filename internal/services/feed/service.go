package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNoCandidates = errors.New("no candidates")
)

type Repository interface {
	NextCandidate(ctx context.Context, viewerID int64) (model.Profile, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Next returns one approved profile the viewer has not liked. Skipped
// profiles stay eligible and can come back.
func (s *Service) Next(ctx context.Context, viewerID int64) (model.Profile, error) {
	if viewerID == 0 {
		return model.Profile{}, ErrValidation
	}
	if s.repo == nil {
		return model.Profile{}, fmt.Errorf("feed repository is nil")
	}

	p, err := s.repo.NextCandidate(ctx, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrNoCandidates) {
			return model.Profile{}, ErrNoCandidates
		}
		return model.Profile{}, fmt.Errorf("select candidate: %w", err)
	}
	return p, nil
}
