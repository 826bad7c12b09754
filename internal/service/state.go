package service

import (
	"context"
	"time"

	"salonbot/internal/domain"
	"salonbot/internal/models"

	"github.com/rs/zerolog"
)

type StateService struct {
	draftRepo domain.DraftRepository
	logger    *zerolog.Logger
}

func NewStateService(draftRepo domain.DraftRepository, logger *zerolog.Logger) *StateService {
	return &StateService{
		draftRepo: draftRepo,
		logger:    logger,
	}
}

func (s *StateService) Draft(ctx context.Context, userID int64) (*models.Draft, error) {
	draft, err := s.draftRepo.Get(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get booking draft")
		return nil, err
	}

	return draft, nil
}

func (s *StateService) Save(ctx context.Context, draft *models.Draft) error {
	return s.draftRepo.Set(ctx, draft)
}

func (s *StateService) Clear(ctx context.Context, userID int64) error {
	return s.draftRepo.Clear(ctx, userID)
}

func (s *StateService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.draftRepo.CheckRateLimit(ctx, userID, limit, window)
}
