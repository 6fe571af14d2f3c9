package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"
	"eventsphere/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ContestService struct {
	contestRepo     repository.ContestRepository
	participantRepo repository.ParticipantRepository
	standingsRepo   repository.StandingsRepository
}

func NewContestService(
	contestRepo repository.ContestRepository,
	participantRepo repository.ParticipantRepository,
	standingsRepo repository.StandingsRepository,
) *ContestService {
	return &ContestService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		standingsRepo:   standingsRepo,
	}
}

type CreateContestRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	MaxSubmissions int       `json:"max_submissions"`
	Penalty        int       `json:"penalty"`
}

func (s *ContestService) CreateContest(ctx context.Context, userID string, req CreateContestRequest) (*model.Contest, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return nil, common.Errorf("title, starts_at and ends_at are required: %w", common.ErrBadRequest)
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, common.Errorf("ends_at must be after starts_at: %w", common.ErrValidation)
	}
	if req.MaxSubmissions < 0 || req.Penalty < 0 {
		return nil, common.Errorf("max_submissions and penalty must not be negative: %w", common.ErrValidation)
	}

	contest := &model.Contest{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Slug:           slug.Make(req.Title),
		Description:    req.Description,
		StartsAt:       req.StartsAt.UTC(),
		EndsAt:         req.EndsAt.UTC(),
		MaxSubmissions: req.MaxSubmissions,
		Penalty:        req.Penalty,
	}
	if userID != "" {
		contest.CreatedByID = &userID
	}

	if err := s.contestRepo.Create(ctx, contest); err != nil {
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}
	return contest, nil
}

func (s *ContestService) GetContest(ctx context.Context, id string) (*model.Contest, error) {
	return s.contestRepo.FindByID(ctx, id)
}

// Register enrols userID in the contest. A second registration is a conflict.
func (s *ContestService) Register(ctx context.Context, contestID, userID string) (*model.Participant, error) {
	if _, err := s.contestRepo.FindByID(ctx, contestID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("contest not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load contest: %w", err)
	}

	p := &model.Participant{
		ID:        uuid.NewString(),
		ContestID: contestID,
		UserID:    userID,
	}
	if err := s.participantRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ContestService) Standings(ctx context.Context, contestID string, limit int) ([]model.StandingsEntry, error) {
	if _, err := s.contestRepo.FindByID(ctx, contestID); err != nil {
		return nil, err
	}
	entries, err := s.standingsRepo.Top(ctx, contestID, min(max(limit, 0), 500))
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}
	return entries, nil
}
