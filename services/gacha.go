package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"atlas/errs"
	"atlas/models"
)

type GachaService struct {
	db *gorm.DB
}

func NewGachaService(db *gorm.DB) *GachaService {
	return &GachaService{db: db}
}

// UpsertStatsInput is one aggregate upload for a single game.
type UpsertStatsInput struct {
	Game          string  `json:"game"`
	TotalPulls    int64   `json:"total_pulls"`
	FiveStarCount int64   `json:"five_star_count"`
	FourStarCount int64   `json:"four_star_count"`
	AveragePity   float64 `json:"average_pity"`
	CurrentPity   int64   `json:"current_pity"`
}

// Upsert writes the latest aggregate for (user, game). The composite PK plus
// the conflict clause give the overwrite guarantee; there is no history.
func (s *GachaService) Upsert(ctx context.Context, userID string, in UpsertStatsInput) (*models.GameStat, error) {
	game := strings.TrimSpace(in.Game)
	if game == "" {
		return nil, errs.InvalidArgument("game cannot be empty")
	}
	if in.TotalPulls < 0 || in.FiveStarCount < 0 || in.FourStarCount < 0 || in.CurrentPity < 0 {
		return nil, errs.InvalidArgument("stat counters cannot be negative")
	}

	stat := models.GameStat{
		UserID:        userID,
		Game:          game,
		TotalPulls:    in.TotalPulls,
		FiveStarCount: in.FiveStarCount,
		FourStarCount: in.FourStarCount,
		AveragePity:   in.AveragePity,
		CurrentPity:   in.CurrentPity,
		UpdatedAt:     nowMillis(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "game"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_pulls", "five_star_count", "four_star_count",
				"average_pity", "current_pity", "updated_at",
			}),
		}).
		Create(&stat).Error
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// ListForUser returns all of a user's game aggregates, game ascending.
func (s *GachaService) ListForUser(ctx context.Context, userID string) ([]models.GameStat, error) {
	stats := []models.GameStat{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("game ASC").
		Find(&stats).Error
	return stats, err
}

// Get returns one (user, game) aggregate.
func (s *GachaService) Get(ctx context.Context, userID, game string) (*models.GameStat, error) {
	var stat models.GameStat
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND game = ?", userID, game).
		First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("no stats for game")
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}
