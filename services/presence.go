package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"atlas/errs"
	"atlas/models"
)

type PresenceService struct {
	db    *gorm.DB
	cache *Cache
}

func NewPresenceService(db *gorm.DB, cache *Cache) *PresenceService {
	return &PresenceService{db: db, cache: cache}
}

// PresenceUpdate carries one presence write. Status keeps its prior value
// when omitted; the nullable fields are fully replaced on every update,
// absent means cleared. No deep merge.
type PresenceUpdate struct {
	Status           *string                  `json:"status"`
	CurrentGame      *string                  `json:"current_game"`
	MoodMessage      *string                  `json:"mood_message"`
	PerformanceStats *models.PerformanceStats `json:"performance_stats"`
}

// Update upserts the caller's presence row atomically: the row is written in
// one statement, never observable half-applied.
func (s *PresenceService) Update(ctx context.Context, userID string, upd PresenceUpdate) (*models.Presence, error) {
	if upd.Status != nil {
		trimmed := strings.TrimSpace(*upd.Status)
		if trimmed == "" || utf8.RuneCountInString(trimmed) > 32 {
			return nil, errs.InvalidArgument("status must be 1-32 characters")
		}
		upd.Status = &trimmed
	}

	row := models.Presence{
		UserID:      userID,
		Status:      "offline",
		CurrentGame: upd.CurrentGame,
		MoodMessage: upd.MoodMessage,
		UpdatedAt:   nowMillis(),
	}
	if upd.Status != nil {
		row.Status = *upd.Status
	}
	if perf := upd.PerformanceStats; perf != nil {
		row.CPUUsage = perf.CPUUsage
		row.GPUUsage = perf.GPUUsage
		row.FPS = perf.FPS
		row.MemoryUsage = perf.MemoryUsage
	}

	assignments := []string{
		"current_game", "mood_message",
		"cpu_usage", "gpu_usage", "fps", "memory_usage",
		"updated_at",
	}
	if upd.Status != nil {
		assignments = append(assignments, "status")
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(assignments),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}

	// The upsert leaves row.Status stale when status was omitted on an
	// existing row; reread so callers and the cache see the stored value.
	stored, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetPresence(ctx, stored)
	return stored, nil
}

func (s *PresenceService) get(ctx context.Context, userID string) (*models.Presence, error) {
	var p models.Presence
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("presence not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get returns the user's presence, synthesizing the lazy offline default for
// identities that predate presence-at-registration.
func (s *PresenceService) Get(ctx context.Context, userID string) (*models.Presence, error) {
	p, err := s.get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if errs.IsKind(err, errs.KindNotFound) {
		return &models.Presence{UserID: userID, Status: "offline"}, nil
	}
	return nil, err
}

// GetCached is Get behind the advisory redis snapshot, used on the poll hot
// path.
func (s *PresenceService) GetCached(ctx context.Context, userID string) (*models.Presence, error) {
	if p, ok := s.cache.GetPresence(ctx, userID); ok {
		return p, nil
	}
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetPresence(ctx, p)
	return p, nil
}

// Snapshot joins the username onto a presence row for partner-facing reads.
func Snapshot(p *models.Presence, username string) *models.PresenceSnapshot {
	return &models.PresenceSnapshot{
		UserID:           p.UserID,
		Username:         username,
		Status:           p.Status,
		CurrentGame:      p.CurrentGame,
		MoodMessage:      p.MoodMessage,
		PerformanceStats: p.Performance(),
		LastUpdated:      p.UpdatedAt,
	}
}
