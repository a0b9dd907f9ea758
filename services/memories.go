package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atlas/errs"
	"atlas/models"
)

type MemoryService struct {
	db     *gorm.DB
	events *EventPublisher
}

func NewMemoryService(db *gorm.DB, events *EventPublisher) *MemoryService {
	return &MemoryService{db: db, events: events}
}

// CreateMemoryInput is the validated create payload. ContentURL references
// the external file store and passes through untouched.
type CreateMemoryInput struct {
	Type        models.MemoryType `json:"memory_type"`
	ContentURL  *string           `json:"content_url"`
	ContentText *string           `json:"content_text"`
	Caption     *string           `json:"caption"`
	TargetDate  *int64            `json:"target_date"`
}

// Create appends a memory for the pair. All validation happens before the
// write: bad enum, countdown without target date, and text-bearing types
// without text are all rejected up front.
func (s *MemoryService) Create(ctx context.Context, userID, partnerID string, in CreateMemoryInput) (*models.Memory, error) {
	if !in.Type.Valid() {
		return nil, errs.InvalidArgument("invalid memory_type")
	}
	if in.Type == models.MemoryCountdown && in.TargetDate == nil {
		return nil, errs.InvalidArgument("countdown memory requires target_date")
	}
	if in.Type.RequiresText() {
		if in.ContentText == nil || strings.TrimSpace(*in.ContentText) == "" {
			return nil, errs.InvalidArgument("memory_type " + string(in.Type) + " requires content_text")
		}
	}

	memory := models.Memory{
		ID:          uuid.NewString(),
		UserID:      userID,
		PartnerID:   partnerID,
		Type:        in.Type,
		ContentURL:  in.ContentURL,
		ContentText: in.ContentText,
		Caption:     in.Caption,
		TargetDate:  in.TargetDate,
		CreatedAt:   nowMillis(),
	}
	if err := s.db.WithContext(ctx).Create(&memory).Error; err != nil {
		return nil, err
	}

	s.events.Publish(ctx, partnerID, EventMemoryAdded, &memory)
	return &memory, nil
}

// pairScope matches memories belonging to the unordered pair, regardless of
// which member created them.
func pairScope(userID, partnerID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("(user_id = ? AND partner_id = ?) OR (user_id = ? AND partner_id = ?)",
			userID, partnerID, partnerID, userID)
	}
}

// ListSince returns pair memories newer than the cursor, oldest first.
func (s *MemoryService) ListSince(ctx context.Context, userID, partnerID string, since int64, limit int) ([]models.Memory, error) {
	memories := []models.Memory{}
	err := s.db.WithContext(ctx).
		Scopes(pairScope(userID, partnerID)).
		Where("created_at > ?", since).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&memories).Error
	return memories, err
}

// ListRecent returns the newest pair memories first, for uncursored reads.
func (s *MemoryService) ListRecent(ctx context.Context, userID, partnerID string, limit int) ([]models.Memory, error) {
	memories := []models.Memory{}
	err := s.db.WithContext(ctx).
		Scopes(pairScope(userID, partnerID)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&memories).Error
	return memories, err
}

// ListCountdowns returns countdown memories for the pair ordered by target
// date, soonest first.
func (s *MemoryService) ListCountdowns(ctx context.Context, userID, partnerID string, limit int) ([]models.Memory, error) {
	memories := []models.Memory{}
	err := s.db.WithContext(ctx).
		Scopes(pairScope(userID, partnerID)).
		Where("type = ?", models.MemoryCountdown).
		Order("target_date ASC, id ASC").
		Limit(limit).
		Find(&memories).Error
	return memories, err
}

// Count reports the pair's total memory count for the state snapshot.
func (s *MemoryService) Count(ctx context.Context, userID, partnerID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Memory{}).
		Scopes(pairScope(userID, partnerID)).
		Count(&count).Error
	return count, err
}

// Delete removes a memory. Only the creator may delete; the partner gets
// Forbidden, everyone else NotFound.
func (s *MemoryService) Delete(ctx context.Context, callerID, id string) error {
	var memory models.Memory
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&memory).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("memory not found")
	}
	if err != nil {
		return err
	}
	if memory.UserID != callerID {
		if memory.PartnerID == callerID {
			return errs.Forbidden("only the creator can delete a memory")
		}
		return errs.NotFound("memory not found")
	}
	return s.db.WithContext(ctx).Delete(&models.Memory{}, "id = ?", id).Error
}
