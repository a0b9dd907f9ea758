package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atlas/errs"
	"atlas/models"
)

type PokeService struct {
	db     *gorm.DB
	events *EventPublisher
}

func NewPokeService(db *gorm.DB, events *EventPublisher) *PokeService {
	return &PokeService{db: db, events: events}
}

// Send appends one poke. Append-only: there is no mutation or delete.
func (s *PokeService) Send(ctx context.Context, senderID, receiverID, emoji string) (*models.Poke, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, errs.InvalidArgument("emoji cannot be empty")
	}
	if utf8.RuneCountInString(emoji) > models.MaxEmojiLength {
		return nil, errs.InvalidArgument("emoji exceeds 10 characters")
	}

	poke := models.Poke{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Emoji:      emoji,
		CreatedAt:  nowMillis(),
	}
	if err := s.db.WithContext(ctx).Create(&poke).Error; err != nil {
		return nil, err
	}

	s.events.Publish(ctx, receiverID, EventPoke, &poke)
	return &poke, nil
}

// ListReceived returns pokes addressed to the user, newer than the cursor,
// with sender usernames joined in.
func (s *PokeService) ListReceived(ctx context.Context, receiverID string, since int64, limit int) ([]models.PokeWithSender, error) {
	pokes := []models.PokeWithSender{}
	err := s.db.WithContext(ctx).
		Table("pokes").
		Select("pokes.id, pokes.sender_id, pokes.receiver_id, pokes.emoji, pokes.created_at, users.display_name AS sender_username").
		Joins("JOIN users ON users.id = pokes.sender_id").
		Where("pokes.receiver_id = ? AND pokes.created_at > ?", receiverID, since).
		Order("pokes.created_at ASC, pokes.id ASC").
		Limit(limit).
		Scan(&pokes).Error
	return pokes, err
}

// ListSent returns pokes the user sent, newer than the cursor.
func (s *PokeService) ListSent(ctx context.Context, senderID string, since int64, limit int) ([]models.Poke, error) {
	pokes := []models.Poke{}
	err := s.db.WithContext(ctx).
		Where("sender_id = ? AND created_at > ?", senderID, since).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&pokes).Error
	return pokes, err
}
