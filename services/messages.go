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

type MessageService struct {
	db     *gorm.DB
	cache  *Cache
	events *EventPublisher
}

func NewMessageService(db *gorm.DB, cache *Cache, events *EventPublisher) *MessageService {
	return &MessageService{db: db, cache: cache, events: events}
}

// Send appends a message from sender to receiver. Content is trimmed and
// validated before any write.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.InvalidArgument("message content cannot be empty")
	}
	if utf8.RuneCountInString(content) > models.MaxMessageLength {
		return nil, errs.InvalidArgument("message content exceeds 2000 characters")
	}

	msg := models.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  nowMillis(),
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}

	s.cache.InvalidateUnread(ctx, receiverID)
	s.events.Publish(ctx, receiverID, EventNewMessage, &msg)
	return &msg, nil
}

// ListBetween returns pair messages newer than the cursor, oldest first.
// Equal timestamps are broken by id so ordering is deterministic.
func (s *MessageService) ListBetween(ctx context.Context, userID, partnerID string, since int64, limit int) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.WithContext(ctx).
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND created_at > ?",
			userID, partnerID, partnerID, userID, since).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Recent returns the newest n pair messages, oldest first. Used by the cold
// start state snapshot.
func (s *MessageService) Recent(ctx context.Context, userID, partnerID string, n int) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, partnerID, partnerID, userID).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkRead flips read_at for the given ids where the caller is the receiver
// and the message is still unread. Already-read and foreign ids are silently
// skipped; the returned count reflects rows actually changed.
func (s *MessageService) MarkRead(ctx context.Context, receiverID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id IN ? AND receiver_id = ? AND read_at IS NULL", ids, receiverID).
		Update("read_at", nowMillis())
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.cache.InvalidateUnread(ctx, receiverID)
	}
	return res.RowsAffected, nil
}

// UnreadCount counts unread messages addressed to the user, behind the
// advisory redis cache.
func (s *MessageService) UnreadCount(ctx context.Context, receiverID string) (int64, error) {
	if n, ok := s.cache.GetUnread(ctx, receiverID); ok {
		return n, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("receiver_id = ? AND read_at IS NULL", receiverID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	s.cache.SetUnread(ctx, receiverID, count)
	return count, nil
}
