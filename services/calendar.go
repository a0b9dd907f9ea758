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

type CalendarService struct {
	db     *gorm.DB
	events *EventPublisher
}

func NewCalendarService(db *gorm.DB, events *EventPublisher) *CalendarService {
	return &CalendarService{db: db, events: events}
}

// CreateEventInput is the create payload. ReminderMinutes distinguishes
// omitted (default 30) from explicit null (no reminder).
type CreateEventInput struct {
	Title             string                `json:"title"`
	Description       *string               `json:"description"`
	Datetime          *int64                `json:"datetime"`
	Timezone          string                `json:"timezone"`
	ReminderMinutes   models.Optional[int]  `json:"reminder_minutes"`
	IsRecurring       bool                  `json:"is_recurring"`
	RecurrencePattern *string               `json:"recurrence_pattern"`
}

// UpdateEventInput is the patch payload. Present fields replace, absent
// fields keep their prior value; the nullable fields accept explicit null to
// clear. Title, datetime, timezone and is_recurring reject null.
type UpdateEventInput struct {
	Title             models.Optional[string] `json:"title"`
	Description       models.Optional[string] `json:"description"`
	Datetime          models.Optional[int64]  `json:"datetime"`
	Timezone          models.Optional[string] `json:"timezone"`
	ReminderMinutes   models.Optional[int]    `json:"reminder_minutes"`
	IsRecurring       models.Optional[bool]   `json:"is_recurring"`
	RecurrencePattern models.Optional[string] `json:"recurrence_pattern"`
}

// Create validates and appends a shared event.
func (s *CalendarService) Create(ctx context.Context, userID, partnerID string, in CreateEventInput) (*models.CalendarEvent, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errs.InvalidArgument("event title cannot be empty")
	}
	if in.Datetime == nil || *in.Datetime < 0 {
		return nil, errs.InvalidArgument("event datetime must be a non-negative epoch ms value")
	}

	defaultReminder := models.DefaultReminderMinutes
	reminder := &defaultReminder
	if in.ReminderMinutes.Set {
		reminder = in.ReminderMinutes.Value
	}

	now := nowMillis()
	event := models.CalendarEvent{
		ID:                uuid.NewString(),
		UserID:            userID,
		PartnerID:         partnerID,
		Title:             title,
		Description:       in.Description,
		Datetime:          *in.Datetime,
		Timezone:          in.Timezone,
		ReminderMinutes:   reminder,
		IsRecurring:       in.IsRecurring,
		RecurrencePattern: in.RecurrencePattern,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}

	s.events.Publish(ctx, partnerID, EventCalendarEvent, &event)
	return &event, nil
}

// load fetches an event and enforces pair membership. Unknown ids and events
// outside the caller's pair both come back NotFound, so non-members cannot
// distinguish "exists" from "missing".
func (s *CalendarService) load(ctx context.Context, callerID, id string) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("event not found")
	}
	if err != nil {
		return nil, err
	}
	if event.UserID != callerID && event.PartnerID != callerID {
		return nil, errs.NotFound("event not found")
	}
	return &event, nil
}

// Update applies a partial update on behalf of either pair member. All
// validation happens before any column is written.
func (s *CalendarService) Update(ctx context.Context, callerID, id string, in UpdateEventInput) (*models.CalendarEvent, error) {
	event, err := s.load(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Title.Set {
		if in.Title.Value == nil {
			return nil, errs.InvalidArgument("title cannot be null")
		}
		title := strings.TrimSpace(*in.Title.Value)
		if title == "" {
			return nil, errs.InvalidArgument("event title cannot be empty")
		}
		updates["title"] = title
	}
	if in.Datetime.Set {
		if in.Datetime.Value == nil || *in.Datetime.Value < 0 {
			return nil, errs.InvalidArgument("event datetime must be a non-negative epoch ms value")
		}
		updates["datetime"] = *in.Datetime.Value
	}
	if in.Timezone.Set {
		if in.Timezone.Value == nil {
			return nil, errs.InvalidArgument("timezone cannot be null")
		}
		updates["timezone"] = *in.Timezone.Value
	}
	if in.IsRecurring.Set {
		if in.IsRecurring.Value == nil {
			return nil, errs.InvalidArgument("is_recurring cannot be null")
		}
		updates["is_recurring"] = *in.IsRecurring.Value
	}
	if in.Description.Set {
		updates["description"] = in.Description.Value
	}
	if in.ReminderMinutes.Set {
		updates["reminder_minutes"] = in.ReminderMinutes.Value
	}
	if in.RecurrencePattern.Set {
		updates["recurrence_pattern"] = in.RecurrencePattern.Value
	}
	updates["updated_at"] = nowMillis()

	if err := s.db.WithContext(ctx).Model(event).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.load(ctx, callerID, id)
}

// Delete removes an event on behalf of either pair member.
func (s *CalendarService) Delete(ctx context.Context, callerID, id string) error {
	event, err := s.load(ctx, callerID, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.CalendarEvent{}, "id = ?", event.ID).Error
}

// List returns the pair's events ordered by event datetime, optionally
// windowed to [from, to).
func (s *CalendarService) List(ctx context.Context, userID, partnerID string, from, to *int64, limit int) ([]models.CalendarEvent, error) {
	events := []models.CalendarEvent{}
	query := s.db.WithContext(ctx).
		Scopes(pairScope(userID, partnerID)).
		Order("datetime ASC, id ASC").
		Limit(limit)
	if from != nil {
		query = query.Where("datetime >= ?", *from)
	}
	if to != nil {
		query = query.Where("datetime < ?", *to)
	}
	err := query.Find(&events).Error
	return events, err
}

// UpdatedSince returns events touched after the cursor. Updates count, not
// just creations, so edits propagate to the partner's next poll.
func (s *CalendarService) UpdatedSince(ctx context.Context, userID, partnerID string, since int64, limit int) ([]models.CalendarEvent, error) {
	events := []models.CalendarEvent{}
	err := s.db.WithContext(ctx).
		Scopes(pairScope(userID, partnerID)).
		Where("updated_at > ?", since).
		Order("datetime ASC, id ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
