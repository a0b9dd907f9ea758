package services

import (
	"context"
	"time"

	"atlas/errs"
	"atlas/models"
)

// Per-stream caps for one poll. A stream that hits its cap simply delivers
// the remainder on the next tick, since the client advances its cursor.
const (
	pollMessageLimit = 100
	pollPokeLimit    = 20
	pollMemoryLimit  = 50
	pollEventLimit   = 50

	stateMessageCount = 20
	stateUpcomingDays = 7
)

// SyncService is the read-only composition over the stream stores. It holds
// no state of its own; every poll re-reads through the same services the
// per-resource handlers use.
type SyncService struct {
	pairing  *PairingService
	presence *PresenceService
	messages *MessageService
	pokes    *PokeService
	memories *MemoryService
	calendar *CalendarService
}

func NewSyncService(
	pairing *PairingService,
	presence *PresenceService,
	messages *MessageService,
	pokes *PokeService,
	memories *MemoryService,
	calendar *CalendarService,
) *SyncService {
	return &SyncService{
		pairing:  pairing,
		presence: presence,
		messages: messages,
		pokes:    pokes,
		memories: memories,
		calendar: calendar,
	}
}

// PollResult aggregates every stream delta newer than the cursor into one
// snapshot. HasNewData is advisory only: clients must persist the newest
// cursor they observe regardless of the flag.
type PollResult struct {
	Timestamp      int64                    `json:"timestamp"`
	HasPartner     bool                     `json:"has_partner"`
	Presence       *models.PresenceSnapshot `json:"presence"`
	Messages       []models.Message         `json:"messages"`
	Pokes          []models.PokeWithSender  `json:"pokes"`
	Memories       []models.Memory          `json:"memories"`
	CalendarEvents []models.CalendarEvent   `json:"calendar_events"`
	HasNewData     bool                     `json:"has_new_data"`
}

// StateResult is the cold-start summary: expensive, fetched once, instead of
// walking every stream from cursor zero.
type StateResult struct {
	Timestamp      int64                    `json:"timestamp"`
	HasPartner     bool                     `json:"has_partner"`
	Partner        *models.PublicUser       `json:"partner"`
	Presence       *models.PresenceSnapshot `json:"presence"`
	RecentMessages []models.Message         `json:"recent_messages"`
	UnreadCount    int64                    `json:"unread_count"`
	MemoriesCount  int64                    `json:"memories_count"`
	UpcomingEvents []models.CalendarEvent   `json:"upcoming_events"`
}

func emptyPoll(now int64) *PollResult {
	return &PollResult{
		Timestamp:      now,
		Messages:       []models.Message{},
		Pokes:          []models.PokeWithSender{},
		Memories:       []models.Memory{},
		CalendarEvents: []models.CalendarEvent{},
	}
}

// Poll returns all stream records newer than since for the caller's pair.
// An unpaired caller gets the empty-but-successful shape, not an error.
// Polling twice with the same cursor is idempotent: reads only.
func (s *SyncService) Poll(ctx context.Context, user *models.User, since int64) (*PollResult, error) {
	now := nowMillis()

	partner, err := s.pairing.GetPartner(ctx, user.ID)
	if err != nil {
		if errs.IsKind(err, errs.KindNoPartner) {
			return emptyPoll(now), nil
		}
		return nil, err
	}

	result := emptyPoll(now)
	result.HasPartner = true

	partnerPresence, err := s.presence.GetCached(ctx, partner.ID)
	if err != nil {
		return nil, err
	}
	result.Presence = Snapshot(partnerPresence, partner.DisplayName)

	if result.Messages, err = s.messages.ListBetween(ctx, user.ID, partner.ID, since, pollMessageLimit); err != nil {
		return nil, err
	}
	if result.Pokes, err = s.pokes.ListReceived(ctx, user.ID, since, pollPokeLimit); err != nil {
		return nil, err
	}
	if result.Memories, err = s.memories.ListSince(ctx, user.ID, partner.ID, since, pollMemoryLimit); err != nil {
		return nil, err
	}
	if result.CalendarEvents, err = s.calendar.UpdatedSince(ctx, user.ID, partner.ID, since, pollEventLimit); err != nil {
		return nil, err
	}

	result.HasNewData = len(result.Messages) > 0 ||
		len(result.Pokes) > 0 ||
		len(result.Memories) > 0 ||
		len(result.CalendarEvents) > 0 ||
		partnerPresence.UpdatedAt > since

	return result, nil
}

// State returns the first-load summary for the caller's pair.
func (s *SyncService) State(ctx context.Context, user *models.User) (*StateResult, error) {
	now := nowMillis()

	partner, err := s.pairing.GetPartner(ctx, user.ID)
	if err != nil {
		if errs.IsKind(err, errs.KindNoPartner) {
			return &StateResult{
				Timestamp:      now,
				RecentMessages: []models.Message{},
				UpcomingEvents: []models.CalendarEvent{},
			}, nil
		}
		return nil, err
	}

	partnerPresence, err := s.presence.Get(ctx, partner.ID)
	if err != nil {
		return nil, err
	}

	recent, err := s.messages.Recent(ctx, user.ID, partner.ID, stateMessageCount)
	if err != nil {
		return nil, err
	}
	unread, err := s.messages.UnreadCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	memoriesCount, err := s.memories.Count(ctx, user.ID, partner.ID)
	if err != nil {
		return nil, err
	}

	weekEnd := now + stateUpcomingDays*24*time.Hour.Milliseconds()
	upcoming, err := s.calendar.List(ctx, user.ID, partner.ID, &now, &weekEnd, pollEventLimit)
	if err != nil {
		return nil, err
	}

	public := partner.Public()
	return &StateResult{
		Timestamp:      now,
		HasPartner:     true,
		Partner:        &public,
		Presence:       Snapshot(partnerPresence, partner.DisplayName),
		RecentMessages: recent,
		UnreadCount:    unread,
		MemoriesCount:  memoriesCount,
		UpcomingEvents: upcoming,
	}, nil
}
