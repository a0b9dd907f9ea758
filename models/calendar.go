package models

// DefaultReminderMinutes is applied when a create request omits the field.
const DefaultReminderMinutes = 30

// CalendarEvent is shared between the pair: either member may update or
// delete it, unlike memories. IsRecurring is a native bool in the domain;
// whatever the driver stores is the driver's business.
type CalendarEvent struct {
	ID                string  `gorm:"primaryKey;size:36" json:"id"`
	UserID            string  `gorm:"size:36;index" json:"user_id"`
	PartnerID         string  `gorm:"size:36;index" json:"partner_id"`
	Title             string  `gorm:"size:255" json:"title"`
	Description       *string `gorm:"size:2000" json:"description"`
	Datetime          int64   `gorm:"index" json:"datetime"`
	Timezone          string  `gorm:"size:64" json:"timezone"`
	ReminderMinutes   *int    `json:"reminder_minutes"`
	IsRecurring       bool    `json:"is_recurring"`
	RecurrencePattern *string `gorm:"size:64" json:"recurrence_pattern"`
	CreatedAt         int64   `json:"created_at"`
	UpdatedAt         int64   `gorm:"index" json:"updated_at"`
}

func (CalendarEvent) TableName() string {
	return "calendar_events"
}
