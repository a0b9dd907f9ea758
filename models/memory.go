package models

// MemoryType enumerates the kinds of shared memories.
type MemoryType string

const (
	MemoryPhoto     MemoryType = "photo"
	MemoryVideo     MemoryType = "video"
	MemoryVoice     MemoryType = "voice"
	MemoryNote      MemoryType = "note"
	MemoryCountdown MemoryType = "countdown"
	MemoryMilestone MemoryType = "milestone"
)

func (t MemoryType) Valid() bool {
	switch t {
	case MemoryPhoto, MemoryVideo, MemoryVoice, MemoryNote, MemoryCountdown, MemoryMilestone:
		return true
	}
	return false
}

// RequiresText reports whether this memory type must carry content_text.
func (t MemoryType) RequiresText() bool {
	switch t {
	case MemoryNote, MemoryCountdown, MemoryMilestone:
		return true
	}
	return false
}

// Memory is a shared keepsake owned by its creator. Append and delete only;
// deletable by the creator alone. ContentURL points at the external file
// store and is passed through untouched.
type Memory struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:36;index" json:"user_id"`
	PartnerID   string     `gorm:"size:36;index" json:"partner_id"`
	Type        MemoryType `gorm:"size:16" json:"memory_type"`
	ContentURL  *string    `gorm:"size:512" json:"content_url"`
	ContentText *string    `gorm:"size:2000" json:"content_text"`
	Caption     *string    `gorm:"size:255" json:"caption"`
	TargetDate  *int64     `json:"target_date"`
	CreatedAt   int64      `gorm:"index" json:"created_at"`
}

func (Memory) TableName() string {
	return "memories"
}
