package models

// MaxMessageLength caps message content after trimming.
const MaxMessageLength = 2000

// Message is immutable once created except for the single null-to-value
// read_at transition, which only the receiver may perform.
type Message struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	SenderID   string `gorm:"size:36;index" json:"sender_id"`
	ReceiverID string `gorm:"size:36;index" json:"receiver_id"`
	Content    string `gorm:"size:2000" json:"content"`
	CreatedAt  int64  `gorm:"index" json:"created_at"`
	ReadAt     *int64 `json:"read_at"`
}

func (Message) TableName() string {
	return "messages"
}
