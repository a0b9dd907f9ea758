package models

// MaxEmojiLength caps the emoji token in runes, not bytes.
const MaxEmojiLength = 10

// Poke is an append-only nudge between partners. No mutation, no deletion.
type Poke struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	SenderID   string `gorm:"size:36;index" json:"sender_id"`
	ReceiverID string `gorm:"size:36;index" json:"receiver_id"`
	Emoji      string `gorm:"size:40" json:"emoji"`
	CreatedAt  int64  `gorm:"index" json:"created_at"`
}

func (Poke) TableName() string {
	return "pokes"
}

// PokeWithSender is the read shape with the sender's username joined in.
type PokeWithSender struct {
	ID             string `json:"id"`
	SenderID       string `json:"sender_id"`
	ReceiverID     string `json:"receiver_id"`
	Emoji          string `json:"emoji"`
	CreatedAt      int64  `json:"created_at"`
	SenderUsername string `json:"sender_username"`
}
