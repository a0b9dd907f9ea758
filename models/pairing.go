package models

// Pairing is the partner relationship as a single row with two foreign keys.
// The unique indexes on both columns plus the service-level free-side check
// make the "symmetric or absent" invariant structural: there is no way to
// observe a half-linked pair.
type Pairing struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserAID   string `gorm:"size:36;uniqueIndex" json:"user_a_id"`
	UserBID   string `gorm:"size:36;uniqueIndex" json:"user_b_id"`
	CreatedAt int64  `json:"created_at"`
}

func (Pairing) TableName() string {
	return "pairings"
}

// OtherSide returns the partner id for the given member, or "" when the user
// is not part of this pairing.
func (p *Pairing) OtherSide(userID string) string {
	switch userID {
	case p.UserAID:
		return p.UserBID
	case p.UserBID:
		return p.UserAID
	}
	return ""
}
