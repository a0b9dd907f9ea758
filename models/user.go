package models

// User is a registered identity. The friend code is the public handle used
// for pairing; the token is the private bearer credential and must never
// appear in any response body.
type User struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	FriendCode  string  `gorm:"size:32;uniqueIndex" json:"friend_code"`
	DisplayName string  `gorm:"size:32" json:"username"`
	Token       string  `gorm:"size:64;uniqueIndex" json:"-"`
	AvatarURL   *string `gorm:"size:512" json:"avatar_url,omitempty"`
	CreatedAt   int64   `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// PublicUser is the non-sensitive projection returned by validate and
// link-partner responses.
type PublicUser struct {
	ID         string `json:"id"`
	FriendCode string `json:"friend_code"`
	Username   string `json:"username"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, FriendCode: u.FriendCode, Username: u.DisplayName}
}
