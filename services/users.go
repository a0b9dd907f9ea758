package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atlas/errs"
	"atlas/models"
)

const (
	maxFriendCodeLength  = 32
	maxDisplayNameLength = 32
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// newToken generates the opaque bearer credential: 32 random bytes, hex.
// Tokens are issued once at registration and never rotated in-band.
func newToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// NormalizeFriendCode upper-cases and trims the public handle. The code is
// otherwise opaque to the server; generation (the ATLAS- prefix) stays
// client-side.
func NormalizeFriendCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Register is an upsert keyed on friend code: an existing code updates the
// display name (if changed) and hands back the existing identity and token
// instead of failing. A brand-new identity also gets its offline presence row
// so presence reads never have to special-case missing rows.
func (s *UserService) Register(ctx context.Context, friendCode, username string, avatarURL *string) (*models.User, error) {
	friendCode = NormalizeFriendCode(friendCode)
	username = strings.TrimSpace(username)

	if friendCode == "" || utf8.RuneCountInString(friendCode) > maxFriendCodeLength {
		return nil, errs.InvalidArgument("friend_code must be 1-32 characters")
	}
	if username == "" || utf8.RuneCountInString(username) > maxDisplayNameLength {
		return nil, errs.InvalidArgument("username must be 1-32 characters")
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("friend_code = ?", friendCode).First(&user).Error
		if err == nil {
			updates := map[string]any{}
			if user.DisplayName != username {
				user.DisplayName = username
				updates["display_name"] = username
			}
			if avatarURL != nil {
				user.AvatarURL = avatarURL
				updates["avatar_url"] = avatarURL
			}
			if len(updates) > 0 {
				return tx.Model(&user).Updates(updates).Error
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user = models.User{
			ID:          uuid.NewString(),
			FriendCode:  friendCode,
			DisplayName: username,
			Token:       newToken(),
			AvatarURL:   avatarURL,
			CreatedAt:   nowMillis(),
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Presence{
			UserID:    user.ID,
			Status:    "offline",
			UpdatedAt: user.CreatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Validate is the public friend-code existence check. Callers must only ever
// expose the Public() projection of the result.
func (s *UserService) Validate(ctx context.Context, friendCode string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("friend_code = ?", NormalizeFriendCode(friendCode)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("unknown friend code")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ByToken resolves a bearer token to exactly one identity.
func (s *UserService) ByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errs.Unauthenticated("missing bearer token")
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Unauthenticated("invalid bearer token")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ByID loads a user by id.
func (s *UserService) ByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
