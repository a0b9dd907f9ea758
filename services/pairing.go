package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"atlas/errs"
	"atlas/models"
)

// PairingService owns the bidirectional partner relationship. Every other
// service resolves "who may I sync with" through GetPartner; nothing
// re-derives pairing on its own.
type PairingService struct {
	db *gorm.DB
}

func NewPairingService(db *gorm.DB) *PairingService {
	return &PairingService{db: db}
}

// Link pairs the caller with the owner of the given friend code. Both sides
// must be unpaired: re-linking over an existing relationship silently
// corrupted the old partner's side in earlier builds, so it is rejected and
// an explicit unlink is required first.
func (s *PairingService) Link(ctx context.Context, caller *models.User, friendCode string) (*models.User, error) {
	var target models.User
	err := s.db.WithContext(ctx).
		Where("friend_code = ?", NormalizeFriendCode(friendCode)).
		First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("unknown friend code")
	}
	if err != nil {
		return nil, err
	}
	if target.ID == caller.ID {
		return nil, errs.InvalidArgument("cannot link to yourself")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Pairing{}).
			Where("user_a_id IN (?, ?) OR user_b_id IN (?, ?)", caller.ID, target.ID, caller.ID, target.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.InvalidArgument("already paired: unlink first")
		}
		// Single-row insert: both sides become linked in the same instant.
		return tx.Create(&models.Pairing{
			UserAID:   caller.ID,
			UserBID:   target.ID,
			CreatedAt: nowMillis(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// Unlink removes the caller's pairing. Both sides are cleared by the one row
// delete; a caller with no partner gets NoPartner.
func (s *PairingService) Unlink(ctx context.Context, userID string) error {
	res := s.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Delete(&models.Pairing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NoPartner()
	}
	return nil
}

// GetPartner resolves the caller's counterpart, failing with NoPartner when
// unpaired.
func (s *PairingService) GetPartner(ctx context.Context, userID string) (*models.User, error) {
	var pairing models.Pairing
	err := s.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		First(&pairing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NoPartner()
	}
	if err != nil {
		return nil, err
	}

	var partner models.User
	if err := s.db.WithContext(ctx).Where("id = ?", pairing.OtherSide(userID)).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// PartnerID returns the partner id or nil, for response bodies that carry a
// nullable partner_id field.
func (s *PairingService) PartnerID(ctx context.Context, userID string) (*string, error) {
	partner, err := s.GetPartner(ctx, userID)
	if err != nil {
		if errs.IsKind(err, errs.KindNoPartner) {
			return nil, nil
		}
		return nil, err
	}
	return &partner.ID, nil
}
