package repository

import (
	"context"

	"meal-delivery-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository interface {
	Get(ctx context.Context, clerkID string) (*models.Account, error)
	Upsert(ctx context.Context, acct *models.Account) error
	SubmitKYC(ctx context.Context, clerkID, fullName, address, phone string) error
	HasActivity(ctx context.Context, clerkID string) (bool, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, clerkID string) (*models.Account, error) {
	var acct models.Account
	if err := r.db.WithContext(ctx).Where("clerk_id = ?", clerkID).First(&acct).Error; err != nil {
		return nil, translate(err)
	}
	return &acct, nil
}

// Upsert inserts the row or overwrites the profile columns of an existing one.
// kyc_verified and created_at are left untouched on update.
func (r *accountRepository) Upsert(ctx context.Context, acct *models.Account) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "clerk_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "email", "type", "business_name", "phone", "address", "updated_at",
		}),
	}).Create(acct).Error
	return translate(err)
}

func (r *accountRepository) SubmitKYC(ctx context.Context, clerkID, fullName, address, phone string) error {
	res := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("clerk_id = ?", clerkID).
		Updates(map[string]interface{}{
			"full_name":    fullName,
			"address":      address,
			"phone":        phone,
			"kyc_verified": true,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HasActivity reports whether any meal or delivery references the account
func (r *accountRepository) HasActivity(ctx context.Context, clerkID string) (bool, error) {
	db := r.db.WithContext(ctx)

	var meals int64
	if err := db.Model(&models.Meal{}).Where("vendor_id = ?", clerkID).Count(&meals).Error; err != nil {
		return false, translate(err)
	}
	if meals > 0 {
		return true, nil
	}

	var deliveries int64
	if err := db.Model(&models.Delivery{}).
		Where("user_id = ? OR vendor_id = ?", clerkID, clerkID).
		Count(&deliveries).Error; err != nil {
		return false, translate(err)
	}
	return deliveries > 0, nil
}
