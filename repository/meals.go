package repository

import (
	"context"

	"meal-delivery-api/models"

	"gorm.io/gorm"
)

// MealChanges holds the editable columns; nil fields are left alone
type MealChanges struct {
	Name        *string
	Description *string
	Price       *float64
}

type MealRepository interface {
	Create(ctx context.Context, meal *models.Meal) error
	Get(ctx context.Context, id uint) (*models.Meal, error)
	List(ctx context.Context) ([]models.Meal, error)
	ListByVendor(ctx context.Context, vendorID string) ([]models.Meal, error)
	Update(ctx context.Context, id uint, changes MealChanges) (*models.Meal, error)
	Delete(ctx context.Context, id uint) error
}

type mealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) Create(ctx context.Context, meal *models.Meal) error {
	return translate(r.db.WithContext(ctx).Create(meal).Error)
}

func (r *mealRepository) Get(ctx context.Context, id uint) (*models.Meal, error) {
	var meal models.Meal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meal).Error; err != nil {
		return nil, translate(err)
	}
	return &meal, nil
}

func (r *mealRepository) List(ctx context.Context) ([]models.Meal, error) {
	var meals []models.Meal
	if err := r.db.WithContext(ctx).Order("id asc").Find(&meals).Error; err != nil {
		return nil, translate(err)
	}
	return meals, nil
}

func (r *mealRepository) ListByVendor(ctx context.Context, vendorID string) ([]models.Meal, error) {
	var meals []models.Meal
	if err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("id asc").Find(&meals).Error; err != nil {
		return nil, translate(err)
	}
	return meals, nil
}

func (r *mealRepository) Update(ctx context.Context, id uint, changes MealChanges) (*models.Meal, error) {
	update := map[string]interface{}{}
	if changes.Name != nil {
		update["name"] = *changes.Name
	}
	if changes.Description != nil {
		update["description"] = *changes.Description
	}
	if changes.Price != nil {
		update["price"] = *changes.Price
	}
	if len(update) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Meal{}).Where("id = ?", id).Updates(update)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.Get(ctx, id)
}

func (r *mealRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Meal{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
