package repository

import (
	"context"
	"fmt"

	"meal-delivery-api/models"

	"gorm.io/gorm"
)

// columns a delivery listing may filter on
var deliveryScopeColumns = map[string]bool{"vendor_id": true, "user_id": true}

type DeliveryRepository interface {
	Create(ctx context.Context, d *models.Delivery) error
	Get(ctx context.Context, id uint) (*models.Delivery, error)
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*models.Delivery, error)
	List(ctx context.Context, column, id string, status models.DeliveryStatus) ([]models.Delivery, error)
	CompareAndSwapStatus(ctx context.Context, id uint, from, to models.DeliveryStatus, estimatedTime *string) error
}

type deliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, d *models.Delivery) error {
	return translate(r.db.WithContext(ctx).Create(d).Error)
}

func (r *deliveryRepository) Get(ctx context.Context, id uint) (*models.Delivery, error) {
	var d models.Delivery
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *deliveryRepository) FindByIdempotencyKey(ctx context.Context, userID, key string) (*models.Delivery, error) {
	var d models.Delivery
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&d).Error
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// List returns deliveries where column equals id, newest first.
// An empty status matches every status.
func (r *deliveryRepository) List(ctx context.Context, column, id string, status models.DeliveryStatus) ([]models.Delivery, error) {
	if !deliveryScopeColumns[column] {
		return nil, fmt.Errorf("unsupported delivery filter column %q", column)
	}
	query := r.db.WithContext(ctx).Where(column+" = ?", id)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var deliveries []models.Delivery
	if err := query.Order("created_at desc").Order("id desc").Find(&deliveries).Error; err != nil {
		return nil, translate(err)
	}
	return deliveries, nil
}

// CompareAndSwapStatus moves id from one status to another only if the row
// is still in from. ErrConflict means someone else changed it first.
func (r *deliveryRepository) CompareAndSwapStatus(ctx context.Context, id uint, from, to models.DeliveryStatus, estimatedTime *string) error {
	update := map[string]interface{}{"status": to}
	if estimatedTime != nil {
		update["estimated_time"] = *estimatedTime
	}
	res := r.db.WithContext(ctx).Model(&models.Delivery{}).
		Where("id = ? AND status = ?", id, from).
		Updates(update)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}
