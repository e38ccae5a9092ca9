package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meal-delivery-api/access"
	"meal-delivery-api/logger"
	"meal-delivery-api/metrics"
	"meal-delivery-api/models"
	"meal-delivery-api/repository"
	"meal-delivery-api/statemachine"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PlacedOrder is the result of a checkout. Created is false when the
// idempotency key matched an earlier submission.
type PlacedOrder struct {
	Delivery *models.Delivery
	Created  bool
}

// StatusChange is a request to move a delivery along its lifecycle
type StatusChange struct {
	Status        models.DeliveryStatus `json:"status"`
	EstimatedTime *string               `json:"estimated_time"`
}

type OrderService struct {
	accounts   repository.AccountRepository
	meals      repository.MealRepository
	deliveries repository.DeliveryRepository
	defaultETA string
	log        zerolog.Logger
}

func NewOrderService(
	accounts repository.AccountRepository,
	meals repository.MealRepository,
	deliveries repository.DeliveryRepository,
	defaultETA string,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		accounts:   accounts,
		meals:      meals,
		deliveries: deliveries,
		defaultETA: defaultETA,
		log:        log.With().Str(logger.COMPONENT, "orders").Logger(),
	}
}

// Place creates a Pending delivery for mealID on behalf of buyerID.
// A non-empty idempotencyKey makes resubmission return the first order.
func (s *OrderService) Place(ctx context.Context, buyerID string, mealID uint, contact ContactInput, idempotencyKey string) (*PlacedOrder, error) {
	buyer, err := loadAccount(ctx, s.accounts, buyerID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(buyer, access.PlaceOrder); err != nil {
		s.log.Warn().Str("clerk_id", buyerID).Uint("meal_id", mealID).Err(err).Msg("order refused")
		return nil, err
	}
	if err := ValidateContact(&contact); err != nil {
		return nil, err
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey != "" {
		if prior, err := s.replay(ctx, buyerID, mealID, idempotencyKey); prior != nil || err != nil {
			return prior, err
		}
	} else {
		idempotencyKey = uuid.NewString()
	}

	meal, err := s.meals.Get(ctx, mealID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Uint("meal_id", mealID).Msg("load meal for order")
		}
		return nil, fromRepo(err)
	}

	d := &models.Delivery{
		VendorID:        meal.VendorID,
		UserID:          buyerID,
		MealID:          meal.ID,
		BuyerName:       contact.Name,
		BuyerEmail:      contact.Email,
		BuyerPhone:      contact.Phone,
		DeliveryAddress: contact.Address,
		VendorName:      meal.BusinessName,
		MealName:        meal.Name,
		MealPrice:       meal.Price,
		Status:          statemachine.InitialStatus(),
		EstimatedTime:   s.defaultETA,
		IdempotencyKey:  idempotencyKey,
	}
	if err := s.deliveries.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent submission carrying the same key
			if prior, rerr := s.replay(ctx, buyerID, mealID, idempotencyKey); prior != nil || rerr != nil {
				return prior, rerr
			}
		}
		s.log.Error().Err(err).Str("clerk_id", buyerID).Uint("meal_id", mealID).Msg("insert delivery")
		return nil, fromRepo(err)
	}

	metrics.OrdersPlaced.Inc()
	s.log.Info().Uint("delivery_id", d.ID).Str("clerk_id", buyerID).Str("vendor_id", d.VendorID).Msg("order placed")
	return &PlacedOrder{Delivery: d, Created: true}, nil
}

// replay returns the earlier order for key, or nil when there is none
func (s *OrderService) replay(ctx context.Context, buyerID string, mealID uint, key string) (*PlacedOrder, error) {
	prior, err := s.deliveries.FindByIdempotencyKey(ctx, buyerID, key)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, nil
	case err != nil:
		s.log.Error().Err(err).Str("clerk_id", buyerID).Msg("look up idempotency key")
		return nil, fromRepo(err)
	}
	if prior.MealID != mealID {
		return nil, ErrIdempotencyMismatch
	}
	metrics.OrdersDeduplicated.Inc()
	return &PlacedOrder{Delivery: prior, Created: false}, nil
}

// List returns the caller's deliveries: orders received for vendors,
// purchases for everyone else.
func (s *OrderService) List(ctx context.Context, clerkID string, status models.DeliveryStatus) ([]models.Delivery, error) {
	acct, err := loadAccount(ctx, s.accounts, clerkID)
	if err != nil {
		return nil, err
	}
	view := access.ViewAsBuyerDeliveries
	if acct.IsVendor() {
		view = access.ViewAsVendorDeliveries
	}
	if err := access.Authorize(acct, view); err != nil {
		return nil, err
	}
	scope, err := access.DeliveryListing(acct)
	if err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, invalid("status", "unknown status")
	}
	deliveries, err := s.deliveries.List(ctx, scope.Column, scope.ID, status)
	if err != nil {
		s.log.Error().Err(err).Str("clerk_id", clerkID).Msg("list deliveries")
		return nil, fromRepo(err)
	}
	return deliveries, nil
}

// Get returns one delivery if the caller is its buyer or vendor
func (s *OrderService) Get(ctx context.Context, clerkID string, id uint) (*models.Delivery, error) {
	acct, err := loadAccount(ctx, s.accounts, clerkID)
	if err != nil {
		return nil, err
	}
	return s.visibleDelivery(ctx, acct, id)
}

func (s *OrderService) visibleDelivery(ctx context.Context, acct *models.Account, id uint) (*models.Delivery, error) {
	d, err := s.deliveries.Get(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	if !access.CanSeeDelivery(acct, d) {
		return nil, ErrNotFound
	}
	return d, nil
}

// ChangeStatus applies a lifecycle transition. Only the vendor may touch
// estimated_time. The write only lands if the status is still what was read.
func (s *OrderService) ChangeStatus(ctx context.Context, clerkID string, id uint, change StatusChange) (*models.Delivery, error) {
	acct, err := loadAccount(ctx, s.accounts, clerkID)
	if err != nil {
		return nil, err
	}
	if !change.Status.Valid() {
		return nil, invalid("status", "unknown status")
	}
	actor := statemachine.ActorFor(acct.Type)
	if change.EstimatedTime != nil {
		if actor != statemachine.ActorVendor {
			return nil, invalid("estimated_time", "only the vendor can set the estimated time")
		}
		trimmed := strings.TrimSpace(*change.EstimatedTime)
		change.EstimatedTime = &trimmed
	}

	d, err := s.visibleDelivery(ctx, acct, id)
	if err != nil {
		return nil, err
	}
	if err := statemachine.CanTransition(d.Status, change.Status, actor); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	if err := s.deliveries.CompareAndSwapStatus(ctx, d.ID, d.Status, change.Status, change.EstimatedTime); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			s.log.Error().Err(err).Uint("delivery_id", d.ID).Msg("update delivery status")
		}
		return nil, fromRepo(err)
	}
	metrics.DeliveryTransitions.WithLabelValues(string(d.Status), string(change.Status)).Inc()
	s.log.Info().Uint("delivery_id", d.ID).Str("from", string(d.Status)).Str("to", string(change.Status)).
		Str("actor", string(actor)).Msg("delivery status changed")

	updated, err := s.deliveries.Get(ctx, d.ID)
	if err != nil {
		return nil, fromRepo(err)
	}
	return updated, nil
}
