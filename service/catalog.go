package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"meal-delivery-api/access"
	"meal-delivery-api/logger"
	"meal-delivery-api/metrics"
	"meal-delivery-api/models"
	"meal-delivery-api/repository"
	"meal-delivery-api/storage"

	"github.com/rs/zerolog"
)

// ImageUpload is the file part of a meal form
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// CreatedMeal carries the new meal plus whether to nudge the vendor toward KYC
type CreatedMeal struct {
	Meal      *models.Meal
	KYCPrompt bool
}

type CatalogService struct {
	meals         repository.MealRepository
	accounts      repository.AccountRepository
	store         storage.ObjectStore
	maxImageBytes int64
	log           zerolog.Logger
}

func NewCatalogService(
	meals repository.MealRepository,
	accounts repository.AccountRepository,
	store storage.ObjectStore,
	maxImageBytes int64,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		meals:         meals,
		accounts:      accounts,
		store:         store,
		maxImageBytes: maxImageBytes,
		log:           log.With().Str(logger.COMPONENT, "catalog").Logger(),
	}
}

func (s *CatalogService) withLinks(meals []models.Meal) []models.Meal {
	for i := range meals {
		meals[i].ImageLink = s.store.PublicURL(meals[i].ImageURL)
	}
	return meals
}

// List returns every meal whose name contains search, ignoring case.
// The whole table is read once and filtered here.
func (s *CatalogService) List(ctx context.Context, search string) ([]models.Meal, error) {
	all, err := s.meals.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list meals")
		return nil, fromRepo(err)
	}
	return s.withLinks(FilterByName(all, search)), nil
}

// FilterByName keeps meals whose name contains needle, case-insensitively
func FilterByName(meals []models.Meal, needle string) []models.Meal {
	needle = strings.ToLower(strings.TrimSpace(needle))
	out := make([]models.Meal, 0, len(meals))
	for _, m := range meals {
		if needle == "" || strings.Contains(strings.ToLower(m.Name), needle) {
			out = append(out, m)
		}
	}
	return out
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Meal, error) {
	meal, err := s.meals.Get(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	meal.ImageLink = s.store.PublicURL(meal.ImageURL)
	return meal, nil
}

func (s *CatalogService) ListForVendor(ctx context.Context, vendorID string) ([]models.Meal, error) {
	acct, err := loadAccount(ctx, s.accounts, vendorID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(acct, access.ManageMeal); err != nil {
		return nil, err
	}
	meals, err := s.meals.ListByVendor(ctx, vendorID)
	if err != nil {
		s.log.Error().Err(err).Str("vendor_id", vendorID).Msg("list vendor meals")
		return nil, fromRepo(err)
	}
	return s.withLinks(meals), nil
}

// Create uploads the image and inserts the meal with the vendor's business
// name copied onto it.
func (s *CatalogService) Create(ctx context.Context, vendorID string, in MealInput, image *ImageUpload) (*CreatedMeal, error) {
	acct, err := loadAccount(ctx, s.accounts, vendorID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(acct, access.CreateMeal); err != nil {
		return nil, err
	}
	if err := ValidateMeal(&in); err != nil {
		return nil, err
	}
	if image == nil || image.Body == nil {
		return nil, invalid("image", "please upload an image")
	}

	img, err := storage.ReadImage(image.Body, s.maxImageBytes)
	switch {
	case errors.Is(err, storage.ErrImageTooLarge), errors.Is(err, storage.ErrNotImage):
		return nil, invalid("image", err.Error())
	case err != nil:
		return nil, err
	}

	key := storage.ImageKey(vendorID, image.Filename)
	stored, err := s.store.Upload(ctx, key, img.ContentType, img.Reader())
	if err != nil {
		s.log.Error().Err(err).Str("vendor_id", vendorID).Str("key", key).Msg("upload meal image")
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	meal := &models.Meal{
		VendorID:     vendorID,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		ImageURL:     stored,
		BusinessName: acct.BusinessNameOrEmpty(),
	}
	if err := s.meals.Create(ctx, meal); err != nil {
		s.log.Error().Err(err).Str("vendor_id", vendorID).Str("image", stored).Msg("insert meal; uploaded image is orphaned")
		return nil, fromRepo(err)
	}
	meal.ImageLink = s.store.PublicURL(meal.ImageURL)
	metrics.MealsCreated.Inc()
	s.log.Info().Uint("meal_id", meal.ID).Str("vendor_id", vendorID).Msg("meal created")

	return &CreatedMeal{Meal: meal, KYCPrompt: access.KYCPrompt(acct)}, nil
}

// ownedMeal loads a meal the caller may edit. Meals of other vendors are
// reported as missing.
func (s *CatalogService) ownedMeal(ctx context.Context, vendorID string, mealID uint) (*models.Meal, error) {
	acct, err := loadAccount(ctx, s.accounts, vendorID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(acct, access.ManageMeal); err != nil {
		return nil, err
	}
	meal, err := s.meals.Get(ctx, mealID)
	if err != nil {
		return nil, fromRepo(err)
	}
	if !access.OwnsMeal(acct, meal) {
		return nil, ErrNotFound
	}
	return meal, nil
}

// Update edits a listing. Orders already placed keep their own copy of the
// meal name and price.
func (s *CatalogService) Update(ctx context.Context, vendorID string, mealID uint, patch MealPatch) (*models.Meal, error) {
	if err := ValidateMealPatch(&patch); err != nil {
		return nil, err
	}
	if _, err := s.ownedMeal(ctx, vendorID, mealID); err != nil {
		return nil, err
	}
	meal, err := s.meals.Update(ctx, mealID, repository.MealChanges{
		Name:        patch.Name,
		Description: patch.Description,
		Price:       patch.Price,
	})
	if err != nil {
		s.log.Error().Err(err).Uint("meal_id", mealID).Msg("update meal")
		return nil, fromRepo(err)
	}
	meal.ImageLink = s.store.PublicURL(meal.ImageURL)
	return meal, nil
}

func (s *CatalogService) Delete(ctx context.Context, vendorID string, mealID uint) error {
	if _, err := s.ownedMeal(ctx, vendorID, mealID); err != nil {
		return err
	}
	if err := s.meals.Delete(ctx, mealID); err != nil {
		s.log.Error().Err(err).Uint("meal_id", mealID).Msg("delete meal")
		return fromRepo(err)
	}
	s.log.Info().Uint("meal_id", mealID).Str("vendor_id", vendorID).Msg("meal deleted")
	return nil
}
