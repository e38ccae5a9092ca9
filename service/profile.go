package service

import (
	"context"
	"errors"

	"meal-delivery-api/logger"
	"meal-delivery-api/models"
	"meal-delivery-api/repository"

	"github.com/rs/zerolog"
)

type ProfileService struct {
	accounts repository.AccountRepository
	log      zerolog.Logger
}

func NewProfileService(accounts repository.AccountRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{accounts: accounts, log: log.With().Str(logger.COMPONENT, "profile").Logger()}
}

// Get returns the stored account; a missing row is ErrProfileIncomplete
func (s *ProfileService) Get(ctx context.Context, clerkID string) (*models.Account, error) {
	return loadAccount(ctx, s.accounts, clerkID)
}

// Save creates the account on first use or updates it. Switching between
// user and vendor is refused once the account has meals or deliveries.
func (s *ProfileService) Save(ctx context.Context, clerkID, email string, in ProfileInput) (*models.Account, error) {
	if err := ValidateProfile(&in); err != nil {
		return nil, err
	}

	existing, err := s.accounts.Get(ctx, clerkID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		existing = nil
	case err != nil:
		s.log.Error().Err(err).Str("clerk_id", clerkID).Msg("load account")
		return nil, fromRepo(err)
	}

	if existing != nil && existing.Type != in.Type {
		active, err := s.accounts.HasActivity(ctx, clerkID)
		if err != nil {
			s.log.Error().Err(err).Str("clerk_id", clerkID).Msg("check account activity")
			return nil, fromRepo(err)
		}
		if active {
			return nil, ErrRoleLocked
		}
	}

	acct := &models.Account{
		ClerkID:  clerkID,
		FullName: in.FullName,
		Email:    email,
		Type:     in.Type,
	}
	if in.Type == models.RoleVendor {
		acct.BusinessName = &in.BusinessName
		acct.Phone = &in.Phone
		acct.Address = &in.Address
	}
	if err := s.accounts.Upsert(ctx, acct); err != nil {
		s.log.Error().Err(err).Str("clerk_id", clerkID).Msg("save account")
		return nil, fromRepo(err)
	}
	s.log.Info().Str("clerk_id", clerkID).Str("type", string(in.Type)).Bool("created", existing == nil).Msg("profile saved")

	return loadAccount(ctx, s.accounts, clerkID)
}

// Verify records a KYC submission for any role. The flag is advisory and
// gates nothing; phone and address are stored even on a user account.
func (s *ProfileService) Verify(ctx context.Context, clerkID string, in KYCInput) (*models.Account, error) {
	if err := ValidateKYC(&in); err != nil {
		return nil, err
	}
	if err := s.accounts.SubmitKYC(ctx, clerkID, in.FullName, in.Address, in.Phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileIncomplete
		}
		s.log.Error().Err(err).Str("clerk_id", clerkID).Msg("submit kyc")
		return nil, fromRepo(err)
	}
	s.log.Info().Str("clerk_id", clerkID).Msg("kyc submitted")
	return loadAccount(ctx, s.accounts, clerkID)
}

func loadAccount(ctx context.Context, accounts repository.AccountRepository, clerkID string) (*models.Account, error) {
	acct, err := accounts.Get(ctx, clerkID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileIncomplete
	}
	if err != nil {
		return nil, fromRepo(err)
	}
	return acct, nil
}
