package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boutiquemaison/storefront-backend/pkg/db"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	"github.com/boutiquemaison/storefront-backend/pkg/enums"
	pkgerrors "github.com/boutiquemaison/storefront-backend/pkg/errors"
)

const defaultCountry = "Tunisie"

// Service exposes customer profile and address book operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileView, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	SaveAddress(ctx context.Context, userID uuid.UUID, input SaveAddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

// ProfileView joins the user identity with its preferences.
type ProfileView struct {
	User    *models.User
	Profile *models.Profile
}

// UpdateProfileInput holds optional profile mutations.
type UpdateProfileInput struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	BirthDate  *time.Time
	Newsletter *bool
}

// SaveAddressInput creates or, when ID is set, updates an address.
type SaveAddressInput struct {
	ID         *uuid.UUID
	Label      string
	FirstName  string
	LastName   string
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
	Phone      string
	Type       enums.AddressType
	IsDefault  bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an accounts service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading profile")
	}
	return &ProfileView{User: user, Profile: profile}, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileView, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}

	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading profile")
		}
		profile = &models.Profile{ID: uuid.New(), UserID: userID}
	}
	if input.Phone != nil {
		profile.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.BirthDate != nil {
		profile.BirthDate = input.BirthDate
	}
	if input.Newsletter != nil {
		profile.Newsletter = *input.Newsletter
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		_, err := txRepo.SaveProfile(ctx, profile)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating profile")
	}
	return &ProfileView{User: user, Profile: profile}, nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	rows, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing addresses")
	}
	return rows, nil
}

func (s *service) SaveAddress(ctx context.Context, userID uuid.UUID, input SaveAddressInput) (*models.Address, error) {
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	var address *models.Address
	if input.ID != nil {
		existing, err := s.loadOwnedAddress(ctx, userID, *input.ID)
		if err != nil {
			return nil, err
		}
		address = existing
	} else {
		address = &models.Address{ID: uuid.New(), UserID: userID, IsActive: true}
	}

	address.Label = input.Label
	address.FirstName = strings.TrimSpace(input.FirstName)
	address.LastName = strings.TrimSpace(input.LastName)
	address.Line1 = strings.TrimSpace(input.Line1)
	address.Line2 = input.Line2
	address.City = strings.TrimSpace(input.City)
	address.PostalCode = strings.TrimSpace(input.PostalCode)
	address.Phone = input.Phone
	address.Type = input.Type
	address.IsDefault = input.IsDefault
	address.Country = strings.TrimSpace(input.Country)
	if address.Country == "" {
		address.Country = defaultCountry
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		// a new default displaces the previous one for that type
		if address.IsDefault {
			if err := txRepo.ClearDefault(ctx, userID, address.Type, address.ID); err != nil {
				return err
			}
		}
		_, err := txRepo.SaveAddress(ctx, address)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving address")
	}
	return address, nil
}

func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.loadOwnedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}

	referenced, err := s.repo.CountOrdersReferencing(ctx, addressID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking address references")
	}

	// addresses on past orders are deactivated, not removed
	if referenced > 0 {
		address.IsActive = false
		address.IsDefault = false
		if _, err := s.repo.SaveAddress(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating address")
		}
		return nil
	}

	if err := s.repo.DeleteAddress(ctx, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting address")
	}
	return nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func (s *service) loadOwnedAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindAddress(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return address, nil
}

func validateAddressInput(input SaveAddressInput) error {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient name is required")
	}
	if strings.TrimSpace(input.Line1) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address line is required")
	}
	if strings.TrimSpace(input.City) == "" || strings.TrimSpace(input.PostalCode) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city and postal code are required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid address type")
	}
	return nil
}
