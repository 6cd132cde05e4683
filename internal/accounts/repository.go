package accounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	"github.com/boutiquemaison/storefront-backend/pkg/enums"
)

// Repository wraps user, profile and address persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindUser loads a user by primary key.
func (r *Repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindProfile loads the profile attached to the user, if any.
func (r *Repository) FindProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile upserts the profile row.
func (r *Repository) SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// ListAddresses returns the user's active addresses, defaults first.
func (r *Repository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("is_default DESC, created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindAddress loads an address by primary key.
func (r *Repository) FindAddress(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// SaveAddress persists all fields of an address row, creating it if new.
func (r *Repository) SaveAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Save(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

// ClearDefault unsets is_default on the user's other addresses of the same
// type.
func (r *Repository) ClearDefault(ctx context.Context, userID uuid.UUID, addrType enums.AddressType, excludeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ? AND type = ? AND id <> ?", userID, addrType, excludeID).
		Update("is_default", false).
		Error
}

// CountOrdersReferencing returns how many orders point at the address.
func (r *Repository) CountOrdersReferencing(ctx context.Context, addressID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("billing_address_id = ? OR shipping_address_id = ?", addressID, addressID).
		Count(&count).
		Error
	return count, err
}

// DeleteAddress removes an address row by ID.
func (r *Repository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Address{}).Error
}
