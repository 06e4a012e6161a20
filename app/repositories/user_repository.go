package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
)

// UserRepository owns users and their addresses.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	defer metrics.ObserveQuery("user_find", time.Now())

	var user models.User
	if err := r.db.WithContext(ctx).Preload("Addresses").First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveQuery("user_find", time.Now())

	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveQuery("user_create", time.Now())
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// Update persists the mutable profile columns only. Email and role never
// change through this path. Existence is checked with a read rather than
// RowsAffected, which MySQL reports as zero for no-op updates.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	defer metrics.ObserveQuery("user_update", time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Select("id").First(&existing, user.ID).Error; err != nil {
			return err
		}
		return tx.Model(user).
			Select("first_name", "last_name").
			Updates(map[string]any{
				"first_name": user.FirstName,
				"last_name":  user.LastName,
			}).Error
	}))
}

// FindIdentity satisfies the auth middleware's lookup contract without
// loading the address graph.
func (r *UserRepository) FindIdentity(ctx context.Context, userID uint) (middleware.Identity, error) {
	defer metrics.ObserveQuery("user_find", time.Now())

	var user models.User
	err := r.db.WithContext(ctx).Select("id", "role").First(&user, userID).Error
	if err != nil {
		return middleware.Identity{}, translate(err)
	}
	return middleware.Identity{UserID: user.ID, Role: user.Role}, nil
}

func (r *UserRepository) Addresses(ctx context.Context, userID uint) ([]models.Address, error) {
	defer metrics.ObserveQuery("address_list", time.Now())

	addresses := []models.Address{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&addresses).Error
	if err != nil {
		return nil, translate(err)
	}
	return addresses, nil
}

// CreateAddress inserts a new address. When the address is flagged as the
// default, the user's previous default is cleared inside the same
// transaction so at most one default survives.
func (r *UserRepository) CreateAddress(ctx context.Context, address *models.Address) error {
	defer metrics.ObserveQuery("address_create", time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default = ?", address.UserID, true).
				Update("is_default", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	}))
}

// SetDefaultAddress marks one address as default and clears the rest, all in
// one transaction. The address must belong to the user.
func (r *UserRepository) SetDefaultAddress(ctx context.Context, userID, addressID uint) (*models.Address, error) {
	defer metrics.ObserveQuery("address_update", time.Now())

	var address models.Address
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&address, addressID).Error; err != nil {
			return err
		}
		err := tx.Model(&models.Address{}).
			Where("user_id = ? AND id <> ?", userID, addressID).
			Update("is_default", false).Error
		if err != nil {
			return err
		}
		if err := tx.Model(&address).Update("is_default", true).Error; err != nil {
			return err
		}
		address.IsDefault = true
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &address, nil
}
