package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Chawketodeh/eventy-events-platform/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (r *UserRepository) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("clerk_id = ?", clerkID).First(&user).Error; err != nil {
		return nil, notFound(err, "user", clerkID)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return updateExisting(r.db.WithContext(ctx), user, "user", user.ID)
}

// DeleteByClerkID removes the user and every event they organize in one
// transaction. Orders are left in place.
func (r *UserRepository) DeleteByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	return r.deleteWhere(ctx, "clerk_id", clerkID)
}

// DeleteByID is DeleteByClerkID keyed by the local user id.
func (r *UserRepository) DeleteByID(ctx context.Context, id string) (*models.User, error) {
	return r.deleteWhere(ctx, "id", id)
}

func (r *UserRepository) deleteWhere(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(column+" = ?", value).First(&user).Error; err != nil {
			return notFound(err, "user", value)
		}
		if err := tx.Where("organizer_id = ?", user.ID).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
