package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/pkg/database"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts order unless one with the same StripeID already exists,
// in which case an apperror.ErrConflict is returned and nothing is written.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_id"}},
			DoNothing: true,
		}).
		Create(order)
	if database.IsDuplicateKey(result.Error) {
		return apperror.Conflict("order", order.StripeID)
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.Conflict("order", order.StripeID)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return &order, nil
}

func (r *OrderRepository) GetByStripeID(ctx context.Context, stripeID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("stripe_id = ?", stripeID).First(&order).Error; err != nil {
		return nil, notFound(err, "order", stripeID)
	}
	return &order, nil
}

// ListByEvent joins orders with their buyer and event. search filters on the
// buyer's "first last" name, case-insensitively.
func (r *OrderRepository) ListByEvent(ctx context.Context, eventID, search string) ([]models.OrderItem, error) {
	const fullName = "users.first_name || ' ' || users.last_name"

	q := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.id AS order_id, orders.total_amount, orders.created_at, "+
			"events.title AS event_title, events.id AS event_id, "+fullName+" AS buyer_full_name").
		Joins("JOIN users ON users.id = orders.buyer_id").
		Joins("JOIN events ON events.id = orders.event_id").
		Where("orders.event_id = ?", eventID)
	if search != "" {
		q = q.Where("LOWER("+fullName+") LIKE ?"+likeEscape, containsPattern(search))
	}

	items := []models.OrderItem{}
	if err := q.Order("orders.created_at DESC").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListByBuyer returns one page of the buyer's orders with event and
// organizer attached, newest first.
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]models.Order, int64, error) {
	var count int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Order{}).Where("buyer_id = ?", buyerID).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	orders := []models.Order{}
	if count == 0 {
		return orders, 0, nil
	}
	err := db.
		Preload("Event").
		Preload("Event.Organizer", organizerColumns).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}
