package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Organizer", organizerColumns).
		Preload("Category", categoryColumns)
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := r.withRelations(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, notFound(err, "event", id)
	}
	return &event, nil
}

// Update writes every column of an existing event. Relations are not
// touched, and an event deleted in the meantime is not recreated.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	return updateExisting(r.db.WithContext(ctx), event, "event", event.ID)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("event", id)
	}
	return nil
}

// List returns one page of events matching filter, newest first, together
// with the total number of matches.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter, limit, offset int) ([]models.Event, int64, error) {
	var count int64
	if err := applyEventFilter(r.db.WithContext(ctx).Model(&models.Event{}), filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	events := []models.Event{}
	if count == 0 {
		return events, 0, nil
	}

	err := applyEventFilter(r.withRelations(ctx), filter).
		Order("created_at DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, count, nil
}

func applyEventFilter(db *gorm.DB, filter models.EventFilter) *gorm.DB {
	if filter.TitleQuery != "" {
		db = db.Where("LOWER(title) LIKE ?"+likeEscape, containsPattern(filter.TitleQuery))
	}
	if filter.CategoryID != "" {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if filter.OrganizerID != "" {
		db = db.Where("organizer_id = ?", filter.OrganizerID)
	}
	if filter.ExcludeID != "" {
		db = db.Where("id <> ?", filter.ExcludeID)
	}
	return db
}
