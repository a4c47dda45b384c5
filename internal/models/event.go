package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Title         string    `json:"title" gorm:"not null"`
	Description   string    `json:"description" gorm:"not null;default:''"`
	Location      string    `json:"location" gorm:"not null;default:''"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	ImageURL      string    `json:"image_url" gorm:"not null"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
	Price         float64   `json:"price" gorm:"not null;default:0"`
	IsFree        bool      `json:"is_free" gorm:"not null;default:false"`
	URL           string    `json:"url" gorm:"not null;default:''"`
	CategoryID    *string   `json:"category_id,omitempty" gorm:"size:36;index"`
	Category      *Category `json:"category,omitempty"`
	OrganizerID   string    `json:"organizer_id" gorm:"size:36;not null;index"`
	Organizer     *User     `json:"organizer,omitempty"`
	SchemaVersion int       `json:"-" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	newID(&e.ID)
	return nil
}

// BeforeSave runs on create and update, so rewritten legacy rows are
// upgraded to the current schema version.
func (e *Event) BeforeSave(tx *gorm.DB) error {
	stampVersion(&e.SchemaVersion)
	return nil
}

// AfterFind fills the defaults legacy rows were written without.
func (e *Event) AfterFind(tx *gorm.DB) error {
	if e.SchemaVersion > 0 {
		return nil
	}
	if e.StartDateTime.IsZero() {
		e.StartDateTime = e.CreatedAt
	}
	if e.EndDateTime.IsZero() {
		e.EndDateTime = e.StartDateTime
	}
	return nil
}

func (e *Event) OwnerID() string {
	return e.OrganizerID
}

// Expired reports whether the event has ended at the given instant.
func (e *Event) Expired(now time.Time) bool {
	return e.EndDateTime.Before(now)
}

type EventRequest struct {
	Title         string    `json:"title" validate:"required,max=200"`
	Description   string    `json:"description" validate:"max=5000"`
	Location      string    `json:"location" validate:"max=300"`
	Latitude      *float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude     *float64  `json:"longitude" validate:"omitempty,longitude"`
	ImageURL      string    `json:"image_url" validate:"required,url"`
	StartDateTime time.Time `json:"start_date_time" validate:"required"`
	EndDateTime   time.Time `json:"end_date_time" validate:"required,gtefield=StartDateTime"`
	Price         float64   `json:"price" validate:"gte=0"`
	IsFree        bool      `json:"is_free"`
	URL           string    `json:"url" validate:"omitempty,url"`
	CategoryID    string    `json:"category_id" validate:"omitempty,max=36"`
}

// Apply copies the mutable fields onto e. Organizer is never touched.
func (r *EventRequest) Apply(e *Event) {
	e.Title = r.Title
	e.Description = r.Description
	e.Location = r.Location
	e.Latitude = r.Latitude
	e.Longitude = r.Longitude
	e.ImageURL = r.ImageURL
	e.StartDateTime = r.StartDateTime
	e.EndDateTime = r.EndDateTime
	e.IsFree = r.IsFree
	e.Price = r.Price
	if r.IsFree {
		e.Price = 0
	}
	e.URL = r.URL
	e.CategoryID = nil
	e.Category = nil
	if r.CategoryID != "" {
		id := r.CategoryID
		e.CategoryID = &id
	}
}

// EventFilter is the compound filter built by the listing pipeline.
// Zero-valued fields contribute no constraint.
type EventFilter struct {
	TitleQuery  string
	CategoryID  string
	OrganizerID string
	ExcludeID   string
}

type ListEventsParams struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

type RelatedEventsParams struct {
	CategoryID string
	EventID    string
	Page       int
	Limit      int
}

type EventPage struct {
	Data       []Event `json:"data"`
	TotalPages int     `json:"total_pages"`
}

// UniqueEvents drops repeated ids, keeping the first occurrence.
func UniqueEvents(events []Event) []Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}
