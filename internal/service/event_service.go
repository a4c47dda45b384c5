package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/policy"
	"github.com/Chawketodeh/eventy-events-platform/internal/repository"
	"github.com/Chawketodeh/eventy-events-platform/pkg/storage"
	"github.com/Chawketodeh/eventy-events-platform/pkg/utils"
)

type EventService struct {
	eventRepo    *repository.EventRepository
	categoryRepo *repository.CategoryRepository
	users        *UserService
	images       storage.ImageStore
	validator    *utils.Validator
	logger       *zap.Logger
}

// NewEventService builds the service. images may be nil when no image
// storage is configured.
func NewEventService(eventRepo *repository.EventRepository, categoryRepo *repository.CategoryRepository, users *UserService, images storage.ImageStore, validator *utils.Validator, logger *zap.Logger) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		categoryRepo: categoryRepo,
		users:        users,
		images:       images,
		validator:    validator,
		logger:       logger.Named("event"),
	}
}

func (s *EventService) checkRequest(ctx context.Context, req *models.EventRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.CategoryID = strings.TrimSpace(req.CategoryID)
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}
	if req.CategoryID == "" {
		return nil
	}
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if isNotFound(err) {
			return apperror.Validation("unknown category " + req.CategoryID)
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	return nil
}

// CreateEvent stores a new event organized by the caller. The caller's local
// user record is created from profile when it does not exist yet.
func (s *EventService) CreateEvent(ctx context.Context, actor policy.Actor, profile models.IdentityUser, req models.EventRequest) (*models.Event, error) {
	if !actor.Authenticated() {
		return nil, apperror.Unauthorized("authentication required")
	}
	if err := s.checkRequest(ctx, &req); err != nil {
		return nil, err
	}

	profile.ClerkID = actor.ClerkID
	organizer, err := s.users.EnsureUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	event := &models.Event{OrganizerID: organizer.ID}
	req.Apply(event)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("organizer_id", organizer.ID))
	return s.eventRepo.GetByID(ctx, event.ID)
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// authorize loads the event and checks that actor may change it.
func (s *EventService) authorize(ctx context.Context, actor policy.Actor, id string) (*models.Event, error) {
	actor, err := s.users.ResolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, event) {
		return nil, apperror.Unauthorized("only the organizer or an admin can change this event")
	}
	return event, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, actor policy.Actor, id string, req models.EventRequest) (*models.Event, error) {
	if err := s.checkRequest(ctx, &req); err != nil {
		return nil, err
	}
	event, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	previousImage := event.ImageURL
	req.Apply(event)
	event.Organizer = nil
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if previousImage != event.ImageURL {
		s.removeImage(ctx, previousImage)
	}
	return s.eventRepo.GetByID(ctx, id)
}

// DeleteEvent removes the event. Orders for it are kept.
func (s *EventService) DeleteEvent(ctx context.Context, actor policy.Actor, id string) error {
	event, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	s.logger.Info("event deleted", zap.String("event_id", id))
	s.removeImage(ctx, event.ImageURL)
	return nil
}

// removeImage drops an image that is no longer referenced. The event write
// has already succeeded, so failures are only logged.
func (s *EventService) removeImage(ctx context.Context, imageURL string) {
	if s.images == nil || imageURL == "" {
		return
	}
	if err := s.images.Delete(ctx, imageURL); err != nil {
		s.logger.Warn("failed to delete event image", zap.String("image_url", imageURL), zap.Error(err))
	}
}

func emptyPage() models.EventPage {
	return models.EventPage{Data: []models.Event{}, TotalPages: 0}
}

func (s *EventService) list(ctx context.Context, filter models.EventFilter, page, limit, defaultLimit int) models.EventPage {
	page, limit, offset := utils.Paginate(page, limit, defaultLimit)
	events, count, err := s.eventRepo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list events", zap.Error(err), zap.Any("filter", filter))
		return emptyPage()
	}
	return models.EventPage{Data: events, TotalPages: utils.TotalPages(count, limit)}
}

// ListEvents is the public listing. A category name that matches no
// category does not narrow the result.
func (s *EventService) ListEvents(ctx context.Context, params models.ListEventsParams) models.EventPage {
	filter := models.EventFilter{TitleQuery: strings.TrimSpace(params.Query)}

	if name := strings.TrimSpace(params.Category); name != "" {
		category, err := s.categoryRepo.FindByName(ctx, name)
		switch {
		case err == nil:
			filter.CategoryID = category.ID
		case isNotFound(err):
		default:
			s.logger.Error("failed to resolve category", zap.Error(err), zap.String("category", name))
			return emptyPage()
		}
	}

	return s.list(ctx, filter, params.Page, params.Limit, utils.DefaultPageSize)
}

func (s *EventService) ListRelatedEvents(ctx context.Context, params models.RelatedEventsParams) models.EventPage {
	if params.CategoryID == "" {
		return emptyPage()
	}
	filter := models.EventFilter{CategoryID: params.CategoryID, ExcludeID: params.EventID}
	return s.list(ctx, filter, params.Page, params.Limit, utils.RelatedPageSize)
}

// ListRelatedToEvent looks the event up and lists others in its category.
// Only a missing event is reported; other failures degrade to an empty page.
func (s *EventService) ListRelatedToEvent(ctx context.Context, eventID string, page int) (models.EventPage, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if isNotFound(err) {
		return emptyPage(), err
	}
	if err != nil {
		s.logger.Error("failed to load event for related listing", zap.Error(err), zap.String("event_id", eventID))
		return emptyPage(), nil
	}
	if event.CategoryID == nil {
		return emptyPage(), nil
	}
	return s.ListRelatedEvents(ctx, models.RelatedEventsParams{
		CategoryID: *event.CategoryID,
		EventID:    event.ID,
		Page:       page,
	}), nil
}

func (s *EventService) ListEventsByOrganizer(ctx context.Context, organizerID string, page, limit int) models.EventPage {
	if organizerID == "" {
		return emptyPage()
	}
	return s.list(ctx, models.EventFilter{OrganizerID: organizerID}, page, limit, utils.DefaultPageSize)
}
