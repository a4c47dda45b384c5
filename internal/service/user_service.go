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
	"github.com/Chawketodeh/eventy-events-platform/pkg/database"
	"github.com/Chawketodeh/eventy-events-platform/pkg/identity"
	"github.com/Chawketodeh/eventy-events-platform/pkg/utils"
)

// placeholderEmailDomain is used for users whose claims carry no email, so
// that the unique email index still holds.
const placeholderEmailDomain = "@users.invalid"

type UserService struct {
	userRepo  *repository.UserRepository
	metadata  identity.MetadataWriter
	validator *utils.Validator
	logger    *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, metadata identity.MetadataWriter, validator *utils.Validator, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		metadata:  metadata,
		validator: validator,
		logger:    logger.Named("user"),
	}
}

// ResolveActor fills in the local user id of actor. An actor without a
// local user record is unauthorized.
func (s *UserService) ResolveActor(ctx context.Context, actor policy.Actor) (policy.Actor, error) {
	if !actor.Authenticated() {
		return actor, apperror.Unauthorized("authentication required")
	}
	if actor.UserID != "" {
		return actor, nil
	}
	user, err := s.userRepo.GetByClerkID(ctx, actor.ClerkID)
	if isNotFound(err) {
		return actor, apperror.Unauthorized("no user record for this account")
	}
	if err != nil {
		return actor, fmt.Errorf("failed to resolve actor: %w", err)
	}
	actor.UserID = user.ID
	return actor, nil
}

// RequireUser returns the local user behind actor.
func (s *UserService) RequireUser(ctx context.Context, actor policy.Actor) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, apperror.Unauthorized("authentication required")
	}
	user, err := s.userRepo.GetByClerkID(ctx, actor.ClerkID)
	if isNotFound(err) {
		return nil, apperror.Unauthorized("no user record for this account")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// EnsureUser returns the user for profile.ClerkID, creating it first when
// it does not exist yet. Creation is idempotent on the Clerk id.
func (s *UserService) EnsureUser(ctx context.Context, profile models.IdentityUser) (*models.User, error) {
	user, created, err := s.ensure(ctx, profile)
	if err != nil {
		return nil, err
	}
	if created {
		// the user.created webhook writes the metadata again
		if err := s.metadata.SetUserID(ctx, user.ClerkID, user.ID); err != nil {
			s.logger.Warn("failed to write identity metadata", zap.String("clerk_id", user.ClerkID), zap.Error(err))
		}
	}
	return user, nil
}

func (s *UserService) ensure(ctx context.Context, profile models.IdentityUser) (*models.User, bool, error) {
	if profile.ClerkID == "" {
		return nil, false, apperror.Validation("identity id is required")
	}

	existing, err := s.userRepo.GetByClerkID(ctx, profile.ClerkID)
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	email := strings.TrimSpace(profile.Email)
	if email == "" {
		email = profile.ClerkID + placeholderEmailDomain
	}
	user := &models.User{
		ClerkID:   profile.ClerkID,
		Email:     email,
		Username:  strings.TrimSpace(profile.Username),
		FirstName: strings.TrimSpace(profile.FirstName),
		LastName:  strings.TrimSpace(profile.LastName),
		Photo:     profile.Photo,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if database.IsDuplicateKey(err) {
			// lost a race with a concurrent create for the same account
			if existing, lookupErr := s.userRepo.GetByClerkID(ctx, profile.ClerkID); lookupErr == nil {
				return existing, false, nil
			}
			return nil, false, apperror.Conflict("user", profile.ClerkID)
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("clerk_id", user.ClerkID))
	return user, true, nil
}

func (s *UserService) UpdateFromIdentity(ctx context.Context, profile models.IdentityUser) (*models.User, error) {
	user, err := s.userRepo.GetByClerkID(ctx, profile.ClerkID)
	if err != nil {
		return nil, err
	}

	user.Username = strings.TrimSpace(profile.Username)
	user.FirstName = strings.TrimSpace(profile.FirstName)
	user.LastName = strings.TrimSpace(profile.LastName)
	user.Photo = profile.Photo

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteByClerkID deletes the user together with the events they organize.
func (s *UserService) DeleteByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	user, err := s.userRepo.DeleteByClerkID(ctx, clerkID)
	if err != nil {
		if isNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info("user deleted", zap.String("user_id", user.ID), zap.String("clerk_id", clerkID))
	return user, nil
}

// DeleteUser removes user id and the events they organize on behalf of
// actor. Only the user themselves or an admin may do this.
func (s *UserService) DeleteUser(ctx context.Context, actor policy.Actor, id string) error {
	actor, err := s.ResolveActor(ctx, actor)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, user) {
		return apperror.Unauthorized("not allowed to delete this user")
	}

	if _, err := s.userRepo.DeleteByID(ctx, id); err != nil {
		if isNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("by", actor.UserID))
	return nil
}

// HandleIdentityEvent applies a verified Clerk webhook. Unknown event types
// are ignored.
func (s *UserService) HandleIdentityEvent(ctx context.Context, evt *identity.Event) error {
	switch evt.Type {
	case identity.EventUserCreated:
		user, _, err := s.ensure(ctx, evt.User)
		if err != nil {
			return err
		}
		// written on every delivery so that a failed write is retried
		return s.metadata.SetUserID(ctx, user.ClerkID, user.ID)
	case identity.EventUserUpdated:
		_, err := s.UpdateFromIdentity(ctx, evt.User)
		return err
	case identity.EventUserDeleted:
		_, err := s.DeleteByClerkID(ctx, evt.User.ClerkID)
		if isNotFound(err) {
			return nil
		}
		return err
	}
	s.logger.Debug("ignoring identity event", zap.String("type", evt.Type))
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, actor policy.Actor) ([]models.User, error) {
	if !actor.IsAdmin {
		return nil, apperror.Forbidden("admin access required")
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies the non-nil fields of req to user id.
func (s *UserService) UpdateUser(ctx context.Context, actor policy.Actor, id string, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, validationError(err)
	}

	actor, err := s.ResolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, user) {
		return nil, apperror.Unauthorized("not allowed to update this user")
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Photo != nil {
		user.Photo = *req.Photo
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
