package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/policy"
	"github.com/Chawketodeh/eventy-events-platform/pkg/identity"
)

func TestEnsureUserIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.users.EnsureUser(ctx, models.IdentityUser{ClerkID: "clerk_1", Email: "ada@example.com", FirstName: " Ada "})
	require.NoError(t, err)
	assert.Equal(t, "Ada", first.FirstName)

	second, err := e.users.EnsureUser(ctx, models.IdentityUser{ClerkID: "clerk_1", Email: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ada@example.com", second.Email)

	noEmail, err := e.users.EnsureUser(ctx, models.IdentityUser{ClerkID: "clerk_2"})
	require.NoError(t, err)
	assert.Equal(t, "clerk_2@users.invalid", noEmail.Email)

	_, err = e.users.EnsureUser(ctx, models.IdentityUser{})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestEnsureUserToleratesMetadataFailure(t *testing.T) {
	e := newEnv(t)
	e.metadata.err = errBoom

	u, err := e.users.EnsureUser(context.Background(), models.IdentityUser{ClerkID: "clerk_1", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "clerk_1", u.ClerkID)
}

func TestUserCreatedWebhookRetriesMetadata(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	evt := &identity.Event{
		Type: identity.EventUserCreated,
		User: models.IdentityUser{ClerkID: "clerk_1", Email: "a@example.com"},
	}

	e.metadata.err = errBoom
	assert.ErrorIs(t, e.users.HandleIdentityEvent(ctx, evt), errBoom)

	e.metadata.err = nil
	require.NoError(t, e.users.HandleIdentityEvent(ctx, evt))
	u, err := e.users.RequireUser(ctx, policy.Actor{ClerkID: "clerk_1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, e.metadata.calls["clerk_1"])

	var count int64
	require.NoError(t, e.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResolveActor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "clerk_1", "Ada", "Lovelace")

	actor, err := e.users.ResolveActor(ctx, policy.Actor{ClerkID: "clerk_1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, actor.UserID)

	_, err = e.users.ResolveActor(ctx, policy.Actor{ClerkID: "clerk_ghost"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = e.users.ResolveActor(ctx, policy.Actor{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestUpdateUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := e.user(t, "clerk_1", "Ada", "Lovelace")
	u2 := e.user(t, "clerk_2", "Alan", "Turing")
	e.user(t, admin.ClerkID, "Root", "Admin")

	name := "Augusta"
	updated, err := e.users.UpdateUser(ctx, actorFor(u1), u1.ID, models.UpdateUserRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "Lovelace", updated.LastName, "absent fields are kept")

	_, err = e.users.UpdateUser(ctx, actorFor(u1), u2.ID, models.UpdateUserRequest{FirstName: &name})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	updated, err = e.users.UpdateUser(ctx, admin, u2.ID, models.UpdateUserRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)

	_, err = e.users.UpdateUser(ctx, admin, "missing", models.UpdateUserRequest{FirstName: &name})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	bad := "not a url"
	_, err = e.users.UpdateUser(ctx, actorFor(u1), u1.ID, models.UpdateUserRequest{Photo: &bad})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListUsersIsAdminOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := e.user(t, "clerk_1", "Ada", "Lovelace")

	_, err := e.users.ListUsers(ctx, actorFor(u1))
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	users, err := e.users.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestHandleIdentityEvents(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.users.HandleIdentityEvent(ctx, &identity.Event{
		Type: identity.EventUserCreated,
		User: models.IdentityUser{ClerkID: "clerk_1", Email: "ada@example.com", FirstName: "Ada"},
	}))
	u, err := e.users.RequireUser(ctx, policy.Actor{ClerkID: "clerk_1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, e.metadata.calls["clerk_1"])

	require.NoError(t, e.users.HandleIdentityEvent(ctx, &identity.Event{
		Type: identity.EventUserUpdated,
		User: models.IdentityUser{ClerkID: "clerk_1", FirstName: "Augusta", LastName: "King", Username: "ak"},
	}))
	u, err = e.users.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta King", u.FullName())
	assert.Equal(t, "ak", u.Username)
	assert.Equal(t, "ada@example.com", u.Email)

	err = e.users.HandleIdentityEvent(ctx, &identity.Event{Type: identity.EventUserUpdated, User: models.IdentityUser{ClerkID: "clerk_ghost"}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, e.users.HandleIdentityEvent(ctx, &identity.Event{Type: "session.created", User: models.IdentityUser{ClerkID: "clerk_1"}}))

	require.NoError(t, e.users.HandleIdentityEvent(ctx, &identity.Event{Type: identity.EventUserDeleted, User: models.IdentityUser{ClerkID: "clerk_1"}}))
	_, err = e.users.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// redelivery of a delete is a no-op
	require.NoError(t, e.users.HandleIdentityEvent(ctx, &identity.Event{Type: identity.EventUserDeleted, User: models.IdentityUser{ClerkID: "clerk_1"}}))
}

func TestDeleteUserCascadesEventsButKeepsOrders(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	org := e.user(t, "clerk_org", "Org", "Anizer")
	buyer := e.user(t, "clerk_buyer", "Ada", "Lovelace")
	ev := e.event(t, org, "Conf", nil)
	e.event(t, org, "Conf 2", nil)

	_, created, err := e.orders.ReconcileCheckout(ctx, &models.CompletedCheckout{SessionID: "cs_1", AmountTotal: 2500, EventID: ev.ID, BuyerID: buyer.ID})
	require.NoError(t, err)
	require.True(t, created)

	_, err = e.users.DeleteByClerkID(ctx, "clerk_org")
	require.NoError(t, err)

	assert.Empty(t, e.events.ListEventsByOrganizer(ctx, org.ID, 1, 10).Data)
	var orders int64
	require.NoError(t, e.db.Model(&models.Order{}).Where("event_id = ?", ev.ID).Count(&orders).Error)
	assert.EqualValues(t, 1, orders)
}

func TestDeleteUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	org := e.user(t, "clerk_org", "Org", "Anizer")
	other := e.user(t, "clerk_other", "Alan", "Turing")
	buyer := e.user(t, "clerk_buyer", "Ada", "Lovelace")
	e.user(t, admin.ClerkID, "Root", "Admin")
	ev := e.event(t, org, "Conf", nil)

	_, created, err := e.orders.ReconcileCheckout(ctx, &models.CompletedCheckout{SessionID: "cs_del", AmountTotal: 1000, EventID: ev.ID, BuyerID: buyer.ID})
	require.NoError(t, err)
	require.True(t, created)

	err = e.users.DeleteUser(ctx, actorFor(other), org.ID)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = e.users.GetUser(ctx, org.ID)
	require.NoError(t, err, "denied delete leaves the user")

	err = e.users.DeleteUser(ctx, policy.Actor{}, org.ID)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	err = e.users.DeleteUser(ctx, admin, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, e.users.DeleteUser(ctx, admin, org.ID))
	_, err = e.users.GetUser(ctx, org.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = e.events.GetEvent(ctx, ev.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var orders int64
	require.NoError(t, e.db.Model(&models.Order{}).Where("event_id = ?", ev.ID).Count(&orders).Error)
	assert.EqualValues(t, 1, orders)

	require.NoError(t, e.users.DeleteUser(ctx, actorFor(other), other.ID), "users may delete themselves")
}

func TestCategoryServiceAdminOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := policy.Actor{ClerkID: "clerk_1"}

	_, err := e.categories.Create(ctx, user, models.CategoryRequest{Name: "Music"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = e.categories.Create(ctx, policy.Actor{}, models.CategoryRequest{Name: "Music"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = e.categories.Create(ctx, admin, models.CategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	c, err := e.categories.Create(ctx, admin, models.CategoryRequest{Name: " Music "})
	require.NoError(t, err)
	assert.Equal(t, "Music", c.Name)

	_, err = e.categories.Update(ctx, user, c.ID, models.CategoryRequest{Name: "Jazz"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	c, err = e.categories.Update(ctx, admin, c.ID, models.CategoryRequest{Name: "Jazz"})
	require.NoError(t, err)
	assert.Equal(t, "Jazz", c.Name)

	assert.ErrorIs(t, e.categories.Delete(ctx, user, c.ID), apperror.ErrForbidden)
	require.NoError(t, e.categories.Delete(ctx, admin, c.ID))
	assert.ErrorIs(t, e.categories.Delete(ctx, admin, c.ID), apperror.ErrNotFound)

	list, err := e.categories.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
