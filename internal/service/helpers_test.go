package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/policy"
	"github.com/Chawketodeh/eventy-events-platform/internal/repository"
	"github.com/Chawketodeh/eventy-events-platform/internal/testutil"
	"github.com/Chawketodeh/eventy-events-platform/pkg/email"
	"github.com/Chawketodeh/eventy-events-platform/pkg/metrics"
	"github.com/Chawketodeh/eventy-events-platform/pkg/payment"
	"github.com/Chawketodeh/eventy-events-platform/pkg/qrcode"
	"github.com/Chawketodeh/eventy-events-platform/pkg/utils"
)

type fakeMetadata struct {
	mu    sync.Mutex
	calls map[string]string
	err   error
}

func (f *fakeMetadata) SetUserID(_ context.Context, clerkID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.calls == nil {
		f.calls = map[string]string{}
	}
	f.calls[clerkID] = userID
	return nil
}

type fakeCheckout struct {
	last *payment.CheckoutRequest
	err  error
}

func (f *fakeCheckout) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*models.CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.last = &req
	return &models.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []email.OrderConfirmation
	err  error
}

func (f *fakeMailer) SendOrderConfirmation(_ context.Context, msg email.OrderConfirmation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeImages) Upload(context.Context, string, string, int64, io.Reader) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeImages) Delete(_ context.Context, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, imageURL)
	return f.err
}

type env struct {
	db         *gorm.DB
	images     *fakeImages
	metadata   *fakeMetadata
	checkout   *fakeCheckout
	mailer     *fakeMailer
	metrics    *metrics.Metrics
	users      *UserService
	events     *EventService
	categories *CategoryService
	orders     *OrderService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()
	v := utils.NewValidator()

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	e := &env{
		db:       db,
		images:   &fakeImages{},
		metadata: &fakeMetadata{},
		checkout: &fakeCheckout{},
		mailer:   &fakeMailer{},
		metrics:  metrics.New(),
	}
	e.users = NewUserService(userRepo, e.metadata, v, log)
	e.events = NewEventService(eventRepo, categoryRepo, e.users, e.images, v, log)
	e.categories = NewCategoryService(categoryRepo, v)
	e.orders = NewOrderService(OrderServiceDeps{
		OrderRepo: orderRepo,
		EventRepo: eventRepo,
		UserRepo:  userRepo,
		Users:     e.users,
		Checkout:  e.checkout,
		Mailer:    e.mailer,
		Tickets:   qrcode.NewTicketService("https://eventy.app"),
		Metrics:   e.metrics,
		PublicURL: "https://eventy.app/",
		Logger:    log,
	})
	return e
}

var (
	admin = policy.Actor{ClerkID: "clerk_admin", IsAdmin: true}
	start = time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
)

func actorFor(u *models.User) policy.Actor {
	return policy.Actor{ClerkID: u.ClerkID}
}

func (e *env) user(t *testing.T, clerkID, first, last string) *models.User {
	t.Helper()
	u, err := e.users.EnsureUser(context.Background(), models.IdentityUser{
		ClerkID:   clerkID,
		Email:     clerkID + "@example.com",
		FirstName: first,
		LastName:  last,
	})
	require.NoError(t, err)
	return u
}

func (e *env) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c, err := e.categories.Create(context.Background(), admin, models.CategoryRequest{Name: name})
	require.NoError(t, err)
	return c
}

func eventRequest(title string, category *models.Category) models.EventRequest {
	req := models.EventRequest{
		Title:         title,
		Description:   "about " + title,
		Location:      "Berlin",
		ImageURL:      "https://cdn.example.com/" + title + ".png",
		StartDateTime: start,
		EndDateTime:   start.Add(2 * time.Hour),
		Price:         25,
	}
	if category != nil {
		req.CategoryID = category.ID
	}
	return req
}

func (e *env) event(t *testing.T, organizer *models.User, title string, category *models.Category) *models.Event {
	t.Helper()
	ev, err := e.events.CreateEvent(context.Background(), actorFor(organizer), models.IdentityUser{}, eventRequest(title, category))
	require.NoError(t, err)
	return ev
}

var errBoom = errors.New("boom")
