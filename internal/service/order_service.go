package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/policy"
	"github.com/Chawketodeh/eventy-events-platform/internal/repository"
	"github.com/Chawketodeh/eventy-events-platform/pkg/email"
	"github.com/Chawketodeh/eventy-events-platform/pkg/metrics"
	"github.com/Chawketodeh/eventy-events-platform/pkg/payment"
	"github.com/Chawketodeh/eventy-events-platform/pkg/qrcode"
	"github.com/Chawketodeh/eventy-events-platform/pkg/utils"
)

const freeOrderPrefix = "free_"

// CheckoutProvider opens a hosted payment page for one ticket.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*models.CheckoutSession, error)
}

type OrderService struct {
	orderRepo *repository.OrderRepository
	eventRepo *repository.EventRepository
	userRepo  *repository.UserRepository
	users     *UserService
	checkout  CheckoutProvider
	mailer    email.Mailer
	tickets   *qrcode.TicketService
	metrics   *metrics.Metrics
	publicURL string
	logger    *zap.Logger
	now       func() time.Time
}

type OrderServiceDeps struct {
	OrderRepo *repository.OrderRepository
	EventRepo *repository.EventRepository
	UserRepo  *repository.UserRepository
	Users     *UserService
	Checkout  CheckoutProvider
	Mailer    email.Mailer
	Tickets   *qrcode.TicketService
	Metrics   *metrics.Metrics
	PublicURL string
	Logger    *zap.Logger
}

func NewOrderService(deps OrderServiceDeps) *OrderService {
	return &OrderService{
		orderRepo: deps.OrderRepo,
		eventRepo: deps.EventRepo,
		userRepo:  deps.UserRepo,
		users:     deps.Users,
		checkout:  deps.Checkout,
		mailer:    deps.Mailer,
		tickets:   deps.Tickets,
		metrics:   deps.Metrics,
		publicURL: strings.TrimRight(deps.PublicURL, "/"),
		logger:    deps.Logger.Named("order"),
		now:       time.Now,
	}
}

// Checkout starts a purchase of one ticket for eventID. Paid events return
// a Stripe Checkout session; free events are recorded right away and the
// returned session points at the buyer's profile.
func (s *OrderService) Checkout(ctx context.Context, actor policy.Actor, eventID string) (*models.CheckoutSession, error) {
	buyer, err := s.users.RequireUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Expired(s.now()) {
		return nil, apperror.Validation("event has already ended")
	}

	if event.IsFree || payment.UnitAmount(event.Price) == 0 {
		order := &models.Order{
			StripeID:    freeOrderPrefix + uuid.NewString(),
			TotalAmount: 0,
			EventID:     event.ID,
			BuyerID:     buyer.ID,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to record free order: %w", err)
		}
		s.metrics.OrdersCreated.WithLabelValues("free").Inc()
		s.notify(ctx, order, event, buyer)
		return &models.CheckoutSession{ID: order.StripeID, URL: s.publicURL + "/profile"}, nil
	}

	return s.checkout.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		EventID:    event.ID,
		EventTitle: event.Title,
		BuyerID:    buyer.ID,
		Price:      event.Price,
		SuccessURL: s.publicURL + "/profile",
		CancelURL:  s.publicURL + "/",
	})
}

// resolveBuyer accepts either a local user id or, for sessions created by
// older clients, a Clerk id.
func (s *OrderService) resolveBuyer(ctx context.Context, buyerID string) (*models.User, error) {
	if buyerID == "" {
		return nil, apperror.Integrity("checkout session has no buyer")
	}
	user, err := s.userRepo.GetByID(ctx, buyerID)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	user, err = s.userRepo.GetByClerkID(ctx, buyerID)
	if isNotFound(err) {
		return nil, apperror.Integrity("no user for checkout buyer " + buyerID)
	}
	return user, err
}

// ReconcileCheckout records the order for a completed checkout exactly once.
// created is false when the session had already been recorded.
func (s *OrderService) ReconcileCheckout(ctx context.Context, completed *models.CompletedCheckout) (*models.Order, bool, error) {
	if completed.SessionID == "" || completed.EventID == "" {
		return nil, false, apperror.Integrity("checkout session is missing its id or event")
	}

	buyer, err := s.resolveBuyer(ctx, completed.BuyerID)
	if err != nil {
		return nil, false, err
	}

	order := &models.Order{
		StripeID:    completed.SessionID,
		TotalAmount: float64(completed.AmountTotal) / 100,
		EventID:     completed.EventID,
		BuyerID:     buyer.ID,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			existing, lookupErr := s.orderRepo.GetByStripeID(ctx, completed.SessionID)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			s.logger.Info("checkout already recorded", zap.String("stripe_id", completed.SessionID))
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to record order: %w", err)
	}

	s.metrics.OrdersCreated.WithLabelValues("stripe").Inc()
	s.logger.Info("order recorded",
		zap.String("order_id", order.ID),
		zap.String("stripe_id", order.StripeID),
		zap.Float64("amount", order.TotalAmount),
	)

	if event, err := s.eventRepo.GetByID(ctx, order.EventID); err == nil {
		s.notify(ctx, order, event, buyer)
	} else {
		s.logger.Warn("order for unknown event", zap.String("event_id", order.EventID), zap.Error(err))
	}
	return order, true, nil
}

// notify sends the confirmation email. Failures are logged only.
func (s *OrderService) notify(ctx context.Context, order *models.Order, event *models.Event, buyer *models.User) {
	err := s.mailer.SendOrderConfirmation(ctx, email.OrderConfirmation{
		To:         buyer.Email,
		FullName:   buyer.FullName(),
		OrderID:    order.ID,
		EventTitle: event.Title,
		Location:   event.Location,
		StartsAt:   event.StartDateTime,
		Amount:     order.TotalAmount,
		TicketURL:  s.tickets.TicketURL(order.ID),
	})
	if err != nil {
		s.logger.Warn("failed to send order confirmation", zap.String("order_id", order.ID), zap.Error(err))
	}
}

// ListOrdersByEvent is the organizer's order report for one event.
func (s *OrderService) ListOrdersByEvent(ctx context.Context, actor policy.Actor, eventID, search string) ([]models.OrderItem, error) {
	actor, err := s.users.ResolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, event) {
		return nil, apperror.Unauthorized("only the organizer or an admin can view orders")
	}

	items, err := s.orderRepo.ListByEvent(ctx, eventID, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return items, nil
}

// ListOrdersByBuyer returns the caller's own orders, newest first.
func (s *OrderService) ListOrdersByBuyer(ctx context.Context, actor policy.Actor, page int) (models.OrderPage, error) {
	buyer, err := s.users.RequireUser(ctx, actor)
	if err != nil {
		return models.OrderPage{Data: []models.Order{}}, err
	}

	_, limit, offset := utils.Paginate(page, utils.OrderHistoryPageSize, utils.OrderHistoryPageSize)
	orders, count, err := s.orderRepo.ListByBuyer(ctx, buyer.ID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list buyer orders", zap.Error(err), zap.String("buyer_id", buyer.ID))
		return models.OrderPage{Data: []models.Order{}}, nil
	}
	return models.OrderPage{Data: orders, TotalPages: utils.TotalPages(count, limit)}, nil
}

// Ticket renders the QR code for an order. Only its buyer or an admin may
// fetch it.
func (s *OrderService) Ticket(ctx context.Context, actor policy.Actor, orderID string) ([]byte, error) {
	actor, err := s.users.ResolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && order.BuyerID != actor.UserID {
		return nil, apperror.Unauthorized("only the buyer can view this ticket")
	}
	return s.tickets.PNG(order.ID, qrcode.DefaultSize)
}
