package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chawketodeh/eventy-events-platform/internal/config"
	"github.com/Chawketodeh/eventy-events-platform/internal/controller"
	"github.com/Chawketodeh/eventy-events-platform/internal/handler"
	"github.com/Chawketodeh/eventy-events-platform/internal/middleware"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/repository"
	"github.com/Chawketodeh/eventy-events-platform/internal/service"
	"github.com/Chawketodeh/eventy-events-platform/pkg/email"
	"github.com/Chawketodeh/eventy-events-platform/pkg/identity"
	"github.com/Chawketodeh/eventy-events-platform/pkg/metrics"
	"github.com/Chawketodeh/eventy-events-platform/pkg/qrcode"
	"github.com/Chawketodeh/eventy-events-platform/pkg/storage"
	"github.com/Chawketodeh/eventy-events-platform/pkg/utils"
)

const bodyLimit = 5 << 20

// Deps carries everything the HTTP layer is built from. Optional
// integrations are left nil when they are not configured.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	Tokens          middleware.TokenVerifier
	Metadata        identity.MetadataWriter
	IdentityWebhook handler.IdentityWebhookParser
	Checkout        service.CheckoutProvider
	StripeWebhook   controller.WebhookParser
	Mailer          email.Mailer
	Images          storage.ImageStore

	// RateLimitStorage backs the limiter; nil keeps counters in memory.
	RateLimitStorage fiber.Storage
}

// New builds the repositories, services and handlers and registers every
// route on a fresh fiber app.
func New(deps Deps) *fiber.App {
	cfg := deps.Config
	log := deps.Logger
	if deps.Metadata == nil {
		deps.Metadata = identity.NoopMetadataWriter{}
	}
	if deps.Mailer == nil {
		deps.Mailer = email.NoopMailer{}
	}

	validator := utils.NewValidator()

	userRepo := repository.NewUserRepository(deps.DB)
	eventRepo := repository.NewEventRepository(deps.DB)
	categoryRepo := repository.NewCategoryRepository(deps.DB)
	orderRepo := repository.NewOrderRepository(deps.DB)

	userService := service.NewUserService(userRepo, deps.Metadata, validator, log)
	eventService := service.NewEventService(eventRepo, categoryRepo, userService, deps.Images, validator, log)
	categoryService := service.NewCategoryService(categoryRepo, validator)
	orderService := service.NewOrderService(service.OrderServiceDeps{
		OrderRepo: orderRepo,
		EventRepo: eventRepo,
		UserRepo:  userRepo,
		Users:     userService,
		Checkout:  deps.Checkout,
		Mailer:    deps.Mailer,
		Tickets:   qrcode.NewTicketService(cfg.PublicServerURL),
		Metrics:   deps.Metrics,
		PublicURL: cfg.PublicServerURL,
		Logger:    log,
	})

	paymentController := controller.NewPaymentController(orderService, deps.StripeWebhook, deps.Metrics, log)

	eventHandler := handler.NewEventHandler(eventService, userService, log)
	userHandler := handler.NewUserHandler(userService, log)
	categoryHandler := handler.NewCategoryHandler(categoryService, log)
	paymentHandler := handler.NewPaymentHandler(paymentController, userService, log)
	webhookHandler := handler.NewWebhookHandler(deps.IdentityWebhook, userService, deps.Metrics, log)
	uploadHandler := handler.NewUploadHandler(deps.Images, validator, log)
	systemHandler := handler.NewSystemHandler(deps.DB, cfg.GoogleMapsAPIKey)

	app := fiber.New(fiber.Config{
		AppName:      "eventy",
		BodyLimit:    bodyLimit,
		JSONEncoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			} else {
				log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(models.ErrorResponse(message))
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.Metrics(deps.Metrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))

	app.Get("/healthz", systemHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Webhooks are server to server and stay outside the rate limiter.
	webhooks := api.Group("/webhook")
	webhooks.Post("/clerk", webhookHandler.HandleClerkWebhook)
	webhooks.Post("/stripe", paymentHandler.HandleStripeWebhook)

	rateLimit := limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 1 * time.Minute,
		Storage:    deps.RateLimitStorage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse("Too many requests"))
		},
	})
	api.Use(rateLimit)
	api.Use(middleware.AuthMiddleware(deps.Tokens))
	auth := middleware.RequireAuth()

	api.Get("/config", systemHandler.GetConfig)

	events := api.Group("/events")
	events.Get("/", eventHandler.ListEvents)
	events.Get("/search", eventHandler.SearchEvents)
	events.Get("/:id", eventHandler.GetEvent)
	events.Get("/:id/related", eventHandler.GetRelatedEvents)
	events.Get("/:id/orders", auth, paymentHandler.GetEventOrders)
	events.Post("/", auth, eventHandler.CreateEvent)
	events.Put("/:id", auth, eventHandler.UpdateEvent)
	events.Delete("/:id", auth, eventHandler.DeleteEvent)

	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.ListCategories)
	categories.Get("/:id", categoryHandler.GetCategory)
	categories.Post("/", auth, categoryHandler.CreateCategory)
	categories.Put("/:id", auth, categoryHandler.UpdateCategory)
	categories.Delete("/:id", auth, categoryHandler.DeleteCategory)

	users := api.Group("/users", auth)
	users.Get("/", userHandler.ListUsers)
	users.Get("/me/events", eventHandler.GetMyEvents)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	orders := api.Group("/orders", auth)
	orders.Get("/", paymentHandler.GetPurchaseHistory)
	orders.Post("/checkout/:eventId", paymentHandler.CreateCheckoutSession)
	orders.Get("/:id/ticket", paymentHandler.GetTicket)

	api.Post("/uploads", auth, uploadHandler.UploadImage)

	return app
}
