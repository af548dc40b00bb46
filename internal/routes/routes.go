// Package routes assembles services, handlers and the fiber app.
package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/config"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/audit"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/chat"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/marketplace"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/subscription"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/storage"
)

type Options struct {
	Config   config.Config
	DB       *gorm.DB
	Notifier realtime.Notifier
	Uploader storage.Uploader
	// RequestLog enables the access log middleware.
	RequestLog bool
}

// Server owns the long-lived pieces main has to start and stop.
type Server struct {
	App   *fiber.App
	Hub   *realtime.Hub
	Subs  *subscription.Service
	Audit *audit.Dispatcher
}

func New(opts Options) *Server {
	cfg := opts.Config
	gdb := opts.DB

	auditLog := audit.New(gdb)
	dispatcher := audit.NewDispatcher(auditLog)
	hub := realtime.NewHub()

	subs := subscription.NewService(gdb, cfg.SubscriptionFee, cfg.SubscriptionDays, dispatcher)
	market := marketplace.NewService(gdb, subs, dispatcher)
	relay := chat.NewRelay(gdb, hub, market, opts.Notifier)

	session := handlers.Session{JWTSecret: cfg.JWTSecret, Expires: cfg.JWTExpiresMin, Secure: cfg.CookieSecure}
	authH := &handlers.AuthHandler{DB: gdb, Session: session}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		Session:         session,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	listingH := handlers.NewListingHandler(market)
	bidH := handlers.NewBidHandler(market)
	reviewH := handlers.NewReviewHandler(market)
	categoryH := handlers.NewCategoryHandler(market)
	subH := handlers.NewSubscriptionHandler(subs)
	dashH := handlers.NewRepairmanDashboardHandler(market, subs)
	chatH := handlers.NewChatHandler(hub, relay)
	uploadH := &handlers.UploadHandler{Uploader: opts.Uploader}
	adminH := &handlers.AdminHandler{DB: gdb, Market: market, Subs: subs, Audit: dispatcher, Logs: auditLog}

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		BodyLimit:    storage.MaxImageSize + 1024*1024,
	})

	app.Use(recover.New())
	if opts.RequestLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.TrimSpace(cfg.CORSOrigins),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	if !cfg.UseS3() {
		app.Static("/uploads", cfg.UploadDir)
	}

	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	auth := middleware.JWTFromCookie(cfg.JWTSecret)
	locals := middleware.AttachJWTLocals()

	app.Get("/ws", middleware.RequireUpgrade(), auth, locals, websocket.New(chatH.WebSocketHandler))

	api := app.Group("/api")

	// public
	api.Post("/register", authH.Register)
	api.Post("/login", authH.Login)
	api.Post("/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	api.Get("/listings", listingH.GetListings)
	api.Get("/listings/category/:category", listingH.GetByCategory)
	api.Get("/listings/:id", listingH.GetListing)
	api.Get("/listings/:id/bids", bidH.ListBids)
	api.Get("/categories", categoryH.GetCategories)
	api.Get("/repairmen/:id/reviews", reviewH.RepairmanReviews)

	// session required
	protected := api.Group("/", auth, locals)
	protected.Get("/user", authH.Me)
	protected.Post("/upload", uploadH.Upload)

	protected.Post("/listings", listingH.CreateListing)
	protected.Delete("/listings/:id", listingH.DeleteListing)
	protected.Post("/listings/:id/accept-bid/:bidId", bidH.AcceptBid)
	protected.Get("/listings/:id/messages", chatH.GetMessages)
	protected.Post("/listings/:id/reviews", reviewH.CreateReview)

	repairman := middleware.RequireRepairman(gdb)
	protected.Post("/listings/:id/bids", repairman, bidH.CreateBid)
	protected.Post("/listings/:id/complete", repairman, listingH.Complete)
	protected.Get("/bids/repairman", repairman, bidH.MyBids)
	protected.Post("/subscription", repairman, subH.Create)
	protected.Get("/subscription", subH.Latest)
	protected.Get("/repairman/dashboard", repairman, dashH.GetDashboardStats)

	admin := protected.Group("/admin", middleware.RequireRoles(string(models.RoleAdmin)))
	admin.Get("/users", adminH.ListUsers)
	admin.Post("/users/:id/toggle-block", adminH.ToggleBlock)
	admin.Delete("/listings/:id", adminH.DeleteListing)
	admin.Get("/subscriptions/pending", adminH.PendingSubscriptions)
	admin.Post("/subscriptions/:id/verify", adminH.VerifySubscription)
	admin.Post("/subscriptions/:id/reject", adminH.RejectSubscription)
	admin.Get("/audit-logs", adminH.AuditLogs)

	return &Server{App: app, Hub: hub, Subs: subs, Audit: dispatcher}
}

// Close drains the audit queue. Call after the app stops serving.
func (s *Server) Close() {
	s.Audit.Close()
}
