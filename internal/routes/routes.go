package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lefade-api/internal/apimetrics"
	"github.com/BruksfildServices01/lefade-api/internal/audit"
	"github.com/BruksfildServices01/lefade-api/internal/config"
	"github.com/BruksfildServices01/lefade-api/internal/domain/user"
	"github.com/BruksfildServices01/lefade-api/internal/handlers"
	"github.com/BruksfildServices01/lefade-api/internal/identity"
	infraRepo "github.com/BruksfildServices01/lefade-api/internal/infra/repository"
	"github.com/BruksfildServices01/lefade-api/internal/middleware"
	"github.com/BruksfildServices01/lefade-api/internal/payments"
	"github.com/BruksfildServices01/lefade-api/internal/plans"
	ucAdmin "github.com/BruksfildServices01/lefade-api/internal/usecase/admin"
	ucAppointment "github.com/BruksfildServices01/lefade-api/internal/usecase/appointment"
	ucIdentity "github.com/BruksfildServices01/lefade-api/internal/usecase/identity"
	ucKPI "github.com/BruksfildServices01/lefade-api/internal/usecase/kpi"
	ucPayment "github.com/BruksfildServices01/lefade-api/internal/usecase/payment"
	ucSubscription "github.com/BruksfildServices01/lefade-api/internal/usecase/subscription"
	ucWebhook "github.com/BruksfildServices01/lefade-api/internal/usecase/webhook"
)

// Deps are the process-wide collaborators built once at startup. Verifier,
// Redis and Audit may be nil.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Gateway  payments.Gateway
	Verifier identity.Verifier
	Catalog  *plans.Catalog
	Redis    *redis.Client
	Audit    *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestLogger(),
		middleware.CORS(cfg.CORSOrigins),
		apimetrics.Middleware(),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	paymentRepo := infraRepo.NewPaymentGormRepository(d.DB)
	subscriptionRepo := infraRepo.NewSubscriptionGormRepository(d.DB)
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	webhookRepo := infraRepo.NewWebhookEventGormRepository(d.DB)
	kpiRepo := infraRepo.NewKPIGormRepository(d.DB)

	// ======================================================
	// USE CASES
	// ======================================================
	resolver := ucIdentity.NewResolver(d.Verifier, userRepo, d.Audit)

	createBookingUC := ucAppointment.NewCreateBooking(appointmentRepo, d.Audit)
	listBookingsUC := ucAppointment.NewListBookings(appointmentRepo)
	cancelBookingUC := ucAppointment.NewCancelBooking(appointmentRepo, d.Gateway, d.Audit)
	closeAppointmentUC := ucAppointment.NewCloseAppointment(appointmentRepo, d.Audit)
	barberDayUC := ucAppointment.NewListForBarberDay(appointmentRepo)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)
	listBarbersUC := ucAppointment.NewListBarbers(appointmentRepo)
	weeklyHoursUC := ucAppointment.NewWeeklyHours(appointmentRepo, d.Audit)

	createIntentUC := ucPayment.NewCreateIntent(paymentRepo, d.Gateway, d.Audit)

	reconciler := ucWebhook.NewReconciler(paymentRepo, subscriptionRepo, webhookRepo, d.Catalog, d.Audit)

	listPlansUC := ucSubscription.NewListPlans(d.Catalog, d.Gateway)
	checkoutUC := ucSubscription.NewCheckout(d.Catalog, d.Gateway, cfg.AppURL, d.Audit)
	currentSubUC := ucSubscription.NewGetCurrent(subscriptionRepo)

	snapshotUC := ucKPI.NewGetSnapshot(kpiRepo, d.Gateway, d.Redis, cfg.DefaultTimezone)
	changeRoleUC := ucAdmin.NewChangeRole(userRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.DB)
	meHandler := handlers.NewMeHandler()
	bookingHandler := handlers.NewBookingHandler(createBookingUC, listBookingsUC, cancelBookingUC)
	paymentHandler := handlers.NewPaymentHandler(createIntentUC)
	webhookHandler := handlers.NewWebhookHandler(cfg.StripeWebhookSecret, reconciler)
	subscriptionHandler := handlers.NewSubscriptionHandler(listPlansUC, checkoutUC, currentSubUC)
	publicHandler := handlers.NewPublicHandler(listBarbersUC, availabilityUC, cfg.DefaultTimezone)
	barberHandler := handlers.NewBarberHandler(barberDayUC, closeAppointmentUC, cfg.DefaultTimezone)
	workingHoursHandler := handlers.NewWorkingHoursHandler(weeklyHoursUC)
	adminHandler := handlers.NewAdminHandler(snapshotUC, changeRoleUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(d.DB), cfg.DefaultTimezone)

	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Enabled: cfg.RateLimitEnabled,
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	}, d.Redis)

	// ======================================================
	// OPERATIONS
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api/v1")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/plans", subscriptionHandler.ListPlans)
		api.GET("/subscription-plans", subscriptionHandler.ListPrices)
		api.GET("/barbers", publicHandler.ListBarbers)
		api.GET("/barbers/:id/availability", publicHandler.Availability)

		// signature-verified, no bearer token
		api.POST("/webhooks/payment", webhookHandler.Payment)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.Auth(resolver))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/subscription", subscriptionHandler.Current)

			secured.POST("/bookings", limit, bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.PATCH("/bookings/:id/cancel", limit, bookingHandler.Cancel)

			secured.POST("/payments/intent", limit, paymentHandler.CreateIntent)
			secured.POST("/subscriptions/checkout", limit, subscriptionHandler.Checkout)

			// ------------------------------
			// BARBER
			// ------------------------------
			barber := secured.Group("/barber")
			barber.Use(middleware.RequireRole(user.RoleBarber))
			{
				barber.GET("/appointments", barberHandler.ListByDate)
				barber.PATCH("/appointments/:id/complete", limit, barberHandler.Complete)
				barber.PATCH("/appointments/:id/no-show", limit, barberHandler.NoShow)

				barber.GET("/working-hours", workingHoursHandler.Get)
				barber.PUT("/working-hours", limit, workingHoursHandler.Update)
			}

			// ------------------------------
			// OWNER
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(user.RoleOwner))
			{
				admin.GET("/metrics", adminHandler.Metrics)
				admin.GET("/audit-logs", auditLogsHandler.List)
				admin.PATCH("/users/:id/role", limit, adminHandler.ChangeRole)
			}
		}
	}
}
