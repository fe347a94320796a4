package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
	"github.com/BruksfildServices01/seucuidado/internal/config"
	paymentDomain "github.com/BruksfildServices01/seucuidado/internal/domain/payment"
	"github.com/BruksfildServices01/seucuidado/internal/flash"
	"github.com/BruksfildServices01/seucuidado/internal/handlers"
	infraRepo "github.com/BruksfildServices01/seucuidado/internal/infra/repository"
	"github.com/BruksfildServices01/seucuidado/internal/infra/storage"
	"github.com/BruksfildServices01/seucuidado/internal/middleware"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	"github.com/BruksfildServices01/seucuidado/internal/monitoring"
	"github.com/BruksfildServices01/seucuidado/internal/realtime"
	"github.com/BruksfildServices01/seucuidado/internal/session"
	"github.com/BruksfildServices01/seucuidado/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/seucuidado/internal/usecase/appointment"
	ucChat "github.com/BruksfildServices01/seucuidado/internal/usecase/chat"
	ucPayment "github.com/BruksfildServices01/seucuidado/internal/usecase/payment"
	ucProfessional "github.com/BruksfildServices01/seucuidado/internal/usecase/professional"
)

// Deps are the process-wide singletons built by main. Gateway and Storage
// may be nil when the integration is not configured.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config

	Audit    *audit.Dispatcher
	Broker   realtime.Broker
	Flash    flash.Store
	Denylist session.Denylist
	Storage  storage.Store
	Gateway  paymentDomain.Gateway

	// Clock and EmailCheck override the system clock and the signup
	// e-mail domain lookup.
	Clock      timezone.Clock
	EmailCheck func(email string) bool
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.CORSMiddleware(cfg.FrontendURL),
		middleware.SentryMiddleware(),
		middleware.PrometheusMetrics(),
		middleware.ErrorHandler(),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	professionalRepo := infraRepo.NewProfessionalGormRepository(d.DB)
	messageRepo := infraRepo.NewMessageGormRepository(d.DB)
	paymentRepo := infraRepo.NewPaymentGormRepository(d.DB)

	issuer := session.NewIssuer(cfg.JWTSecret)
	loc := timezone.Location(cfg.Timezone)

	clock := d.Clock
	if clock == nil {
		clock = timezone.SystemClock(cfg.Timezone)
	}

	settings := ucAppointment.Settings{
		Location:   loc,
		MinAdvance: cfg.MinAdvance(),
		Now:        clock,
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, d.Audit, settings)
	transitionUC := ucAppointment.NewTransitionAppointment(appointmentRepo, d.Audit, settings)
	listClientUC := ucAppointment.NewListForClient(appointmentRepo, d.Flash, settings)
	listProUC := ucAppointment.NewListForProfessional(appointmentRepo, settings)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, settings)

	professionals := ucProfessional.NewService(professionalRepo, d.Storage, d.Audit)
	chat := ucChat.NewService(messageRepo, appointmentRepo, d.Broker)

	urls := ucPayment.URLs{BaseURL: cfg.BaseURL, FrontendURL: cfg.FrontendURL}
	payments := ucPayment.NewService(
		d.Gateway,
		appointmentRepo,
		paymentRepo,
		transitionUC,
		d.Flash,
		d.Audit,
		urls,
		cfg.PlatformFeeRate,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, issuer, d.Denylist, d.Audit, cfg.IsProduction())
	if d.EmailCheck != nil {
		authHandler.EmailCheck = d.EmailCheck
	}
	meHandler := handlers.NewMeHandler(d.DB)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		transitionUC,
		listClientUC,
		listProUC,
		loc,
	)

	publicHandler := handlers.NewPublicHandler(professionals, availabilityUC)
	profileHandler := handlers.NewProfileHandler(professionals)
	adminHandler := handlers.NewAdminHandler(professionals)
	workingHoursHandler := handlers.NewWorkingHoursHandler(professionals)
	paymentHandler := handlers.NewPaymentHandler(payments, urls)
	chatHandler := handlers.NewChatHandler(chat, cfg.FrontendURL)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, loc)

	// ======================================================
	// 🩺 OPERAÇÃO
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(monitoring.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		api.GET("/professionals", publicHandler.ListProfessionals)
		api.GET("/professionals/:id", publicHandler.GetProfessional)
		api.GET("/professionals/:id/availability", publicHandler.Availability)

		// ------------------------------
		// 💳 GATEWAY DE PAGAMENTO
		// ------------------------------
		api.GET("/payment/success", paymentHandler.Success)
		api.POST("/payments/webhook", paymentHandler.Webhook)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(issuer, d.Denylist))
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/audit-logs", auditLogsHandler.List)

			// chat: cliente e profissional do agendamento
			secured.GET("/chats/:id/messages", chatHandler.ListMessages)
			secured.POST("/chats/:id/messages", chatHandler.PostMessage)
			secured.GET("/chats/:id/ws", chatHandler.Stream)
			secured.GET("/chats/:id/events", chatHandler.Events)
		}

		// ------------------------------
		// CLIENTE
		// ------------------------------
		client := api.Group("/")
		client.Use(
			middleware.AuthMiddleware(issuer, d.Denylist),
			middleware.RequireRole(models.RoleClient),
		)
		{
			client.POST("/appointments", appointmentHandler.Create)
			client.POST("/appointments/:id/cancel", appointmentHandler.ClientCancel)
			client.GET("/me/appointments", appointmentHandler.ClientDashboard)
			client.POST("/payments/preference", paymentHandler.CreatePreference)
		}

		// ------------------------------
		// PROFISSIONAL
		// ------------------------------
		pro := api.Group("/pro")
		pro.Use(
			middleware.AuthMiddleware(issuer, d.Denylist),
			middleware.RequireRole(models.RoleProfessional),
		)
		{
			pro.GET("/appointments", appointmentHandler.ProfessionalDashboard)
			pro.POST("/appointments/:id/accept", appointmentHandler.Accept)
			pro.POST("/appointments/:id/reject", appointmentHandler.Reject)
			pro.POST("/appointments/:id/complete", appointmentHandler.Complete)
			pro.POST("/appointments/:id/cancel", appointmentHandler.ProfessionalCancel)

			pro.GET("/profile", profileHandler.Get)
			pro.PATCH("/profile", profileHandler.Update)
			pro.POST("/profile/documents", profileHandler.UploadDocuments)
			pro.POST("/profile/approve", profileHandler.Approve)

			pro.GET("/working-hours", workingHoursHandler.Get)
			pro.PUT("/working-hours", workingHoursHandler.Update)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(
			middleware.AuthMiddleware(issuer, d.Denylist),
			middleware.RequireRole(models.RoleAdmin),
		)
		{
			admin.GET("/professionals/pending", adminHandler.ListPending)
			admin.POST("/professionals/:id/approve", adminHandler.Approve)
		}
	}
}
