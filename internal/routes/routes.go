package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	"github.com/BruksfildServices01/consultapp/internal/config"
	settlement "github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/handlers"
	"github.com/BruksfildServices01/consultapp/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/consultapp/internal/infra/repository"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/consultapp/internal/usecase/appointment"
	ucDashboard "github.com/BruksfildServices01/consultapp/internal/usecase/dashboard"
	ucSettlement "github.com/BruksfildServices01/consultapp/internal/usecase/settlement"
	"github.com/BruksfildServices01/consultapp/internal/validators"
)

// Deps are the singletons built at boot. Photos and Pix stay nil when the
// matching integration is not configured.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  cache.Store
	Audit  *audit.Dispatcher
	Photos ucSettlement.PhotoStore
	Pix    settlement.PixGateway

	// DNS checks e-mail domains on registration; nil uses the system resolver.
	DNS validators.DomainResolver
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	db := deps.DB
	cfg := deps.Config
	auditDispatcher := deps.Audit

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	settlementRepo := infraRepo.NewSettlementGormRepository(db)
	dashboardRepo := infraRepo.NewDashboardGormRepository(db)

	dashboardUC := ucDashboard.NewGetDashboard(dashboardRepo, deps.Cache, cfg.DashboardCacheTTL)

	// ======================================================
	// 🧠 USE CASES - APPOINTMENTS
	// ======================================================
	appointmentUC := handlers.AppointmentUseCases{
		Create:   ucAppointment.NewCreateAppointment(appointmentRepo, auditDispatcher),
		Update:   ucAppointment.NewUpdateAppointment(appointmentRepo, auditDispatcher),
		Confirm:  ucAppointment.NewConfirmAppointment(appointmentRepo, auditDispatcher),
		Cancel:   ucAppointment.NewCancelAppointment(appointmentRepo, auditDispatcher),
		Complete: ucAppointment.NewCompleteAppointment(appointmentRepo, auditDispatcher),
		Get:      ucAppointment.NewGetAppointment(appointmentRepo),
		ByDate:   ucAppointment.NewListAppointmentsByDate(appointmentRepo),
		ByMonth:  ucAppointment.NewListAppointmentsByMonth(appointmentRepo),

		Dashboard: dashboardUC,
	}
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	// ======================================================
	// 🧠 USE CASES - SETTLEMENT
	// ======================================================
	paymentUC := handlers.PaymentUseCases{
		Create:       ucSettlement.NewCreatePayment(settlementRepo, auditDispatcher, cfg.SettlementSinglePayment),
		List:         ucSettlement.NewListPayments(settlementRepo),
		Get:          ucSettlement.NewGetPayment(settlementRepo),
		Installments: ucSettlement.NewListInstallments(settlementRepo),
		Pay:          ucSettlement.NewPayInstallment(settlementRepo, auditDispatcher),
		Pix:          ucSettlement.NewCreatePixCharge(settlementRepo, deps.Pix, auditDispatcher),

		Dashboard: dashboardUC,
	}

	clientHistoryUC := ucSettlement.NewClientHistory(settlementRepo)
	pendingUC := ucSettlement.NewPendingAmount(settlementRepo)
	commissionsUC := ucSettlement.NewListCommissions(settlementRepo)

	getEncounterUC := ucSettlement.NewGetEncounter(settlementRepo)
	updateEncounterUC := ucSettlement.NewUpdateEncounter(settlementRepo, auditDispatcher)
	photoUC := ucSettlement.NewAttachEncounterPhoto(settlementRepo, deps.Photos, auditDispatcher)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, deps.Cache, deps.DNS)
	meHandler := handlers.NewMeHandler(db)
	businessHandler := handlers.NewBusinessHandler(db)

	clientHandler := handlers.NewClientHandler(db, clientHistoryUC, pendingUC)
	consultantHandler := handlers.NewConsultantHandler(db, commissionsUC, availabilityUC)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	lookupHandler := handlers.NewLookupHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(db, appointmentUC)
	encounterHandler := handlers.NewEncounterHandler(getEncounterUC, updateEncounterUC, photoUC)
	paymentHandler := handlers.NewPaymentHandler(paymentUC)
	dashboardHandler := handlers.NewDashboardHandler(dashboardUC)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg, deps.Cache))
		{
			secured.POST("/auth/logout", authHandler.Logout)

			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/business", businessHandler.Get)
			secured.PATCH("/me/business", businessHandler.Update)

			secured.GET("/me/dashboard", dashboardHandler.Get)

			// ------------------------------
			// CLIENTS
			// ------------------------------
			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)
			secured.GET("/me/clients/:id", clientHandler.Get)
			secured.PATCH("/me/clients/:id", clientHandler.Update)
			secured.DELETE("/me/clients/:id", clientHandler.Delete)
			secured.GET("/me/clients/:id/history", clientHandler.History)
			secured.GET("/me/clients/:id/pending", clientHandler.Pending)

			// ------------------------------
			// CONSULTANTS
			// ------------------------------
			secured.GET("/me/consultants", consultantHandler.List)
			secured.POST("/me/consultants", consultantHandler.Create)
			secured.GET("/me/consultants/:id", consultantHandler.Get)
			secured.PATCH("/me/consultants/:id", consultantHandler.Update)
			secured.DELETE("/me/consultants/:id", consultantHandler.Delete)
			secured.GET("/me/consultants/:id/commissions", consultantHandler.Commissions)
			secured.GET("/me/consultants/:id/availability", consultantHandler.Availability)
			secured.GET("/me/consultants/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/consultants/:id/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// SERVICES + LOOKUPS
			// ------------------------------
			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)
			secured.DELETE("/me/services/:id", serviceHandler.Delete)

			secured.GET("/me/payment-methods", lookupHandler.ListPaymentMethods)
			secured.POST("/me/payment-methods", lookupHandler.CreatePaymentMethod)
			secured.GET("/me/categories", lookupHandler.ListCategories)
			secured.POST("/me/categories", lookupHandler.CreateCategory)
			secured.GET("/me/origins", lookupHandler.ListOrigins)
			secured.POST("/me/origins", lookupHandler.CreateOrigin)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/me/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.POST("/me/appointments/:id/complete", appointmentHandler.Complete)

			// ------------------------------
			// ENCOUNTERS
			// ------------------------------
			secured.GET("/me/encounters/:id", encounterHandler.Get)
			secured.PATCH("/me/encounters/:id", encounterHandler.Update)
			secured.POST("/me/encounters/:id/photos", encounterHandler.UploadPhoto)

			// ------------------------------
			// PAYMENTS
			// ------------------------------
			secured.POST("/me/payments", paymentHandler.Create)
			secured.GET("/me/payments", paymentHandler.List)
			secured.PATCH("/me/payments/installments/:id/pay", paymentHandler.PayInstallment)
			secured.GET("/me/payments/:id", paymentHandler.Get)
			secured.GET("/me/payments/:id/installments", paymentHandler.Installments)
			secured.POST("/me/payments/:id/pix", paymentHandler.CreatePix)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
