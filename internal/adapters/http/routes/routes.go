package routes

import (
	"deepnap-crm/internal/adapters/http/handlers"
	"deepnap-crm/internal/adapters/http/middleware"
	"deepnap-crm/internal/adapters/persistence/repositories"
	"deepnap-crm/internal/config"
	"deepnap-crm/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the reminder
// service so the caller controls its lifecycle.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.ReminderService {
	// Initialize repositories
	orgRepo := repositories.NewOrganizationRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	settingRepo := repositories.NewSettingRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	peopleRepo := repositories.NewPeopleRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	whatsappRepo := repositories.NewWhatsAppRepository(db)

	// Initialize services
	otpService := services.NewOTPService()
	emailService := services.NewEmailService(cfg)
	accountService := services.NewAccountService(accountRepo, subscriptionRepo)
	authService := services.NewAuthService(adminRepo, orgRepo, accountService, otpService, emailService, cfg)
	orgService := services.NewOrganizationService(orgRepo, accountRepo, adminRepo, settingRepo, leadRepo, otpService, emailService, cfg)
	companyService := services.NewCompanyService(companyRepo, peopleRepo)
	peopleService := services.NewPeopleService(peopleRepo, companyRepo)
	leadService := services.NewLeadService(leadRepo, companyRepo, peopleRepo, adminRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo)
	whatsappService := services.NewWhatsAppService(whatsappRepo, cfg)
	dashboardService := services.NewDashboardService(companyRepo, peopleRepo, leadRepo, invoiceRepo)
	reminderService := services.NewReminderService(leadRepo, adminRepo, emailService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService, accountService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	peopleHandler := handlers.NewPeopleHandler(peopleService)
	leadHandler := handlers.NewLeadHandler(leadService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	proformaHandler := handlers.NewProformaHandler(invoiceService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, leadService)
	whatsappHandler := handlers.NewWhatsAppHandler(whatsappService)
	adminHandler := handlers.NewAdminHandler(authService)

	// Health check
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Public auth routes
	auth := app.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/verify-otp", middleware.AuthRateLimiter(), authHandler.VerifyOTP)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/login-token", middleware.AuthRateLimiter(), authHandler.LoginWithToken)
	auth.Post("/forgot-password", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	auth.Post("/verify-reset-otp", middleware.StrictRateLimiter(), authHandler.VerifyResetOTP)
	auth.Post("/reset-password", middleware.StrictRateLimiter(), authHandler.ResetPassword)

	// Organization routes: public lifecycle plus owner-token endpoints
	org := app.Group("/organization")
	org.Post("/register", middleware.AuthRateLimiter(), orgHandler.Register)
	org.Post("/verify-otp", middleware.AuthRateLimiter(), orgHandler.VerifyOTP)
	org.Post("/login", middleware.AuthRateLimiter(), orgHandler.Login)
	org.Post("/forgot-password", middleware.StrictRateLimiter(), orgHandler.ForgotPassword)
	org.Post("/verify-reset-otp", middleware.StrictRateLimiter(), orgHandler.VerifyResetOTP)
	org.Post("/reset-password", middleware.StrictRateLimiter(), orgHandler.ResetPassword)

	orgProtected := org.Group("", middleware.OrganizationAuth(cfg, orgService), middleware.NoCacheHeaders())
	orgProtected.Get("/me", orgHandler.Get)
	orgProtected.Post("/start-trial", orgHandler.StartTrial)
	orgProtected.Post("/subscribe", orgHandler.Subscribe)
	orgProtected.Get("/subscription-days", orgHandler.SubscriptionDays)
	orgProtected.Get("/settings", orgHandler.GetSettings)
	orgProtected.Put("/settings", orgHandler.UpdateSettings)

	// Protected route groups. Each group's mount path first segment is the
	// route name the access gate checks against the effective allowlist.
	authn := []fiber.Handler{
		middleware.Authenticate(cfg, authService, accountService),
		middleware.NoCacheHeaders(),
	}

	dashboard := app.Group("/dashboard", append(authn, middleware.CheckAccess("dashboard"))...)
	dashboard.Get("/summary", dashboardHandler.Summary)
	dashboard.Get("/account-state", dashboardHandler.AccountState)

	company := app.Group("/company", append(authn, middleware.CheckAccess("company"))...)
	company.Post("/create", companyHandler.Create)
	company.Get("/all", companyHandler.List)
	company.Get("/:id", companyHandler.Get)
	company.Put("/:id", companyHandler.Update)
	company.Delete("/:id", companyHandler.Delete)
	company.Post("/:id/comment", companyHandler.AddComment)

	people := app.Group("/people", append(authn, middleware.CheckAccess("people"))...)
	people.Post("/create", peopleHandler.Create)
	people.Get("/all", peopleHandler.List)
	people.Get("/:id", peopleHandler.Get)
	people.Put("/:id", peopleHandler.Update)
	people.Delete("/:id", peopleHandler.Delete)
	people.Post("/:id/remark", peopleHandler.AddRemark)

	lead := app.Group("/lead", append(authn, middleware.CheckAccess("lead"))...)
	lead.Post("/create", leadHandler.Create)
	lead.Get("/all", leadHandler.List)
	lead.Get("/assigned", leadHandler.ListAssigned)
	lead.Get("/statuses", leadHandler.ListStatuses)
	lead.Get("/sources", leadHandler.ListSources)
	lead.Get("/followups/due", leadHandler.DueFollowups)
	lead.Get("/:id", leadHandler.Get)
	lead.Put("/:id", leadHandler.Update)
	lead.Delete("/:id", leadHandler.Delete)
	lead.Post("/:id/assign", leadHandler.Assign)
	lead.Post("/:id/followup", leadHandler.ScheduleFollowup)
	lead.Post("/:id/demo", leadHandler.ScheduleDemo)
	lead.Post("/:id/demo/complete", leadHandler.CompleteDemo)
	lead.Post("/:id/comment", leadHandler.AddComment)
	lead.Get("/:id/comments", leadHandler.ListComments)

	invoice := app.Group("/invoice", append(authn, middleware.CheckAccess("invoice"))...)
	invoice.Post("/create", invoiceHandler.Create)
	invoice.Get("/all", invoiceHandler.List)
	invoice.Get("/:id", invoiceHandler.Get)
	invoice.Delete("/:id", invoiceHandler.Delete)

	proforma := app.Group("/proforma-invoice", append(authn, middleware.CheckAccess("proforma-invoice"))...)
	proforma.Post("/create", proformaHandler.Create)
	proforma.Get("/all", proformaHandler.List)
	proforma.Get("/:id", proformaHandler.Get)
	proforma.Delete("/:id", proformaHandler.Delete)

	whatsapp := app.Group("/whatsapp", append(authn, middleware.CheckAccess("whatsapp"))...)
	whatsapp.Post("/send", whatsappHandler.SendTemplate)
	whatsapp.Get("/count", whatsappHandler.Count)
	whatsapp.Get("/redirect", whatsappHandler.Redirect)

	admin := app.Group("/admin", append(authn, middleware.CheckAccess("admin"), middleware.RequireSuperAdmin())...)
	admin.Get("/all", adminHandler.List)
	admin.Put("/:id/routes", adminHandler.UpdateAllowedRoutes)
	admin.Delete("/:id", adminHandler.Delete)

	return reminderService
}
