package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"ironcraft/config"
	"ironcraft/directory"
	"ironcraft/docstore"
	"ironcraft/handlers"
	"ironcraft/invoice"
	"ironcraft/ledger"
	"ironcraft/middleware"
	"ironcraft/models"
	"ironcraft/notify"
	"ironcraft/scheduling"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize document store
	var store docstore.Store
	switch cfg.StoreDriver {
	case "memory":
		store = docstore.NewMemory()
	default:
		store, err = docstore.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
	}
	if err := docstore.SeedAdmin(context.Background(), store, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Notification dispatcher
	var dispatcher notify.Dispatcher = notify.LogDispatcher{}
	if cfg.PushEndpoint != "" {
		dispatcher = notify.NewExpo(cfg.PushEndpoint)
	}

	// Services
	dir := directory.NewService(store)
	repo := scheduling.NewRepository(store, dir)
	poster := scheduling.NewPoster(store, repo, dir, dispatcher)
	hoursLedger := ledger.New(store, dir)
	aggregator := invoice.NewAggregator(store, dir, invoice.Biller{
		Name:          cfg.Biller.Name,
		ABN:           cfg.Biller.ABN,
		ACN:           cfg.Biller.ACN,
		Address:       cfg.Biller.Address,
		Phone:         cfg.Biller.Phone,
		BSB:           cfg.Biller.BSB,
		AccountNumber: cfg.Biller.AccountNumber,
	})

	// Handlers
	auth := middleware.NewAuth(dir)
	authHandler := handlers.NewAuthHandler(cfg, store, dir)
	directoryHandler := handlers.NewDirectoryHandler(dir, store)
	assignmentHandler := handlers.NewAssignmentHandler(repo, poster)
	hoursHandler := handlers.NewHoursHandler(hoursLedger, dir)
	invoiceHandler := handlers.NewInvoiceHandler(aggregator)

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/register", authHandler.Register)
	router.Post("/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/logout", authHandler.Logout)
		r.Post("/change-password", authHandler.ChangePassword)
		r.Get("/me", authHandler.Me)
		r.Patch("/me", authHandler.UpdateProfile)

		// Contractor routes
		r.Post("/hours", hoursHandler.SubmitHours)
		r.Get("/hours", hoursHandler.LoggedHours)
		r.Get("/assignments/lookup", hoursHandler.AssignedJobsite)

		// Admin only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePrivilege(models.PrivilegeAdmin))

			r.Get("/contractors", directoryHandler.ListContractors)
			r.Put("/contractors/{id}/rate", directoryHandler.SetContractorRate)
			r.Get("/companies", directoryHandler.ListCompanies)
			r.Post("/companies", directoryHandler.CreateCompany)
			r.Delete("/companies/{id}", directoryHandler.DeleteCompany)
			r.Get("/jobsites", directoryHandler.ListJobsites)
			r.Post("/jobsites", directoryHandler.CreateJobsite)
			r.Delete("/jobsites/{id}", directoryHandler.DeleteJobsite)

			r.Get("/jobsites/{id}/drafts", assignmentHandler.ListDrafts)
			r.Get("/jobsites/{id}/contractors", assignmentHandler.AssignedNames)
			r.Put("/jobsites/{id}/assignments", assignmentHandler.ReplaceSelection)
			r.Post("/jobsites/{id}/post", assignmentHandler.PostJobsite)
			r.Post("/assignments/post-all", assignmentHandler.PostAll)

			r.Get("/invoices", invoiceHandler.GetInvoice)
			r.Get("/invoices/html", invoiceHandler.GetInvoiceHTML)
			r.Get("/invoices/legacy-mismatches", invoiceHandler.LegacyMismatches)
		})
	})

	log.Printf("Server starting on port %s", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}
