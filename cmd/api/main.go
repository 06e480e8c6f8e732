package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fyulita/FairKeep/internal/activity"
	"github.com/fyulita/FairKeep/internal/config"
	"github.com/fyulita/FairKeep/internal/contact"
	"github.com/fyulita/FairKeep/internal/database"
	"github.com/fyulita/FairKeep/internal/expense"
	"github.com/fyulita/FairKeep/internal/settlement"
	"github.com/fyulita/FairKeep/internal/user"
	"github.com/fyulita/FairKeep/pkg/logging"
	mw "github.com/fyulita/FairKeep/pkg/middleware"
	"github.com/fyulita/FairKeep/pkg/token"
)

// @title        FairKeep API
// @version      1.0
// @description  Expense splitting and settlement backend
// @BasePath     /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logging.Setup()

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("connected to database")

	tokens := token.NewManager(cfg.JWTSecret, 24*time.Hour)

	// Activity feature (written to by expense and settlement)
	activityRepo := activity.NewRepository(db)
	activityService := activity.NewService(activityRepo)
	activityHandler := activity.NewHandler(activityService)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, tokens)
	userHandler := user.NewHandler(userService)

	// Contact feature
	contactRepo := contact.NewRepository(db)
	contactService := contact.NewService(contactRepo, userRepo)
	contactHandler := contact.NewHandler(contactService)

	// Expense feature
	expenseRepo := expense.NewRepository(db, activityRepo)
	expenseService := expense.NewService(expenseRepo)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, activityRepo)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", userHandler.AuthRoutes())

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(tokens))

			r.Mount("/users", userHandler.Routes())
			r.Mount("/contacts", contactHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/activities", activityHandler.Routes())
			r.Get("/balances", settlementHandler.GetBalances)
			r.Post("/settlements", settlementHandler.SettleUp)
		})
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
