package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/walidBc-blip/finance-dashboard/src/config"
	"github.com/walidBc-blip/finance-dashboard/src/database"
	"github.com/walidBc-blip/finance-dashboard/src/handlers"
	"github.com/walidBc-blip/finance-dashboard/src/logger"
	"github.com/walidBc-blip/finance-dashboard/src/security"
	"github.com/walidBc-blip/finance-dashboard/src/services"
	"golang.org/x/time/rate"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":     true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Finance dashboard backend starting...")

	if len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid: must be at least 32 characters.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	authService := security.NewAuthService(config.Cfg.JWTSecret)
	analyticsService := services.NewAnalyticsService(database.DB, reportCache)
	categorizerService := services.NewCategorizerService(database.DB, config.Cfg.MinTrainingSamples)
	if err := categorizerService.LoadPersistedModel(); err != nil {
		logger.L.Error("Failed to restore categorizer model, continuing untrained", "error", err)
	}

	userHandler := handlers.NewUserHandler(authService, analyticsService)
	txHandler := handlers.NewTransactionHandler(analyticsService, categorizerService)
	budgetHandler := handlers.NewBudgetHandler(analyticsService)
	goalHandler := handlers.NewGoalHandler(analyticsService)
	investmentHandler := handlers.NewInvestmentHandler(analyticsService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	categorizerHandler := handlers.NewCategorizerHandler(categorizerService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Finance dashboard backend is running"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.DB.Ping(); err != nil {
			logger.L.Error("Health check failed: database unreachable", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Get("/auth/csrf", handlers.GetCSRFToken)
		})

		// Auth routes (CSRF protected)
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey))
			r.Post("/auth/register", userHandler.RegisterUserHandler)
			r.Post("/auth/login", userHandler.LoginUserHandler)
			r.Post("/auth/refresh", userHandler.RefreshTokenHandler)
			r.With(userHandler.AuthMiddleware).Post("/auth/logout", userHandler.LogoutUserHandler)
		})

		// Protected routes (auth + CSRF)
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey))
			r.Use(userHandler.AuthMiddleware)

			r.Get("/transactions", txHandler.HandleListTransactions)
			r.Post("/transactions", txHandler.HandleCreateTransaction)
			r.Delete("/transactions/{transactionID}", txHandler.HandleDeleteTransaction)
			r.Post("/transactions/import", txHandler.HandleImportCSV)

			r.Get("/budgets", budgetHandler.HandleListBudgets)
			r.Post("/budgets", budgetHandler.HandleUpsertBudget)
			r.Delete("/budgets/{budgetID}", budgetHandler.HandleDeleteBudget)

			r.Get("/goals", goalHandler.HandleListGoals)
			r.Post("/goals", goalHandler.HandleCreateGoal)
			r.Put("/goals/{goalID}/amount", goalHandler.HandleUpdateGoalAmount)
			r.Delete("/goals/{goalID}", goalHandler.HandleDeleteGoal)

			r.Get("/investments", investmentHandler.HandleListInvestments)
			r.Post("/investments", investmentHandler.HandleCreateInvestment)
			r.Delete("/investments/{investmentID}", investmentHandler.HandleDeleteInvestment)

			r.Get("/analytics/spending-summary", analyticsHandler.HandleSpendingSummary)
			r.Get("/analytics/budget-alerts", analyticsHandler.HandleBudgetAlerts)
			r.Get("/analytics/financial-health", analyticsHandler.HandleFinancialHealth)

			r.Post("/categorizer/train", categorizerHandler.HandleTrain)
			r.Post("/categorizer/predict", categorizerHandler.HandlePredict)
		})
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
