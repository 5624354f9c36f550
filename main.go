// FinFlow API server. Initializes configuration, the database pool and
// migrations, wires services and handlers, and runs the HTTP server with
// graceful shutdown.
//
// @title FinFlow API
// @version 1.0
// @description Personal finance tracking API: auth, categories, transactions, budgets and reports.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/finflow-go/apperror"
	"github.com/user/finflow-go/auth"
	"github.com/user/finflow-go/budgets"
	"github.com/user/finflow-go/categories"
	"github.com/user/finflow-go/config"
	"github.com/user/finflow-go/db"
	"github.com/user/finflow-go/transactions"
	"github.com/user/finflow-go/users"
)

func main() {
	// .env is a development convenience; production sets the environment
	// directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Services receive their dependencies explicitly; the pool is the
	// single shared one created above.
	tokenService := auth.NewTokenService(*cfg.Auth)
	authService := auth.NewAuthService(pool, tokenService)
	authHandlers := auth.NewHandlers(authService)

	userHandlers := users.NewHandlers(users.NewService(pool))
	categoryHandlers := categories.NewHandlers(categories.NewService(pool))
	transactionHandlers := transactions.NewHandlers(transactions.NewService(pool))
	budgetHandlers := budgets.NewHandlers(budgets.NewService(pool))

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic safety net on top of chi's Recoverer, so even a panic comes
	// back as the standard error body.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	jwtGuard := auth.JWTMiddleware(tokenService)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
		// The refresh endpoint authenticates with the refresh token itself,
		// so it stays outside the access-token guard.
		r.Post("/refresh", authHandlers.HandleRefreshToken())
		r.With(jwtGuard).Post("/logout", authHandlers.HandleLogout())
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(jwtGuard)
		userHandlers.RegisterRoutes(r)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Use(jwtGuard)
		categoryHandlers.RegisterRoutes(r)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Use(jwtGuard)
		transactionHandlers.RegisterRoutes(r)
	})

	r.Route("/budgets", func(r chi.Router) {
		r.Use(jwtGuard)
		budgetHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError emits the standard error body from the panic recovery
// middleware.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"Failed to encode error response"}`, http.StatusInternalServerError)
	}
}
