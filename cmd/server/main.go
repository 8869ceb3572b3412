package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mixerai/internal/auth"
	"mixerai/internal/config"
	"mixerai/internal/handler"
	"mixerai/internal/middleware"
	"mixerai/internal/repository/postgres"
	postgresClaims "mixerai/internal/repository/postgres/claims"
	claimsSvc "mixerai/internal/service/claims"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	claimRepo := postgresClaims.NewClaimRepository(repoConfig)
	brandLinkRepo := postgresClaims.NewBrandLinkRepository(repoConfig)

	// Create the claims engine
	builder := claimsSvc.NewClaimsContextBuilder(claimRepo, brandLinkRepo, claimsSvc.BuilderConfig{
		IngredientFetchLenient: cfg.IngredientFetchLenient,
	}, logger)
	permissionResolver := claimsSvc.NewPermissionResolver(brandLinkRepo, logger)
	styler := claimsSvc.NewPassthroughStyler()

	claimsHandler := handler.NewClaimsHandler(builder, permissionResolver, styler, logger)

	// API routes sit behind auth; /health does not, so probes work bare.
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/products/{id}/effective-claims", claimsHandler.GetEffectiveClaims)
	apiMux.HandleFunc("POST /api/claims/effective/batch", claimsHandler.BatchResolveEffectiveClaims)
	apiMux.HandleFunc("POST /api/claims/permissions/check", claimsHandler.CheckPermissions)

	mux := http.NewServeMux()
	mux.Handle("/api/", middleware.Auth(jwtVerifier, logger)(apiMux))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(middleware.Recovery(logger)(mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdownCh
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
