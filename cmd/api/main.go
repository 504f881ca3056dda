package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/tripline/tripline-api/internal/config"
	"github.com/tripline/tripline-api/internal/domain/auth"
	"github.com/tripline/tripline-api/internal/domain/booking"
	"github.com/tripline/tripline-api/internal/domain/catalog"
	"github.com/tripline/tripline-api/internal/domain/events"
	"github.com/tripline/tripline-api/internal/domain/location"
	"github.com/tripline/tripline-api/internal/domain/payment"
	"github.com/tripline/tripline-api/internal/domain/quote"
	"github.com/tripline/tripline-api/internal/domain/vendor"
	"github.com/tripline/tripline-api/internal/middleware"
	"github.com/tripline/tripline-api/internal/pkg/database"
	"github.com/tripline/tripline-api/internal/pkg/imaging"
	"github.com/tripline/tripline-api/internal/pkg/jwt"
	"github.com/tripline/tripline-api/internal/pkg/logger"
	pkgresponse "github.com/tripline/tripline-api/internal/pkg/response"
	"github.com/tripline/tripline-api/internal/pkg/storage"
	"github.com/tripline/tripline-api/internal/pkg/stripe"
	"github.com/tripline/tripline-api/internal/pkg/vendorgateway"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, Service: "tripline-api"}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Tripline API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	store, err := storage.New(storage.Config{
		Backend:      cfg.StorageBackend,
		S3Endpoint:   cfg.S3Endpoint,
		S3Region:     cfg.S3Region,
		S3Bucket:     cfg.S3Bucket,
		S3AccessKey:  cfg.S3AccessKey,
		S3SecretKey:  cfg.S3SecretKey,
		LocalPath:    cfg.LocalPath,
		LocalBaseURL: cfg.LocalBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage")
	}

	stripeClient := stripe.NewClient(stripe.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Timeout:       time.Duration(cfg.StripeTimeoutSeconds) * time.Second,
	})

	vendorClient := vendorgateway.NewClient(
		cfg.VendorGatewayBaseURL,
		cfg.VendorGatewayToken,
		time.Duration(cfg.VendorGatewayTimeoutSeconds)*time.Second,
		"tripline-api/1.0",
	)

	// ---------- Event hub ----------
	eventHub := events.NewHub(redis)
	go eventHub.Run()
	defer eventHub.Shutdown()

	// ---------- Repositories ----------
	operatorRepo := auth.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	quoteRepo := quote.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	vendorRepo := vendor.NewRepository(db)
	locationRepo := location.NewRepository(db)
	paymentRepo := payment.NewRepository(db)

	// ---------- Services ----------
	authService := auth.NewService(operatorRepo, jwtService, redis)
	bookingService := booking.NewService(bookingRepo, eventHub)
	draftStore := quote.NewDraftStore()
	vendorService := vendor.NewService(vendorRepo)
	quoteService := quote.NewService(draftStore, quoteRepo, bookingService, vendorClient, vendorService, eventHub)
	catalogService := catalog.NewService(catalogRepo, store, imaging.NewProcessor(imaging.DefaultConfig()))
	locationService := location.NewService(locationRepo)
	paymentService := payment.NewService(paymentRepo, stripeClient, quoteService, bookingService, eventHub)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	bookingHandler := booking.NewHandler(bookingService)
	quoteHandler := quote.NewHandler(quoteService, quote.NewPDFRenderer("Tripline Travel"))
	catalogHandler := catalog.NewHandler(catalogService)
	vendorHandler := vendor.NewHandler(vendorService)
	locationHandler := location.NewHandler(locationService)
	paymentHandler := payment.NewHandler(paymentService)
	eventsHandler := events.NewHandler(eventHub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress; browsers can't set the
	// Authorization header on WebSocket, so accept ?token=)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(eventsHandler.HandleWS)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		// Public: trip-request intake from the marketing site
		r.Mount("/bookings", bookingHandler.PublicRoutes())

		// Public: provider callbacks, verified by signature
		r.Mount("/payments", paymentHandler.WebhookRoutes())

		r.Mount("/auth", authHandler.Routes(authMiddleware))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/bookings", bookingHandler.AdminRoutes(authMiddleware, quoteHandler.Register))
		r.Mount("/services", catalogHandler.Routes(authMiddleware))
		r.Mount("/vendors", vendorHandler.Routes(authMiddleware))
		r.Mount("/locations", locationHandler.Routes(authMiddleware))
		r.Mount("/payments", paymentHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
