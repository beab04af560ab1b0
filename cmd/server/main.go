package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dukerupert/njord/internal"
	"github.com/dukerupert/njord/internal/auth"
	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/handler/api"
	"github.com/dukerupert/njord/internal/mail"
	"github.com/dukerupert/njord/internal/middleware"
	"github.com/dukerupert/njord/internal/postgres"
	"github.com/dukerupert/njord/internal/router"
	"github.com/dukerupert/njord/internal/routes"
	"github.com/dukerupert/njord/internal/service"
	"github.com/dukerupert/njord/internal/storage"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := postgres.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	userStore := postgres.NewUserStore(pool)
	productStore := postgres.NewProductStore(pool)
	cartStore := postgres.NewCartStore(pool)
	couponStore := postgres.NewCouponStore(pool)
	orderStore := postgres.NewOrderStore(pool)
	blogStore := postgres.NewBlogStore(pool)
	enquiryStore := postgres.NewEnquiryStore(pool)
	categoryStore := postgres.NewTermStore(pool, domain.TermCategory)
	brandStore := postgres.NewTermStore(pool, domain.TermBrand)
	colorStore := postgres.NewTermStore(pool, domain.TermColor)
	blogCategoryStore := postgres.NewTermStore(pool, domain.TermBlogCategory)

	// Token manager for access/refresh JWTs
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	// Mailer: SMTP when a host is configured, log-only otherwise
	var mailer domain.Mailer
	if cfg.Email.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     int(cfg.Email.Port),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		}, logger)
	} else {
		logger.Warn("SMTP_HOST not set, mail will only be logged")
		mailer = mail.NewLogMailer(logger)
	}

	// Local file storage for uploaded images
	files, err := storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.LocalURL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize services
	userService := service.NewUserService(userStore, tokens, mailer, logger, cfg.BaseURL)
	pricingService := service.NewPricingService(productStore, cartStore, couponStore, orderStore, nil, nil)
	productService := service.NewProductService(productStore, userStore)
	orderService := service.NewOrderService(orderStore)
	couponService := service.NewCouponService(couponStore)
	blogService := service.NewBlogService(blogStore)
	enquiryService := service.NewEnquiryService(enquiryStore)

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("njord")

	// Global middleware
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.RateLimit(middleware.DefaultRateLimiterConfig()),
		router.Logger(logger),
		router.CORS(cfg.CORS.AllowedOrigins),
	)

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		Users:          api.NewUserHandler(userService, logger),
		Carts:          api.NewCartHandler(pricingService, orderService, logger),
		Products:       api.NewProductHandler(productService, logger),
		Categories:     api.NewTermHandler(service.NewTermService(categoryStore), logger),
		Brands:         api.NewTermHandler(service.NewTermService(brandStore), logger),
		Colors:         api.NewTermHandler(service.NewTermService(colorStore), logger),
		BlogCategories: api.NewTermHandler(service.NewTermService(blogCategoryStore), logger),
		Coupons:        api.NewCouponHandler(couponService, logger),
		Blogs:          api.NewBlogHandler(blogService, logger),
		Enquiries:      api.NewEnquiryHandler(enquiryService, logger),
		Uploads:        api.NewUploadHandler(files, productService, blogService, logger),
		Tokens:         tokens,
		Metrics:        metrics,
		Health: func(w http.ResponseWriter, req *http.Request) {
			if err := pool.Ping(req.Context()); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		},
		StoragePath: cfg.Storage.LocalPath,
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-shutdownCtx.Done():
	}

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
