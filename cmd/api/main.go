package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"decant-store/internal/auth"
	"decant-store/internal/cart"
	"decant-store/internal/catalog"
	"decant-store/internal/checkout"
	"decant-store/internal/composition"
	"decant-store/internal/config"
	"decant-store/internal/favorites"
	"decant-store/internal/handler"
	"decant-store/internal/mailer"
	"decant-store/internal/persist"
	"decant-store/internal/router"
	"decant-store/internal/session"
	"decant-store/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting decant-store API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the account store
	var accounts store.AccountStore
	if cfg.Storage.Backend == "postgres" {
		pool, err := store.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		accounts, err = store.NewPostgresStore(ctx, pool, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize account store: %w", err)
		}
	} else {
		accounts = store.NewFileStore(cfg.Storage.FilePath, logger)
		logger.Info().Str("file", cfg.Storage.FilePath).Msg("using file-backed account store")
	}

	// Load the catalogue, from S3 when enabled, with local-file fallback
	fileLoader := catalog.NewFileLoader(cfg.Catalog.Path, logger)
	catalogLoader := fileLoader

	if cfg.Catalog.S3Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.Catalog.S3Bucket, cfg.Catalog.S3Region, cfg.Catalog.S3Key, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 catalogue loader, falling back to local file")
		} else {
			catalogLoader = s3Loader
		}
	}

	cat, err := catalogLoader.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("catalogue load failed, falling back to local file")
		cat, err = fileLoader.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load catalogue: %w", err)
		}
	}

	if cat.Len() == 0 {
		logger.Warn().Msg("catalogue is empty, storefront will have no products")
	}

	// Load the composition knowledge base
	compositions := composition.Load(cfg.Composition.Path, logger)

	// Initialize the sync bridge and domain engines
	bridge := persist.NewBridge(accounts, logger)
	cartEngine := cart.NewEngine(bridge, logger)
	checkoutEngine := checkout.NewEngine(bridge, logger)
	favoritesEngine := favorites.NewEngine(bridge, logger)
	authEngine := auth.NewEngine(bridge, logger)

	// Initialize the session registry and the contact mailer
	manager := session.NewManager(logger)
	contactMailer := mailer.New(cfg.SMTP, logger)
	if !cfg.SMTP.Configured() {
		logger.Warn().Msg("SMTP credentials absent, contact form will refuse to send")
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(manager, authEngine, logger)
	productHandler := handler.NewProductHandler(cat, compositions, logger)
	cartHandler := handler.NewCartHandler(manager, cartEngine, authEngine, cat, logger)
	orderHandler := handler.NewOrderHandler(manager, checkoutEngine, authEngine, logger)
	favoritesHandler := handler.NewFavoritesHandler(manager, favoritesEngine, authEngine, logger)
	contactHandler := handler.NewContactHandler(contactMailer, logger)

	// Initialize router
	mux := router.New(
		authHandler,
		productHandler,
		cartHandler,
		orderHandler,
		favoritesHandler,
		contactHandler,
		manager,
		cfg.Chatbot.URL,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
