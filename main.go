package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrops-br/cyberstore-api/internal/app/service"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/auth"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/config"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/http"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/payment"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/telemetry"
)

func main() {
	cfg := config.LoadConfig()

	telem, err := telemetry.New(&cfg.OTLP)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("cyberstore-api")
	meter := telem.MeterProvider.Meter("cyberstore-api")
	logger := telem.Logger

	logger.Info("Starting Cyberstore API")
	if cfg.Auth.UsesDefaultSecret() {
		logger.Warn("JWT_SECRET is not set, signing tokens with the development secret")
	}

	catalog, err := memory.DefaultCatalog()
	if err != nil {
		logger.Error("Failed to load catalog", slog.String("error", err.Error()))
		return
	}

	products := memory.NewProductRepository(catalog, tracer, logger)
	sessions := memory.NewSessionRepository(tracer, logger, memory.WithIdleTTL(cfg.Session.IdleTTL))
	checkouts := memory.NewCheckoutRepository(tracer, logger)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewMockAuthenticator(logger)
	gateway := payment.NewSimulatedGateway(cfg.Checkout.PaymentDelay, tracer, logger)

	catalogService := service.NewCatalogService(products, tracer, meter, logger)
	cartService := service.NewCartService(products, sessions, tracer, meter, logger)
	authService := service.NewAuthService(authenticator, sessions, tokens, tracer, meter, logger)
	checkoutService := service.NewCheckoutService(sessions, checkouts, gateway, cfg.Checkout.TaxRate, tracer, meter, logger)

	server := http.NewServer(&cfg.Server, http.Handlers{
		Products: handler.NewProductHandler(catalogService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Auth:     handler.NewAuthHandler(authService, checkoutService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		Tokens:   tokens,
	}, logger, telem)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", "error", err.Error())
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}
	checkoutService.Wait()

	logger.Info("Server stopped")
}
