package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/merchantkit/payment-stripe/internal/bootstrap"
	"github.com/merchantkit/payment-stripe/internal/controller"
	"github.com/merchantkit/payment-stripe/internal/gateway/stripe"
	"github.com/merchantkit/payment-stripe/internal/localization"
	"github.com/merchantkit/payment-stripe/internal/plugin"
	"github.com/merchantkit/payment-stripe/internal/repository/postgres"
	"github.com/merchantkit/payment-stripe/internal/service"
	"github.com/merchantkit/payment-stripe/internal/settings"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "payment-stripe-api", "paystripe")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	settingRepo := postgres.NewSettingRepository(app.Pool)
	localeRepo := postgres.NewLocaleRepository(app.Pool)

	// --- Services ---
	settingsCache := settings.NewRedisCache(app.Redis, app.Config.Redis.CacheTTL)
	settingsService := settings.NewService(settingRepo, settingsCache, app.Metrics, app.Logger)
	localeService := localization.NewService(localeRepo, app.Logger)

	gatewayClient := stripe.NewHTTPClient(&app.Config.Gateway, app.Metrics)
	feeService := service.NewFeeService()
	paymentService := service.NewPaymentMethodService(
		gatewayClient,
		feeService,
		localeService,
		app.Config.Gateway.PrimaryCurrency,
		app.Metrics,
		app.Logger,
	)
	formValidator := service.NewFormValidator(localeService)
	paymentPlugin := plugin.New(settingsService, localeService, app.Logger)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:            app.Pool,
		RedisClient:     app.Redis,
		PaymentService:  paymentService,
		FormValidator:   formValidator,
		SettingsService: settingsService,
		LocaleService:   localeService,
		Plugin:          paymentPlugin,
		Metrics:         app.Metrics,
		Config:          app.Config,
		Logger:          app.Logger,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
		}

		app.Logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error().Err(err).Msg("Server forced to shutdown")
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Fatal().Err(err).Msg("Server error")
	}
	app.Logger.Info().Msg("Server exited")
}
