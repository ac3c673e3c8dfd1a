package controller

import (
	"time"

	"github.com/merchantkit/payment-stripe/internal/infrastructure/config"
	"github.com/merchantkit/payment-stripe/internal/infrastructure/observability"
	"github.com/merchantkit/payment-stripe/internal/localization"
	customMW "github.com/merchantkit/payment-stripe/internal/middleware"
	"github.com/merchantkit/payment-stripe/internal/plugin"
	"github.com/merchantkit/payment-stripe/internal/service"
	"github.com/merchantkit/payment-stripe/internal/settings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type RouterDeps struct {
	Pool            *pgxpool.Pool
	RedisClient     *redis.Client
	PaymentService  *service.PaymentMethodService
	FormValidator   *service.FormValidator
	SettingsService *settings.Service
	LocaleService   *localization.Service
	Plugin          *plugin.Plugin
	Metrics         *observability.Metrics
	Config          *config.Config
	Logger          zerolog.Logger
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Anti-Forgery-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.Config.Server.CORS.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	paymentH := NewPaymentController(deps.PaymentService, deps.FormValidator, deps.SettingsService)
	configH := NewConfigController(deps.SettingsService, deps.Plugin, deps.LocaleService, deps.Logger)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/payment", paymentH.ProcessPayment)
			r.Get("/fee", paymentH.GetFee)
			r.Get("/description", paymentH.GetDescription)
			r.Post("/recurring", paymentH.ProcessRecurringPayment)
			r.Delete("/recurring", paymentH.CancelRecurringPayment)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/capture", paymentH.CapturePayment)
			r.Post("/refund", paymentH.RefundPayment)
			r.Post("/void", paymentH.VoidPayment)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(customMW.RequirePermission(deps.Config.Auth.JWTSecret, customMW.PermissionManagePaymentMethods))
		r.Use(customMW.AntiForgery())

		r.Get("/config", configH.Configure)
		r.Post("/config", configH.ConfigureSave)
		r.Post("/plugin/install", configH.InstallPlugin)
		r.Post("/plugin/uninstall", configH.UninstallPlugin)
	})

	return r
}
