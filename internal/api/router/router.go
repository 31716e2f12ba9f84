package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blclinic/appointments/internal/appointments"
	"github.com/blclinic/appointments/internal/clinic"
	httpmiddleware "github.com/blclinic/appointments/internal/http/middleware"
	"github.com/blclinic/appointments/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	ShiftHandler        *clinic.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	RateLimitRPS        float64
	RateLimitBurst      int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.AppointmentsHandler.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/", cfg.AppointmentsHandler.Root)
		api.Get("/available-slots", cfg.AppointmentsHandler.AvailableSlots)
		api.Get("/appointments", cfg.AppointmentsHandler.List)
		api.Post("/workflow-webhook", cfg.AppointmentsHandler.WorkflowWebhook)

		// Booking and payment endpoints are rate limited per IP.
		api.Group(func(limited chi.Router) {
			if cfg.RateLimitRPS > 0 {
				limited.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
			}
			limited.Post("/appointments", cfg.AppointmentsHandler.Create)
			limited.Post("/create-payment-order", cfg.AppointmentsHandler.CreatePaymentOrder)
			limited.Post("/verify-payment", cfg.AppointmentsHandler.VerifyPayment)
		})

		if cfg.ShiftHandler != nil {
			api.Route("/clinic", func(r chi.Router) {
				r.Get("/shift", cfg.ShiftHandler.GetShift)
				r.Put("/shift", cfg.ShiftHandler.UpdateShift)
			})
		}
	})

	return r
}
