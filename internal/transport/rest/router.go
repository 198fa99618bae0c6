package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/auth"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/job"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/payment"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/transport"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/transport/middleware"
)

// RegisterAllRoutes wires the portal API. Admin-only routes are the ones that
// move money state: creating obligations, confirming, rejecting and recording
// offline payments.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, jobHandler *job.Handler, paymentHandler *payment.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	base := transport.NewBaseHandler(logger)
	requireAdmin := auth.RequireAdmin(base)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", authHandler.Me)

			pr.Route("/jobs", func(jr chi.Router) {
				jr.Get("/", jobHandler.ListJobs)
				jr.Get("/{id}", jobHandler.GetJob)
				jr.Get("/{id}/payment-status", paymentHandler.GetJobPaymentStatus)

				jr.Group(func(ar chi.Router) {
					ar.Use(requireAdmin)
					ar.Post("/", jobHandler.CreateJob)
					ar.Patch("/{id}/status", jobHandler.UpdateJobStatus)
					ar.Post("/{id}/offline-payment", paymentHandler.RecordOfflinePayment)
				})
			})

			pr.Route("/payments", func(pm chi.Router) {
				pm.Get("/statement", paymentHandler.GetStatement)
				pm.Get("/pending-total", paymentHandler.GetPendingTotal)
				pm.Get("/{id}", paymentHandler.GetPayment)
				pm.Patch("/{id}/settle", paymentHandler.ReportSettlement)

				pm.Group(func(ar chi.Router) {
					ar.Use(requireAdmin)
					ar.Post("/", paymentHandler.CreateObligation)
					ar.Get("/waiting", paymentHandler.ListWaiting)
					ar.Patch("/{id}/confirm", paymentHandler.ConfirmPayment)
					ar.Patch("/{id}/reject", paymentHandler.RejectPayment)
				})
			})
		})
	})
}
