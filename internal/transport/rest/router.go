package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/salarylink/loan-management/internal/auth"
	"github.com/salarylink/loan-management/internal/loan"
	"github.com/salarylink/loan-management/internal/repayment"
	"github.com/salarylink/loan-management/internal/transport/middleware"
	"github.com/salarylink/loan-management/internal/transport/swagger"
	"github.com/salarylink/loan-management/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, loanHandler *loan.Handler, repaymentHandler *repayment.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	guard := auth.NewRoleGuard(logger)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// User routes
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
					pr.Group(func(er chi.Router) {
						er.Use(guard.RequireAdjudicator())
						er.Get("/users/employer/{employerID}", userHandler.GetUsersByEmployer)
					})
				}

				// Loan application routes
				if loanHandler != nil {
					pr.Route("/loan-applications", func(lr chi.Router) {
						lr.Post("/", loanHandler.CreateLoanApplication)
						lr.Get("/employee/{employeeID}", loanHandler.GetEmployeeLoans)
						lr.Get("/{transactionID}", loanHandler.GetLoanApplication)
						lr.Post("/{transactionID}/repay", loanHandler.RepayLoan)

						// Adjudication routes for employers and admins
						lr.Group(func(er chi.Router) {
							er.Use(guard.RequireAdjudicator())
							er.Get("/employer/{employerID}", loanHandler.GetEmployerLoans)
							er.Put("/{transactionID}/status", loanHandler.UpdateLoanStatus)
						})

						lr.Group(func(ar chi.Router) {
							ar.Use(guard.RequireAdmin())
							ar.Get("/manual", loanHandler.GetManualReviewQueue)
						})
					})
				}

				// Repayment routes
				if repaymentHandler != nil {
					pr.Route("/repayments", func(rr chi.Router) {
						rr.Post("/", repaymentHandler.SubmitRepayment)
						rr.Get("/user/{userID}", repaymentHandler.GetUserRepayments)

						rr.Group(func(er chi.Router) {
							er.Use(guard.RequireAdjudicator())
							er.Get("/employer/{employerID}", repaymentHandler.GetEmployerRepayments)
							er.Put("/{repaymentID}/status", repaymentHandler.UpdateRepaymentStatus)
							er.Post("/{repaymentID}/approve", repaymentHandler.ApproveRepayment)
						})
					})
				}
			})
		}
	})
}
