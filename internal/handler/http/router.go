package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth         AuthHandler
	TimeSheet    TimeSheetHandler
	Overtime     OvertimeHandler
	CreditHour   CreditHourHandler
	PreApproval  PreApprovalHandler
	Travel       TravelHandler
	Notification NotificationHandler
}

func NewRouter(jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// SSE stream authenticates with its own short lived token.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/timesheets", func(r chi.Router) {
				r.Post("/clock", h.TimeSheet.Clock)
				r.Get("/", h.TimeSheet.List)
				r.Get("/{id}/entries", h.TimeSheet.Entries)
				r.Post("/entries/manual", h.TimeSheet.RequestManualEntry)
				r.Post("/entry-approvals/{id}/decide", h.TimeSheet.DecideEntryApproval)

				// HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Delete("/{id}/entries/{entryID}", h.TimeSheet.DeleteEntry)
				})
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Get("/claims/{id}", h.Overtime.ClaimDetail)
				r.Post("/claims/{id}/action", h.Overtime.PerformAction)
				r.Put("/entries/{id}/detail", h.Overtime.EditDetail)

				// HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Post("/entries/{id}/recalibrate", h.Overtime.Recalibrate)
					r.Post("/generate", h.Overtime.GenerateForDate)
				})
			})

			r.Route("/credit-hours", func(r chi.Router) {
				r.Post("/", h.CreditHour.Create)
				r.Post("/{id}/action", h.CreditHour.PerformAction)
				r.Post("/{id}/delete-request", h.CreditHour.RequestDeletion)
				r.Post("/delete-requests/{id}/action", h.CreditHour.ActOnDeleteRequest)

				// HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Post("/bulk", h.CreditHour.BulkOnBehalf)
				})
			})

			r.Route("/pre-approvals", func(r chi.Router) {
				r.Post("/", h.PreApproval.Create)
				r.Post("/{id}/action", h.PreApproval.PerformAction)
				r.Put("/{id}", h.PreApproval.Edit)
			})

			r.Route("/travels", func(r chi.Router) {
				r.Post("/", h.Travel.Create)
				r.Post("/{id}/action", h.Travel.PerformAction)
				r.Post("/{id}/delete-request", h.Travel.RequestDeletion)
				r.Post("/delete-requests/{id}/action", h.Travel.ActOnDeleteRequest)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/{id}/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Delete("/{id}", h.Notification.Delete)
				r.Get("/sse-token", h.Notification.GetSSEToken)
				r.Route("/preferences", func(r chi.Router) {
					r.Get("/", h.Notification.GetPreferences)
					r.Put("/", h.Notification.UpdatePreference)
				})
			})
		})
	})
	return r
}
