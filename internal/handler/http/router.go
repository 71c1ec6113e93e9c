package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/istmosoft/planilla-backend-go/internal/handler/http/middleware"
	"github.com/istmosoft/planilla-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	payrollHandler PayrollHandler,
	taxTableHandler TaxTableHandler,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "planilla-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll-runs", func(r chi.Router) {
				r.Post("/", payrollHandler.CreateRun)
				r.Get("/", payrollHandler.ListRuns)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetRun)
					r.Get("/details", payrollHandler.GetRunDetails)
					r.Post("/calculate", payrollHandler.CalculateRun)
					r.Post("/approve", payrollHandler.ApproveRun)
					r.Post("/cancel", payrollHandler.CancelRun)
					r.Post("/pay", payrollHandler.MarkRunPaid)
				})
			})

			r.Route("/tax-tables", func(r chi.Router) {
				r.Get("/", taxTableHandler.GetTaxConfig)
				r.Get("/contribution-rates", taxTableHandler.GetContributionRates)
			})
		})
	})

	// Liveness probe for container orchestration
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	return r
}
