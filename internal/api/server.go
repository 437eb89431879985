package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	contractapi "github.com/lexyai/drafter/internal/api/contract"
	"github.com/lexyai/drafter/internal/api/docs"
	"github.com/lexyai/drafter/internal/api/middleware"
	"github.com/lexyai/drafter/internal/pkg/response"
	"go.uber.org/zap"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(contractHandler *contractapi.Handler, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, healthResponse{Status: "ok", Message: "drafter is alive"})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	contractapi.RegisterRoutes(r, contractHandler, requestTimeout)

	return r
}
