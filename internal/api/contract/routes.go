package contract

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RegisterRoutes registers contract and precedent routes. The request timeout
// applies to everything except the long-lived progress stream.
func RegisterRoutes(r chi.Router, h *Handler, requestTimeout time.Duration) {
	r.Get("/api/contract/progress/{draft_id}/stream", h.StreamProgress)

	r.Group(func(r chi.Router) {
		if requestTimeout > 0 {
			r.Use(chimiddleware.Timeout(requestTimeout))
		}

		r.Post("/api/contract/chat", h.Chat)
		r.Post("/api/contract/generate", h.Generate)
		r.Get("/api/contract/progress/{draft_id}", h.GetProgress)
		r.Post("/api/contract/export", h.Export)
		r.Post("/api/precedent/outline", h.UploadOutline)
	})
}
