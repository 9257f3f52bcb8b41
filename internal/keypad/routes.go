package keypad

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/evaluate", h.Evaluate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Get("/{id}", h.GetSession)
			r.Delete("/{id}", h.DeleteSession)
			r.Post("/{id}/keys", h.PressKeys)
		})
	})
}
