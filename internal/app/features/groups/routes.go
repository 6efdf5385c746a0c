// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// JOIN (single group and batch)
	r.Post("/join", h.HandleJoin)
	r.Post("/{name}/join", h.HandleJoinOne)

	// MEMBER LIST
	r.Get("/{name}/members", h.ServeMembers)

	return r
}
