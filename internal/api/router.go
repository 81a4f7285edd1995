package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ethanf/roam-research-mcp/internal/tools"
)

// NewRouter creates a chi router with the tool routes mounted.
func NewRouter(svc *tools.Service) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Get("/tools", h.ListTools)
	r.Post("/tools/{name}", h.CallTool)
	return r
}
