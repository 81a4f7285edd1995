// Package api implements the REST transport using chi. It is thin glue:
// each request becomes a named operation plus an argument object passed to
// the tool service, and the service's envelope is serialized back out.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/tools"
)

// Handler holds API route handlers.
type Handler struct {
	svc *tools.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *tools.Service) *Handler {
	return &Handler{svc: svc}
}

// ListTools handles GET /api/tools.
func (h *Handler) ListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": h.svc.Operations()})
}

// CallTool handles POST /api/tools/{name}. The request body is the flat
// argument object; an empty body means no arguments.
func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	args := map[string]any{}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "unreadable body", Kind: string(apperr.KindInvalidRequest)})
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "body is not a JSON object", Kind: string(apperr.KindInvalidRequest)})
			return
		}
	}

	resp, err := h.svc.Call(r.Context(), name, args)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("tool call failed", slog.String("tool", name), slog.String("error", err.Error()))
		}
		writeJSON(w, status, errResponse{Error: errMessage(err), Kind: string(apperr.KindOf(err))})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps error kinds to HTTP statuses. This is the single place
// kind becomes a transport-visible status.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidRequest:
		return http.StatusBadRequest
	case apperr.KindNotFound, apperr.KindMethodNotFound:
		return http.StatusNotFound
	case apperr.KindRejected:
		return http.StatusUnprocessableEntity
	case apperr.KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
