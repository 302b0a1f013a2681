package adminhttp

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/xano-community/xano-mcp/internal/usecase"
)

// Handlers serves the admin endpoints that run alongside the SSE transport:
// liveness and the registered tool listing.
type Handlers struct {
	registry usecase.ToolRegistry
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers struct.
func NewHandlers(registry usecase.ToolRegistry, logger *slog.Logger) *Handlers {
	return &Handlers{
		registry: registry,
		logger:   logger.With("component", "admin_http"),
	}
}

// RegisterAdminRoutes sets up the HTTP routes for admin endpoints.
func (h *Handlers) RegisterAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /tools", h.handleListTools)
}

// handleHealthz implements GET /healthz.
func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListTools implements GET /tools.
func (h *Handlers) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.registry.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list registered tools.", slog.Any("error", err))
		http.Error(w, "Failed to list tools", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": tools,
		"count": len(tools),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
