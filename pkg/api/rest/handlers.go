package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kgraph/kgraph/pkg/graph"
)

// Handler adapts HTTP requests onto a Service.
type Handler struct {
	svc *Service
}

// NewHandler creates a new REST API handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// HealthCheck handles GET /v1/health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Build handles POST /v1/graphs/{id}/build
func (h *Handler) Build(w http.ResponseWriter, r *http.Request, graphID string) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Build(graphID, req)
	if err != nil {
		writeError(w, fmt.Sprintf("Build failed: %v", err), statusFor(err))
		return
	}

	writeJSON(w, result, http.StatusCreated)
}

// Search handles POST /v1/graphs/{id}/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request, graphID string) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Search(graphID, req)
	if err != nil {
		writeError(w, fmt.Sprintf("Search failed: %v", err), statusFor(err))
		return
	}

	writeJSON(w, result, http.StatusOK)
}

// AddItem handles POST /v1/graphs/{id}/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request, graphID string) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.svc.AddItem(graphID, req); err != nil {
		writeError(w, fmt.Sprintf("Add item failed: %v", err), statusFor(err))
		return
	}

	writeJSON(w, map[string]string{"id": req.ID, "status": "added"}, http.StatusCreated)
}

// RemoveItem handles DELETE /v1/graphs/{id}/items/{itemID}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, graphID, itemID string) {
	if r.Method != http.MethodDelete {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.svc.RemoveItem(graphID, itemID); err != nil {
		writeError(w, fmt.Sprintf("Remove item failed: %v", err), statusFor(err))
		return
	}

	writeJSON(w, map[string]string{"id": itemID, "status": "removed"}, http.StatusOK)
}

// Export handles GET /v1/graphs/{id}/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request, graphID string) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	g, err := h.svc.Export(graphID)
	if err != nil {
		writeError(w, fmt.Sprintf("Export failed: %v", err), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/gexf+xml")
	w.WriteHeader(http.StatusOK)
	if err := graph.WriteGEXF(w, g, nil); err != nil {
		// Headers are already sent; nothing left to do but log on the
		// caller's behalf via a plain error write attempt.
		fmt.Fprintf(w, "\n<!-- export truncated: %v -->", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, graph.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, graph.ErrDuplicateItem):
		return http.StatusConflict
	case errors.Is(err, graph.ErrEmptyItemSet), errors.Is(err, graph.ErrInvalidK):
		return http.StatusBadRequest
	default:
		var invalid *graph.InvalidParameterError
		if errors.As(err, &invalid) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  message,
		"status": statusCode,
	})
}

// splitGraphPath splits "/v1/graphs/{id}/{rest...}" into the graph id and
// whatever followed it, or ok=false if the path doesn't have a graph id.
func splitGraphPath(urlPath, prefix string) (graphID, rest string, ok bool) {
	trimmed := strings.TrimPrefix(urlPath, prefix)
	parts := strings.SplitN(trimmed, "/", 2)
	if parts[0] == "" {
		return "", "", false
	}
	if len(parts) == 1 {
		return parts[0], "", true
	}
	return parts[0], parts[1], true
}
