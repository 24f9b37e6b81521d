package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"secmon/internal/database"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ListAlerts retrieves alerts most-recent-first with pagination.
// Query parameters: limit, offset, status, from, to (RFC 3339).
func (h *Handlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, offset, ok := parsePagination(w, r)
	if !ok {
		return
	}
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	result, err := h.db.ListAlerts(ctx, filter, limit, offset)
	if err != nil {
		slog.Error("Failed to list alerts", "error", err)
		http.Error(w, "Failed to list alerts", http.StatusInternalServerError)
		return
	}

	// Keep the contract stable for clients: an empty page is [], not null.
	if result.Alerts == nil {
		result.Alerts = []*database.Alert{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// CountAlertsResponse is the aggregate count payload.
type CountAlertsResponse struct {
	Count int64     `json:"count"`
	Since time.Time `json:"since"`
}

// CountAlerts returns the number of alerts recorded since a given moment.
// Query parameters: since (required, RFC 3339), status (optional).
func (h *Handlers) CountAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sinceParam := r.URL.Query().Get("since")
	if sinceParam == "" {
		http.Error(w, "since query parameter is required", http.StatusBadRequest)
		return
	}
	since, err := time.Parse(time.RFC3339, sinceParam)
	if err != nil {
		http.Error(w, "since must be an RFC 3339 timestamp", http.StatusBadRequest)
		return
	}

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		if !isValidStatus(s) {
			http.Error(w, "status must be one of: open, acknowledged, closed", http.StatusBadRequest)
			return
		}
		status = &s
	}

	ctx := r.Context()
	count, err := h.db.CountAlertsSince(ctx, since, status)
	if err != nil {
		slog.Error("Failed to count alerts", "error", err, "since", since)
		http.Error(w, "Failed to count alerts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CountAlertsResponse{Count: count, Since: since})
}
