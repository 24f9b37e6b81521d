package handlers

import (
	"net/http"
	"strconv"
	"time"

	"secmon/internal/database"
)

// Known alert lifecycle states. The engine only ever writes "open";
// transitions happen in external operator tooling, so listings accept all
// three.
var validStatuses = map[string]struct{}{
	"open":         {},
	"acknowledged": {},
	"closed":       {},
}

func isValidStatus(status string) bool {
	_, ok := validStatuses[status]
	return ok
}

// parsePagination reads limit and offset query parameters, applying the
// default and maximum page size. Returns ok=false after writing an error
// response.
func parsePagination(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return 0, 0, false
		}
		limit = parsed
		if limit > maxLimit {
			limit = maxLimit
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "offset must be a non-negative integer", http.StatusBadRequest)
			return 0, 0, false
		}
		offset = parsed
	}

	return limit, offset, true
}

// parseFilter reads status, from and to query parameters into an alert
// filter. Returns ok=false after writing an error response.
func parseFilter(w http.ResponseWriter, r *http.Request) (database.AlertFilter, bool) {
	var filter database.AlertFilter

	if status := r.URL.Query().Get("status"); status != "" {
		if !isValidStatus(status) {
			http.Error(w, "status must be one of: open, acknowledged, closed", http.StatusBadRequest)
			return filter, false
		}
		filter.Status = &status
	}

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "from must be an RFC 3339 timestamp", http.StatusBadRequest)
			return filter, false
		}
		filter.From = &from
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "to must be an RFC 3339 timestamp", http.StatusBadRequest)
			return filter, false
		}
		filter.To = &to
	}

	return filter, true
}
