package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/exchange-insights/internal/db"
)

// maxAccommodationLimit caps the page size of the accommodation listing.
const maxAccommodationLimit = 500

// handleListAccommodations returns raw approved accommodation records,
// optionally filtered by city, country, and type query parameters.
func (s *Server) handleListAccommodations(w http.ResponseWriter, r *http.Request) {
	filters := db.AccommodationFilters{
		City:    r.URL.Query().Get("city"),
		Country: r.URL.Query().Get("country"),
		Type:    r.URL.Query().Get("type"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxAccommodationLimit {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		filters.Limit = limit
	}

	records, err := s.db.ListAccommodationsFiltered(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count":          len(records),
		"accommodations": records,
	})
}
