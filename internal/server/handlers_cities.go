package server

import (
	"log"
	"net/http"

	"github.com/jonathan/exchange-insights/internal/aggregate"
)

// handleListCities aggregates every approved submission into per-city
// summaries for the bulk endpoint.
func (s *Server) handleListCities(w http.ResponseWriter, r *http.Request) {
	submissions, err := s.db.ListAllSubmissions(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	cities := aggregate.AggregateAllCities(submissions)

	s.cachedJSONResponse(w, http.StatusOK, map[string]any{
		"cities": cities,
		"count":  len(cities),
	})
}

// handleGetCity returns the full aggregation for one city. Results are
// served from the database-backed cache when a fresh entry exists (24h
// staleness gate); otherwise the aggregation is recomputed and stored.
// A city with zero approved records returns the all-zero shape, not 404.
func (s *Server) handleGetCity(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")
	country := r.URL.Query().Get("country")
	if country == "" {
		s.errorResponse(w, http.StatusBadRequest, "country query parameter is required")
		return
	}

	if payload, ok, err := s.db.GetCityStatsCache(r.Context(), city, country); err == nil && ok {
		w.Header().Set("Cache-Control", statsCacheControl)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(payload); err != nil {
			log.Printf("[cache] Error writing cached response: %v", err)
		}
		return
	} else if err != nil {
		// Cache failures degrade to a recompute, they never fail the request
		log.Printf("[cache] Lookup failed for %s, %s: %v", city, country, err)
	}

	submissions, err := s.db.ListSubmissionsByCity(r.Context(), city, country)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	result := aggregate.AggregateCityData(city, country, submissions)

	if err := s.db.SaveCityStatsCache(r.Context(), city, country, result); err != nil {
		log.Printf("[cache] Save failed for %s, %s: %v", city, country, err)
	}

	s.cachedJSONResponse(w, http.StatusOK, result)
}
