package server

import (
	"net/http"

	"github.com/jonathan/exchange-insights/internal/aggregate"
)

// handleGlobalStats computes platform-wide statistics over the three
// approved record collections.
func (s *Server) handleGlobalStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accommodations, err := s.db.ListAccommodations(ctx)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	courses, err := s.db.ListCourses(ctx)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	experiences, err := s.db.ListExperiences(ctx)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	result := aggregate.ComputeGlobalStats(accommodations, courses, experiences)

	s.cachedJSONResponse(w, http.StatusOK, result)
}

// handleCityStats returns the percentile-based per-city projection.
func (s *Server) handleCityStats(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")
	country := r.URL.Query().Get("country")
	if country == "" {
		s.errorResponse(w, http.StatusBadRequest, "country query parameter is required")
		return
	}

	ctx := r.Context()
	accommodations, err := s.db.ListAccommodationsByCity(ctx, city, country)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	courses, err := s.db.ListCoursesByCity(ctx, city, country)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	experiences, err := s.db.ListExperiencesByCity(ctx, city, country)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	result := aggregate.ComputeCityStats(city, country, accommodations, courses, experiences)

	s.cachedJSONResponse(w, http.StatusOK, result)
}
