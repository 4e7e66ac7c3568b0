package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/exchange-insights/internal/aggregate"
	"github.com/jonathan/exchange-insights/internal/types"
)

// handleCompareCities compares 2-10 cities side by side. Each city's
// records are fetched and aggregated independently and concurrently; a
// failed city degrades to the zero-value entry instead of aborting the
// whole comparison.
func (s *Server) handleCompareCities(w http.ResponseWriter, r *http.Request) {
	var req types.CompareCitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid comparison request: between 2 and 10 cities are required")
		return
	}

	entities := make([]aggregate.CityRecords, len(req.Cities))
	g, gCtx := errgroup.WithContext(r.Context())
	for i, ref := range req.Cities {
		// Each goroutine writes only its own slice index
		g.Go(func() error {
			entity, err := s.fetchCityRecords(gCtx, ref.City, ref.Country)
			if err != nil {
				log.Printf("[compare] Fetch failed for %s, %s: %v", ref.City, ref.Country, err)
				entities[i] = aggregate.CityRecords{City: ref.City, Country: ref.Country}
				return nil
			}
			entities[i] = entity
			return nil
		})
	}
	_ = g.Wait()

	result := aggregate.CompareCities(entities)

	s.cachedJSONResponse(w, http.StatusOK, result)
}

func (s *Server) fetchCityRecords(ctx context.Context, city, country string) (aggregate.CityRecords, error) {
	entity := aggregate.CityRecords{City: city, Country: country}

	accommodations, err := s.db.ListAccommodationsByCity(ctx, city, country)
	if err != nil {
		return entity, err
	}
	courses, err := s.db.ListCoursesByCity(ctx, city, country)
	if err != nil {
		return entity, err
	}
	experiences, err := s.db.ListExperiencesByCity(ctx, city, country)
	if err != nil {
		return entity, err
	}

	entity.Accommodations = accommodations
	entity.Courses = courses
	entity.Experiences = experiences
	return entity, nil
}

// handleCompareUniversities compares 2-5 universities, optionally
// restricted to courses reported by students from one home university.
func (s *Server) handleCompareUniversities(w http.ResponseWriter, r *http.Request) {
	var req types.CompareUniversitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid comparison request: between 2 and 5 universities are required")
		return
	}

	entities := make([]aggregate.UniversityRecords, len(req.Universities))
	g, gCtx := errgroup.WithContext(r.Context())
	for i, name := range req.Universities {
		g.Go(func() error {
			entity, err := s.fetchUniversityRecords(gCtx, name)
			if err != nil {
				log.Printf("[compare] Fetch failed for university %s: %v", name, err)
				entities[i] = aggregate.UniversityRecords{Name: name}
				return nil
			}
			entities[i] = entity
			return nil
		})
	}
	_ = g.Wait()

	result := aggregate.CompareUniversities(entities, req.HomeUniversity)

	s.cachedJSONResponse(w, http.StatusOK, result)
}

// fetchUniversityRecords gathers a university's course records plus the
// accommodation records of every city those courses were reported from,
// which is the rent sample used for its cost-of-living index.
func (s *Server) fetchUniversityRecords(ctx context.Context, name string) (aggregate.UniversityRecords, error) {
	entity := aggregate.UniversityRecords{Name: name}

	courses, err := s.db.ListCoursesByUniversity(ctx, name)
	if err != nil {
		return entity, err
	}
	entity.Courses = courses

	seen := make(map[string]bool)
	for i := range courses {
		key := types.CityKey(courses[i].City, courses[i].Country)
		if seen[key] || strings.TrimSpace(courses[i].City) == "" {
			continue
		}
		seen[key] = true
		accommodations, err := s.db.ListAccommodationsByCity(ctx, courses[i].City, courses[i].Country)
		if err != nil {
			return entity, err
		}
		entity.Accommodations = append(entity.Accommodations, accommodations...)
	}
	return entity, nil
}
