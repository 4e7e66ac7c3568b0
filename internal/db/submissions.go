package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/exchange-insights/internal/types"
)

// Visibility filters applied by every listing query. Rich experiences use
// a completeness check instead of a plain APPROVED status because drafts
// are saved incrementally.
const (
	approvedFilter     = `status = '` + types.StatusApproved + `' AND is_public = true`
	richApprovedFilter = `is_complete = true AND status NOT IN ('` + types.StatusDraft + `', '` + types.StatusRejected + `') AND is_public = true`
)

// ListAccommodations retrieves all approved public accommodation records
func (db *DB) ListAccommodations(ctx context.Context) ([]types.AccommodationRecord, error) {
	query := `SELECT id, city, country, COALESCE(type, ''), price_per_month, COALESCE(currency, 'EUR'),
		overall_rating, COALESCE(tips, ''), created_at
		FROM accommodations WHERE ` + approvedFilter
	return db.queryAccommodations(ctx, query)
}

// ListAccommodationsByCity retrieves approved accommodation records for one city
func (db *DB) ListAccommodationsByCity(ctx context.Context, city, country string) ([]types.AccommodationRecord, error) {
	query := `SELECT id, city, country, COALESCE(type, ''), price_per_month, COALESCE(currency, 'EUR'),
		overall_rating, COALESCE(tips, ''), created_at
		FROM accommodations WHERE ` + approvedFilter + `
		AND LOWER(city) = LOWER($1) AND LOWER(country) = LOWER($2)`
	return db.queryAccommodations(ctx, query, city, country)
}

func (db *DB) queryAccommodations(ctx context.Context, query string, args ...any) ([]types.AccommodationRecord, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accommodations: %w", err)
	}
	defer rows.Close()

	var records []types.AccommodationRecord
	for rows.Next() {
		var rec types.AccommodationRecord
		if err := rows.Scan(&rec.ID, &rec.City, &rec.Country, &rec.Type, &rec.PricePerMonth,
			&rec.Currency, &rec.OverallRating, &rec.Tips, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan accommodation: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

const courseColumns = `id, city, country, COALESCE(host_university, ''), COALESCE(home_university, ''),
	ects, home_ects, course_quality, overall_rating, support_rating, difficulty,
	COALESCE(study_level, ''), COALESCE(field_of_study, ''), COALESCE(exam_type, ''),
	COALESCE(advice, ''), mappings, created_at`

// ListCourses retrieves all approved public course-exchange records
func (db *DB) ListCourses(ctx context.Context) ([]types.CourseRecord, error) {
	query := `SELECT ` + courseColumns + ` FROM course_exchanges WHERE ` + approvedFilter
	return db.queryCourses(ctx, query)
}

// ListCoursesByCity retrieves approved course-exchange records for one city
func (db *DB) ListCoursesByCity(ctx context.Context, city, country string) ([]types.CourseRecord, error) {
	query := `SELECT ` + courseColumns + ` FROM course_exchanges WHERE ` + approvedFilter + `
		AND LOWER(city) = LOWER($1) AND LOWER(country) = LOWER($2)`
	return db.queryCourses(ctx, query, city, country)
}

// ListCoursesByUniversity retrieves approved course-exchange records for one host university
func (db *DB) ListCoursesByUniversity(ctx context.Context, university string) ([]types.CourseRecord, error) {
	query := `SELECT ` + courseColumns + ` FROM course_exchanges WHERE ` + approvedFilter + `
		AND LOWER(host_university) = LOWER($1)`
	return db.queryCourses(ctx, query, university)
}

func (db *DB) queryCourses(ctx context.Context, query string, args ...any) ([]types.CourseRecord, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var records []types.CourseRecord
	for rows.Next() {
		var rec types.CourseRecord
		var mappings []byte
		if err := rows.Scan(&rec.ID, &rec.City, &rec.Country, &rec.HostUniversity, &rec.HomeUniversity,
			&rec.Ects, &rec.HomeEcts, &rec.CourseQuality, &rec.OverallRating, &rec.SupportRating,
			&rec.Difficulty, &rec.StudyLevel, &rec.FieldOfStudy, &rec.ExamType, &rec.Advice,
			&mappings, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		if len(mappings) > 0 {
			// Malformed mapping JSON degrades to "no mappings", not an error
			_ = json.Unmarshal(mappings, &rec.Mappings)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListExperiences retrieves all approved public full-experience records
func (db *DB) ListExperiences(ctx context.Context) ([]types.ExperienceRecord, error) {
	query := `SELECT id, host_city, host_country, COALESCE(submission_type, ''), quality_score,
		is_featured, created_at
		FROM experiences WHERE ` + approvedFilter
	return db.queryExperiences(ctx, query)
}

// ListExperiencesByCity retrieves approved full-experience records for one city
func (db *DB) ListExperiencesByCity(ctx context.Context, city, country string) ([]types.ExperienceRecord, error) {
	query := `SELECT id, host_city, host_country, COALESCE(submission_type, ''), quality_score,
		is_featured, created_at
		FROM experiences WHERE ` + approvedFilter + `
		AND LOWER(host_city) = LOWER($1) AND LOWER(host_country) = LOWER($2)`
	return db.queryExperiences(ctx, query, city, country)
}

func (db *DB) queryExperiences(ctx context.Context, query string, args ...any) ([]types.ExperienceRecord, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	var records []types.ExperienceRecord
	for rows.Next() {
		var rec types.ExperienceRecord
		if err := rows.Scan(&rec.ID, &rec.HostCity, &rec.HostCountry, &rec.SubmissionType,
			&rec.QualityScore, &rec.IsFeatured, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListRichExperiencesByCity retrieves complete, non-rejected rich-experience
// records for one city. The JSON blobs are returned raw; the normalize
// package owns their interpretation.
func (db *DB) ListRichExperiencesByCity(ctx context.Context, city, country string) ([]types.RichExperienceRecord, error) {
	query := `SELECT id, host_city, host_country, is_complete, living_expenses, accommodation,
		experience, courses, created_at
		FROM rich_experiences WHERE ` + richApprovedFilter + `
		AND LOWER(host_city) = LOWER($1) AND LOWER(host_country) = LOWER($2)`
	return db.queryRichExperiences(ctx, query, city, country)
}

// ListRichExperiences retrieves all complete, non-rejected rich-experience records
func (db *DB) ListRichExperiences(ctx context.Context) ([]types.RichExperienceRecord, error) {
	query := `SELECT id, host_city, host_country, is_complete, living_expenses, accommodation,
		experience, courses, created_at
		FROM rich_experiences WHERE ` + richApprovedFilter
	return db.queryRichExperiences(ctx, query)
}

func (db *DB) queryRichExperiences(ctx context.Context, query string, args ...any) ([]types.RichExperienceRecord, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rich experiences: %w", err)
	}
	defer rows.Close()

	var records []types.RichExperienceRecord
	for rows.Next() {
		var rec types.RichExperienceRecord
		if err := rows.Scan(&rec.ID, &rec.HostCity, &rec.HostCountry, &rec.IsComplete,
			&rec.LivingExpenses, &rec.Accommodation, &rec.Experience, &rec.Courses,
			&rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rich experience: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListSubmissionsByCity gathers all four record shapes for one city into
// the envelope form the city aggregator consumes.
func (db *DB) ListSubmissionsByCity(ctx context.Context, city, country string) ([]types.Submission, error) {
	accommodations, err := db.ListAccommodationsByCity(ctx, city, country)
	if err != nil {
		return nil, err
	}
	courses, err := db.ListCoursesByCity(ctx, city, country)
	if err != nil {
		return nil, err
	}
	experiences, err := db.ListExperiencesByCity(ctx, city, country)
	if err != nil {
		return nil, err
	}
	rich, err := db.ListRichExperiencesByCity(ctx, city, country)
	if err != nil {
		return nil, err
	}

	submissions := make([]types.Submission, 0, len(accommodations)+len(courses)+len(experiences)+len(rich))
	for i := range accommodations {
		submissions = append(submissions, types.Submission{Accommodation: &accommodations[i]})
	}
	for i := range courses {
		submissions = append(submissions, types.Submission{Course: &courses[i]})
	}
	for i := range experiences {
		submissions = append(submissions, types.Submission{Experience: &experiences[i]})
	}
	for i := range rich {
		submissions = append(submissions, types.Submission{Rich: &rich[i]})
	}
	return submissions, nil
}

// ListAllSubmissions gathers every approved record into envelope form,
// for the bulk all-cities endpoint.
func (db *DB) ListAllSubmissions(ctx context.Context) ([]types.Submission, error) {
	accommodations, err := db.ListAccommodations(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := db.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	experiences, err := db.ListExperiences(ctx)
	if err != nil {
		return nil, err
	}
	rich, err := db.ListRichExperiences(ctx)
	if err != nil {
		return nil, err
	}

	submissions := make([]types.Submission, 0, len(accommodations)+len(courses)+len(experiences)+len(rich))
	for i := range accommodations {
		submissions = append(submissions, types.Submission{Accommodation: &accommodations[i]})
	}
	for i := range courses {
		submissions = append(submissions, types.Submission{Course: &courses[i]})
	}
	for i := range experiences {
		submissions = append(submissions, types.Submission{Experience: &experiences[i]})
	}
	for i := range rich {
		submissions = append(submissions, types.Submission{Rich: &rich[i]})
	}
	return submissions, nil
}

// AccommodationFilters holds optional filters for listing accommodations
type AccommodationFilters struct {
	City    string
	Country string
	Type    string
	Limit   int
}

// ListAccommodationsFiltered retrieves approved accommodations with optional filters
func (db *DB) ListAccommodationsFiltered(ctx context.Context, filters AccommodationFilters) ([]types.AccommodationRecord, error) {
	if filters.Limit == 0 {
		filters.Limit = 100
	}

	query := `SELECT id, city, country, COALESCE(type, ''), price_per_month, COALESCE(currency, 'EUR'),
		overall_rating, COALESCE(tips, ''), created_at
		FROM accommodations WHERE ` + approvedFilter
	args := []any{}
	argNum := 1

	if filters.City != "" {
		query += fmt.Sprintf(" AND city ILIKE $%d", argNum)
		args = append(args, "%"+filters.City+"%")
		argNum++
	}
	if filters.Country != "" {
		query += fmt.Sprintf(" AND country ILIKE $%d", argNum)
		args = append(args, "%"+filters.Country+"%")
		argNum++
	}
	if filters.Type != "" {
		query += fmt.Sprintf(" AND LOWER(type) = LOWER($%d)", argNum)
		args = append(args, filters.Type)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	return db.queryAccommodations(ctx, query, args...)
}
