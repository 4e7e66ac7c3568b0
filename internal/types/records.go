// Package types provides type definitions for submission records and
// aggregated statistics used throughout the exchange-insights system.
package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Submission status values. The engine only ever sees APPROVED records;
// the constants exist so the store queries can enforce that filter.
const (
	StatusDraft    = "DRAFT"
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// AccommodationRecord is a single accommodation report for a city.
// PricePerMonth is ambiguous-unit: depending on the submitting client it
// may be decimal euros or already integer cents. The normalize package
// resolves this; nobody else should touch the raw value.
type AccommodationRecord struct {
	ID            uuid.UUID `json:"id"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Type          string    `json:"type"`
	PricePerMonth *float64  `json:"price_per_month"`
	Currency      string    `json:"currency"`
	OverallRating *float64  `json:"overall_rating,omitempty"`
	Tips          string    `json:"tips,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CourseMapping pairs one host-university course with its home-university
// equivalent.
type CourseMapping struct {
	HostCourse string  `json:"host_course"`
	HomeCourse string  `json:"home_course"`
	HostEcts   float64 `json:"host_ects"`
	HomeEcts   float64 `json:"home_ects"`
}

// CourseRecord is a course-exchange report: which courses transferred,
// how well they matched, and how the host university was rated.
type CourseRecord struct {
	ID             uuid.UUID       `json:"id"`
	City           string          `json:"city"`
	Country        string          `json:"country"`
	HostUniversity string          `json:"host_university"`
	HomeUniversity string          `json:"home_university"`
	Ects           *float64        `json:"ects,omitempty"`
	HomeEcts       *float64        `json:"home_ects,omitempty"`
	CourseQuality  *float64        `json:"course_quality,omitempty"`
	OverallRating  *float64        `json:"overall_rating,omitempty"`
	SupportRating  *float64        `json:"support_rating,omitempty"`
	Difficulty     *float64        `json:"difficulty,omitempty"`
	StudyLevel     string          `json:"study_level,omitempty"`
	FieldOfStudy   string          `json:"field_of_study,omitempty"`
	ExamType       string          `json:"exam_type,omitempty"`
	Advice         string          `json:"advice,omitempty"`
	Mappings       []CourseMapping `json:"mappings,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ExperienceRecord is a full-experience report with a single quality score.
type ExperienceRecord struct {
	ID             uuid.UUID `json:"id"`
	HostCity       string    `json:"host_city"`
	HostCountry    string    `json:"host_country"`
	SubmissionType string    `json:"submission_type"`
	QualityScore   *float64  `json:"quality_score,omitempty"`
	IsFeatured     bool      `json:"is_featured"`
	CreatedAt      time.Time `json:"created_at"`
}

// RichExperienceRecord is the JSON-blob shaped submission. The nested
// blobs have no fixed schema across records: numeric values arrive as
// strings or numbers, and key names vary between submissions (for example
// "social" vs "entertainment"). The normalize package reconciles them
// under a documented precedence; do not unmarshal these into rigid structs.
type RichExperienceRecord struct {
	ID             uuid.UUID       `json:"id"`
	HostCity       string          `json:"host_city"`
	HostCountry    string          `json:"host_country"`
	IsComplete     bool            `json:"is_complete"`
	LivingExpenses json.RawMessage `json:"living_expenses,omitempty"`
	Accommodation  json.RawMessage `json:"accommodation,omitempty"`
	Experience     json.RawMessage `json:"experience,omitempty"`
	Courses        json.RawMessage `json:"courses,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Submission is the envelope handed to the aggregation engine: exactly one
// of the sub-shape pointers is set per submission.
//
// Precondition: every Submission reaching the engine has already been
// filtered to approved-and-public by the store queries. The engine never
// re-checks this.
type Submission struct {
	Accommodation *AccommodationRecord  `json:"accommodation,omitempty"`
	Course        *CourseRecord         `json:"course,omitempty"`
	Experience    *ExperienceRecord     `json:"experience,omitempty"`
	Rich          *RichExperienceRecord `json:"rich,omitempty"`
}

// CityCountry returns the city/country pair of whichever sub-shape is set.
func (s Submission) CityCountry() (string, string) {
	switch {
	case s.Accommodation != nil:
		return s.Accommodation.City, s.Accommodation.Country
	case s.Course != nil:
		return s.Course.City, s.Course.Country
	case s.Experience != nil:
		return s.Experience.HostCity, s.Experience.HostCountry
	case s.Rich != nil:
		return s.Rich.HostCity, s.Rich.HostCountry
	}
	return "", ""
}

// CityKey returns the case-insensitive grouping key for a city/country pair.
func CityKey(city, country string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToLower(strings.TrimSpace(country))
}
