package types

import "github.com/jonathan/exchange-insights/internal/stats"

// LivingCostBreakdown holds per-category average monthly costs in cents.
// City-level averages are plain means over the normalized category values;
// only the platform-level aggregation applies percentile trimming.
type LivingCostBreakdown struct {
	RentCents          int64 `json:"rent_cents"`
	FoodCents          int64 `json:"food_cents"`
	TransportCents     int64 `json:"transport_cents"`
	EntertainmentCents int64 `json:"entertainment_cents"`
	UtilitiesCents     int64 `json:"utilities_cents"`
	OtherCents         int64 `json:"other_cents"`
	TotalCents         int64 `json:"total_cents"`
	SampleSize         int   `json:"sample_size"`
}

// RatingBreakdown holds the six average rating dimensions on a 0-5 scale.
// Each dimension is averaged only over records where it was actually given;
// absent ratings never drag an average toward zero.
type RatingBreakdown struct {
	Overall       float64 `json:"overall"`
	Academics     float64 `json:"academics"`
	SocialLife    float64 `json:"social_life"`
	Accommodation float64 `json:"accommodation"`
	Safety        float64 `json:"safety"`
	Transport     float64 `json:"transport"`
	SampleSize    int     `json:"sample_size"`
}

// AccommodationTypeStats describes one accommodation type within a city.
type AccommodationTypeStats struct {
	Type         string  `json:"type"`
	Count        int     `json:"count"`
	AvgRentCents int64   `json:"avg_rent_cents"`
	Percentage   float64 `json:"percentage"`
}

// CourseMatchingStats summarizes course-exchange outcomes for a city.
// SuccessRate is the percentage of records with at least one course mapping.
type CourseMatchingStats struct {
	AvgDifficulty         float64     `json:"avg_difficulty"`
	DifficultyBreakdown   map[int]int `json:"difficulty_breakdown"`
	AvgCoursesMatched     float64     `json:"avg_courses_matched"`
	AvgCreditsTransferred float64     `json:"avg_credits_transferred"`
	SuccessRate           float64     `json:"success_rate"`
	TotalSubmissions      int         `json:"total_submissions"`
	TopAdvice             []string    `json:"top_advice"`
}

// RecommendationStats counts records whose overall rating clears the
// recommendation threshold (>= 4 on the 1-5 scale).
type RecommendationStats struct {
	Count      int     `json:"count"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Tip is one surfaced free-text tip with how often it was seen.
type Tip struct {
	Category  string `json:"category"`
	Text      string `json:"text"`
	Frequency int    `json:"frequency"`
}

// CityAggregatedData is the full per-city aggregation result. It is an
// immutable, JSON-serializable value: list fields are always non-nil so
// the API contract of `[]` (not `null`) holds, and a city with zero
// submissions yields the all-zero shape rather than an error.
type CityAggregatedData struct {
	City             string                   `json:"city"`
	Country          string                   `json:"country"`
	TotalSubmissions int                      `json:"total_submissions"`
	LivingCosts      LivingCostBreakdown      `json:"living_costs"`
	Ratings          RatingBreakdown          `json:"ratings"`
	Accommodation    []AccommodationTypeStats `json:"accommodation"`
	CourseMatching   CourseMatchingStats      `json:"course_matching"`
	Recommendations  RecommendationStats      `json:"recommendations"`
	TopTips          []Tip                    `json:"top_tips"`
	Universities     []string                 `json:"universities"`
}

// EmptyCityAggregatedData returns the documented zero-value shape for a
// city with no matching records.
func EmptyCityAggregatedData(city, country string) CityAggregatedData {
	return CityAggregatedData{
		City:           city,
		Country:        country,
		Accommodation:  []AccommodationTypeStats{},
		CourseMatching: CourseMatchingStats{DifficultyBreakdown: map[int]int{}, TopAdvice: []string{}},
		TopTips:        []Tip{},
		Universities:   []string{},
	}
}

// TypeBreakdown is a per-group rent statistic (accommodation type or city).
type TypeBreakdown struct {
	Name         string `json:"name"`
	Count        int    `json:"count"`
	AvgRentCents int64  `json:"avg_rent_cents"`
}

// GroupStat is a per-group quality statistic (study level or field of study).
type GroupStat struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	AvgQuality float64 `json:"avg_quality"`
}

// UniversityRank is one row of the university leaderboard.
type UniversityRank struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	AvgQuality float64 `json:"avg_quality"`
}

// CityCount ranks a city by a submission count.
type CityCount struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// CityRent ranks a city by its trimmed average rent.
type CityRent struct {
	City         string `json:"city"`
	Country      string `json:"country"`
	AvgRentCents int64  `json:"avg_rent_cents"`
	SampleSize   int    `json:"sample_size"`
}

// CityQuality ranks a city by its average experience quality score.
type CityQuality struct {
	City            string  `json:"city"`
	Country         string  `json:"country"`
	AvgQuality      float64 `json:"avg_quality"`
	SubmissionCount int     `json:"submission_count"`
}

// GlobalAccommodationStats is the platform-wide rent picture: an
// outlier-trimmed average plus the untrimmed extremes, and a per-type
// breakdown.
type GlobalAccommodationStats struct {
	Rent   stats.Summary   `json:"rent"`
	ByType []TypeBreakdown `json:"by_type"`
}

// GlobalCourseStats is the platform-wide course-exchange picture.
type GlobalCourseStats struct {
	TotalSubmissions   int              `json:"total_submissions"`
	AvgQuality         float64          `json:"avg_quality"`
	AvgEctsTransferred float64          `json:"avg_ects_transferred"`
	ByStudyLevel       []GroupStat      `json:"by_study_level"`
	ByFieldOfStudy     []GroupStat      `json:"by_field_of_study"`
	TopUniversities    []UniversityRank `json:"top_universities"`
}

// GlobalExperienceStats summarizes full-experience submissions.
type GlobalExperienceStats struct {
	Total      int     `json:"total"`
	Featured   int     `json:"featured"`
	AvgQuality float64 `json:"avg_quality"`
}

// GlobalRankings holds the platform top-10 lists. The affordability and
// quality lists apply a minimum sample-size gate of 3 so a single cheap
// or glowing submission cannot put a city on a leaderboard.
type GlobalRankings struct {
	TopCitiesByVolume    []CityCount   `json:"top_cities_by_volume"`
	MostPopularCities    []CityCount   `json:"most_popular_cities"`
	MostAffordableCities []CityRent    `json:"most_affordable_cities"`
	HighestQualityCities []CityQuality `json:"highest_quality_cities"`
}

// GlobalStats is the platform-wide aggregation result.
type GlobalStats struct {
	TotalSubmissions int                      `json:"total_submissions"`
	Accommodation    GlobalAccommodationStats `json:"accommodation"`
	Courses          GlobalCourseStats        `json:"courses"`
	Experiences      GlobalExperienceStats    `json:"experiences"`
	Rankings         GlobalRankings           `json:"rankings"`
}

// CityStats is the API-shaped per-city projection with percentile-based
// outlier bounds. Unlike CityAggregatedData's plain per-category means,
// the rent figure here is the [p5, p95] trimmed mean over the pooled
// per-city rents; the asymmetry between the two call sites is deliberate.
type CityStats struct {
	City             string          `json:"city"`
	Country          string          `json:"country"`
	TotalSubmissions int             `json:"total_submissions"`
	Rent             stats.Summary   `json:"rent"`
	ByType           []TypeBreakdown `json:"by_type"`
	ByStudyLevel     []GroupStat     `json:"by_study_level"`
	ByFieldOfStudy   []GroupStat     `json:"by_field_of_study"`
	Universities     []string        `json:"universities"`
}

// CityComparisonEntry is one city's row in a comparison result.
// CostOfLivingIndex is relative to the cheapest compared city (1.0 =
// cheapest); cities with no rent data carry index 0 and sort last.
type CityComparisonEntry struct {
	City              string        `json:"city"`
	Country           string        `json:"country"`
	AvgRentCents      int64         `json:"avg_rent_cents"`
	CostOfLivingIndex float64       `json:"cost_of_living_index"`
	Rent              stats.Summary `json:"rent"`
	AvgRating         float64       `json:"avg_rating"`
	AvgQuality        float64       `json:"avg_quality"`
	CourseCount       int           `json:"course_count"`
	SampleSize        int           `json:"sample_size"`
	TotalSubmissions  int           `json:"total_submissions"`
}

// ComparisonSummary names the superlative entity per metric.
type ComparisonSummary struct {
	Cheapest            string `json:"cheapest"`
	MostExpensive       string `json:"most_expensive"`
	HighestRated        string `json:"highest_rated"`
	MostCourses         string `json:"most_courses"`
	BestAcademicQuality string `json:"best_academic_quality"`
}

// CityComparison is the result of comparing 2-10 cities.
type CityComparison struct {
	Cities  []CityComparisonEntry `json:"cities"`
	Summary ComparisonSummary     `json:"summary"`
}

// UniversityComparisonEntry is one university's row in a comparison.
// CompositeRating is academic*0.4 + overall*0.3 + support*0.3; a missing
// component contributes 0 to the weighted sum.
type UniversityComparisonEntry struct {
	Name              string  `json:"name"`
	CompositeRating   float64 `json:"composite_rating"`
	AcademicRating    float64 `json:"academic_rating"`
	OverallRating     float64 `json:"overall_rating"`
	SupportRating     float64 `json:"support_rating"`
	CourseCount       int     `json:"course_count"`
	AvgEcts           float64 `json:"avg_ects"`
	AvgRentCents      int64   `json:"avg_rent_cents"`
	CostOfLivingIndex float64 `json:"cost_of_living_index"`
}

// UniversityComparison is the result of comparing 2-5 universities.
type UniversityComparison struct {
	Universities []UniversityComparisonEntry `json:"universities"`
	Summary      ComparisonSummary           `json:"summary"`
}
