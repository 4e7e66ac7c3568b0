package aggregate

import (
	"sort"
	"strings"

	"github.com/jonathan/exchange-insights/internal/normalize"
	"github.com/jonathan/exchange-insights/internal/stats"
	"github.com/jonathan/exchange-insights/internal/types"
)

// Composite rating weights for university comparisons. A missing
// component contributes 0 to the weighted sum rather than being excluded,
// so partial data depresses the composite. This reproduces the observed
// contract; see DESIGN.md before "fixing" it.
const (
	academicWeight = 0.4
	overallWeight  = 0.3
	supportWeight  = 0.3
)

// CityRecords is one comparison entity: a city plus its pre-fetched,
// pre-filtered record collections. List-length bounds (2-10 cities) are
// enforced by request validation before this package is reached.
type CityRecords struct {
	City           string
	Country        string
	Accommodations []types.AccommodationRecord
	Courses        []types.CourseRecord
	Experiences    []types.ExperienceRecord
}

// UniversityRecords is one university comparison entity (2-5 bound).
type UniversityRecords struct {
	Name           string
	Courses        []types.CourseRecord
	Accommodations []types.AccommodationRecord
}

// CompareCities computes per-city statistics plus a relative
// cost-of-living index normalized to the cheapest city. Cities are sorted
// ascending by average rent; cities with no rent data get index 0 and are
// forced to the end regardless of their nominal zero rent.
func CompareCities(entities []CityRecords) types.CityComparison {
	result := types.CityComparison{Cities: []types.CityComparisonEntry{}}
	if len(entities) == 0 {
		return result
	}

	entries := make([]types.CityComparisonEntry, 0, len(entities))
	for _, entity := range entities {
		entries = append(entries, compareCityEntry(entity))
	}

	applyCostOfLivingIndex(entries)
	sortByRentZeroLast(entries)

	result.Cities = entries
	result.Summary = citySummary(entries)
	return result
}

func compareCityEntry(entity CityRecords) types.CityComparisonEntry {
	entry := types.CityComparisonEntry{
		City:    entity.City,
		Country: entity.Country,
		TotalSubmissions: len(entity.Accommodations) + len(entity.Courses) +
			len(entity.Experiences),
		CourseCount: len(entity.Courses),
	}

	var rents []float64
	for i := range entity.Accommodations {
		if cents, ok := normalize.PriceCents(entity.Accommodations[i].PricePerMonth); ok {
			rents = append(rents, float64(cents))
		}
	}
	entry.Rent = stats.Summarize(rents)
	entry.AvgRentCents = roundCents(entry.Rent.Avg)
	entry.SampleSize = len(rents)

	var overall []float64
	for i := range entity.Accommodations {
		if r := normalize.RatingValue(entity.Accommodations[i].OverallRating); r > 0 {
			overall = append(overall, r)
		}
	}
	for i := range entity.Experiences {
		if r := normalize.RatingValue(entity.Experiences[i].QualityScore); r > 0 {
			overall = append(overall, r)
		}
	}
	entry.AvgRating = round2(stats.Mean(overall))

	var qualities []float64
	for i := range entity.Courses {
		if q := normalize.RatingValue(entity.Courses[i].CourseQuality); q > 0 {
			qualities = append(qualities, q)
		}
	}
	entry.AvgQuality = round2(stats.Mean(qualities))

	return entry
}

// applyCostOfLivingIndex sets each entry's index relative to the cheapest
// entity with rent data: round((avg / cheapest) * 100) / 100. Entities
// without rent data keep index 0.
func applyCostOfLivingIndex(entries []types.CityComparisonEntry) {
	var cheapest int64
	for i := range entries {
		rent := entries[i].AvgRentCents
		if rent > 0 && (cheapest == 0 || rent < cheapest) {
			cheapest = rent
		}
	}
	if cheapest == 0 {
		return
	}
	for i := range entries {
		if entries[i].AvgRentCents > 0 {
			entries[i].CostOfLivingIndex = round2(float64(entries[i].AvgRentCents) / float64(cheapest))
		}
	}
}

// sortByRentZeroLast sorts ascending by average rent with no-rent-data
// entries explicitly forced to the end. The zero-last rule is a deliberate
// tie-break, not a side effect of the numeric sort.
func sortByRentZeroLast(entries []types.CityComparisonEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := entries[i].AvgRentCents, entries[j].AvgRentCents
		if ri == 0 {
			return false
		}
		if rj == 0 {
			return true
		}
		return ri < rj
	})
}

// citySummary folds the entry list into superlatives. Each fold starts at
// the first element, so an all-zero comparison still names a city rather
// than returning empty strings.
func citySummary(entries []types.CityComparisonEntry) types.ComparisonSummary {
	if len(entries) == 0 {
		return types.ComparisonSummary{}
	}

	summary := types.ComparisonSummary{
		Cheapest:            entries[0].City,
		MostExpensive:       entries[0].City,
		HighestRated:        entries[0].City,
		MostCourses:         entries[0].City,
		BestAcademicQuality: entries[0].City,
	}

	cheapest, mostExpensive := entries[0], entries[0]
	highestRated, mostCourses, bestQuality := entries[0], entries[0], entries[0]
	for _, e := range entries[1:] {
		if e.AvgRentCents > 0 && (cheapest.AvgRentCents == 0 || e.AvgRentCents < cheapest.AvgRentCents) {
			cheapest = e
		}
		if e.AvgRentCents > mostExpensive.AvgRentCents {
			mostExpensive = e
		}
		if e.AvgRating > highestRated.AvgRating {
			highestRated = e
		}
		if e.CourseCount > mostCourses.CourseCount {
			mostCourses = e
		}
		if e.AvgQuality > bestQuality.AvgQuality {
			bestQuality = e
		}
	}

	summary.Cheapest = cheapest.City
	summary.MostExpensive = mostExpensive.City
	summary.HighestRated = highestRated.City
	summary.MostCourses = mostCourses.City
	summary.BestAcademicQuality = bestQuality.City
	return summary
}

// CompareUniversities computes per-university statistics and a weighted
// composite rating, optionally restricted to courses reported by students
// from one home university. Like cities, universities are sorted ascending
// by average rent with no-rent-data entries forced last.
//
// The rent path here uses the 1000 unit-disambiguation threshold rather
// than the usual 10000; both call sites are reproduced as observed.
func CompareUniversities(entities []UniversityRecords, homeUniversity string) types.UniversityComparison {
	result := types.UniversityComparison{Universities: []types.UniversityComparisonEntry{}}
	if len(entities) == 0 {
		return result
	}

	entries := make([]types.UniversityComparisonEntry, 0, len(entities))
	for _, entity := range entities {
		entries = append(entries, compareUniversityEntry(entity, homeUniversity))
	}

	applyUniversityCostIndex(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := entries[i].AvgRentCents, entries[j].AvgRentCents
		if ri == 0 {
			return false
		}
		if rj == 0 {
			return true
		}
		return ri < rj
	})

	result.Universities = entries
	result.Summary = universitySummary(entries)
	return result
}

func compareUniversityEntry(entity UniversityRecords, homeUniversity string) types.UniversityComparisonEntry {
	entry := types.UniversityComparisonEntry{Name: entity.Name}

	courses := entity.Courses
	if homeUniversity != "" {
		filtered := make([]types.CourseRecord, 0, len(courses))
		for i := range courses {
			if strings.EqualFold(strings.TrimSpace(courses[i].HomeUniversity), strings.TrimSpace(homeUniversity)) {
				filtered = append(filtered, courses[i])
			}
		}
		courses = filtered
	}
	entry.CourseCount = len(courses)

	var academic, overall, support, credits []float64
	for i := range courses {
		if q := normalize.RatingValue(courses[i].CourseQuality); q > 0 {
			academic = append(academic, q)
		}
		if r := normalize.RatingValue(courses[i].OverallRating); r > 0 {
			overall = append(overall, r)
		}
		if s := normalize.RatingValue(courses[i].SupportRating); s > 0 {
			support = append(support, s)
		}
		credits = append(credits, ectsTransferred(&courses[i]))
	}

	entry.AcademicRating = round2(stats.Mean(academic))
	entry.OverallRating = round2(stats.Mean(overall))
	entry.SupportRating = round2(stats.Mean(support))
	entry.AvgEcts = round2(stats.Mean(credits))

	// Weighted composite, computed only when at least one component is
	// present. Absent components contribute 0 to the sum.
	if len(academic) > 0 || len(overall) > 0 || len(support) > 0 {
		entry.CompositeRating = round2(entry.AcademicRating*academicWeight +
			entry.OverallRating*overallWeight +
			entry.SupportRating*supportWeight)
	}

	var rents []float64
	for i := range entity.Accommodations {
		price := entity.Accommodations[i].PricePerMonth
		if price == nil || *price <= 0 {
			continue
		}
		rents = append(rents, float64(normalize.ToCentsLowThreshold(*price)))
	}
	entry.AvgRentCents = roundCents(stats.Summarize(rents).Avg)

	return entry
}

func applyUniversityCostIndex(entries []types.UniversityComparisonEntry) {
	var cheapest int64
	for i := range entries {
		rent := entries[i].AvgRentCents
		if rent > 0 && (cheapest == 0 || rent < cheapest) {
			cheapest = rent
		}
	}
	if cheapest == 0 {
		return
	}
	for i := range entries {
		if entries[i].AvgRentCents > 0 {
			entries[i].CostOfLivingIndex = round2(float64(entries[i].AvgRentCents) / float64(cheapest))
		}
	}
}

func universitySummary(entries []types.UniversityComparisonEntry) types.ComparisonSummary {
	if len(entries) == 0 {
		return types.ComparisonSummary{}
	}

	cheapest, mostExpensive := entries[0], entries[0]
	highestRated, mostCourses, bestAcademic := entries[0], entries[0], entries[0]
	for _, e := range entries[1:] {
		if e.AvgRentCents > 0 && (cheapest.AvgRentCents == 0 || e.AvgRentCents < cheapest.AvgRentCents) {
			cheapest = e
		}
		if e.AvgRentCents > mostExpensive.AvgRentCents {
			mostExpensive = e
		}
		if e.CompositeRating > highestRated.CompositeRating {
			highestRated = e
		}
		if e.CourseCount > mostCourses.CourseCount {
			mostCourses = e
		}
		if e.AcademicRating > bestAcademic.AcademicRating {
			bestAcademic = e
		}
	}

	return types.ComparisonSummary{
		Cheapest:            cheapest.Name,
		MostExpensive:       mostExpensive.Name,
		HighestRated:        highestRated.Name,
		MostCourses:         mostCourses.Name,
		BestAcademicQuality: bestAcademic.Name,
	}
}
