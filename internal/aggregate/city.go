// Package aggregate implements the aggregation engine: per-city summaries,
// platform-wide statistics, and multi-entity comparisons over approved
// submission records.
//
// Every function here is pure and synchronous: same input, same output,
// no retained state. Callers are responsible for handing in records that
// are already filtered to approved-and-public.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/exchange-insights/internal/normalize"
	"github.com/jonathan/exchange-insights/internal/stats"
	"github.com/jonathan/exchange-insights/internal/types"
)

// RecommendThreshold is the overall rating at or above which a submission
// counts as a recommendation (fixed business rule on the 1-5 scale).
const RecommendThreshold = 4.0

// maxTopTips caps the surfaced tip list per city.
const maxTopTips = 5

// AggregateCityData computes the full per-city summary over records
// already matched (case-insensitively) to the given city and country.
// Zero records yield the documented all-zero shape, never an error.
func AggregateCityData(city, country string, recs []types.Submission) types.CityAggregatedData {
	if len(recs) == 0 {
		return types.EmptyCityAggregatedData(city, country)
	}

	result := types.EmptyCityAggregatedData(city, country)
	result.TotalSubmissions = len(recs)

	var accommodations []*types.AccommodationRecord
	var courses []*types.CourseRecord
	var livingCosts []normalize.LivingCosts
	var ratings []normalize.Ratings
	livingSamples := 0

	tips := newTipCollector()

	for _, rec := range recs {
		switch {
		case rec.Accommodation != nil:
			accommodations = append(accommodations, rec.Accommodation)
			// Rent from accommodation reports feeds the living-cost
			// rent category alongside rich living-expense blobs.
			if cents, ok := normalize.PriceCents(rec.Accommodation.PricePerMonth); ok {
				livingCosts = append(livingCosts, normalize.LivingCosts{RentCents: cents})
				livingSamples++
			}
			if rec.Accommodation.OverallRating != nil {
				ratings = append(ratings, normalize.Ratings{
					Overall: normalize.Rating(*rec.Accommodation.OverallRating),
				})
			}
			tips.Collect(map[string]any{"tips": rec.Accommodation.Tips})

		case rec.Course != nil:
			courses = append(courses, rec.Course)

		case rec.Experience != nil:
			if rec.Experience.QualityScore != nil {
				ratings = append(ratings, normalize.Ratings{
					Overall: normalize.Rating(*rec.Experience.QualityScore),
				})
			}

		case rec.Rich != nil:
			lc := normalize.LivingExpenses(rec.Rich.LivingExpenses, rec.Rich.Accommodation)
			if lc.HasData() {
				livingCosts = append(livingCosts, lc)
				livingSamples++
			}
			r := normalize.ExperienceRatings(rec.Rich.Experience)
			if r.HasData() {
				ratings = append(ratings, r)
			}
			tips.Collect(normalize.BlobMap(rec.Rich.Experience))
		}
	}

	result.LivingCosts = aggregateLivingCosts(livingCosts, livingSamples)
	result.Ratings = aggregateRatings(ratings)
	result.Accommodation = aggregateAccommodationTypes(accommodations)
	result.CourseMatching = aggregateCourseMatching(courses)
	result.Recommendations = recommendationRate(ratings)
	result.TopTips = tips.Top(maxTopTips)
	result.Universities = universityNames(courses)

	return result
}

// AggregateAllCities groups records by case-insensitive city+country and
// aggregates each group. Output order follows first occurrence in the
// input, so it never depends on map iteration order.
func AggregateAllCities(recs []types.Submission) []types.CityAggregatedData {
	grouped := stats.GroupByOrdered(recs, func(s types.Submission) string {
		city, country := s.CityCountry()
		return types.CityKey(city, country)
	})

	results := make([]types.CityAggregatedData, 0, len(grouped.Keys))
	for _, key := range grouped.Keys {
		group := grouped.Groups[key]
		city, country := group[0].CityCountry()
		results = append(results, AggregateCityData(strings.TrimSpace(city), strings.TrimSpace(country), group))
	}
	return results
}

// aggregateLivingCosts takes the plain per-category mean over normalized
// values. This is intentionally untrimmed: outlier handling at city
// granularity is left to the platform-level percentile path.
func aggregateLivingCosts(costs []normalize.LivingCosts, samples int) types.LivingCostBreakdown {
	if len(costs) == 0 {
		return types.LivingCostBreakdown{}
	}

	category := func(pick func(normalize.LivingCosts) int64) int64 {
		var values []float64
		for _, lc := range costs {
			if v := pick(lc); v > 0 {
				values = append(values, float64(v))
			}
		}
		return roundCents(stats.Mean(values))
	}

	return types.LivingCostBreakdown{
		RentCents:          category(func(lc normalize.LivingCosts) int64 { return lc.RentCents }),
		FoodCents:          category(func(lc normalize.LivingCosts) int64 { return lc.FoodCents }),
		TransportCents:     category(func(lc normalize.LivingCosts) int64 { return lc.TransportCents }),
		EntertainmentCents: category(func(lc normalize.LivingCosts) int64 { return lc.SocialCents }),
		UtilitiesCents:     category(func(lc normalize.LivingCosts) int64 { return lc.UtilitiesCents }),
		OtherCents:         category(func(lc normalize.LivingCosts) int64 { return lc.OtherCents }),
		TotalCents:         category(func(lc normalize.LivingCosts) int64 { return lc.TotalCents }),
		SampleSize:         samples,
	}
}

// aggregateRatings averages each dimension independently over records
// where that dimension was given.
func aggregateRatings(ratings []normalize.Ratings) types.RatingBreakdown {
	if len(ratings) == 0 {
		return types.RatingBreakdown{}
	}

	dimension := func(pick func(normalize.Ratings) float64) float64 {
		var values []float64
		for _, r := range ratings {
			if v := pick(r); v > 0 {
				values = append(values, v)
			}
		}
		return round2(stats.Mean(values))
	}

	return types.RatingBreakdown{
		Overall:       dimension(func(r normalize.Ratings) float64 { return r.Overall }),
		Academics:     dimension(func(r normalize.Ratings) float64 { return r.Academics }),
		SocialLife:    dimension(func(r normalize.Ratings) float64 { return r.SocialLife }),
		Accommodation: dimension(func(r normalize.Ratings) float64 { return r.Accommodation }),
		Safety:        dimension(func(r normalize.Ratings) float64 { return r.Safety }),
		Transport:     dimension(func(r normalize.Ratings) float64 { return r.Transport }),
		SampleSize:    len(ratings),
	}
}

// aggregateAccommodationTypes groups accommodation records by type and
// reports count, average rent, and share of accommodation-bearing records.
func aggregateAccommodationTypes(recs []*types.AccommodationRecord) []types.AccommodationTypeStats {
	if len(recs) == 0 {
		return []types.AccommodationTypeStats{}
	}

	grouped := stats.GroupByOrdered(recs, func(r *types.AccommodationRecord) string {
		t := strings.TrimSpace(strings.ToLower(r.Type))
		if t == "" {
			return "unknown"
		}
		return t
	})

	result := make([]types.AccommodationTypeStats, 0, len(grouped.Keys))
	for _, key := range grouped.Keys {
		group := grouped.Groups[key]
		var rents []float64
		for _, rec := range group {
			if cents, ok := normalize.PriceCents(rec.PricePerMonth); ok {
				rents = append(rents, float64(cents))
			}
		}
		result = append(result, types.AccommodationTypeStats{
			Type:         key,
			Count:        len(group),
			AvgRentCents: roundCents(stats.Mean(rents)),
			Percentage:   round1(float64(len(group)) / float64(len(recs)) * 100),
		})
	}
	return result
}

// aggregateCourseMatching summarizes course-exchange records. Success
// means a record has at least one course mapping.
func aggregateCourseMatching(courses []*types.CourseRecord) types.CourseMatchingStats {
	result := types.CourseMatchingStats{
		DifficultyBreakdown: map[int]int{},
		TopAdvice:           []string{},
		TotalSubmissions:    len(courses),
	}
	if len(courses) == 0 {
		return result
	}

	var difficulties []float64
	var matched []float64
	var credits []float64
	withMapping := 0

	for _, course := range courses {
		if d := normalize.RatingValue(course.Difficulty); d > 0 {
			difficulties = append(difficulties, d)
			result.DifficultyBreakdown[int(math.Round(d))]++
		}
		matched = append(matched, float64(len(course.Mappings)))
		if len(course.Mappings) > 0 {
			withMapping++
		}
		transferred := 0.0
		for _, m := range course.Mappings {
			transferred += m.HostEcts
		}
		credits = append(credits, transferred)

		if advice := normalize.TruncateTip(course.Advice); len(advice) >= 15 && len(result.TopAdvice) < maxTopTips {
			result.TopAdvice = append(result.TopAdvice, advice)
		}
	}

	result.AvgDifficulty = round2(stats.Mean(difficulties))
	result.AvgCoursesMatched = round2(stats.Mean(matched))
	result.AvgCreditsTransferred = round2(stats.Mean(credits))
	result.SuccessRate = round1(float64(withMapping) / float64(len(courses)) * 100)
	return result
}

// recommendationRate counts overall ratings at or above the threshold
// among records that gave one at all.
func recommendationRate(ratings []normalize.Ratings) types.RecommendationStats {
	count := 0
	total := 0
	for _, r := range ratings {
		if r.Overall <= 0 {
			continue
		}
		total++
		if r.Overall >= RecommendThreshold {
			count++
		}
	}
	result := types.RecommendationStats{Count: count, Total: total}
	if total > 0 {
		result.Percentage = round1(float64(count) / float64(total) * 100)
	}
	return result
}

// universityNames returns distinct host universities in first-occurrence
// order.
func universityNames(courses []*types.CourseRecord) []string {
	names := []string{}
	seen := make(map[string]bool)
	for _, course := range courses {
		name := strings.TrimSpace(course.HostUniversity)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

// tipCollector deduplicates surfaced tips and tracks how often each one
// was seen, preserving first-occurrence order for stable ranking.
type tipCollector struct {
	order []string
	tips  map[string]*types.Tip
}

func newTipCollector() *tipCollector {
	return &tipCollector{tips: make(map[string]*types.Tip)}
}

// Collect extracts the highest-priority tip field from a blob map, if any.
func (tc *tipCollector) Collect(m map[string]any) {
	if m == nil {
		return
	}
	category, text, ok := normalize.ExtractTip(m)
	if !ok {
		return
	}
	key := category + "|" + strings.ToLower(text)
	if existing, seen := tc.tips[key]; seen {
		existing.Frequency++
		return
	}
	tc.tips[key] = &types.Tip{Category: category, Text: text, Frequency: 1}
	tc.order = append(tc.order, key)
}

// Top returns up to n tips sorted by frequency descending, ties broken by
// first occurrence (stable sort).
func (tc *tipCollector) Top(n int) []types.Tip {
	result := make([]types.Tip, 0, len(tc.order))
	for _, key := range tc.order {
		result = append(result, *tc.tips[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Frequency > result[j].Frequency
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}

// roundCents rounds a float cent average to whole cents.
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
