package aggregate

import (
	"sort"
	"strings"

	"github.com/jonathan/exchange-insights/internal/normalize"
	"github.com/jonathan/exchange-insights/internal/stats"
	"github.com/jonathan/exchange-insights/internal/types"
)

// MinSampleSize gates per-city rankings: cities with fewer samples are
// excluded from "most affordable" and "highest quality" lists so a single
// submission cannot put a city on a leaderboard.
const MinSampleSize = 3

// topN bounds every ranked list.
const topN = 10

// ComputeGlobalStats aggregates the three approved record collections into
// platform-wide statistics. Rent figures here use the percentile-trimmed
// mean pattern, unlike the per-city plain means of AggregateCityData.
func ComputeGlobalStats(
	accommodations []types.AccommodationRecord,
	courses []types.CourseRecord,
	experiences []types.ExperienceRecord,
) types.GlobalStats {
	result := types.GlobalStats{
		TotalSubmissions: len(accommodations) + len(courses) + len(experiences),
		Accommodation:    aggregateGlobalAccommodation(accommodations),
		Courses:          aggregateGlobalCourses(courses),
		Experiences:      aggregateGlobalExperiences(experiences),
	}
	result.Rankings = computeRankings(accommodations, courses, experiences)
	return result
}

func aggregateGlobalAccommodation(recs []types.AccommodationRecord) types.GlobalAccommodationStats {
	result := types.GlobalAccommodationStats{ByType: []types.TypeBreakdown{}}

	var rents []float64
	for i := range recs {
		if cents, ok := normalize.PriceCents(recs[i].PricePerMonth); ok {
			rents = append(rents, float64(cents))
		}
	}
	result.Rent = stats.Summarize(rents)

	grouped := stats.GroupByOrdered(recs, func(r types.AccommodationRecord) string {
		t := strings.TrimSpace(strings.ToLower(r.Type))
		if t == "" {
			return "unknown"
		}
		return t
	})
	for _, key := range grouped.Keys {
		group := grouped.Groups[key]
		var groupRents []float64
		for i := range group {
			if cents, ok := normalize.PriceCents(group[i].PricePerMonth); ok {
				groupRents = append(groupRents, float64(cents))
			}
		}
		result.ByType = append(result.ByType, types.TypeBreakdown{
			Name:         key,
			Count:        len(group),
			AvgRentCents: roundCents(groupAvg(groupRents)),
		})
	}
	return result
}

// groupAvg applies the trimmed mean only when the group is large enough
// to make the percentile cut meaningful; small groups get the plain mean.
// The raw count is always reported alongside.
func groupAvg(values []float64) float64 {
	if len(values) >= MinSampleSize {
		return stats.Summarize(values).Avg
	}
	return stats.Mean(values)
}

func aggregateGlobalCourses(courses []types.CourseRecord) types.GlobalCourseStats {
	result := types.GlobalCourseStats{
		TotalSubmissions: len(courses),
		ByStudyLevel:     []types.GroupStat{},
		ByFieldOfStudy:   []types.GroupStat{},
		TopUniversities:  []types.UniversityRank{},
	}
	if len(courses) == 0 {
		return result
	}

	var qualities []float64
	var credits []float64
	for i := range courses {
		if q := normalize.RatingValue(courses[i].CourseQuality); q > 0 {
			qualities = append(qualities, q)
		}
		credits = append(credits, ectsTransferred(&courses[i]))
	}
	result.AvgQuality = round2(stats.Mean(qualities))
	result.AvgEctsTransferred = round2(stats.Mean(credits))

	result.ByStudyLevel = courseGroupStats(courses, func(c types.CourseRecord) string { return c.StudyLevel })
	result.ByFieldOfStudy = courseGroupStats(courses, func(c types.CourseRecord) string { return c.FieldOfStudy })
	result.TopUniversities = universityLeaderboard(courses)
	return result
}

// ectsTransferred is the credits a single record moved: the sum of host
// ECTS across its course mappings, falling back to the self-reported
// total when no mappings were filled in.
func ectsTransferred(course *types.CourseRecord) float64 {
	total := 0.0
	for _, m := range course.Mappings {
		total += m.HostEcts
	}
	if total == 0 && course.Ects != nil && *course.Ects > 0 {
		total = *course.Ects
	}
	return total
}

func courseGroupStats(courses []types.CourseRecord, keyFn func(types.CourseRecord) string) []types.GroupStat {
	grouped := stats.GroupByOrdered(courses, func(c types.CourseRecord) string {
		key := strings.TrimSpace(strings.ToLower(keyFn(c)))
		if key == "" {
			return "unknown"
		}
		return key
	})

	result := make([]types.GroupStat, 0, len(grouped.Keys))
	for _, key := range grouped.Keys {
		group := grouped.Groups[key]
		var qualities []float64
		for i := range group {
			if q := normalize.RatingValue(group[i].CourseQuality); q > 0 {
				qualities = append(qualities, q)
			}
		}
		result = append(result, types.GroupStat{
			Name:       key,
			Count:      len(group),
			AvgQuality: round2(groupAvg(qualities)),
		})
	}
	return result
}

// universityLeaderboard ranks host universities by course submission
// volume, ties broken by first occurrence.
func universityLeaderboard(courses []types.CourseRecord) []types.UniversityRank {
	grouped := stats.GroupByOrdered(courses, func(c types.CourseRecord) string {
		return strings.TrimSpace(c.HostUniversity)
	})

	ranks := make([]types.UniversityRank, 0, len(grouped.Keys))
	for _, name := range grouped.Keys {
		if name == "" {
			continue
		}
		group := grouped.Groups[name]
		var qualities []float64
		for i := range group {
			if q := normalize.RatingValue(group[i].CourseQuality); q > 0 {
				qualities = append(qualities, q)
			}
		}
		ranks = append(ranks, types.UniversityRank{
			Name:       name,
			Count:      len(group),
			AvgQuality: round2(stats.Mean(qualities)),
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Count > ranks[j].Count })
	if len(ranks) > topN {
		ranks = ranks[:topN]
	}
	return ranks
}

func aggregateGlobalExperiences(experiences []types.ExperienceRecord) types.GlobalExperienceStats {
	result := types.GlobalExperienceStats{Total: len(experiences)}

	var qualities []float64
	for i := range experiences {
		if experiences[i].IsFeatured {
			result.Featured++
		}
		if q := normalize.RatingValue(experiences[i].QualityScore); q > 0 {
			qualities = append(qualities, q)
		}
	}
	result.AvgQuality = round2(stats.Mean(qualities))
	return result
}

// cityGroup is one city's slice of each record collection, used while
// building rankings.
type cityGroup struct {
	city    string
	country string
	accs    []types.AccommodationRecord
	courses []types.CourseRecord
	exps    []types.ExperienceRecord
}

func computeRankings(
	accommodations []types.AccommodationRecord,
	courses []types.CourseRecord,
	experiences []types.ExperienceRecord,
) types.GlobalRankings {
	rankings := types.GlobalRankings{
		TopCitiesByVolume:    []types.CityCount{},
		MostPopularCities:    []types.CityCount{},
		MostAffordableCities: []types.CityRent{},
		HighestQualityCities: []types.CityQuality{},
	}

	groups := groupByCity(accommodations, courses, experiences)

	// Cities by accommodation volume.
	byVolume := make([]types.CityCount, 0, len(groups))
	for _, g := range groups {
		if len(g.accs) == 0 {
			continue
		}
		byVolume = append(byVolume, types.CityCount{City: g.city, Country: g.country, Count: len(g.accs)})
	}
	sort.SliceStable(byVolume, func(i, j int) bool { return byVolume[i].Count > byVolume[j].Count })
	rankings.TopCitiesByVolume = capList(byVolume)

	// Most popular cities by total submissions across all shapes.
	popular := make([]types.CityCount, 0, len(groups))
	for _, g := range groups {
		popular = append(popular, types.CityCount{
			City:    g.city,
			Country: g.country,
			Count:   len(g.accs) + len(g.courses) + len(g.exps),
		})
	}
	sort.SliceStable(popular, func(i, j int) bool { return popular[i].Count > popular[j].Count })
	rankings.MostPopularCities = capList(popular)

	// Most affordable cities: trimmed average rent, ascending, gated to
	// cities with at least MinSampleSize priced records.
	affordable := make([]types.CityRent, 0, len(groups))
	for _, g := range groups {
		var rents []float64
		for i := range g.accs {
			if cents, ok := normalize.PriceCents(g.accs[i].PricePerMonth); ok {
				rents = append(rents, float64(cents))
			}
		}
		if len(rents) < MinSampleSize {
			continue
		}
		affordable = append(affordable, types.CityRent{
			City:         g.city,
			Country:      g.country,
			AvgRentCents: roundCents(stats.Summarize(rents).Avg),
			SampleSize:   len(rents),
		})
	}
	sort.SliceStable(affordable, func(i, j int) bool {
		return affordable[i].AvgRentCents < affordable[j].AvgRentCents
	})
	rankings.MostAffordableCities = capList(affordable)

	// Highest quality cities: average experience quality, descending,
	// gated to cities with at least MinSampleSize scored records.
	quality := make([]types.CityQuality, 0, len(groups))
	for _, g := range groups {
		var scores []float64
		for i := range g.exps {
			if q := normalize.RatingValue(g.exps[i].QualityScore); q > 0 {
				scores = append(scores, q)
			}
		}
		if len(scores) < MinSampleSize {
			continue
		}
		quality = append(quality, types.CityQuality{
			City:            g.city,
			Country:         g.country,
			AvgQuality:      round2(stats.Mean(scores)),
			SubmissionCount: len(scores),
		})
	}
	sort.SliceStable(quality, func(i, j int) bool { return quality[i].AvgQuality > quality[j].AvgQuality })
	rankings.HighestQualityCities = capList(quality)

	return rankings
}

// groupByCity buckets all three collections under case-insensitive
// city+country keys, in first-occurrence order.
func groupByCity(
	accommodations []types.AccommodationRecord,
	courses []types.CourseRecord,
	experiences []types.ExperienceRecord,
) []*cityGroup {
	var order []string
	index := make(map[string]*cityGroup)

	group := func(city, country string) *cityGroup {
		key := types.CityKey(city, country)
		if g, ok := index[key]; ok {
			return g
		}
		g := &cityGroup{city: strings.TrimSpace(city), country: strings.TrimSpace(country)}
		index[key] = g
		order = append(order, key)
		return g
	}

	for i := range accommodations {
		g := group(accommodations[i].City, accommodations[i].Country)
		g.accs = append(g.accs, accommodations[i])
	}
	for i := range courses {
		g := group(courses[i].City, courses[i].Country)
		g.courses = append(g.courses, courses[i])
	}
	for i := range experiences {
		g := group(experiences[i].HostCity, experiences[i].HostCountry)
		g.exps = append(g.exps, experiences[i])
	}

	groups := make([]*cityGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, index[key])
	}
	return groups
}

func capList[T any](list []T) []T {
	if len(list) > topN {
		return list[:topN]
	}
	return list
}

// ComputeCityStats builds the API-shaped per-city projection. The rent
// figure is the [p5, p95] trimmed mean over the city's pooled rents,
// in contrast to the plain per-category mean of AggregateCityData.
func ComputeCityStats(
	city, country string,
	accommodations []types.AccommodationRecord,
	courses []types.CourseRecord,
	experiences []types.ExperienceRecord,
) types.CityStats {
	result := types.CityStats{
		City:             city,
		Country:          country,
		TotalSubmissions: len(accommodations) + len(courses) + len(experiences),
		ByType:           []types.TypeBreakdown{},
		ByStudyLevel:     []types.GroupStat{},
		ByFieldOfStudy:   []types.GroupStat{},
		Universities:     []string{},
	}

	global := aggregateGlobalAccommodation(accommodations)
	result.Rent = global.Rent
	result.ByType = global.ByType

	result.ByStudyLevel = courseGroupStats(courses, func(c types.CourseRecord) string { return c.StudyLevel })
	result.ByFieldOfStudy = courseGroupStats(courses, func(c types.CourseRecord) string { return c.FieldOfStudy })

	coursePtrs := make([]*types.CourseRecord, len(courses))
	for i := range courses {
		coursePtrs[i] = &courses[i]
	}
	result.Universities = universityNames(coursePtrs)

	return result
}
