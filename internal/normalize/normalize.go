// Package normalize converts heterogeneous raw submission records into
// canonical units and shapes before any statistic is computed: currency
// amounts become integer cents, JSON-blob field aliases are reconciled
// under a fixed precedence, and absent ratings are filtered out so they
// never drag an average toward zero.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Unit-disambiguation thresholds. A raw price below the threshold is
// treated as decimal euros; at or above it, as already-cents.
//
// Two thresholds exist because two call sites in the original system
// disagree: most paths use 10000, the university-comparison path uses
// 1000. Both are reproduced faithfully; do not unify them without a
// product decision (see DESIGN.md).
const (
	centsThreshold    = 10000
	centsThresholdLow = 1000
)

// ToCents resolves an ambiguous-unit price to integer cents: values below
// 10000 are taken as euros and multiplied by 100, values at or above it
// are taken as already-cents.
func ToCents(p float64) int64 {
	if p < centsThreshold {
		return int64(math.Round(p * 100))
	}
	return int64(math.Round(p))
}

// ToCentsLowThreshold is the 1000-threshold variant used by the
// university-comparison path. It intentionally disagrees with ToCents for
// values in [1000, 10000).
func ToCentsLowThreshold(p float64) int64 {
	if p < centsThresholdLow {
		return int64(math.Round(p * 100))
	}
	return int64(math.Round(p))
}

// PriceCents resolves an optional raw price to cents. The second return
// is false for nil or non-positive prices, which are dropped from every
// statistic.
func PriceCents(p *float64) (int64, bool) {
	if p == nil || *p <= 0 {
		return 0, false
	}
	return ToCents(*p), true
}

// FlexFloat parses a value that may be a JSON number, a numeric string,
// or anything else. It returns 0 on failure, never an error: bad data in
// a submission blob degrades to "absent", it does not break aggregation.
func FlexFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// BlobMap unmarshals a raw JSON blob into a generic map. Invalid or empty
// blobs yield nil, which every lookup treats as "all fields absent".
func BlobMap(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// lookup returns the parsed value of the first alias present and non-nil
// in the map. A present but unparseable value resolves to 0 rather than
// falling through to the next alias; only absent/null fields fall through.
func lookup(m map[string]any, aliases ...string) (float64, bool) {
	for _, key := range aliases {
		if v, ok := m[key]; ok && v != nil {
			return FlexFloat(v), true
		}
	}
	return 0, false
}

// LivingCosts is the canonical per-category monthly cost shape, in cents.
type LivingCosts struct {
	RentCents      int64
	FoodCents      int64
	TransportCents int64
	SocialCents    int64
	TravelCents    int64
	OtherCents     int64
	UtilitiesCents int64
	TotalCents     int64
}

// HasData reports whether any category resolved to a positive amount.
func (lc LivingCosts) HasData() bool {
	return lc.RentCents > 0 || lc.FoodCents > 0 || lc.TransportCents > 0 ||
		lc.SocialCents > 0 || lc.TravelCents > 0 || lc.OtherCents > 0 ||
		lc.UtilitiesCents > 0 || lc.TotalCents > 0
}

// LivingExpenses reconciles the living-expense blob (plus the
// accommodation blob, which sometimes carries utilities) into canonical
// cents. Alias precedence, reproduced exactly:
//
//	total     = total ?? totalMonthlyBudget ?? sum(rent,food,transport,social,travel,other)
//	social    = social ?? entertainment
//	utilities = livingExpenses.utilities ?? accommodation.utilities
func LivingExpenses(livingExpenses, accommodation json.RawMessage) LivingCosts {
	expenses := BlobMap(livingExpenses)
	accomm := BlobMap(accommodation)
	if expenses == nil && accomm == nil {
		return LivingCosts{}
	}

	var lc LivingCosts
	rent, _ := lookup(expenses, "rent")
	food, _ := lookup(expenses, "food")
	transport, _ := lookup(expenses, "transport")
	social, _ := lookup(expenses, "social", "entertainment")
	travel, _ := lookup(expenses, "travel")
	other, _ := lookup(expenses, "other")

	lc.RentCents = amountCents(rent)
	lc.FoodCents = amountCents(food)
	lc.TransportCents = amountCents(transport)
	lc.SocialCents = amountCents(social)
	lc.TravelCents = amountCents(travel)
	lc.OtherCents = amountCents(other)

	utilities, ok := lookup(expenses, "utilities")
	if !ok {
		utilities, _ = lookup(accomm, "utilities")
	}
	lc.UtilitiesCents = amountCents(utilities)

	if total, ok := lookup(expenses, "total", "totalMonthlyBudget"); ok {
		lc.TotalCents = amountCents(total)
	} else {
		lc.TotalCents = amountCents(rent + food + transport + social + travel + other)
	}

	return lc
}

// amountCents converts a parsed euro-or-cents amount, dropping
// non-positive values.
func amountCents(v float64) int64 {
	if v <= 0 {
		return 0
	}
	return ToCents(v)
}

// Ratings is the canonical six-dimension rating shape on a 1-5 scale.
// A zero value means "not given" and must be filtered before averaging.
type Ratings struct {
	Overall       float64
	Academics     float64
	SocialLife    float64
	Accommodation float64
	Safety        float64
	Transport     float64
}

// HasData reports whether at least one rating was given.
func (r Ratings) HasData() bool {
	return r.Overall > 0 || r.Academics > 0 || r.SocialLife > 0 ||
		r.Accommodation > 0 || r.Safety > 0 || r.Transport > 0
}

// ExperienceRatings extracts the rating dimensions from an experience
// blob. Out-of-range values (outside 1-5) are treated as not given.
func ExperienceRatings(experience json.RawMessage) Ratings {
	m := BlobMap(experience)
	if m == nil {
		return Ratings{}
	}

	overall, _ := lookup(m, "overallRating", "overall")
	academics, _ := lookup(m, "academics", "academicRating")
	social, _ := lookup(m, "socialLife", "social")
	accomm, _ := lookup(m, "accommodation", "accommodationRating")
	safety, _ := lookup(m, "safety")
	transport, _ := lookup(m, "transport")

	return Ratings{
		Overall:       Rating(overall),
		Academics:     Rating(academics),
		SocialLife:    Rating(social),
		Accommodation: Rating(accomm),
		Safety:        Rating(safety),
		Transport:     Rating(transport),
	}
}

// Rating clamps a raw rating to the 1-5 scale; anything outside comes
// back as 0 ("not given").
func Rating(v float64) float64 {
	if v < 1 || v > 5 {
		return 0
	}
	return v
}

// RatingValue resolves an optional rating pointer, 0 when absent.
func RatingValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return Rating(*p)
}

// tipFieldPriority is the fixed lookup order for tip-like free-text
// fields in experience blobs.
var tipFieldPriority = []string{
	"budgetTips",
	"transportationTips",
	"socialLifeTips",
	"travelTips",
	"tips",
	"recommendations",
	"advice",
	"generalTips",
	"bestExperience",
}

// Tip-surfacing rules: strings shorter than this are noise, longer tips
// are cut to the first sentence or tipMaxLen characters.
const (
	tipMinLen = 15
	tipMaxLen = 150
)

// ExtractTip returns the first usable tip field from a blob map, together
// with the field name it came from. Returns ok=false when no field holds
// a string of at least 15 characters.
func ExtractTip(m map[string]any) (category, text string, ok bool) {
	for _, field := range tipFieldPriority {
		v, present := m[field]
		if !present {
			continue
		}
		s, isString := v.(string)
		if !isString {
			continue
		}
		s = strings.TrimSpace(s)
		if len(s) < tipMinLen {
			continue
		}
		return field, TruncateTip(s), true
	}
	return "", "", false
}

// TruncateTip cuts a tip to its first sentence, or to 150 characters when
// no sentence boundary occurs early enough.
func TruncateTip(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".!?"); i >= 0 && i < tipMaxLen {
		return strings.TrimSpace(s[:i+1])
	}
	runes := []rune(s)
	if len(runes) > tipMaxLen {
		return strings.TrimSpace(string(runes[:tipMaxLen]))
	}
	return s
}
