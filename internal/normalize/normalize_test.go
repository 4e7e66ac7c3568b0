package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCents_EurosBelowThreshold(t *testing.T) {
	// 850 euros -> 85000 cents
	assert.Equal(t, int64(85000), ToCents(850))
	assert.Equal(t, int64(64950), ToCents(649.5))
}

func TestToCents_AlreadyCentsAboveThreshold(t *testing.T) {
	// 85000 is taken as cents and passed through unchanged
	assert.Equal(t, int64(85000), ToCents(85000))
	assert.Equal(t, int64(10050), ToCents(10050))
}

func TestToCents_IdempotentAboveThreshold(t *testing.T) {
	cents := ToCents(850)
	assert.Equal(t, cents, ToCents(float64(cents)))
}

func TestToCentsLowThreshold_DisagreesInMiddleBand(t *testing.T) {
	// 2500 is euros under the 10000 rule but already-cents under the
	// 1000 rule. Both behaviors are intentional.
	assert.Equal(t, int64(250000), ToCents(2500))
	assert.Equal(t, int64(2500), ToCentsLowThreshold(2500))

	// Below both thresholds they agree
	assert.Equal(t, int64(85000), ToCentsLowThreshold(850))
	assert.Equal(t, ToCents(850), ToCentsLowThreshold(850))
}

func TestPriceCents_DropsNilAndNonPositive(t *testing.T) {
	_, ok := PriceCents(nil)
	assert.False(t, ok)

	zero := 0.0
	_, ok = PriceCents(&zero)
	assert.False(t, ok)

	negative := -50.0
	_, ok = PriceCents(&negative)
	assert.False(t, ok)

	price := 600.0
	cents, ok := PriceCents(&price)
	assert.True(t, ok)
	assert.Equal(t, int64(60000), cents)
}

func TestFlexFloat(t *testing.T) {
	assert.Equal(t, 42.5, FlexFloat(42.5))
	assert.Equal(t, 42.5, FlexFloat("42.5"))
	assert.Equal(t, 42.5, FlexFloat(" 42.5 "))
	assert.Equal(t, 0.0, FlexFloat("not a number"))
	assert.Equal(t, 0.0, FlexFloat(nil))
	assert.Equal(t, 0.0, FlexFloat(map[string]any{}))
}

func TestLivingExpenses_ExplicitTotal(t *testing.T) {
	blob := json.RawMessage(`{"rent": "650", "food": "200", "total": "1100"}`)

	lc := LivingExpenses(blob, nil)

	assert.Equal(t, int64(65000), lc.RentCents)
	assert.Equal(t, int64(20000), lc.FoodCents)
	assert.Equal(t, int64(110000), lc.TotalCents)
}

func TestLivingExpenses_TotalMonthlyBudgetAlias(t *testing.T) {
	blob := json.RawMessage(`{"rent": "650", "totalMonthlyBudget": "1200"}`)

	lc := LivingExpenses(blob, nil)

	assert.Equal(t, int64(120000), lc.TotalCents)
}

func TestLivingExpenses_TotalFallsBackToCategorySum(t *testing.T) {
	blob := json.RawMessage(`{"rent": "600", "food": "200", "transport": "50"}`)

	lc := LivingExpenses(blob, nil)

	// 850 euros -> 85000 cents
	assert.Equal(t, int64(85000), lc.TotalCents)
}

func TestLivingExpenses_SocialEntertainmentAlias(t *testing.T) {
	withSocial := LivingExpenses(json.RawMessage(`{"social": "100"}`), nil)
	withEntertainment := LivingExpenses(json.RawMessage(`{"entertainment": "100"}`), nil)

	assert.Equal(t, int64(10000), withSocial.SocialCents)
	assert.Equal(t, int64(10000), withEntertainment.SocialCents)

	// social wins when both present
	both := LivingExpenses(json.RawMessage(`{"social": "100", "entertainment": "999"}`), nil)
	assert.Equal(t, int64(10000), both.SocialCents)
}

func TestLivingExpenses_UtilitiesFromAccommodationBlob(t *testing.T) {
	living := json.RawMessage(`{"rent": "600"}`)
	accomm := json.RawMessage(`{"utilities": "80"}`)

	lc := LivingExpenses(living, accomm)

	assert.Equal(t, int64(8000), lc.UtilitiesCents)

	// livingExpenses.utilities takes precedence
	living = json.RawMessage(`{"utilities": "60"}`)
	lc = LivingExpenses(living, accomm)
	assert.Equal(t, int64(6000), lc.UtilitiesCents)
}

func TestLivingExpenses_GarbageValuesYieldZero(t *testing.T) {
	blob := json.RawMessage(`{"rent": "cheap", "food": "200"}`)

	lc := LivingExpenses(blob, nil)

	assert.Equal(t, int64(0), lc.RentCents)
	assert.Equal(t, int64(20000), lc.FoodCents)
}

func TestLivingExpenses_InvalidBlob(t *testing.T) {
	lc := LivingExpenses(json.RawMessage(`not json`), nil)

	assert.False(t, lc.HasData())
}

func TestExperienceRatings(t *testing.T) {
	blob := json.RawMessage(`{"overallRating": "4.5", "academics": 4, "social": "5"}`)

	r := ExperienceRatings(blob)

	assert.Equal(t, 4.5, r.Overall)
	assert.Equal(t, 4.0, r.Academics)
	assert.Equal(t, 5.0, r.SocialLife)
	assert.Equal(t, 0.0, r.Safety)
}

func TestRating_OutOfRangeIsAbsent(t *testing.T) {
	assert.Equal(t, 0.0, Rating(0))
	assert.Equal(t, 0.0, Rating(-1))
	assert.Equal(t, 0.0, Rating(6))
	assert.Equal(t, 1.0, Rating(1))
	assert.Equal(t, 5.0, Rating(5))
}

func TestExtractTip_PriorityOrder(t *testing.T) {
	m := map[string]any{
		"tips":       "Always validate your learning agreement before you leave.",
		"budgetTips": "Cook at home and use student canteens whenever possible.",
	}

	category, text, ok := ExtractTip(m)

	assert.True(t, ok)
	assert.Equal(t, "budgetTips", category)
	assert.Equal(t, "Cook at home and use student canteens whenever possible.", text)
}

func TestExtractTip_SkipsShortStrings(t *testing.T) {
	m := map[string]any{
		"budgetTips": "be cheap",
		"tips":       "Get a local transport pass during your first week.",
	}

	category, _, ok := ExtractTip(m)

	assert.True(t, ok)
	assert.Equal(t, "tips", category)
}

func TestExtractTip_NoUsableField(t *testing.T) {
	_, _, ok := ExtractTip(map[string]any{"budgetTips": 42, "tips": "short"})
	assert.False(t, ok)

	_, _, ok = ExtractTip(nil)
	assert.False(t, ok)
}

func TestTruncateTip_FirstSentence(t *testing.T) {
	tip := "Get a transport pass. It pays for itself within a week of commuting."

	assert.Equal(t, "Get a transport pass.", TruncateTip(tip))
}

func TestTruncateTip_CharacterCap(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "very long tip "
	}

	truncated := TruncateTip(long)

	assert.LessOrEqual(t, len([]rune(truncated)), 150)
}
