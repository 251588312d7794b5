// Package risk holds the scoring policy for reports and entities. Everything
// here is pure arithmetic over the inputs so the policy is unit-testable and
// tunable without touching storage or transport
package risk

import (
	"math"
	"strings"

	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
)

// Category is the closed set of scam categories a report may declare
type Category string

// Report categories
const (
	CategoryPhishing      Category = "phishing"
	CategoryInvestment    Category = "investment"
	CategoryRomance       Category = "romance"
	CategoryShopping      Category = "shopping"
	CategoryImpersonation Category = "impersonation"
	CategoryCrypto        Category = "crypto"
	CategoryLottery       Category = "lottery"
	CategoryJobOffer      Category = "job_offer"
	CategoryLoan          Category = "loan"
	CategoryOther         Category = "other"
)

// baseScores is the static severity table per category. Categories that
// routinely drain savings start higher than nuisance-grade ones
var baseScores = map[Category]float64{
	CategoryPhishing:      60,
	CategoryInvestment:    70,
	CategoryRomance:       65,
	CategoryShopping:      50,
	CategoryImpersonation: 55,
	CategoryCrypto:        75,
	CategoryLottery:       55,
	CategoryJobOffer:      50,
	CategoryLoan:          45,
	CategoryOther:         40,
}

// Categories returns the known category names in a stable order
func Categories() []Category {
	return []Category{
		CategoryPhishing, CategoryInvestment, CategoryRomance, CategoryShopping,
		CategoryImpersonation, CategoryCrypto, CategoryLottery, CategoryJobOffer,
		CategoryLoan, CategoryOther,
	}
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	_, ok := baseScores[c]
	return ok
}

// ParseCategory maps a wire string onto a Category or fails with validation
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", perr.Validationf("unknown category %q", s)
	}
	return c, nil
}

// Base returns the static starting score for a category, 0 for unknown
func Base(c Category) float64 { return baseScores[c] }

// Policy carries the tunable scoring knobs. Zero value gets Defaults applied
type Policy struct {
	// AmountBonusCap bounds the loss-size bonus added to the base score
	AmountBonusCap float64

	// BlendMaxWeight and BlendAvgWeight shape the entity aggregate:
	// one severe report dominates (max) while a pattern of milder
	// reports still raises the score (avg)
	BlendMaxWeight float64
	BlendAvgWeight float64
}

// DefaultPolicy matches the observed production behavior
var DefaultPolicy = Policy{
	AmountBonusCap: 20,
	BlendMaxWeight: 0.6,
	BlendAvgWeight: 0.4,
}

func (p Policy) normalized() Policy {
	if p.AmountBonusCap <= 0 {
		p.AmountBonusCap = DefaultPolicy.AmountBonusCap
	}
	if p.BlendMaxWeight <= 0 && p.BlendAvgWeight <= 0 {
		p.BlendMaxWeight = DefaultPolicy.BlendMaxWeight
		p.BlendAvgWeight = DefaultPolicy.BlendAvgWeight
	}
	return p
}

// AmountAdjustment converts a reported loss into a bounded score bonus.
// Log-scaled so a 10x bigger loss is one step worse, not ten
func (p Policy) AmountAdjustment(amount float64) float64 {
	p = p.normalized()
	if amount <= 0 {
		return 0
	}
	bonus := 5 * math.Log10(1+amount/100)
	return math.Min(bonus, p.AmountBonusCap)
}

// InitialScore computes the ingest-time report score: category base plus the
// loss bonus, clamped to [0,100]
func (p Policy) InitialScore(c Category, amountLost float64) float64 {
	return Clamp(Base(c) + p.AmountAdjustment(amountLost))
}

// Blend aggregates the constituent report scores of an entity:
// round(wMax*max + wAvg*avg), clamped to [0,100]. Empty input scores 0
func (p Policy) Blend(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	p = p.normalized()
	maxSc, sum := scores[0], 0.0
	for _, s := range scores {
		if s > maxSc {
			maxSc = s
		}
		sum += s
	}
	avg := sum / float64(len(scores))
	return p.BlendParts(maxSc, avg)
}

// BlendParts blends a precomputed max and mean, for callers that already
// aggregated the constituent scores in SQL
func (p Policy) BlendParts(maxScore, avgScore float64) float64 {
	p = p.normalized()
	return Clamp(math.Round(p.BlendMaxWeight*maxScore + p.BlendAvgWeight*avgScore))
}

// Clamp bounds a score to [0,100]
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
