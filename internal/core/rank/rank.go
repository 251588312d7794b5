// Package rank blends the three search signals into one final ordering:
// text relevance from the underlying engine, entity/report risk, and
// recency. The blend and its tie-break are deterministic so a repeated
// query always returns the same page
package rank

import (
	"math"
	"sort"
	"time"
)

// Policy carries the blend weights and the recency half-life.
// Zero value gets Defaults applied
type Policy struct {
	WRelevance float64
	WRisk      float64
	WRecency   float64

	// HalfLifeDays is the age at which the recency signal halves
	HalfLifeDays float64
}

// DefaultPolicy matches the production ranking behavior
var DefaultPolicy = Policy{
	WRelevance:   0.5,
	WRisk:        0.3,
	WRecency:     0.2,
	HalfLifeDays: 30,
}

func (p Policy) normalized() Policy {
	if p.WRelevance <= 0 && p.WRisk <= 0 && p.WRecency <= 0 {
		p.WRelevance = DefaultPolicy.WRelevance
		p.WRisk = DefaultPolicy.WRisk
		p.WRecency = DefaultPolicy.WRecency
	}
	if p.HalfLifeDays <= 0 {
		p.HalfLifeDays = DefaultPolicy.HalfLifeDays
	}
	return p
}

// Doc is a scoring candidate fetched from the index
type Doc struct {
	ID        string
	Relevance float64 // text-match quality from the engine, >= 0
	RiskScore float64 // [0,100]
	CreatedAt time.Time
}

// Scored is a candidate with its blended final score attached
type Scored struct {
	Doc
	FinalScore float64
}

// RecencyDecay maps an age onto (0,1]: 1 when brand new, halving every
// HalfLifeDays. Monotonically decreasing, future timestamps pin at 1
func (p Policy) RecencyDecay(createdAt, now time.Time) float64 {
	p = p.normalized()
	ageDays := now.Sub(createdAt).Hours() / 24
	if ageDays <= 0 {
		return 1
	}
	return math.Exp(-math.Ln2 * ageDays / p.HalfLifeDays)
}

// Score blends one candidate's signals into the final score
func (p Policy) Score(d Doc, now time.Time) float64 {
	p = p.normalized()
	return p.WRelevance*d.Relevance +
		p.WRisk*(d.RiskScore/100) +
		p.WRecency*p.RecencyDecay(d.CreatedAt, now)
}

// Rank scores and orders candidates: final score descending, ties broken by
// id ascending so repeated identical queries page identically
func (p Policy) Rank(docs []Doc, now time.Time) []Scored {
	out := make([]Scored, len(docs))
	for i, d := range docs {
		out[i] = Scored{Doc: d, FinalScore: p.Score(d, now)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinalScore != out[j].FinalScore {
			return out[i].FinalScore > out[j].FinalScore
		}
		return out[i].ID < out[j].ID
	})
	return out
}
