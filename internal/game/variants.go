package game

import (
	"math/rand"
	"time"
)

// VariantKind describes how a bet variant is judged at resolution time.
type VariantKind string

const (
	// KindCounterDrift compares a snapshot of the daily death counter
	// against the live reading when the bet expires.
	KindCounterDrift VariantKind = "counter"
	// KindCoinFlip draws a uniform one-shot outcome at resolution.
	KindCoinFlip VariantKind = "coinflip"
	// KindScripted always resolves in favor of a fixed prediction.
	KindScripted VariantKind = "scripted"
)

// Variant is the static configuration of a bet type
type Variant struct {
	Name        string
	Kind        VariantKind
	Predictions []string
	Duration    time.Duration
	Winner      string // scripted variants only
}

var variants = map[string]Variant{
	"grim": {
		Name:        "grim",
		Kind:        KindCounterDrift,
		Predictions: []string{PredictionHigher, PredictionLower},
		Duration:    5 * time.Second,
	},
	"mirage": {
		Name:        "mirage",
		Kind:        KindCoinFlip,
		Predictions: []string{"yeah", "nah"},
		Duration:    3 * 24 * time.Hour,
	},
	"mirage2": {
		Name:        "mirage2",
		Kind:        KindScripted,
		Predictions: []string{"wife", "mom", "money"},
		Winner:      "mom",
		Duration:    5 * time.Second,
	},
}

// LookupVariant returns the variant configuration for a name.
func LookupVariant(name string) (Variant, bool) {
	v, ok := variants[name]
	return v, ok
}

// VariantNames lists the configured variant names.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	return names
}

// ValidPrediction reports whether p is in the variant's closed enum.
func (v Variant) ValidPrediction(p string) bool {
	for _, allowed := range v.Predictions {
		if p == allowed {
			return true
		}
	}
	return false
}

// NeedsSnapshot reports whether the variant records the counter reading
// at placement time.
func (v Variant) NeedsSnapshot() bool {
	return v.Kind == KindCounterDrift
}

// DrawWinner returns the winning prediction for one-shot variants.
// Coin-flip variants pick uniformly between their two predictions;
// scripted variants always return the configured winner. The draw is
// rolled exactly once, at resolution.
func (v Variant) DrawWinner(rng *rand.Rand) string {
	if v.Kind == KindScripted {
		return v.Winner
	}
	if rng.Float64() >= 0.5 {
		return v.Predictions[0]
	}
	return v.Predictions[1]
}
