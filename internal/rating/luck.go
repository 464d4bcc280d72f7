package rating

import (
	"math"
	"runboard/internal/run"
)

const (
	MaxLuckOutcomes = 800
	NeutralLuck     = 50.0
)

type RollKind string

const (
	// RollChance is a yes/no roll made with a known success probability.
	RollChance RollKind = "chance"
	// RollQuality is a graded roll whose result is reported as a percentile in [0,1].
	RollQuality RollKind = "quality"
)

type RollOutcome struct {
	Kind        RollKind `json:"kind"`
	Source      string   `json:"source,omitempty"`
	Probability float64  `json:"probability,omitempty"`
	Success     bool     `json:"success,omitempty"`
	Percentile  float64  `json:"percentile,omitempty"`
}

// LuckTracker turns the run's RNG outcome log into three ratings on a 0..100
// scale where 50 means "exactly as expected".
type LuckTracker struct {
	outcomes *run.Ring[RollOutcome]
}

func NewLuckTracker() *LuckTracker {
	return &LuckTracker{outcomes: run.NewRing[RollOutcome](MaxLuckOutcomes)}
}

func (l *LuckTracker) ResetForNewRun() {
	l.outcomes.Clear()
}

// Record stores a roll. Probabilities and percentiles are clamped into [0,1];
// unknown kinds are ignored.
func (l *LuckTracker) Record(o RollOutcome) bool {
	switch o.Kind {
	case RollChance:
		o.Probability = clamp01(o.Probability)
	case RollQuality:
		o.Percentile = clamp01(o.Percentile)
	default:
		return false
	}
	l.outcomes.Push(o)
	return true
}

func (l *LuckTracker) Outcomes() []RollOutcome { return l.outcomes.Items() }

// LuckQuantity compares successes with expected successes. Twice the expected
// count or better saturates at 100.
func (l *LuckTracker) LuckQuantity() float64 {
	var expected, actual float64
	for _, o := range l.outcomes.Items() {
		if o.Kind != RollChance {
			continue
		}
		expected += o.Probability
		if o.Success {
			actual++
		}
	}
	if expected == 0 {
		if actual > 0 {
			return 100
		}
		return NeutralLuck
	}
	return math.Min(100, NeutralLuck*actual/expected)
}

// LuckQuality is the mean percentile of quality rolls.
func (l *LuckTracker) LuckQuality() float64 {
	var sum float64
	n := 0
	for _, o := range l.outcomes.Items() {
		if o.Kind != RollQuality {
			continue
		}
		sum += o.Percentile
		n++
	}
	if n == 0 {
		return NeutralLuck
	}
	return 100 * sum / float64(n)
}

func (l *LuckTracker) LuckRating() float64 {
	return (l.LuckQuantity() + l.LuckQuality()) / 2
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
