package augment

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Bounds is a closed [Lower, Upper] interval of overlap values. Overlap
// metrics live in [0, 1], so Lower=0 or Upper=1 encode an unconstrained
// endpoint without loss.
type Bounds struct {
	Lower float32
	Upper float32
}

// Unbounded accepts any overlap value.
var Unbounded = Bounds{Lower: 0, Upper: 1}

// Contains reports whether v falls inside the interval, endpoints included.
func (b Bounds) Contains(v float32) bool {
	return v >= b.Lower && v <= b.Upper
}

func (b Bounds) validate() error {
	if b.Lower < 0 || b.Upper > 1 || b.Lower > b.Upper {
		return errors.Wrapf(ErrConfig, "bounds [%v, %v] not within [0, 1] or inverted", b.Lower, b.Upper)
	}
	return nil
}

// BoundGenerator draws an overlap interval from a weighted discrete sample
// space. The crop sampler draws a fresh interval per retry round, which is
// what makes the published recipe prefer easy IoU requirements early and hard
// ones only occasionally.
type BoundGenerator struct {
	space   []Bounds
	weights []float64
	rng     *rand.Rand
}

// NewBoundGenerator validates the sample space and weights. A nil weights
// slice means uniform weighting.
func NewBoundGenerator(rng *rand.Rand, space []Bounds, weights []float64) (*BoundGenerator, error) {
	if len(space) == 0 {
		return nil, errors.Wrap(ErrConfig, "empty bound sample space")
	}
	for _, b := range space {
		if err := b.validate(); err != nil {
			return nil, err
		}
	}
	if weights == nil {
		weights = make([]float64, len(space))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(space) {
		return nil, errors.Wrapf(ErrConfig, "%d weights for %d bound pairs", len(weights), len(space))
	}
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, errors.Wrapf(ErrConfig, "negative weight %v", w)
		}
		total += w
	}
	if total <= 0 {
		return nil, errors.Wrap(ErrConfig, "bound weights sum to zero")
	}
	return &BoundGenerator{space: space, weights: weights, rng: rng}, nil
}

// Sample returns one interval from the sample space.
func (g *BoundGenerator) Sample() Bounds {
	total := 0.0
	for _, w := range g.weights {
		total += w
	}
	r := g.rng.Float64() * total
	for i, w := range g.weights {
		r -= w
		if r < 0 {
			return g.space[i]
		}
	}
	return g.space[len(g.space)-1]
}
