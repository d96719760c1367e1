// Package augment - the randomized data augmentation pipeline used to train
// SSD-style object detectors. A pipeline is an ordered chain of transforms,
// each rewriting an image and its ground truth boxes consistently.
//
// Transforms are single-threaded. Callers augmenting batches in parallel must
// build one pipeline per goroutine, each with its own random source, to avoid
// correlated randomness between workers.
package augment

import (
	"math/rand"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/CZhihao/ssd-keras/common"
)

// ErrConfig reports invalid static configuration: inverted bounds, mismatched
// weight counts, non-positive scales. Constructors fail fast with it; it never
// surfaces mid-call from a correctly constructed component.
var ErrConfig = errors.New("invalid augmentation config")

// Transform rewrites an image and its labels. Implementations never modify or
// close the input Mat; they return a freshly allocated Mat the caller owns,
// a clone on identity paths. Label rows are likewise returned as fresh copies.
type Transform interface {
	Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error)
}

// Chain threads an (image, labels) pair through an ordered list of transforms.
// Intermediate Mats are closed as the pair advances; the final Mat belongs to
// the caller. A Chain is itself a Transform, which is how the photometric
// distortion stage nests its sub-sequences.
type Chain struct {
	stages []Transform
}

// NewChain builds a pipeline from the given stages, applied in order.
func NewChain(stages ...Transform) *Chain {
	return &Chain{stages: stages}
}

// Apply implements Transform.
func (c *Chain) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	if len(c.stages) == 0 {
		return img.Clone(), common.CopyLabels(labels), nil
	}
	cur := img
	curLabels := labels
	for i, stage := range c.stages {
		next, nextLabels, err := stage.Apply(cur, curLabels)
		if i > 0 {
			cur.Close()
		}
		if err != nil {
			next.Close()
			return gocv.NewMat(), nil, errors.Wrapf(err, "augmentation stage %d", i)
		}
		cur, curLabels = next, nextLabels
	}
	return cur, curLabels, nil
}

// Bernoulli flips a coin that comes up true with probability p. Every
// stochastic branch in this package goes through it, so each decision point
// draws exactly once from the random source.
func Bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
