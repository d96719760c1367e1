// Package images - deterministic pixel-level operations for the augmentation
// pipeline. Every operation leaves its input gocv.Mat untouched and returns a
// freshly allocated Mat the caller owns and must Close.
package images

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrTypeMismatch reports an operation applied to an image with an unsupported
// channel count or depth. It is surfaced to the caller, never retried.
var ErrTypeMismatch = errors.New("unsupported image type")

// depthMask extracts the depth bits of a MatType (gocv packs depth and channel
// count into one constant).
const depthMask = 7

func depthOf(m gocv.Mat) gocv.MatType {
	return m.Type() & depthMask
}

func requireDepth(m gocv.Mat, want gocv.MatType, op string) error {
	if got := depthOf(m); got != want {
		return errors.Wrapf(ErrTypeMismatch, "%s: depth %d, want %d", op, got, want)
	}
	return nil
}

func requireChannels(m gocv.Mat, want int, op string) error {
	if got := m.Channels(); got != want {
		return errors.Wrapf(ErrTypeMismatch, "%s: %d channel(s), want %d", op, got, want)
	}
	return nil
}
