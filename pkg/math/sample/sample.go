package sample

import (
	"fmt"
	"io"

	"github.com/taurusgroup/zkcheck/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// Scalar returns a new *curve.Scalar by reading bytes from rand.
//
// Enough bytes are read so that the reduction modulo the group order has negligible bias.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	buffer := make([]byte, group.SafeScalarBytes())
	mustReadBits(rand, buffer)
	return curve.FromHash(group, buffer)
}

// NonZeroScalar is like Scalar, but resamples until the result is not 0.
func NonZeroScalar(rand io.Reader, group curve.Curve) curve.Scalar {
	for i := 0; i < maxIterations; i++ {
		if s := Scalar(rand, group); !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}

// ScalarPointPair returns a new non-zero *curve.Scalar/*curve.Point tuple (x,X) where X = x⋅G.
func ScalarPointPair(rand io.Reader, group curve.Curve) (curve.Scalar, curve.Point) {
	s := NonZeroScalar(rand, group)
	return s, s.ActOnBase()
}
