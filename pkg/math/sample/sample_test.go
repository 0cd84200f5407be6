package sample

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
)

func TestScalarPointPair(t *testing.T) {
	for _, group := range []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}} {
		x, X := ScalarPointPair(rand.Reader, group)
		assert.False(t, x.IsZero())
		assert.True(t, x.ActOnBase().Equal(X))
		y := Scalar(rand.Reader, group)
		assert.False(t, x.Equal(y), "two samples should differ")
	}
}

func TestScalarDeterministicReader(t *testing.T) {
	group := curve.Secp256k1{}
	seed := bytes.Repeat([]byte{7}, 2*group.SafeScalarBytes())
	a := Scalar(bytes.NewReader(seed), group)
	b := Scalar(bytes.NewReader(seed), group)
	assert.True(t, a.Equal(b))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestScalarPanicsWithoutEntropy(t *testing.T) {
	assert.Panics(t, func() { Scalar(failingReader{}, curve.Ristretto255{}) })
}
