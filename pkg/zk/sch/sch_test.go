package zksch

import (
	"crypto/rand"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/math/sample"
	"github.com/taurusgroup/zkcheck/pkg/transcript"
)

var testGroups = []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}}

func TestSchPass(t *testing.T) {
	for _, group := range testGroups {
		x, X := sample.ScalarPointPair(rand.Reader, group)
		proof := NewProof(transcript.New("test"), X, x)
		assert.True(t, proof.Verify(transcript.New("test"), X), "failed passing test")

		out, err := cbor.Marshal(proof)
		require.NoError(t, err, "failed to marshal proof")
		proof2 := EmptyProof(group)
		require.NoError(t, cbor.Unmarshal(out, proof2), "failed to unmarshal proof")
		assert.True(t, proof2.Verify(transcript.New("test"), X))

		data, err := proof.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, data, group.PointBytes()+group.ScalarBytes())
	}
}

func TestSchFail(t *testing.T) {
	for _, group := range testGroups {
		x, X := sample.ScalarPointPair(rand.Reader, group)
		proof := NewProof(transcript.New("test"), X, x)

		assert.False(t, proof.Verify(transcript.New("other"), X), "proof should be bound to the transcript")
		_, Y := sample.ScalarPointPair(rand.Reader, group)
		assert.False(t, proof.Verify(transcript.New("test"), Y), "proof should be bound to the public key")

		zero, identity := group.NewScalar(), group.NewPoint()
		proof = NewProof(transcript.New("test"), identity, zero)
		assert.False(t, proof.Verify(transcript.New("test"), identity), "proof should not accept identity point")

		assert.False(t, (*Proof)(nil).Verify(transcript.New("test"), X))
		assert.False(t, EmptyProof(group).Verify(transcript.New("test"), X))
	}
}

func TestSchUnmarshalMalformed(t *testing.T) {
	group := curve.Secp256k1{}
	assert.Error(t, EmptyProof(group).UnmarshalBinary([]byte{1, 2, 3}))
	assert.Error(t, new(Proof).UnmarshalBinary(make([]byte, 65)))
}
