package zkdecryption

import (
	"crypto/rand"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/zkcheck/pkg/elgamal"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/math/sample"
	"github.com/taurusgroup/zkcheck/pkg/transcript"
)

var testGroups = []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}}

func TestDecryptionPass(t *testing.T) {
	for _, group := range testGroups {
		x, X := sample.ScalarPointPair(rand.Reader, group)
		_, Y := sample.ScalarPointPair(rand.Reader, group)
		ct, _ := elgamal.Encrypt(X.Add(Y), sample.Scalar(rand.Reader, group))
		public := Public{Share: X, Ciphertext: ct, Partial: ct.PartialDecrypt(x)}

		proof := NewProof(transcript.New("test"), public, Private{Secret: x})
		assert.True(t, proof.Verify(transcript.New("test"), public), "failed passing test")

		out, err := cbor.Marshal(proof)
		require.NoError(t, err, "failed to marshal proof")
		proof2 := Empty(group)
		require.NoError(t, cbor.Unmarshal(out, proof2), "failed to unmarshal proof")
		assert.True(t, proof2.Verify(transcript.New("test"), public))
	}
}

func TestDecryptionFail(t *testing.T) {
	for _, group := range testGroups {
		x, X := sample.ScalarPointPair(rand.Reader, group)
		ct, _ := elgamal.Encrypt(X, sample.Scalar(rand.Reader, group))
		public := Public{Share: X, Ciphertext: ct, Partial: ct.PartialDecrypt(x)}
		proof := NewProof(transcript.New("test"), public, Private{Secret: x})

		// a fresh partial decryption with another key
		y, Y := sample.ScalarPointPair(rand.Reader, group)
		other := Public{Share: X, Ciphertext: ct, Partial: ct.PartialDecrypt(y)}
		assert.False(t, proof.Verify(transcript.New("test"), other))
		assert.False(t, NewProof(transcript.New("test"), other, Private{Secret: x}).Verify(transcript.New("test"), other))
		assert.False(t, proof.Verify(transcript.New("test"), Public{Share: Y, Ciphertext: ct, Partial: public.Partial}))

		// C1 must be carried over
		tampered := &elgamal.PartialDecryption{C1: group.NewBasePoint(), C2: public.Partial.C2}
		assert.False(t, proof.Verify(transcript.New("test"), Public{Share: X, Ciphertext: ct, Partial: tampered}))

		assert.False(t, proof.Verify(transcript.New("test"), Public{Share: X, Ciphertext: ct}))
		assert.False(t, (*Proof)(nil).Verify(transcript.New("test"), public))
		assert.False(t, Empty(group).Verify(transcript.New("test"), public))
	}
}
