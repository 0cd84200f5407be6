package elgamal

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/math/sample"
)

var testGroups = []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}}

func TestTwoPartyDecryption(t *testing.T) {
	for _, group := range testGroups {
		t.Run(group.Name(), func(t *testing.T) {
			x1, X1 := sample.ScalarPointPair(rand.Reader, group)
			x2, X2 := sample.ScalarPointPair(rand.Reader, group)
			public := X1.Add(X2)

			m := sample.Scalar(rand.Reader, group)
			ct, nonce := Encrypt(public, m)
			require.True(t, ct.Valid())
			assert.True(t, ct.C1.Equal(nonce.ActOnBase()))

			plain := ct.PartialDecrypt(x1).Ciphertext().PartialDecrypt(x2).Plaintext()
			assert.True(t, plain.Equal(m.ActOnBase()))

			// order of decryption does not matter
			plain = ct.PartialDecrypt(x2).Ciphertext().PartialDecrypt(x1).Plaintext()
			assert.True(t, plain.Equal(m.ActOnBase()))

			// subtracting the message yields an encryption of 0
			zero := ct.SubPlaintext(m).PartialDecrypt(x1).Ciphertext().PartialDecrypt(x2).Plaintext()
			assert.True(t, zero.IsIdentity())

			// rerandomization changes the ciphertext but not the message
			rho := sample.NonZeroScalar(rand.Reader, group)
			randomized := ct.Rerandomize(public, rho)
			assert.False(t, randomized.Equal(ct))
			plain = randomized.PartialDecrypt(x1).Ciphertext().PartialDecrypt(x2).Plaintext()
			assert.True(t, plain.Equal(m.ActOnBase()))

			// blinding scales the message, and keeps 0 at 0
			k := sample.NonZeroScalar(rand.Reader, group)
			plain = ct.Blind(k).PartialDecrypt(x1).Ciphertext().PartialDecrypt(x2).Plaintext()
			assert.True(t, plain.Equal(k.Act(m.ActOnBase())))
			assert.False(t, plain.Equal(m.ActOnBase()))
			zero = ct.SubPlaintext(m).Blind(k).PartialDecrypt(x1).Ciphertext().PartialDecrypt(x2).Plaintext()
			assert.True(t, zero.IsIdentity())
		})
	}
}

func TestEncryptWithNonce(t *testing.T) {
	group := curve.Secp256k1{}
	_, public := sample.ScalarPointPair(rand.Reader, group)
	m := sample.Scalar(rand.Reader, group)
	nonce := sample.NonZeroScalar(rand.Reader, group)
	assert.True(t, EncryptWithNonce(public, m, nonce).Equal(EncryptWithNonce(public, m, nonce)))

	ct1, _ := Encrypt(public, m)
	ct2, _ := Encrypt(public, m)
	assert.False(t, ct1.Equal(ct2), "encryption must be randomized")
}

func TestValid(t *testing.T) {
	group := curve.Ristretto255{}
	assert.False(t, (*Ciphertext)(nil).Valid())
	assert.False(t, Empty(group).Valid(), "C1 must not be the identity")
	assert.False(t, (&Ciphertext{C1: group.NewBasePoint()}).Valid())
	assert.True(t, (&Ciphertext{C1: group.NewBasePoint(), C2: group.NewPoint()}).Valid())
	assert.False(t, (&Ciphertext{C1: group.NewBasePoint(), C2: curve.Secp256k1{}.NewBasePoint()}).Valid())
	assert.False(t, (*PartialDecryption)(nil).Valid())
}

func TestMarshal(t *testing.T) {
	for _, group := range testGroups {
		t.Run(group.Name(), func(t *testing.T) {
			_, public := sample.ScalarPointPair(rand.Reader, group)
			ct, _ := Encrypt(public, sample.Scalar(rand.Reader, group))

			data, err := ct.MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, data, Size(group))
			ct2 := Empty(group)
			require.NoError(t, ct2.UnmarshalBinary(data))
			assert.True(t, ct.Equal(ct2))

			out, err := cbor.Marshal(ct)
			require.NoError(t, err)
			ct3 := Empty(group)
			require.NoError(t, cbor.Unmarshal(out, ct3))
			assert.True(t, ct.Equal(ct3))

			partial := ct.PartialDecrypt(sample.Scalar(rand.Reader, group))
			data, err = partial.MarshalBinary()
			require.NoError(t, err)
			partial2 := EmptyPartialDecryption(group)
			require.NoError(t, partial2.UnmarshalBinary(data))
			assert.True(t, partial.Equal(partial2))

			var b1, b2 bytes.Buffer
			_, err = ct.WriteTo(&b1)
			require.NoError(t, err)
			_, err = ct.Clone().WriteTo(&b2)
			require.NoError(t, err)
			assert.Equal(t, b1.Bytes(), b2.Bytes())

			assert.Error(t, Empty(group).UnmarshalBinary(data[:len(data)-1]))
			assert.Error(t, new(Ciphertext).UnmarshalBinary(data))
		})
	}
}
