package keys

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/transcript"
	zksch "github.com/taurusgroup/zkcheck/pkg/zk/sch"
)

var testGroups = []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}}

func TestGenerate(t *testing.T) {
	for _, group := range testGroups {
		sk, pk := Generate(rand.Reader, group)
		assert.True(t, pk.Valid())
		assert.True(t, sk.Public().Equal(pk))
		assert.False(t, sk.Key.Equal(sk.Nonce))
		assert.Equal(t, group.Name(), pk.Group().Name())
	}
}

func TestCombineCommutative(t *testing.T) {
	for _, group := range testGroups {
		skA, a := Generate(rand.Reader, group)
		skB, b := Generate(rand.Reader, group)
		_, c := Generate(rand.Reader, group)

		assert.True(t, Combine(a, b).Equal(Combine(b, a)))
		assert.True(t, Combine(Combine(a, b), c).Equal(Combine(a, Combine(b, c))))
		assert.True(t, CombineAll(a, b, c).Equal(Combine(c, Combine(b, a))))
		assert.True(t, CombineAll(a).Equal(a))

		joint := group.NewScalar().Set(skA.Key).Add(skB.Key).ActOnBase()
		assert.True(t, Combine(a, b).Point.Equal(joint))

		dataAB, err := Combine(a, b).MarshalBinary()
		require.NoError(t, err)
		dataBA, err := Combine(b, a).MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, dataAB, dataBA)
	}
}

func TestKnowledge(t *testing.T) {
	for _, group := range testGroups {
		sk, pk := Generate(rand.Reader, group)
		proof := ProveKnowledge(transcript.New("test"), sk)
		assert.True(t, VerifyKnowledge(transcript.New("test"), pk, proof))

		_, other := Generate(rand.Reader, group)
		assert.False(t, VerifyKnowledge(transcript.New("test"), other, proof))
		assert.False(t, VerifyKnowledge(transcript.New("other"), pk, proof))
		assert.False(t, VerifyKnowledge(transcript.New("test"), EmptyPublicKey(group), proof))
		assert.False(t, VerifyKnowledge(transcript.New("test"), pk, nil))

		// a raw Schnorr proof is not accepted as a proof of knowledge
		raw := zksch.NewProof(transcript.New("test"), pk.Point, sk.Key)
		assert.False(t, VerifyKnowledge(transcript.New("test"), pk, raw))
	}
}

func TestMarshal(t *testing.T) {
	for _, group := range testGroups {
		sk, pk := Generate(rand.Reader, group)

		data, err := pk.MarshalBinary()
		require.NoError(t, err)
		pk2 := EmptyPublicKey(group)
		require.NoError(t, pk2.UnmarshalBinary(data))
		assert.True(t, pk.Equal(pk2))

		data, err = sk.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, data, 2*group.ScalarBytes())
		sk2 := EmptySecretKey(group)
		require.NoError(t, sk2.UnmarshalBinary(data))
		assert.True(t, sk.Key.Equal(sk2.Key))
		assert.True(t, sk.Nonce.Equal(sk2.Nonce))

		assert.Error(t, EmptySecretKey(group).UnmarshalBinary(data[1:]))
		assert.Error(t, new(PublicKey).UnmarshalBinary(data))
	}
}
