package checks

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/zkcheck/pkg/elgamal"
	"github.com/taurusgroup/zkcheck/pkg/keys"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/math/sample"
	"github.com/taurusgroup/zkcheck/pkg/pool"
	"github.com/taurusgroup/zkcheck/pkg/transcript"
	zkdecryption "github.com/taurusgroup/zkcheck/pkg/zk/decryption"
	zkrerand "github.com/taurusgroup/zkcheck/pkg/zk/rerand"
)

var testGroups = []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}}

const testLength = 4

func randomValues(group curve.Curve, n int) []curve.Scalar {
	values := make([]curve.Scalar, n)
	for i := range values {
		values[i] = sample.Scalar(rand.Reader, group)
	}
	return values
}

type parties struct {
	userSecret, serverSecret *keys.SecretKey
	user, server, shared     *keys.PublicKey
}

func newParties(group curve.Curve) parties {
	userSecret, user := keys.Generate(rand.Reader, group)
	serverSecret, server := keys.Generate(rand.Reader, group)
	return parties{
		userSecret:   userSecret,
		serverSecret: serverSecret,
		user:         user,
		server:       server,
		shared:       keys.Combine(user, server),
	}
}

// run goes through the whole flow, and returns the final outcome.
func run(t *testing.T, group curve.Curve, values, expected []curve.Scalar, pl *pool.Pool) []bool {
	p := newParties(group)
	tr := transcript.New("test")

	cts := EncryptInput(p.shared, values, pl)
	require.Len(t, cts, len(values))

	checked, err := ComputeChecks(p.shared, cts, expected, pl)
	require.NoError(t, err)

	randomized, rerandProofs, err := RandomizeAndProve(tr, p.shared, checked, pl)
	require.NoError(t, err)
	ok, err := VerifyRandomizationProofs(tr, p.shared, checked, randomized, rerandProofs, pl)
	require.NoError(t, err)
	require.True(t, ok)

	partials, decProofs, err := PartialDecryptionAndProof(tr, randomized, p.userSecret, pl)
	require.NoError(t, err)
	ok, err = VerifyPartialDecryptionProofs(tr, p.user, randomized, partials, decProofs, pl)
	require.NoError(t, err)
	require.True(t, ok)

	next := make([]*elgamal.Ciphertext, len(partials))
	for i := range partials {
		next[i] = partials[i].Ciphertext()
	}
	final, finalProofs, err := PartialDecryptionAndProof(tr, next, p.serverSecret, pl)
	require.NoError(t, err)
	ok, err = VerifyPartialDecryptionProofs(tr, p.server, next, final, finalProofs, pl)
	require.NoError(t, err)
	require.True(t, ok)

	return Outcome(final)
}

func TestEndToEndPass(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	for _, group := range testGroups {
		values := randomValues(group, testLength)
		passed := run(t, group, values, values, pl)
		assert.Len(t, passed, testLength)
		assert.True(t, AllPassed(passed), group.Name())
	}
}

func TestEndToEndFail(t *testing.T) {
	for _, group := range testGroups {
		values := randomValues(group, testLength)
		expected := randomValues(group, testLength)
		passed := run(t, group, values, expected, nil)
		assert.False(t, AllPassed(passed), group.Name())
		for _, p := range passed {
			assert.False(t, p)
		}
	}
}

func TestEndToEndPerPosition(t *testing.T) {
	group := curve.Secp256k1{}
	values := randomValues(group, testLength)
	expected := append([]curve.Scalar{}, values...)
	expected[1] = sample.Scalar(rand.Reader, group)
	assert.Equal(t, []bool{true, false, true, true}, run(t, group, values, expected, nil))
}

func TestComputeChecksLengthMismatch(t *testing.T) {
	group := curve.Ristretto255{}
	p := newParties(group)
	values := randomValues(group, testLength)
	cts := EncryptInput(p.shared, values, nil)

	_, err := ComputeChecks(p.shared, cts, values[:testLength-1], nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	_, err = ComputeChecks(p.shared, cts[:testLength-1], values, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	cts[2] = nil
	_, err = ComputeChecks(p.shared, cts, values, nil)
	assert.True(t, errors.Is(err, ErrInvalidElement))
}

func TestRandomizationRoundTrip(t *testing.T) {
	for _, group := range testGroups {
		p := newParties(group)
		tr := transcript.New("test")
		cts := EncryptInput(p.shared, randomValues(group, testLength), nil)

		randomized, proofs, err := RandomizeAndProve(tr, p.shared, cts, nil)
		require.NoError(t, err)
		ok, err := VerifyRandomizationProofs(tr, p.shared, cts, randomized, proofs, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		for i := range cts {
			assert.False(t, cts[i].Equal(randomized[i]))
		}
	}
}

func TestRandomizationSoundness(t *testing.T) {
	group := curve.Secp256k1{}
	p := newParties(group)
	tr := transcript.New("test")
	cts := EncryptInput(p.shared, randomValues(group, testLength), nil)
	_, proofs, err := RandomizeAndProve(tr, p.shared, cts, nil)
	require.NoError(t, err)

	unrelated := EncryptInput(p.shared, randomValues(group, testLength), nil)
	ok, err := VerifyRandomizationProofs(tr, p.shared, cts, unrelated, proofs, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// swapping two positions is detected
	randomized, proofs, err := RandomizeAndProve(tr, p.shared, cts, nil)
	require.NoError(t, err)
	randomized[0], randomized[1] = randomized[1], randomized[0]
	proofs[0], proofs[1] = proofs[1], proofs[0]
	ok, err = VerifyRandomizationProofs(tr, p.shared, cts, randomized, proofs, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// a single failing position fails the whole vector
	randomized, proofs, err = RandomizeAndProve(tr, p.shared, cts, nil)
	require.NoError(t, err)
	proofs[3] = nil
	ok, err = VerifyRandomizationProofs(tr, p.shared, cts, randomized, proofs, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// proofs are bound to the transcript
	randomized, proofs, err = RandomizeAndProve(tr, p.shared, cts, nil)
	require.NoError(t, err)
	ok, err = VerifyRandomizationProofs(transcript.New("other"), p.shared, cts, randomized, proofs, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRandomizationLengthMismatch(t *testing.T) {
	group := curve.Secp256k1{}
	p := newParties(group)
	tr := transcript.New("test")
	cts := EncryptInput(p.shared, randomValues(group, testLength), nil)
	randomized, proofs, err := RandomizeAndProve(tr, p.shared, cts, nil)
	require.NoError(t, err)

	_, err = VerifyRandomizationProofs(tr, p.shared, cts, randomized, proofs[:testLength-1], nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	_, err = VerifyRandomizationProofs(tr, p.shared, cts[:testLength-1], randomized, proofs, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	_, err = VerifyRandomizationProofs(tr, p.shared, cts, randomized[1:], proofs, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	_, err = VerifyRandomizationProofs(tr, p.shared, cts, randomized, []*zkrerand.Proof{}, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestRandomizationBlinds(t *testing.T) {
	group := curve.Secp256k1{}
	p := newParties(group)
	tr := transcript.New("test")
	values := randomValues(group, testLength)
	expected := append([]curve.Scalar{}, values...)
	expected[2] = sample.Scalar(rand.Reader, group)

	cts := EncryptInput(p.shared, values, nil)
	checked, err := ComputeChecks(p.shared, cts, expected, nil)
	require.NoError(t, err)
	randomized, _, err := RandomizeAndProve(tr, p.shared, checked, nil)
	require.NoError(t, err)

	for i := range randomized {
		plain := randomized[i].PartialDecrypt(p.userSecret.Key).Ciphertext().PartialDecrypt(p.serverSecret.Key).Plaintext()
		if i != 2 {
			assert.True(t, plain.IsIdentity(), "position %d", i)
			continue
		}
		// the difference with the expected value cannot be recovered
		assert.False(t, plain.IsIdentity())
		assert.False(t, plain.Add(expected[i].ActOnBase()).Equal(values[i].ActOnBase()))
	}
}

func TestProveInvalidElements(t *testing.T) {
	for _, group := range testGroups {
		p := newParties(group)
		tr := transcript.New("test")
		cts := EncryptInput(p.shared, randomValues(group, testLength), nil)

		for name, bad := range map[string]*elgamal.Ciphertext{
			"nil":         nil,
			"identity C1": {C1: group.NewPoint()},
			"nil C2":      {C1: group.NewBasePoint()},
		} {
			input := append([]*elgamal.Ciphertext{}, cts...)
			input[1] = bad

			assert.NotPanics(t, func() {
				_, _, err := RandomizeAndProve(tr, p.shared, input, nil)
				assert.True(t, errors.Is(err, ErrInvalidElement), name)
				_, _, err = PartialDecryptionAndProof(tr, input, p.userSecret, nil)
				assert.True(t, errors.Is(err, ErrInvalidElement), name)
			}, name)
		}

		// a check with C2 = 0 cannot be blinded verifiably
		input := append([]*elgamal.Ciphertext{}, cts...)
		input[0] = &elgamal.Ciphertext{C1: group.NewBasePoint(), C2: group.NewPoint()}
		_, _, err := RandomizeAndProve(tr, p.shared, input, nil)
		assert.True(t, errors.Is(err, ErrInvalidElement))

		_, _, err = RandomizeAndProve(tr, nil, cts, nil)
		assert.True(t, errors.Is(err, ErrInvalidElement))
		_, _, err = RandomizeAndProve(tr, &keys.PublicKey{Point: group.NewPoint()}, cts, nil)
		assert.True(t, errors.Is(err, ErrInvalidElement))
		_, _, err = PartialDecryptionAndProof(tr, cts, nil, nil)
		assert.True(t, errors.Is(err, ErrInvalidElement))
		_, _, err = PartialDecryptionAndProof(tr, cts, &keys.SecretKey{Key: group.NewScalar()}, nil)
		assert.True(t, errors.Is(err, ErrInvalidElement))
	}
}

func TestDecryptionRoundTrip(t *testing.T) {
	for _, group := range testGroups {
		p := newParties(group)
		tr := transcript.New("test")
		cts := EncryptInput(p.shared, randomValues(group, testLength), nil)

		partials, proofs, err := PartialDecryptionAndProof(tr, cts, p.userSecret, nil)
		require.NoError(t, err)
		ok, err := VerifyPartialDecryptionProofs(tr, p.user, cts, partials, proofs, nil)
		require.NoError(t, err)
		assert.True(t, ok)

		// the proofs are bound to the key share which produced them
		ok, err = VerifyPartialDecryptionProofs(tr, p.server, cts, partials, proofs, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestDecryptionSoundness(t *testing.T) {
	group := curve.Ristretto255{}
	p := newParties(group)
	tr := transcript.New("test")
	cts := EncryptInput(p.shared, randomValues(group, testLength), nil)
	_, proofs, err := PartialDecryptionAndProof(tr, cts, p.userSecret, nil)
	require.NoError(t, err)

	fresh, _, err := PartialDecryptionAndProof(tr, cts, p.serverSecret, nil)
	require.NoError(t, err)
	ok, err := VerifyPartialDecryptionProofs(tr, p.user, cts, fresh, proofs, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	partials, proofs, err := PartialDecryptionAndProof(tr, cts, p.userSecret, nil)
	require.NoError(t, err)
	partials[2] = nil
	ok, err = VerifyPartialDecryptionProofs(tr, p.user, cts, partials, proofs, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecryptionLengthMismatch(t *testing.T) {
	group := curve.Ristretto255{}
	p := newParties(group)
	tr := transcript.New("test")
	cts := EncryptInput(p.shared, randomValues(group, testLength), nil)
	partials, proofs, err := PartialDecryptionAndProof(tr, cts, p.userSecret, nil)
	require.NoError(t, err)

	_, err = VerifyPartialDecryptionProofs(tr, p.user, cts, partials, proofs[:testLength-1], nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	_, err = VerifyPartialDecryptionProofs(tr, p.user, cts, partials[:1], proofs, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	_, err = VerifyPartialDecryptionProofs(tr, p.user, cts[1:], partials, proofs, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	_, err = VerifyPartialDecryptionProofs(tr, p.user, cts, partials, []*zkdecryption.Proof{}, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestOutcome(t *testing.T) {
	group := curve.Secp256k1{}
	final := []*elgamal.PartialDecryption{
		{C1: group.NewBasePoint(), C2: group.NewPoint()},
		{C1: group.NewBasePoint(), C2: group.NewBasePoint()},
		nil,
	}
	assert.Equal(t, []bool{true, false, false}, Outcome(final))
	assert.True(t, AllPassed(nil))
	assert.True(t, AllPassed([]bool{true, true}))
	assert.False(t, AllPassed([]bool{true, false}))
}

func TestValuesFromBytes(t *testing.T) {
	group := curve.Ristretto255{}
	a := ValuesFromBytes(group, "test", [][]byte{[]byte("x"), []byte("y"), []byte("x")})
	require.Len(t, a, 3)
	assert.True(t, a[0].Equal(a[2]))
	assert.False(t, a[0].Equal(a[1]))

	b := ValuesFromBytes(group, "other", [][]byte{[]byte("x")})
	assert.False(t, a[0].Equal(b[0]))
}
