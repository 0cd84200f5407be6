// Package checks implements the vector operations of the equality check protocol.
//
// Every function preserves the order of its input vectors: the element at
// position i of an output always corresponds to position i of the inputs.
// Work on different positions is independent, and is spread over the workers
// of a *pool.Pool when one is given.
package checks

import (
	"crypto/rand"
	"fmt"

	"github.com/taurusgroup/zkcheck/pkg/elgamal"
	"github.com/taurusgroup/zkcheck/pkg/hash"
	"github.com/taurusgroup/zkcheck/pkg/keys"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/math/sample"
	"github.com/taurusgroup/zkcheck/pkg/pool"
	"github.com/taurusgroup/zkcheck/pkg/transcript"
	zkdecryption "github.com/taurusgroup/zkcheck/pkg/zk/decryption"
	zkrerand "github.com/taurusgroup/zkcheck/pkg/zk/rerand"
)

const (
	rerandLabel     = "zkcheck/checks/rerand"
	decryptionLabel = "zkcheck/checks/decryption"
)

// positionTranscript returns a copy of tr bound to position i of a vector of length n.
//
// Proofs made at one position therefore never verify at another.
func positionTranscript(tr *transcript.Transcript, label string, i, n int) *transcript.Transcript {
	t := tr.Clone()
	t.AppendMessage("Vector", []byte(label))
	t.AppendUint64("Length", uint64(n))
	t.AppendUint64("Position", uint64(i))
	return t
}

// EncryptInput encrypts each value under pk, with a fresh nonce per position.
func EncryptInput(pk *keys.PublicKey, values []curve.Scalar, pl *pool.Pool) []*elgamal.Ciphertext {
	results := pl.Parallelize(len(values), func(i int) interface{} {
		ct, _ := elgamal.Encrypt(pk.Point, values[i])
		return ct
	})
	cts := make([]*elgamal.Ciphertext, len(values))
	for i, r := range results {
		cts[i] = r.(*elgamal.Ciphertext)
	}
	return cts
}

// ComputeChecks returns, for each position, (C1, C2 - expected⋅G).
//
// Once decrypted, position i is the identity exactly when the value encrypted there equals expected[i].
// Both vectors must have the same length, shorter vectors must be padded by the caller.
func ComputeChecks(pk *keys.PublicKey, cts []*elgamal.Ciphertext, expected []curve.Scalar, pl *pool.Pool) ([]*elgamal.Ciphertext, error) {
	if len(cts) != len(expected) {
		return nil, fmt.Errorf("checks.ComputeChecks: %w: %d ciphertexts, %d expected values", ErrLengthMismatch, len(cts), len(expected))
	}
	if !pk.Valid() {
		return nil, fmt.Errorf("checks.ComputeChecks: %w: public key", ErrInvalidElement)
	}
	group := pk.Group()
	for i := range cts {
		if !cts[i].Valid() || cts[i].C1.Curve().Name() != group.Name() {
			return nil, fmt.Errorf("checks.ComputeChecks: %w: ciphertext %d", ErrInvalidElement, i)
		}
		if expected[i] == nil || expected[i].Curve().Name() != group.Name() {
			return nil, fmt.Errorf("checks.ComputeChecks: %w: expected value %d", ErrInvalidElement, i)
		}
	}

	results := pl.Parallelize(len(cts), func(i int) interface{} {
		return cts[i].SubPlaintext(expected[i])
	})
	out := make([]*elgamal.Ciphertext, len(cts))
	for i, r := range results {
		out[i] = r.(*elgamal.Ciphertext)
	}
	return out, nil
}

type rerandResult struct {
	ct    *elgamal.Ciphertext
	proof *zkrerand.Proof
}

// validCiphertexts returns an error naming the first element of cts that is not a valid ciphertext in group.
func validCiphertexts(op string, group curve.Curve, cts []*elgamal.Ciphertext) error {
	for i := range cts {
		if !cts[i].Valid() || cts[i].C1.Curve().Name() != group.Name() {
			return fmt.Errorf("%s: %w: ciphertext %d", op, ErrInvalidElement, i)
		}
	}
	return nil
}

// RandomizeAndProve blinds each ciphertext by a fresh non zero factor, rerandomizes it under pk,
// and proves both steps.
//
// An encryption of 0 stays an encryption of 0, any other message becomes a uniformly random one.
// A check whose second point is the identity cannot be blinded verifiably, and is rejected.
func RandomizeAndProve(tr *transcript.Transcript, pk *keys.PublicKey, cts []*elgamal.Ciphertext, pl *pool.Pool) ([]*elgamal.Ciphertext, []*zkrerand.Proof, error) {
	const op = "checks.RandomizeAndProve"
	if !pk.Valid() {
		return nil, nil, fmt.Errorf("%s: %w: public key", op, ErrInvalidElement)
	}
	group := pk.Group()
	if err := validCiphertexts(op, group, cts); err != nil {
		return nil, nil, err
	}
	for i := range cts {
		if cts[i].C2.IsIdentity() {
			return nil, nil, fmt.Errorf("%s: %w: ciphertext %d", op, ErrInvalidElement, i)
		}
	}

	n := len(cts)
	results := pl.Parallelize(n, func(i int) interface{} {
		private := zkrerand.Private{
			Blind: sample.NonZeroScalar(rand.Reader, group),
			Rho:   sample.NonZeroScalar(rand.Reader, group),
		}
		_, randomized := zkrerand.Randomize(pk.Point, cts[i], private)
		public := zkrerand.Public{Key: pk.Point, Original: cts[i], Randomized: randomized}
		proof := zkrerand.NewProof(positionTranscript(tr, rerandLabel, i, n), public, private)
		return rerandResult{ct: randomized, proof: proof}
	})
	randomized := make([]*elgamal.Ciphertext, n)
	proofs := make([]*zkrerand.Proof, n)
	for i, r := range results {
		res := r.(rerandResult)
		randomized[i], proofs[i] = res.ct, res.proof
	}
	return randomized, proofs, nil
}

type decryptionResult struct {
	partial *elgamal.PartialDecryption
	proof   *zkdecryption.Proof
}

// PartialDecryptionAndProof removes the share sk from each ciphertext, and proves it did so correctly.
//
// Applied by the second key holder to the output of the first, the second point of
// each result is the plaintext point.
func PartialDecryptionAndProof(tr *transcript.Transcript, cts []*elgamal.Ciphertext, sk *keys.SecretKey, pl *pool.Pool) ([]*elgamal.PartialDecryption, []*zkdecryption.Proof, error) {
	const op = "checks.PartialDecryptionAndProof"
	if sk == nil || sk.Key == nil || sk.Key.IsZero() {
		return nil, nil, fmt.Errorf("%s: %w: secret key", op, ErrInvalidElement)
	}
	if err := validCiphertexts(op, sk.Group(), cts); err != nil {
		return nil, nil, err
	}

	n := len(cts)
	share := sk.Key.ActOnBase()
	results := pl.Parallelize(n, func(i int) interface{} {
		partial := cts[i].PartialDecrypt(sk.Key)
		public := zkdecryption.Public{Share: share, Ciphertext: cts[i], Partial: partial}
		proof := zkdecryption.NewProof(positionTranscript(tr, decryptionLabel, i, n), public, zkdecryption.Private{Secret: sk.Key, Aux: sk.Nonce})
		return decryptionResult{partial: partial, proof: proof}
	})
	partials := make([]*elgamal.PartialDecryption, n)
	proofs := make([]*zkdecryption.Proof, n)
	for i, r := range results {
		res := r.(decryptionResult)
		partials[i], proofs[i] = res.partial, res.proof
	}
	return partials, proofs, nil
}

// VerifyRandomizationProofs checks that randomized[i] is a rerandomization of original[i] for every i.
//
// All three vectors must have the same length. Every position is verified, and the result is
// true only if all of them are. A nil element makes its position fail.
func VerifyRandomizationProofs(tr *transcript.Transcript, pk *keys.PublicKey, original, randomized []*elgamal.Ciphertext, proofs []*zkrerand.Proof, pl *pool.Pool) (bool, error) {
	n := len(original)
	if len(randomized) != n || len(proofs) != n {
		return false, fmt.Errorf("checks.VerifyRandomizationProofs: %w: %d original, %d randomized, %d proofs",
			ErrLengthMismatch, n, len(randomized), len(proofs))
	}
	if !pk.Valid() {
		return false, nil
	}
	results := pl.Parallelize(n, func(i int) interface{} {
		public := zkrerand.Public{Key: pk.Point, Original: original[i], Randomized: randomized[i]}
		return proofs[i].Verify(positionTranscript(tr, rerandLabel, i, n), public)
	})
	return allTrue(results), nil
}

// VerifyPartialDecryptionProofs checks that partials[i] was obtained from cts[i] with the secret behind pkShare.
//
// Lengths and results are handled as in VerifyRandomizationProofs.
func VerifyPartialDecryptionProofs(tr *transcript.Transcript, pkShare *keys.PublicKey, cts []*elgamal.Ciphertext, partials []*elgamal.PartialDecryption, proofs []*zkdecryption.Proof, pl *pool.Pool) (bool, error) {
	n := len(cts)
	if len(partials) != n || len(proofs) != n {
		return false, fmt.Errorf("checks.VerifyPartialDecryptionProofs: %w: %d ciphertexts, %d partials, %d proofs",
			ErrLengthMismatch, n, len(partials), len(proofs))
	}
	if !pkShare.Valid() {
		return false, nil
	}
	results := pl.Parallelize(n, func(i int) interface{} {
		public := zkdecryption.Public{Share: pkShare.Point, Ciphertext: cts[i], Partial: partials[i]}
		return proofs[i].Verify(positionTranscript(tr, decryptionLabel, i, n), public)
	})
	return allTrue(results), nil
}

func allTrue(results []interface{}) bool {
	ok := true
	for _, r := range results {
		ok = ok && r.(bool)
	}
	return ok
}

// Outcome returns, for each fully decrypted position, whether the check passed.
//
// A position passes when its plaintext point is the identity, a nil element fails.
func Outcome(final []*elgamal.PartialDecryption) []bool {
	passed := make([]bool, len(final))
	for i, p := range final {
		passed[i] = p.Valid() && p.Plaintext().IsIdentity()
	}
	return passed
}

// AllPassed returns true if every check passed. An empty vector passes.
func AllPassed(passed []bool) bool {
	for _, p := range passed {
		if !p {
			return false
		}
	}
	return true
}

// ValuesFromBytes maps application values to scalars, by hashing each of them in the given domain.
//
// Equal values in the same domain always map to equal scalars.
func ValuesFromBytes(group curve.Curve, domain string, values [][]byte) []curve.Scalar {
	out := make([]curve.Scalar, len(values))
	for i, v := range values {
		h := hash.New(&hash.BytesWithDomain{TheDomain: "Value Domain", Bytes: []byte(domain)})
		_ = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Group", Bytes: []byte(group.Name())})
		_ = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Value", Bytes: v})
		out[i] = sample.Scalar(h.Digest(), group)
	}
	return out
}
