// Package zkrerand proves that a ciphertext was blinded and rerandomized correctly.
//
// For a ciphertext (C1, C2) under public key Y, the prover publishes a blinded
// ciphertext (B1, B2) and a rerandomization (C1', C2') of it, and shows knowledge of k and ρ such that
//
//	B1 = k⋅C1, B2 = k⋅C2
//	C1' - B1 = ρ⋅G
//	C2' - B2 = ρ⋅Y
//
// with B1 ≠ 0, so that k ≠ 0. The result encrypts k⋅m, which is 0 exactly when m is 0.
package zkrerand

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/zkcheck/pkg/elgamal"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/transcript"
	zkdleq "github.com/taurusgroup/zkcheck/pkg/zk/dleq"
)

// Public is the statement of the proof.
type Public struct {
	// Key is the public key all ciphertexts are encrypted under.
	Key elgamal.PublicKey
	// Original is the ciphertext before blinding.
	Original *elgamal.Ciphertext
	// Randomized is the ciphertext after blinding and rerandomization.
	Randomized *elgamal.Ciphertext
}

// Private is the witness of the proof.
type Private struct {
	// Blind is the non-zero multiplicative blinding factor k.
	Blind curve.Scalar
	// Rho is the rerandomization nonce.
	Rho curve.Scalar
}

// Proof shows that Randomized encrypts a non-zero multiple of the message of Original.
type Proof struct {
	// Blinded = k⋅Original
	Blinded *elgamal.Ciphertext
	// Blinding proves log_{C1} B1 = log_{C2} B2.
	Blinding *zkdleq.Proof
	// Shift proves Randomized = Blinded.Rerandomize(Y, ρ).
	Shift *zkdleq.Proof
}

// Empty returns a Proof initialized for group, ready to be unmarshalled.
func Empty(group curve.Curve) *Proof {
	return &Proof{
		Blinded:  elgamal.Empty(group),
		Blinding: zkdleq.Empty(group),
		Shift:    zkdleq.Empty(group),
	}
}

// Randomize returns k⋅ct rerandomized with ρ under public.
func Randomize(public elgamal.PublicKey, ct *elgamal.Ciphertext, private Private) (blinded, randomized *elgamal.Ciphertext) {
	blinded = ct.Blind(private.Blind)
	return blinded, blinded.Rerandomize(public, private.Rho)
}

func (public Public) valid() bool {
	if public.Key == nil || public.Key.IsIdentity() {
		return false
	}
	if !public.Original.Valid() || !public.Randomized.Valid() {
		return false
	}
	// C2 is a base of the blinding statement
	if public.Original.C2.IsIdentity() {
		return false
	}
	name := public.Key.Curve().Name()
	return public.Original.C1.Curve().Name() == name && public.Randomized.C1.Curve().Name() == name
}

func (public Public) statement(tr *transcript.Transcript, blinded *elgamal.Ciphertext) (zkdleq.Public, zkdleq.Public) {
	tr.AppendMessage("Protocol", []byte("zk/rerand"))
	tr.AppendPoint("Y", public.Key)
	tr.AppendPoint("C1", public.Original.C1)
	tr.AppendPoint("C2", public.Original.C2)
	tr.AppendPoint("B1", blinded.C1)
	tr.AppendPoint("B2", blinded.C2)
	tr.AppendPoint("C1'", public.Randomized.C1)
	tr.AppendPoint("C2'", public.Randomized.C2)
	blinding := zkdleq.Public{
		G1: public.Original.C1,
		X1: blinded.C1,
		G2: public.Original.C2,
		X2: blinded.C2,
	}
	shift := zkdleq.Public{
		G1: public.Key.Curve().NewBasePoint(),
		X1: public.Randomized.C1.Sub(blinded.C1),
		G2: public.Key,
		X2: public.Randomized.C2.Sub(blinded.C2),
	}
	return blinding, shift
}

// NewProof proves that public.Randomized was obtained from public.Original with Randomize.
func NewProof(tr *transcript.Transcript, public Public, private Private) *Proof {
	blinded := public.Original.Blind(private.Blind)
	blinding, shift := public.statement(tr, blinded)
	return &Proof{
		Blinded:  blinded,
		Blinding: zkdleq.NewProof(tr, blinding, private.Blind, private.Rho),
		Shift:    zkdleq.NewProof(tr, shift, private.Rho, private.Blind),
	}
}

// IsValid returns true if the proof is well formed, and the blinding factor is not 0.
func (p *Proof) IsValid() bool {
	if p == nil || !p.Blinded.Valid() {
		return false
	}
	return p.Blinding.IsValid() && p.Shift.IsValid()
}

// Verify returns true if the proof shows public.Randomized encrypts a non-zero multiple
// of the message of public.Original.
func (p *Proof) Verify(tr *transcript.Transcript, public Public) bool {
	if !p.IsValid() || !public.valid() {
		return false
	}
	if p.Blinded.C1.Curve().Name() != public.Key.Curve().Name() {
		return false
	}
	blinding, shift := public.statement(tr, p.Blinded)
	if !p.Blinding.Verify(tr, blinding) {
		return false
	}
	return p.Shift.Verify(tr, shift)
}

// Size returns the length of the binary encoding of a proof in group.
func Size(group curve.Curve) int {
	return elgamal.Size(group) + 2*zkdleq.Size(group)
}

// MarshalBinary implements encoding.BinaryMarshaler, as Blinded ∥ Blinding ∥ Shift.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if p == nil || p.Blinded == nil || p.Blinding == nil || p.Shift == nil {
		return nil, errors.New("zkrerand: nil proof")
	}
	var out []byte
	for _, m := range []interface{ MarshalBinary() ([]byte, error) }{p.Blinded, p.Blinding, p.Shift} {
		data, err := m.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("zkrerand: %w", err)
		}
		out = append(out, data...)
	}
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// The proof must have been initialized with Empty.
func (p *Proof) UnmarshalBinary(data []byte) error {
	if p.Blinded == nil || p.Blinded.C1 == nil {
		return errors.New("zkrerand: proof must be initialized with a group")
	}
	group := p.Blinded.C1.Curve()
	if len(data) != Size(group) {
		return fmt.Errorf("zkrerand: invalid proof length %d", len(data))
	}
	ctBytes, dleqBytes := elgamal.Size(group), zkdleq.Size(group)
	blinded, blinding, shift := elgamal.Empty(group), zkdleq.Empty(group), zkdleq.Empty(group)
	if err := blinded.UnmarshalBinary(data[:ctBytes]); err != nil {
		return fmt.Errorf("zkrerand: %w", err)
	}
	if err := blinding.UnmarshalBinary(data[ctBytes : ctBytes+dleqBytes]); err != nil {
		return fmt.Errorf("zkrerand: %w", err)
	}
	if err := shift.UnmarshalBinary(data[ctBytes+dleqBytes:]); err != nil {
		return fmt.Errorf("zkrerand: %w", err)
	}
	p.Blinded, p.Blinding, p.Shift = blinded, blinding, shift
	return nil
}
