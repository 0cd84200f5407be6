// Package zkdecryption proves that a partial decryption was computed with the secret behind a key share.
//
// For a ciphertext (C1, C2), a partial decryption (C1, C2 - D) and a key share X,
// the prover shows knowledge of x such that
//
//	X = x⋅G
//	D = x⋅C1
package zkdecryption

import (
	"github.com/taurusgroup/zkcheck/pkg/elgamal"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/transcript"
	zkdleq "github.com/taurusgroup/zkcheck/pkg/zk/dleq"
)

// Public is the statement of the proof.
type Public struct {
	// Share is the public key share X = x⋅G of the decrypting party.
	Share curve.Point
	// Ciphertext is the input of the partial decryption.
	Ciphertext *elgamal.Ciphertext
	// Partial is the output of the partial decryption.
	Partial *elgamal.PartialDecryption
}

// Private is the witness of the proof.
type Private struct {
	// Secret is the secret key share x.
	Secret curve.Scalar
	// Aux is additional secret material bound into the nonce derivation.
	Aux curve.Scalar
}

// Proof shows that Partial was obtained from Ciphertext with the secret behind Share.
type Proof struct {
	*zkdleq.Proof
}

// Empty returns a Proof initialized for group, ready to be unmarshalled.
func Empty(group curve.Curve) *Proof {
	return &Proof{Proof: zkdleq.Empty(group)}
}

func (public Public) valid() bool {
	if public.Share == nil || public.Share.IsIdentity() {
		return false
	}
	if !public.Ciphertext.Valid() || !public.Partial.Valid() {
		return false
	}
	name := public.Share.Curve().Name()
	if public.Ciphertext.C1.Curve().Name() != name || public.Partial.C1.Curve().Name() != name {
		return false
	}
	// the first point is carried over unchanged
	return public.Ciphertext.C1.Equal(public.Partial.C1)
}

func (public Public) statement(tr *transcript.Transcript) zkdleq.Public {
	tr.AppendMessage("Protocol", []byte("zk/decryption"))
	tr.AppendPoint("X", public.Share)
	tr.AppendPoint("C1", public.Ciphertext.C1)
	tr.AppendPoint("C2", public.Ciphertext.C2)
	tr.AppendPoint("C2'", public.Partial.C2)
	return zkdleq.Public{
		G1: public.Share.Curve().NewBasePoint(),
		X1: public.Share,
		G2: public.Ciphertext.C1,
		X2: public.Ciphertext.C2.Sub(public.Partial.C2),
	}
}

// NewProof proves that public.Partial = public.Ciphertext.PartialDecrypt(private.Secret).
func NewProof(tr *transcript.Transcript, public Public, private Private) *Proof {
	statement := public.statement(tr)
	var aux []curve.Scalar
	if private.Aux != nil {
		aux = append(aux, private.Aux)
	}
	return &Proof{Proof: zkdleq.NewProof(tr, statement, private.Secret, aux...)}
}

// Verify returns true if the proof shows public.Partial was obtained by removing
// the share of public.Share from public.Ciphertext.
func (p *Proof) Verify(tr *transcript.Transcript, public Public) bool {
	if p == nil || !p.IsValid() || !public.valid() {
		return false
	}
	return p.Proof.Verify(tr, public.statement(tr))
}
