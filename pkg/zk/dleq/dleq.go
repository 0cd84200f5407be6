// Package zkdleq implements a Chaum-Pedersen proof of discrete logarithm equality.
//
// Given bases G₁, G₂ and points X₁, X₂, the prover shows knowledge of x
// such that X₁ = x⋅G₁ and X₂ = x⋅G₂, revealing nothing else about x.
package zkdleq

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/math/sample"
	"github.com/taurusgroup/zkcheck/pkg/transcript"
)

// Public is the statement of the proof.
type Public struct {
	G1, X1 curve.Point
	G2, X2 curve.Point
}

// Proof is a non-interactive Chaum-Pedersen proof.
type Proof struct {
	// A = w⋅G₁
	A curve.Point
	// B = w⋅G₂
	B curve.Point
	// Z = w + e⋅x (mod q)
	Z curve.Scalar
}

// Empty returns a Proof whose fields are initialized for group, ready to be unmarshalled.
func Empty(group curve.Curve) *Proof {
	return &Proof{A: group.NewPoint(), B: group.NewPoint(), Z: group.NewScalar()}
}

// Valid returns true if all points of the statement are set, in a single group,
// and the bases are not the identity.
func (public Public) Valid() bool {
	if public.G1 == nil || public.X1 == nil || public.G2 == nil || public.X2 == nil {
		return false
	}
	name := public.G1.Curve().Name()
	for _, p := range []curve.Point{public.X1, public.G2, public.X2} {
		if p.Curve().Name() != name {
			return false
		}
	}
	return !public.G1.IsIdentity() && !public.G2.IsIdentity()
}

func (public Public) write(tr *transcript.Transcript) {
	tr.AppendMessage("Protocol", []byte("zk/dleq"))
	tr.AppendMessage("Group", []byte(public.G1.Curve().Name()))
	tr.AppendPoint("G1", public.G1)
	tr.AppendPoint("X1", public.X1)
	tr.AppendPoint("G2", public.G2)
	tr.AppendPoint("X2", public.X2)
}

// NewProof proves that public.X1 = x⋅public.G1 and public.X2 = x⋅public.G2.
//
// aux is additional secret material mixed into the nonce derivation.
func NewProof(tr *transcript.Transcript, public Public, x curve.Scalar, aux ...curve.Scalar) *Proof {
	group := x.Curve()
	public.write(tr)

	w := sample.NonZeroScalar(tr.WitnessReader(rand.Reader, append([]curve.Scalar{x}, aux...)...), group)
	A := w.Act(public.G1)
	B := w.Act(public.G2)
	tr.AppendPoint("A", A)
	tr.AppendPoint("B", B)

	e := tr.ChallengeScalar("e", group)
	z := e.Mul(x).Add(w)
	return &Proof{A: A, B: B, Z: z}
}

// IsValid returns true if the proof is well formed.
func (p *Proof) IsValid() bool {
	if p == nil || p.A == nil || p.B == nil || p.Z == nil {
		return false
	}
	if p.A.IsIdentity() || p.B.IsIdentity() {
		return false
	}
	name := p.A.Curve().Name()
	return p.B.Curve().Name() == name && p.Z.Curve().Name() == name
}

// Verify checks that
//
//	Z⋅G₁ = A + e⋅X₁
//	Z⋅G₂ = B + e⋅X₂
func (p *Proof) Verify(tr *transcript.Transcript, public Public) bool {
	if !p.IsValid() || !public.Valid() {
		return false
	}
	group := public.G1.Curve()
	if p.A.Curve().Name() != group.Name() {
		return false
	}
	public.write(tr)
	tr.AppendPoint("A", p.A)
	tr.AppendPoint("B", p.B)
	e := tr.ChallengeScalar("e", group)

	{
		lhs := p.Z.Act(public.G1)
		rhs := e.Act(public.X1).Add(p.A)
		if !lhs.Equal(rhs) {
			return false
		}
	}
	{
		lhs := p.Z.Act(public.G2)
		rhs := e.Act(public.X2).Add(p.B)
		if !lhs.Equal(rhs) {
			return false
		}
	}
	return true
}

// Size returns the length of the binary encoding of a proof in group.
func Size(group curve.Curve) int {
	return 2*group.PointBytes() + group.ScalarBytes()
}

// MarshalBinary implements encoding.BinaryMarshaler, as A ∥ B ∥ Z.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if p == nil || p.A == nil || p.B == nil || p.Z == nil {
		return nil, errors.New("zkdleq: nil proof")
	}
	out := make([]byte, 0, Size(p.A.Curve()))
	for _, m := range []interface{ MarshalBinary() ([]byte, error) }{p.A, p.B, p.Z} {
		data, err := m.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("zkdleq: %w", err)
		}
		out = append(out, data...)
	}
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// The proof must have been initialized with Empty.
func (p *Proof) UnmarshalBinary(data []byte) error {
	if p.A == nil {
		return errors.New("zkdleq: proof must be initialized with a group")
	}
	group := p.A.Curve()
	if len(data) != Size(group) {
		return fmt.Errorf("zkdleq: invalid proof length %d", len(data))
	}
	pointBytes := group.PointBytes()
	A, B, Z := group.NewPoint(), group.NewPoint(), group.NewScalar()
	if err := A.UnmarshalBinary(data[:pointBytes]); err != nil {
		return fmt.Errorf("zkdleq: %w", err)
	}
	if err := B.UnmarshalBinary(data[pointBytes : 2*pointBytes]); err != nil {
		return fmt.Errorf("zkdleq: %w", err)
	}
	if err := Z.UnmarshalBinary(data[2*pointBytes:]); err != nil {
		return fmt.Errorf("zkdleq: %w", err)
	}
	p.A, p.B, p.Z = A, B, Z
	return nil
}
