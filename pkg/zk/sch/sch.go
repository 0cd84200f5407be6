package zksch

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/math/sample"
	"github.com/taurusgroup/zkcheck/pkg/transcript"
)

// Proof is a non-interactive Schnorr proof of knowledge of x such that X = x⋅G.
type Proof struct {
	// A = a⋅G
	A curve.Point
	// Z = a + e⋅x (mod q)
	Z curve.Scalar
}

// EmptyProof returns a Proof whose fields are initialized for group, ready to be unmarshalled.
func EmptyProof(group curve.Curve) *Proof {
	return &Proof{A: group.NewPoint(), Z: group.NewScalar()}
}

func writeStatement(tr *transcript.Transcript, public curve.Point) {
	tr.AppendMessage("Protocol", []byte("zk/sch"))
	tr.AppendMessage("Group", []byte(public.Curve().Name()))
	tr.AppendPoint("X", public)
}

// NewProof generates a proof that public = private⋅G.
//
// aux is additional secret material mixed into the nonce derivation, it is not part of the statement.
func NewProof(tr *transcript.Transcript, public curve.Point, private curve.Scalar, aux ...curve.Scalar) *Proof {
	group := private.Curve()
	writeStatement(tr, public)

	a := sample.NonZeroScalar(tr.WitnessReader(rand.Reader, append([]curve.Scalar{private}, aux...)...), group)
	A := a.ActOnBase()
	tr.AppendPoint("A", A)

	e := tr.ChallengeScalar("e", group)
	z := e.Mul(private).Add(a)
	return &Proof{A: A, Z: z}
}

// IsValid returns true if the proof is well formed.
func (p *Proof) IsValid() bool {
	if p == nil || p.A == nil || p.Z == nil {
		return false
	}
	if p.A.IsIdentity() || p.Z.IsZero() {
		return false
	}
	return p.A.Curve().Name() == p.Z.Curve().Name()
}

// Verify checks the proof against public, using the same transcript state the prover used.
func (p *Proof) Verify(tr *transcript.Transcript, public curve.Point) bool {
	if !p.IsValid() || public == nil || public.IsIdentity() {
		return false
	}
	group := public.Curve()
	if p.A.Curve().Name() != group.Name() {
		return false
	}
	writeStatement(tr, public)
	tr.AppendPoint("A", p.A)
	e := tr.ChallengeScalar("e", group)

	lhs := p.Z.ActOnBase()
	rhs := e.Act(public).Add(p.A)
	return lhs.Equal(rhs)
}

// MarshalBinary implements encoding.BinaryMarshaler, as A ∥ Z.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if p == nil || p.A == nil || p.Z == nil {
		return nil, errors.New("zksch: nil proof")
	}
	A, err := p.A.MarshalBinary()
	if err != nil {
		return nil, err
	}
	Z, err := p.Z.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(A, Z...), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// The proof must have been initialized with EmptyProof.
func (p *Proof) UnmarshalBinary(data []byte) error {
	if p.A == nil {
		return errors.New("zksch: proof must be initialized with a group")
	}
	group := p.A.Curve()
	if len(data) != group.PointBytes()+group.ScalarBytes() {
		return fmt.Errorf("zksch: invalid proof length %d", len(data))
	}
	A, Z := group.NewPoint(), group.NewScalar()
	if err := A.UnmarshalBinary(data[:group.PointBytes()]); err != nil {
		return fmt.Errorf("zksch: %w", err)
	}
	if err := Z.UnmarshalBinary(data[group.PointBytes():]); err != nil {
		return fmt.Errorf("zksch: %w", err)
	}
	p.A, p.Z = A, Z
	return nil
}
