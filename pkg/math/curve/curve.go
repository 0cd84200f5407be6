package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve represents the prime order group the protocol is instantiated over.
//
// Both implementations in this package have prime order, so every non-identity
// point generates the group.
type Curve interface {
	// NewPoint returns the identity element.
	NewPoint() Point
	// NewBasePoint returns the fixed generator G.
	NewBasePoint() Point
	// NewScalar returns the zero scalar.
	NewScalar() Scalar
	// Name returns the name of this group, used for domain separation.
	Name() string
	// ScalarBits is the bit length of the group order.
	ScalarBits() int
	// SafeScalarBytes is the number of uniform bytes needed to sample a scalar
	// with negligible bias.
	SafeScalarBytes() int
	// ScalarBytes is the size of the canonical scalar encoding.
	ScalarBytes() int
	// PointBytes is the size of the canonical point encoding.
	PointBytes() int
	// Order returns the order of the group.
	Order() *saferith.Modulus
}

// Scalar represents an element of the field ℤ/qℤ, where q is the order of the group.
//
// Arithmetic methods modify the receiver and return it, so that calls can be chained:
//
//	group.NewScalar().Set(a).Mul(b).Add(c)
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	// Curve returns the group this scalar belongs to.
	Curve() Curve
	// Add sets s = s + that.
	Add(Scalar) Scalar
	// Sub sets s = s - that.
	Sub(Scalar) Scalar
	// Mul sets s = s * that.
	Mul(Scalar) Scalar
	// Invert sets s = s⁻¹. The inverse of 0 is 0.
	Invert() Scalar
	// Negate sets s = -s.
	Negate() Scalar
	// Equal returns true if both scalars are equal.
	Equal(Scalar) bool
	// IsZero returns true if s = 0.
	IsZero() bool
	// Set sets s = that.
	Set(Scalar) Scalar
	// SetNat sets s = x mod q.
	SetNat(*saferith.Nat) Scalar
	// Act returns s⋅P and leaves P untouched.
	Act(Point) Point
	// ActOnBase returns s⋅G.
	ActOnBase() Point
}

// Point represents an element of the group.
//
// Unlike Scalar, arithmetic on points always allocates a new Point.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	// Curve returns the group this point belongs to.
	Curve() Curve
	// Add returns p + that.
	Add(Point) Point
	// Sub returns p - that.
	Sub(Point) Point
	// Negate returns -p.
	Negate() Point
	// Set sets p = that and returns p.
	Set(Point) Point
	// Equal returns true if both points represent the same group element.
	Equal(Point) bool
	// IsIdentity returns true if p is the identity element.
	IsIdentity() bool
}

// FromHash converts a uniform byte string to a Scalar by reduction modulo the group order.
//
// h should contain at least group.SafeScalarBytes() bytes, so that the bias
// of the reduction is negligible.
func FromHash(group Curve, h []byte) Scalar {
	s := new(saferith.Nat).SetBytes(h)
	return group.NewScalar().SetNat(s)
}
