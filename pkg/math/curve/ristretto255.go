package curve

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/gtank/ristretto255"
)

const (
	ristrettoScalarBytes = 32
	ristrettoPointBytes  = 32
)

// Ristretto255 is the prime order group built on top of Curve25519.
//
// Both points and scalars use the canonical 32 byte ristretto255 encodings,
// scalars being little-endian.
type Ristretto255 struct{}

func (Ristretto255) NewPoint() Point {
	out := new(RistrettoPoint)
	out.value.Zero()
	return out
}

func (Ristretto255) NewBasePoint() Point {
	out := new(RistrettoPoint)
	out.value.Base()
	return out
}

func (Ristretto255) NewScalar() Scalar {
	return new(RistrettoScalar)
}

func (Ristretto255) Name() string {
	return "ristretto255"
}

func (Ristretto255) ScalarBits() int {
	return 253
}

func (Ristretto255) SafeScalarBytes() int {
	return 64
}

func (Ristretto255) ScalarBytes() int {
	return ristrettoScalarBytes
}

func (Ristretto255) PointBytes() int {
	return ristrettoPointBytes
}

// ℓ = 2²⁵² + 27742317777372353535851937790883648493
var ristrettoOrderNat, _ = new(saferith.Nat).SetHex("1000000000000000000000000000000014DEF9DEA2F79CD65812631A5CF5D3ED")
var ristrettoOrder = saferith.ModulusFromNat(ristrettoOrderNat)

func (Ristretto255) Order() *saferith.Modulus {
	return ristrettoOrder
}

// RistrettoScalar is a scalar modulo ℓ. The zero value is 0.
type RistrettoScalar struct {
	value ristretto255.Scalar
}

func ristrettoCastScalar(generic Scalar) *RistrettoScalar {
	out, ok := generic.(*RistrettoScalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to ristrettoScalar: %v", generic))
	}
	return out
}

func (*RistrettoScalar) Curve() Curve {
	return Ristretto255{}
}

func (s *RistrettoScalar) MarshalBinary() ([]byte, error) {
	return s.value.Bytes(), nil
}

func (s *RistrettoScalar) UnmarshalBinary(data []byte) error {
	if len(data) != ristrettoScalarBytes {
		return fmt.Errorf("invalid length for ristretto scalar: %d", len(data))
	}
	var value ristretto255.Scalar
	if _, err := value.SetCanonicalBytes(data); err != nil {
		return fmt.Errorf("invalid bytes for ristretto scalar: %w", err)
	}
	s.value = value
	return nil
}

func (s *RistrettoScalar) Add(that Scalar) Scalar {
	other := ristrettoCastScalar(that)

	s.value.Add(&s.value, &other.value)
	return s
}

func (s *RistrettoScalar) Sub(that Scalar) Scalar {
	other := ristrettoCastScalar(that)

	s.value.Subtract(&s.value, &other.value)
	return s
}

func (s *RistrettoScalar) Mul(that Scalar) Scalar {
	other := ristrettoCastScalar(that)

	s.value.Multiply(&s.value, &other.value)
	return s
}

func (s *RistrettoScalar) Invert() Scalar {
	if s.IsZero() {
		return s
	}
	s.value.Invert(&s.value)
	return s
}

func (s *RistrettoScalar) Negate() Scalar {
	s.value.Negate(&s.value)
	return s
}

func (s *RistrettoScalar) Equal(that Scalar) bool {
	other := ristrettoCastScalar(that)

	return s.value.Equal(&other.value) == 1
}

func (s *RistrettoScalar) IsZero() bool {
	var zero ristretto255.Scalar
	return s.value.Equal(&zero) == 1
}

func (s *RistrettoScalar) Set(that Scalar) Scalar {
	other := ristrettoCastScalar(that)

	s.value = other.value
	return s
}

func (s *RistrettoScalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, ristrettoOrder)
	// Bytes is big-endian and padded to the size of ℓ.
	be := reduced.Bytes()
	le := make([]byte, ristrettoScalarBytes)
	for i := 0; i < len(be) && i < ristrettoScalarBytes; i++ {
		le[i] = be[len(be)-1-i]
	}
	if _, err := s.value.SetCanonicalBytes(le); err != nil {
		panic(fmt.Sprintf("ristrettoScalar.SetNat: reduced value is not canonical: %v", err))
	}
	return s
}

func (s *RistrettoScalar) Act(that Point) Point {
	other := ristrettoCastPoint(that)
	out := new(RistrettoPoint)
	out.value.ScalarMult(&s.value, &other.value)
	return out
}

func (s *RistrettoScalar) ActOnBase() Point {
	out := new(RistrettoPoint)
	out.value.ScalarBaseMult(&s.value)
	return out
}

// RistrettoPoint is an element of the ristretto255 group.
//
// Use Ristretto255.NewPoint to obtain the identity, the zero value is not a valid element.
type RistrettoPoint struct {
	value ristretto255.Element
}

func ristrettoCastPoint(generic Point) *RistrettoPoint {
	out, ok := generic.(*RistrettoPoint)
	if !ok {
		panic(fmt.Sprintf("failed to convert to ristrettoPoint: %v", generic))
	}
	return out
}

func (*RistrettoPoint) Curve() Curve {
	return Ristretto255{}
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
// The identity is encoded as 32 zero bytes, as mandated by the encoding.
func (p *RistrettoPoint) MarshalBinary() ([]byte, error) {
	return p.value.Bytes(), nil
}

func (p *RistrettoPoint) UnmarshalBinary(data []byte) error {
	if len(data) != ristrettoPointBytes {
		return fmt.Errorf("invalid length for ristrettoPoint: %d", len(data))
	}
	var value ristretto255.Element
	if _, err := value.SetCanonicalBytes(data); err != nil {
		return fmt.Errorf("ristrettoPoint.UnmarshalBinary: %w", err)
	}
	p.value = value
	return nil
}

func (p *RistrettoPoint) Add(that Point) Point {
	other := ristrettoCastPoint(that)

	out := new(RistrettoPoint)
	out.value.Add(&p.value, &other.value)
	return out
}

func (p *RistrettoPoint) Sub(that Point) Point {
	other := ristrettoCastPoint(that)

	out := new(RistrettoPoint)
	out.value.Subtract(&p.value, &other.value)
	return out
}

func (p *RistrettoPoint) Negate() Point {
	out := new(RistrettoPoint)
	out.value.Negate(&p.value)
	return out
}

func (p *RistrettoPoint) Set(that Point) Point {
	other := ristrettoCastPoint(that)

	p.value = other.value
	return p
}

func (p *RistrettoPoint) Equal(that Point) bool {
	other := ristrettoCastPoint(that)

	return p.value.Equal(&other.value) == 1
}

func (p *RistrettoPoint) IsIdentity() bool {
	var identity ristretto255.Element
	identity.Zero()
	return p.value.Equal(&identity) == 1
}
