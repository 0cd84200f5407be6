package curve

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var secp256k1BaseX, secp256k1BaseY secp256k1.FieldVal

func init() {
	Gx, _ := hex.DecodeString("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	Gy, _ := hex.DecodeString("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")
	secp256k1BaseX.SetByteSlice(Gx)
	secp256k1BaseY.SetByteSlice(Gy)
}

const (
	secp256k1ScalarBytes = 32
	// 0x02 or 0x03 ∥ 32-byte x coordinate
	secp256k1PointBytes = 33
)

// Secp256k1 is the bitcoin curve, a prime order group of 256 bits.
type Secp256k1 struct{}

func (Secp256k1) NewPoint() Point {
	return new(Secp256k1Point)
}

func (Secp256k1) NewBasePoint() Point {
	out := new(Secp256k1Point)
	out.value.X.Set(&secp256k1BaseX)
	out.value.Y.Set(&secp256k1BaseY)
	out.value.Z.SetInt(1)
	return out
}

func (Secp256k1) NewScalar() Scalar {
	return new(Secp256k1Scalar)
}

func (Secp256k1) Name() string {
	return "secp256k1"
}

func (Secp256k1) ScalarBits() int {
	return 256
}

func (Secp256k1) SafeScalarBytes() int {
	return 48
}

func (Secp256k1) ScalarBytes() int {
	return secp256k1ScalarBytes
}

func (Secp256k1) PointBytes() int {
	return secp256k1PointBytes
}

var secp256k1OrderNat, _ = new(saferith.Nat).SetHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")
var secp256k1Order = saferith.ModulusFromNat(secp256k1OrderNat)

func (Secp256k1) Order() *saferith.Modulus {
	return secp256k1Order
}

// Secp256k1Scalar is a scalar modulo the order of secp256k1.
type Secp256k1Scalar struct {
	value secp256k1.ModNScalar
}

func secp256k1CastScalar(generic Scalar) *Secp256k1Scalar {
	out, ok := generic.(*Secp256k1Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Scalar: %v", generic))
	}
	return out
}

func (*Secp256k1Scalar) Curve() Curve {
	return Secp256k1{}
}

// MarshalBinary implements encoding.BinaryMarshaler, as 32 big-endian bytes.
func (s *Secp256k1Scalar) MarshalBinary() ([]byte, error) {
	data := s.value.Bytes()
	return data[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// Only the canonical encoding is accepted, values ⩾ q are rejected.
func (s *Secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != secp256k1ScalarBytes {
		return fmt.Errorf("invalid length for secp256k1 scalar: %d", len(data))
	}
	var value secp256k1.ModNScalar
	if overflow := value.SetByteSlice(data); overflow {
		return errors.New("invalid bytes for secp256k1 scalar: value is not reduced")
	}
	s.value.Set(&value)
	return nil
}

func (s *Secp256k1Scalar) Add(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Add(&other.value)
	return s
}

func (s *Secp256k1Scalar) Sub(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	var negated secp256k1.ModNScalar
	negated.NegateVal(&other.value)
	s.value.Add(&negated)
	return s
}

func (s *Secp256k1Scalar) Mul(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Mul(&other.value)
	return s
}

func (s *Secp256k1Scalar) Invert() Scalar {
	s.value.InverseNonConst()
	return s
}

func (s *Secp256k1Scalar) Negate() Scalar {
	s.value.Negate()
	return s
}

func (s *Secp256k1Scalar) Equal(that Scalar) bool {
	other := secp256k1CastScalar(that)

	return s.value.Equals(&other.value)
}

func (s *Secp256k1Scalar) IsZero() bool {
	return s.value.IsZero()
}

func (s *Secp256k1Scalar) Set(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Set(&other.value)
	return s
}

func (s *Secp256k1Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, secp256k1Order)
	s.value.SetByteSlice(reduced.Bytes())
	return s
}

func (s *Secp256k1Scalar) Act(that Point) Point {
	other := secp256k1CastPoint(that)
	out := new(Secp256k1Point)
	secp256k1.ScalarMultNonConst(&s.value, &other.value, &out.value)
	return out
}

func (s *Secp256k1Scalar) ActOnBase() Point {
	out := new(Secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&s.value, &out.value)
	return out
}

// Secp256k1Point is a point on secp256k1, stored in Jacobian coordinates.
//
// The zero value is the identity.
type Secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func secp256k1CastPoint(generic Point) *Secp256k1Point {
	out, ok := generic.(*Secp256k1Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Point: %v", generic))
	}
	return out
}

func (*Secp256k1Point) Curve() Curve {
	return Secp256k1{}
}

// affine returns a normalized copy of p, so that concurrent readers never
// observe p being rewritten.
func (p *Secp256k1Point) affine() secp256k1.JacobianPoint {
	var point secp256k1.JacobianPoint
	point.Set(&p.value)
	point.ToAffine()
	return point
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
// Non-identity points use the 33 byte SEC1 compressed format.
// The identity is encoded as 33 zero bytes.
func (p *Secp256k1Point) MarshalBinary() ([]byte, error) {
	out := make([]byte, secp256k1PointBytes)
	if p.IsIdentity() {
		return out, nil
	}
	point := p.affine()
	format := secp256k1.PubKeyFormatCompressedEven
	if point.Y.IsOdd() {
		format = secp256k1.PubKeyFormatCompressedOdd
	}
	out[0] = format
	point.X.PutBytesUnchecked(out[1:])
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Secp256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) != secp256k1PointBytes {
		return fmt.Errorf("invalid length for secp256k1Point: %d", len(data))
	}
	if isAllZero(data) {
		p.value = secp256k1.JacobianPoint{}
		return nil
	}
	format := data[0]
	if format != secp256k1.PubKeyFormatCompressedEven && format != secp256k1.PubKeyFormatCompressedOdd {
		return errors.New("secp256k1Point.UnmarshalBinary: incorrect format")
	}
	var x, y secp256k1.FieldVal
	if overflow := x.SetByteSlice(data[1:]); overflow {
		return errors.New("secp256k1Point.UnmarshalBinary: x coordinate out of range")
	}
	if !secp256k1.DecompressY(&x, format == secp256k1.PubKeyFormatCompressedOdd, &y) {
		return errors.New("secp256k1Point.UnmarshalBinary: x coordinate not on curve")
	}
	y.Normalize()
	p.value.X.Set(&x)
	p.value.Y.Set(&y)
	p.value.Z.SetInt(1)
	return nil
}

func (p *Secp256k1Point) Add(that Point) Point {
	other := secp256k1CastPoint(that)

	out := new(Secp256k1Point)
	secp256k1.AddNonConst(&p.value, &other.value, &out.value)
	return out
}

func (p *Secp256k1Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *Secp256k1Point) Negate() Point {
	out := new(Secp256k1Point)
	if p.IsIdentity() {
		return out
	}
	out.value = p.affine()
	out.value.Y.Negate(1)
	out.value.Y.Normalize()
	return out
}

func (p *Secp256k1Point) Set(that Point) Point {
	other := secp256k1CastPoint(that)

	p.value.Set(&other.value)
	return p
}

func (p *Secp256k1Point) Equal(that Point) bool {
	other := secp256k1CastPoint(that)

	pIdentity, otherIdentity := p.IsIdentity(), other.IsIdentity()
	if pIdentity || otherIdentity {
		return pIdentity == otherIdentity
	}
	a, b := p.affine(), other.affine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

func (p *Secp256k1Point) IsIdentity() bool {
	var point secp256k1.JacobianPoint
	point.Set(&p.value)
	point.Z.Normalize()
	if point.Z.IsZero() {
		return true
	}
	point.X.Normalize()
	point.Y.Normalize()
	return point.X.IsZero() && point.Y.IsZero()
}

func isAllZero(data []byte) bool {
	var acc byte
	for _, b := range data {
		acc |= b
	}
	return acc == 0
}
