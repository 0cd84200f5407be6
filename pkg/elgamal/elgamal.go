// Package elgamal implements exponential ElGamal encryption over a prime order group.
//
// A scalar message m is encoded as the point m⋅G before encryption, so that
// decryption recovers m⋅G rather than m. This is enough to test whether m = 0.
package elgamal

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/math/sample"
)

type (
	PublicKey = curve.Point
	Nonce     = curve.Scalar
)

// Ciphertext is an encryption of a scalar message under a public key.
type Ciphertext struct {
	// C1 = nonce⋅G
	C1 curve.Point
	// C2 = message⋅G + nonce⋅public
	C2 curve.Point
}

// Empty returns a Ciphertext whose points are initialized for group, ready to be unmarshalled.
func Empty(group curve.Curve) *Ciphertext {
	return &Ciphertext{
		C1: group.NewPoint(),
		C2: group.NewPoint(),
	}
}

// Encrypt returns the encryption of message under public, along with the nonce that was used.
func Encrypt(public PublicKey, message curve.Scalar) (*Ciphertext, Nonce) {
	group := public.Curve()
	nonce := sample.NonZeroScalar(rand.Reader, group)
	return EncryptWithNonce(public, message, nonce), nonce
}

// EncryptWithNonce is like Encrypt, but uses the given nonce.
func EncryptWithNonce(public PublicKey, message curve.Scalar, nonce Nonce) *Ciphertext {
	return &Ciphertext{
		C1: nonce.ActOnBase(),
		C2: message.ActOnBase().Add(nonce.Act(public)),
	}
}

// SubPlaintext returns (C1, C2 - m⋅G), an encryption of message - m under the same key.
func (c *Ciphertext) SubPlaintext(m curve.Scalar) *Ciphertext {
	return &Ciphertext{
		C1: c.C1,
		C2: c.C2.Sub(m.ActOnBase()),
	}
}

// Blind returns (k⋅C1, k⋅C2), an encryption of k⋅message under the same key.
//
// For k ≠ 0, an encryption of 0 stays one, and any other message becomes uniform in the group.
func (c *Ciphertext) Blind(k curve.Scalar) *Ciphertext {
	return &Ciphertext{
		C1: k.Act(c.C1),
		C2: k.Act(c.C2),
	}
}

// Rerandomize returns (C1 + ρ⋅G, C2 + ρ⋅public), a fresh encryption of the same message.
func (c *Ciphertext) Rerandomize(public PublicKey, rho Nonce) *Ciphertext {
	return &Ciphertext{
		C1: c.C1.Add(rho.ActOnBase()),
		C2: c.C2.Add(rho.Act(public)),
	}
}

// PartialDecrypt removes the contribution of secret from the blinding factor of c.
//
// The result is (C1, C2 - secret⋅C1). If secret was the last share of the
// decryption key, the second point of the result is message⋅G.
func (c *Ciphertext) PartialDecrypt(secret curve.Scalar) *PartialDecryption {
	return &PartialDecryption{
		C1: c.C1,
		C2: c.C2.Sub(secret.Act(c.C1)),
	}
}

// Valid returns true if the ciphertext passes basic validation.
//
// C2 may be the identity, but C1 = nonce⋅G never is for an honest non-zero nonce.
func (c *Ciphertext) Valid() bool {
	if c == nil || c.C1 == nil || c.C1.IsIdentity() || c.C2 == nil {
		return false
	}
	return c.C1.Curve().Name() == c.C2.Curve().Name()
}

// Equal returns true if both ciphertexts have the same points.
func (c *Ciphertext) Equal(other *Ciphertext) bool {
	if c == nil || other == nil || c.C1 == nil || c.C2 == nil || other.C1 == nil || other.C2 == nil {
		return false
	}
	return c.C1.Equal(other.C1) && c.C2.Equal(other.C2)
}

// Clone returns a deep copy of c.
func (c *Ciphertext) Clone() *Ciphertext {
	group := c.C1.Curve()
	return &Ciphertext{
		C1: group.NewPoint().Set(c.C1),
		C2: group.NewPoint().Set(c.C2),
	}
}

func (c *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	return writePoints(w, c.C1, c.C2)
}

func (Ciphertext) Domain() string {
	return "ElGamal Ciphertext"
}

// MarshalBinary implements encoding.BinaryMarshaler, as C1 ∥ C2.
func (c *Ciphertext) MarshalBinary() ([]byte, error) {
	return marshalPoints(c.C1, c.C2)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// The ciphertext must have been initialized with Empty.
func (c *Ciphertext) UnmarshalBinary(data []byte) error {
	C1, C2, err := unmarshalPoints(c.C1, data)
	if err != nil {
		return fmt.Errorf("elgamal.Ciphertext: %w", err)
	}
	c.C1, c.C2 = C1, C2
	return nil
}

// Size returns the length of the binary encoding of a Ciphertext or PartialDecryption in group.
func Size(group curve.Curve) int {
	return 2 * group.PointBytes()
}

func marshalPoints(C1, C2 curve.Point) ([]byte, error) {
	if C1 == nil || C2 == nil {
		return nil, errors.New("nil point")
	}
	buf, err := C1.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf2, err := C2.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(buf, buf2...), nil
}

func unmarshalPoints(initialized curve.Point, data []byte) (curve.Point, curve.Point, error) {
	if initialized == nil {
		return nil, nil, errors.New("must be initialized with a group")
	}
	group := initialized.Curve()
	if len(data) != Size(group) {
		return nil, nil, io.ErrShortBuffer
	}
	C1, C2 := group.NewPoint(), group.NewPoint()
	if err := C1.UnmarshalBinary(data[:group.PointBytes()]); err != nil {
		return nil, nil, err
	}
	if err := C2.UnmarshalBinary(data[group.PointBytes():]); err != nil {
		return nil, nil, err
	}
	return C1, C2, nil
}

func writePoints(w io.Writer, points ...curve.Point) (int64, error) {
	var total int64
	for _, p := range points {
		buf, err := p.MarshalBinary()
		if err != nil {
			return total, err
		}
		n, err := w.Write(buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
