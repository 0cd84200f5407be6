package elgamal

import (
	"fmt"
	"io"

	"github.com/taurusgroup/zkcheck/pkg/math/curve"
)

// PartialDecryption is what remains of a Ciphertext once a party removed its key share.
//
// It is kept as a distinct type so that a partial result is never mistaken for
// a fresh encryption.
type PartialDecryption struct {
	// C1 is carried over from the ciphertext.
	C1 curve.Point
	// C2 = C2 - share⋅C1
	C2 curve.Point
}

// EmptyPartialDecryption returns a PartialDecryption initialized for group, ready to be unmarshalled.
func EmptyPartialDecryption(group curve.Curve) *PartialDecryption {
	return &PartialDecryption{
		C1: group.NewPoint(),
		C2: group.NewPoint(),
	}
}

// Ciphertext returns p as a Ciphertext, so that the next key holder can decrypt it further.
func (p *PartialDecryption) Ciphertext() *Ciphertext {
	return &Ciphertext{C1: p.C1, C2: p.C2}
}

// Plaintext returns the second point, which is message⋅G once all shares were removed.
func (p *PartialDecryption) Plaintext() curve.Point {
	return p.C2
}

// Valid returns true if both points are set and belong to the same group.
func (p *PartialDecryption) Valid() bool {
	if p == nil || p.C1 == nil || p.C2 == nil {
		return false
	}
	return p.C1.Curve().Name() == p.C2.Curve().Name()
}

// Equal returns true if both partial decryptions have the same points.
func (p *PartialDecryption) Equal(other *PartialDecryption) bool {
	if !p.Valid() || !other.Valid() {
		return false
	}
	return p.C1.Equal(other.C1) && p.C2.Equal(other.C2)
}

func (p *PartialDecryption) WriteTo(w io.Writer) (int64, error) {
	return writePoints(w, p.C1, p.C2)
}

func (PartialDecryption) Domain() string {
	return "ElGamal PartialDecryption"
}

// MarshalBinary implements encoding.BinaryMarshaler, as C1 ∥ C2.
func (p *PartialDecryption) MarshalBinary() ([]byte, error) {
	return marshalPoints(p.C1, p.C2)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// The value must have been initialized with EmptyPartialDecryption.
func (p *PartialDecryption) UnmarshalBinary(data []byte) error {
	C1, C2, err := unmarshalPoints(p.C1, data)
	if err != nil {
		return fmt.Errorf("elgamal.PartialDecryption: %w", err)
	}
	p.C1, p.C2 = C1, C2
	return nil
}
