package hash

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the size of the output of Sum.
const DigestLengthBytes = 64

// Hash is the hash function we use for generating challenges, hashing values to scalars, etc.
//
// Internally, this is a wrapper around blake3, but any hash function with
// an easily extendable output would work as well.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash struct, and writes initialData to its state.
func New(initialData ...WriterToWithDomain) *Hash {
	hash := &Hash{h: blake3.New()}
	for _, d := range initialData {
		_ = hash.WriteAny(d)
	}
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - string
//   - *saferith.Nat
//   - curve.Scalar
//   - curve.Point
//   - hash.WriterToWithDomain
//
// This function will apply its own domain separation for the first types.
// The last type already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var toBeWritten WriterToWithDomain
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			if t == nil {
				return fmt.Errorf("hash.Hash: write []byte: nil")
			}
			toBeWritten = &BytesWithDomain{TheDomain: "[]byte", Bytes: t}
		case string:
			toBeWritten = &BytesWithDomain{TheDomain: "string", Bytes: []byte(t)}
		case *saferith.Nat:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Nat: nil")
			}
			toBeWritten = &BytesWithDomain{TheDomain: "saferith.Nat", Bytes: t.Bytes()}
		case curve.Scalar:
			if t == nil {
				return fmt.Errorf("hash.Hash: write curve.Scalar: nil")
			}
			bytes, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash.Hash: write curve.Scalar: %w", err)
			}
			toBeWritten = &BytesWithDomain{TheDomain: "curve.Scalar", Bytes: bytes}
		case curve.Point:
			if t == nil {
				return fmt.Errorf("hash.Hash: write curve.Point: nil")
			}
			bytes, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash.Hash: write curve.Point: %w", err)
			}
			toBeWritten = &BytesWithDomain{TheDomain: "curve.Point", Bytes: bytes}
		case WriterToWithDomain:
			toBeWritten = t
		default:
			return fmt.Errorf("hash.Hash: unsupported type %T", d)
		}
		if err := writeWithDomain(hash.h, toBeWritten); err != nil {
			return fmt.Errorf("hash.Hash: %w", err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}

// writeWithDomain writes out a piece of data, using its domain.
//
// Both the domain and the data are length prefixed, which makes the encoding injective.
func writeWithDomain(w io.Writer, object WriterToWithDomain) error {
	var buf bytes.Buffer
	if _, err := object.WriteTo(&buf); err != nil {
		return err
	}
	domain := object.Domain()
	var lengths [8]byte
	binary.BigEndian.PutUint64(lengths[:], uint64(len(domain)))
	if _, err := w.Write(lengths[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, domain); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(lengths[:], uint64(buf.Len()))
	if _, err := w.Write(lengths[:]); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
