// Package transcript implements the Fiat-Shamir transcripts used by every proof in this module.
//
// A Transcript is owned by the caller and threaded explicitly through proving
// and verifying functions. Prover and verifier must append the same messages,
// with the same labels and in the same order, to derive the same challenges.
package transcript

import (
	"encoding/binary"

	"github.com/taurusgroup/zkcheck/pkg/hash"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/math/sample"
)

// Transcript accumulates labelled messages and derives challenges from them.
//
// It is not safe for concurrent use, use Clone to obtain independent copies.
type Transcript struct {
	h *hash.Hash
}

// New returns a Transcript separated by the given domain.
func New(domain string) *Transcript {
	return &Transcript{h: hash.New(&hash.BytesWithDomain{TheDomain: "Transcript", Bytes: []byte(domain)})}
}

// FromHash returns a Transcript continuing from the state of h.
//
// h is cloned, further writes to h will not affect the transcript.
func FromHash(h *hash.Hash) *Transcript {
	return &Transcript{h: h.Clone()}
}

// AppendMessage writes message to the transcript under the given label.
func (t *Transcript) AppendMessage(label string, message []byte) {
	_ = t.h.WriteAny(&hash.BytesWithDomain{TheDomain: label, Bytes: message})
}

// AppendPoint writes the canonical encoding of p under the given label.
func (t *Transcript) AppendPoint(label string, p curve.Point) {
	data, err := p.MarshalBinary()
	if err != nil {
		// a point which cannot be encoded is still bound, as an empty message
		data = []byte{}
	}
	t.AppendMessage(label, data)
}

// AppendScalar writes the canonical encoding of s under the given label.
func (t *Transcript) AppendScalar(label string, s curve.Scalar) {
	data, err := s.MarshalBinary()
	if err != nil {
		data = []byte{}
	}
	t.AppendMessage(label, data)
}

// AppendUint64 binds an integer, typically a position in a vector, under the given label.
func (t *Transcript) AppendUint64(label string, i uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], i)
	t.AppendMessage(label, buf[:])
}

// ChallengeScalar derives a uniform scalar in group from the current state.
//
// The challenge is written back into the transcript, so that two successive
// calls with the same label return different scalars.
func (t *Transcript) ChallengeScalar(label string, group curve.Curve) curve.Scalar {
	t.AppendMessage("Challenge", []byte(label))
	e := sample.Scalar(t.h.Clone().Digest(), group)
	t.AppendScalar(label, e)
	return e
}

// Clone returns an independent copy of the transcript in its current state.
func (t *Transcript) Clone() *Transcript {
	return &Transcript{h: t.h.Clone()}
}

// Hash returns a copy of the underlying hash state.
func (t *Transcript) Hash() *hash.Hash {
	return t.h.Clone()
}
