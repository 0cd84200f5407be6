package transcript

import (
	"crypto/cipher"
	"io"

	"github.com/taurusgroup/zkcheck/pkg/hash"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"golang.org/x/crypto/chacha20"
)

const entropyBytes = 32

// WitnessReader returns a deterministic stream of bytes suitable for sampling proof nonces.
//
// The stream is keyed by the transcript state, the secret witnesses and entropyBytes
// read from rand, so that a weak rand alone never leads to a repeated nonce
// for different statements. Reading from the transcript's RNG does not modify the transcript.
//
// Panics if rand fails to provide enough bytes.
func (t *Transcript) WitnessReader(rand io.Reader, witness ...curve.Scalar) io.Reader {
	h := t.h.Clone()
	for _, w := range witness {
		if w == nil {
			continue
		}
		_ = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Witness", Bytes: mustMarshal(w)})
	}
	entropy := make([]byte, entropyBytes)
	if _, err := io.ReadFull(rand, entropy); err != nil {
		panic("transcript.WitnessReader: failed to read entropy: " + err.Error())
	}
	_ = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Entropy", Bytes: entropy})

	key := make([]byte, chacha20.KeySize)
	if _, err := io.ReadFull(h.Digest(), key); err != nil {
		panic("transcript.WitnessReader: failed to derive key: " + err.Error())
	}
	nonce := make([]byte, chacha20.NonceSize)
	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		panic("transcript.WitnessReader: " + err.Error())
	}
	return &streamReader{stream: stream}
}

func mustMarshal(s curve.Scalar) []byte {
	data, err := s.MarshalBinary()
	if err != nil {
		return []byte{}
	}
	return data
}

// streamReader outputs the raw keystream of a cipher.Stream.
type streamReader struct {
	stream cipher.Stream
}

func (r *streamReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.stream.XORKeyStream(p, p)
	return len(p), nil
}
