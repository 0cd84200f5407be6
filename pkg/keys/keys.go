// Package keys holds the key pairs each party generates for a single protocol run.
package keys

import (
	"errors"
	"fmt"
	"io"

	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/math/sample"
	"github.com/taurusgroup/zkcheck/pkg/transcript"
	zksch "github.com/taurusgroup/zkcheck/pkg/zk/sch"
)

// knowledgeLabel separates proofs of knowledge of a secret key from any other Schnorr proof.
const knowledgeLabel = "zkcheck/keys/knowledge"

// SecretKey is a party's share of the decryption key.
type SecretKey struct {
	// Key is the secret scalar x, with PublicKey = x⋅G.
	Key curve.Scalar
	// Nonce is auxiliary randomness bound to the key.
	// It is mixed into the nonces of every proof made with this key, and is never revealed.
	Nonce curve.Scalar
}

// PublicKey is a party's share of the encryption key, or the joint key.
type PublicKey struct {
	Point curve.Point
}

// Generate samples a fresh key pair in group using rand.
func Generate(rand io.Reader, group curve.Curve) (*SecretKey, *PublicKey) {
	key, point := sample.ScalarPointPair(rand, group)
	nonce := sample.Scalar(rand, group)
	return &SecretKey{Key: key, Nonce: nonce}, &PublicKey{Point: point}
}

// Public returns the PublicKey matching sk.
func (sk *SecretKey) Public() *PublicKey {
	return &PublicKey{Point: sk.Key.ActOnBase()}
}

// Group returns the group the key belongs to.
func (sk *SecretKey) Group() curve.Curve {
	return sk.Key.Curve()
}

// Combine returns the joint public key a + b.
func Combine(a, b *PublicKey) *PublicKey {
	return &PublicKey{Point: a.Point.Add(b.Point)}
}

// CombineAll returns the sum of all given public keys, which must be non empty.
func CombineAll(first *PublicKey, others ...*PublicKey) *PublicKey {
	out := first
	for _, pk := range others {
		out = Combine(out, pk)
	}
	return &PublicKey{Point: out.Point.Curve().NewPoint().Set(out.Point)}
}

// Group returns the group the key belongs to.
func (pk *PublicKey) Group() curve.Curve {
	return pk.Point.Curve()
}

// Valid returns true if the key is set and is not the identity.
func (pk *PublicKey) Valid() bool {
	return pk != nil && pk.Point != nil && !pk.Point.IsIdentity()
}

// Equal returns true if both keys are the same point.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil || pk.Point == nil || other.Point == nil {
		return false
	}
	return pk.Point.Equal(other.Point)
}

// ProveKnowledge returns a Schnorr proof that the prover knows sk.Key.
func ProveKnowledge(tr *transcript.Transcript, sk *SecretKey) *zksch.Proof {
	tr.AppendMessage("Label", []byte(knowledgeLabel))
	return zksch.NewProof(tr, sk.Key.ActOnBase(), sk.Key, sk.Nonce)
}

// VerifyKnowledge returns true if proof shows knowledge of the secret behind pk.
//
// An invalid proof is a normal outcome, it is reported as false.
func VerifyKnowledge(tr *transcript.Transcript, pk *PublicKey, proof *zksch.Proof) bool {
	if !pk.Valid() {
		return false
	}
	tr.AppendMessage("Label", []byte(knowledgeLabel))
	return proof.Verify(tr, pk.Point)
}

// WriteTo implements io.WriterTo.
func (pk *PublicKey) WriteTo(w io.Writer) (int64, error) {
	if pk == nil || pk.Point == nil {
		return 0, io.ErrUnexpectedEOF
	}
	data, err := pk.Point.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (*PublicKey) Domain() string {
	return "Public Key"
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	if pk == nil || pk.Point == nil {
		return nil, errors.New("keys: nil public key")
	}
	return pk.Point.MarshalBinary()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// pk must have been initialized with EmptyPublicKey.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	if pk.Point == nil {
		return errors.New("keys: public key must be initialized with a group")
	}
	point := pk.Point.Curve().NewPoint()
	if err := point.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	pk.Point = point
	return nil
}

// EmptyPublicKey returns a PublicKey initialized for group, ready to be unmarshalled.
func EmptyPublicKey(group curve.Curve) *PublicKey {
	return &PublicKey{Point: group.NewPoint()}
}

// EmptySecretKey returns a SecretKey initialized for group, ready to be unmarshalled.
func EmptySecretKey(group curve.Curve) *SecretKey {
	return &SecretKey{Key: group.NewScalar(), Nonce: group.NewScalar()}
}

// MarshalBinary implements encoding.BinaryMarshaler, as Key ∥ Nonce.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	if sk == nil || sk.Key == nil || sk.Nonce == nil {
		return nil, errors.New("keys: nil secret key")
	}
	key, err := sk.Key.MarshalBinary()
	if err != nil {
		return nil, err
	}
	nonce, err := sk.Nonce.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(key, nonce...), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// sk must have been initialized with EmptySecretKey.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	if sk.Key == nil {
		return errors.New("keys: secret key must be initialized with a group")
	}
	group := sk.Key.Curve()
	if len(data) != 2*group.ScalarBytes() {
		return fmt.Errorf("keys: invalid secret key length %d", len(data))
	}
	key, nonce := group.NewScalar(), group.NewScalar()
	if err := key.UnmarshalBinary(data[:group.ScalarBytes()]); err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	if err := nonce.UnmarshalBinary(data[group.ScalarBytes():]); err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	sk.Key, sk.Nonce = key, nonce
	return nil
}
