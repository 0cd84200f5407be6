package check

import (
	"fmt"

	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/checks"
	"github.com/taurusgroup/zkcheck/pkg/elgamal"
	"github.com/taurusgroup/zkcheck/pkg/keys"
)

type round2S struct {
	*round1S
	secret *keys.SecretKey
	shared *keys.PublicKey

	ciphertexts []*elgamal.Ciphertext
}

// VerifyMessage implements round.Round.
//
// - decode the user's ciphertexts, one for each expected value.
func (r *round2S) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2U)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if len(body.Ciphertexts) != len(r.expected) {
		return fmt.Errorf("%w: received %d ciphertexts, expected %d", checks.ErrLengthMismatch, len(body.Ciphertexts), len(r.expected))
	}
	cts, err := r.decode(body)
	if err != nil {
		return err
	}
	for i, ct := range cts {
		if !ct.Valid() {
			return fmt.Errorf("ciphertext %d: %w", i, checks.ErrInvalidElement)
		}
	}
	return nil
}

func (r *round2S) decode(body *message2U) ([]*elgamal.Ciphertext, error) {
	group := r.Group()
	cts, err := unmarshalAll(body.Ciphertexts, func() *elgamal.Ciphertext { return elgamal.Empty(group) })
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertexts: %w", err)
	}
	return cts, nil
}

// StoreMessage implements round.Round.
func (r *round2S) StoreMessage(msg round.Message) (err error) {
	r.ciphertexts, err = r.decode(msg.Content.(*message2U))
	return
}

// Finalize implements round.Round.
//
// - subtract the expected values from the user's ciphertexts.
func (r *round2S) Finalize(out chan<- *round.Message) (round.Session, error) {
	results, err := checks.ComputeChecks(r.shared, r.ciphertexts, r.expected, r.Pool)
	if err != nil {
		return r.AbortRound(err), nil
	}
	data, err := marshalAll(results)
	if err != nil {
		return r, fmt.Errorf("failed to encode checks: %w", err)
	}
	if err = r.SendMessage(out, &message2S{Checks: data}, ""); err != nil {
		return r, err
	}
	return &round3S{round2S: r, checks: results}, nil
}

// MessageContent implements round.Round.
func (round2S) MessageContent() round.Content { return &message2U{} }

// Number implements round.Round.
func (round2S) Number() round.Number { return 2 }
