package check

import (
	"fmt"

	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/checks"
	"github.com/taurusgroup/zkcheck/pkg/elgamal"
)

type round3U struct {
	*round2U

	checks []*elgamal.Ciphertext
}

// VerifyMessage implements round.Round.
//
// - decode the server's checks, one per encrypted value.
func (r *round3U) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2S)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if len(body.Checks) != len(r.values) {
		return fmt.Errorf("%w: received %d checks, sent %d values", checks.ErrLengthMismatch, len(body.Checks), len(r.values))
	}
	cts, err := r.decode(body)
	if err != nil {
		return err
	}
	for i, ct := range cts {
		if !ct.Valid() || ct.C2.IsIdentity() {
			return fmt.Errorf("check %d: %w", i, checks.ErrInvalidElement)
		}
	}
	return nil
}

func (r *round3U) decode(body *message2S) ([]*elgamal.Ciphertext, error) {
	group := r.Group()
	cts, err := unmarshalAll(body.Checks, func() *elgamal.Ciphertext { return elgamal.Empty(group) })
	if err != nil {
		return nil, fmt.Errorf("failed to decode checks: %w", err)
	}
	return cts, nil
}

// StoreMessage implements round.Round.
func (r *round3U) StoreMessage(msg round.Message) (err error) {
	r.checks, err = r.decode(msg.Content.(*message2S))
	return
}

// Finalize implements round.Round.
//
// - blind and rerandomize the checks, so that the plaintext of a failed check is a uniformly random point.
// - remove the user's share of the key from the randomized checks.
func (r *round3U) Finalize(out chan<- *round.Message) (round.Session, error) {
	randomized, rerandProofs, err := checks.RandomizeAndProve(r.Transcript(), r.shared, r.checks, r.Pool)
	if err != nil {
		return r, err
	}
	partials, decryptionProofs, err := checks.PartialDecryptionAndProof(r.Transcript(), randomized, r.secret, r.Pool)
	if err != nil {
		return r, err
	}

	body := &message3U{}
	if body.Randomized, err = marshalAll(randomized); err != nil {
		return r, fmt.Errorf("failed to encode randomized checks: %w", err)
	}
	if body.RerandProofs, err = marshalAll(rerandProofs); err != nil {
		return r, fmt.Errorf("failed to encode rerandomization proofs: %w", err)
	}
	if body.Partials, err = marshalAll(partials); err != nil {
		return r, fmt.Errorf("failed to encode partial decryptions: %w", err)
	}
	if body.DecryptionProofs, err = marshalAll(decryptionProofs); err != nil {
		return r, fmt.Errorf("failed to encode decryption proofs: %w", err)
	}
	if err = r.SendMessage(out, body, ""); err != nil {
		return r, err
	}

	return r.ResultRound(&UserResult{
		SharedKey:           r.shared,
		Randomized:          randomized,
		RandomizationProofs: rerandProofs,
	}), nil
}

// MessageContent implements round.Round.
func (round3U) MessageContent() round.Content { return &message2S{} }

// Number implements round.Round.
func (round3U) Number() round.Number { return 3 }
