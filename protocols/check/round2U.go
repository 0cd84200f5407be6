package check

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/checks"
	"github.com/taurusgroup/zkcheck/pkg/keys"
	zksch "github.com/taurusgroup/zkcheck/pkg/zk/sch"
)

type round2U struct {
	*round1U
	secret *keys.SecretKey
	public *keys.PublicKey

	shared *keys.PublicKey
}

// VerifyMessage implements round.Round.
//
// - verify the server's proof of knowledge of its secret key.
// - make sure the joint key is not degenerate.
func (r *round2U) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message1S)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.PublicKey == nil || body.Proof == nil {
		return round.ErrNilFields
	}
	if !keys.VerifyKnowledge(r.TranscriptForID(msg.From), body.PublicKey, body.Proof) {
		return errors.New("failed to validate server key proof")
	}
	if !keys.Combine(r.public, body.PublicKey).Valid() {
		return errors.New("joint key is the identity")
	}
	return nil
}

// StoreMessage implements round.Round.
//
// The joint key is added to the hash state, as the server did after sending its key.
func (r *round2U) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message1S)
	r.shared = keys.Combine(r.public, body.PublicKey)
	r.UpdateHashState(r.shared)
	return nil
}

// Finalize implements round.Round.
//
// - encrypt every value under the joint key.
func (r *round2U) Finalize(out chan<- *round.Message) (round.Session, error) {
	cts := checks.EncryptInput(r.shared, r.values, r.Pool)
	data, err := marshalAll(cts)
	if err != nil {
		return r, fmt.Errorf("failed to encode ciphertexts: %w", err)
	}
	if err = r.SendMessage(out, &message2U{Ciphertexts: data}, ""); err != nil {
		return r, err
	}
	r.log.Debug().Int("values", len(cts)).Msg("sent encrypted values")
	return &round3U{round2U: r}, nil
}

// MessageContent implements round.Round.
func (r *round2U) MessageContent() round.Content {
	group := r.Group()
	return &message1S{
		PublicKey: keys.EmptyPublicKey(group),
		Proof:     zksch.EmptyProof(group),
	}
}

// Number implements round.Round.
func (round2U) Number() round.Number { return 2 }
