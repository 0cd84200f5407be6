package check

import (
	"crypto/rand"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/keys"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
)

// round1U is the first round from the user's perspective.
type round1U struct {
	*round.Helper
	log zerolog.Logger
	// values are the user's inputs, one per position.
	values []curve.Scalar
}

// VerifyMessage implements round.Round.
//
// The user starts the protocol, so there is nothing to receive.
func (r *round1U) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round1U) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
// - sample a key pair and prove knowledge of the secret key.
func (r *round1U) Finalize(out chan<- *round.Message) (round.Session, error) {
	secret, public := keys.Generate(rand.Reader, r.Group())
	proof := keys.ProveKnowledge(r.TranscriptForID(r.SelfID()), secret)

	if err := r.SendMessage(out, &message1U{PublicKey: public, Proof: proof}, ""); err != nil {
		return r, err
	}
	return &round2U{
		round1U: r,
		secret:  secret,
		public:  public,
	}, nil
}

// MessageContent implements round.Round.
func (round1U) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round1U) Number() round.Number { return 1 }
