package check

import (
	"crypto/rand"
	"errors"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/keys"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	zksch "github.com/taurusgroup/zkcheck/pkg/zk/sch"
)

// round1S is the first round from the server's perspective.
type round1S struct {
	*round.Helper
	log      zerolog.Logger
	expected []curve.Scalar

	userPublic *keys.PublicKey
}

// VerifyMessage implements round.Round.
//
// - verify the user's proof of knowledge of its secret key.
func (r *round1S) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message1U)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.PublicKey == nil || body.Proof == nil {
		return round.ErrNilFields
	}
	if !keys.VerifyKnowledge(r.TranscriptForID(msg.From), body.PublicKey, body.Proof) {
		return errors.New("failed to validate user key proof")
	}
	return nil
}

// StoreMessage implements round.Round.
func (r *round1S) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message1U)
	r.userPublic = body.PublicKey
	return nil
}

// Finalize implements round.Round.
//
// - sample a key pair and prove knowledge of the secret key.
// - derive the joint key, and bind it to the session.
func (r *round1S) Finalize(out chan<- *round.Message) (round.Session, error) {
	secret, public := keys.Generate(rand.Reader, r.Group())
	// the proof must be made before the hash state includes the joint key
	proof := keys.ProveKnowledge(r.TranscriptForID(r.SelfID()), secret)

	shared := keys.Combine(r.userPublic, public)
	if !shared.Valid() {
		return r.AbortRound(errors.New("joint key is the identity"), r.OtherPartyIDs()...), nil
	}

	if err := r.SendMessage(out, &message1S{PublicKey: public, Proof: proof}, ""); err != nil {
		return r, err
	}
	r.UpdateHashState(shared)

	return &round2S{
		round1S: r,
		secret:  secret,
		shared:  shared,
	}, nil
}

// MessageContent implements round.Round.
func (r *round1S) MessageContent() round.Content {
	group := r.Group()
	return &message1U{
		PublicKey: keys.EmptyPublicKey(group),
		Proof:     zksch.EmptyProof(group),
	}
}

// Number implements round.Round.
func (round1S) Number() round.Number { return 1 }
