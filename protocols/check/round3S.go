package check

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/checks"
	"github.com/taurusgroup/zkcheck/pkg/elgamal"
	zkdecryption "github.com/taurusgroup/zkcheck/pkg/zk/decryption"
	zkrerand "github.com/taurusgroup/zkcheck/pkg/zk/rerand"
)

type round3S struct {
	*round2S
	checks []*elgamal.Ciphertext

	randomized       []*elgamal.Ciphertext
	rerandProofs     []*zkrerand.Proof
	partials         []*elgamal.PartialDecryption
	decryptionProofs []*zkdecryption.Proof
}

type decoded3U struct {
	randomized       []*elgamal.Ciphertext
	rerandProofs     []*zkrerand.Proof
	partials         []*elgamal.PartialDecryption
	decryptionProofs []*zkdecryption.Proof
}

// VerifyMessage implements round.Round.
//
// - decode every vector, and check that each holds one element per check.
//
// The proofs themselves are verified in Finalize, so that a failure leads to an abort naming the user.
func (r *round3S) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message3U)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	n := len(r.checks)
	if len(body.Randomized) != n || len(body.RerandProofs) != n || len(body.Partials) != n || len(body.DecryptionProofs) != n {
		return fmt.Errorf("%w: %d checks, received %d/%d/%d/%d", checks.ErrLengthMismatch, n,
			len(body.Randomized), len(body.RerandProofs), len(body.Partials), len(body.DecryptionProofs))
	}
	_, err := r.decode(body)
	return err
}

func (r *round3S) decode(body *message3U) (*decoded3U, error) {
	group := r.Group()
	var (
		out decoded3U
		err error
	)
	if out.randomized, err = unmarshalAll(body.Randomized, func() *elgamal.Ciphertext { return elgamal.Empty(group) }); err != nil {
		return nil, fmt.Errorf("failed to decode randomized checks: %w", err)
	}
	if out.rerandProofs, err = unmarshalAll(body.RerandProofs, func() *zkrerand.Proof { return zkrerand.Empty(group) }); err != nil {
		return nil, fmt.Errorf("failed to decode rerandomization proofs: %w", err)
	}
	if out.partials, err = unmarshalAll(body.Partials, func() *elgamal.PartialDecryption { return elgamal.EmptyPartialDecryption(group) }); err != nil {
		return nil, fmt.Errorf("failed to decode partial decryptions: %w", err)
	}
	if out.decryptionProofs, err = unmarshalAll(body.DecryptionProofs, func() *zkdecryption.Proof { return zkdecryption.Empty(group) }); err != nil {
		return nil, fmt.Errorf("failed to decode decryption proofs: %w", err)
	}
	return &out, nil
}

// StoreMessage implements round.Round.
func (r *round3S) StoreMessage(msg round.Message) error {
	d, err := r.decode(msg.Content.(*message3U))
	if err != nil {
		return err
	}
	r.randomized, r.rerandProofs = d.randomized, d.rerandProofs
	r.partials, r.decryptionProofs = d.partials, d.decryptionProofs
	return nil
}

// Finalize implements round.Round.
//
// - verify that the user blinded and rerandomized our checks, and partially decrypted them with its key.
// - remove our share of the key, and evaluate each position.
func (r *round3S) Finalize(chan<- *round.Message) (round.Session, error) {
	culprit := r.OtherPartyIDs()[0]

	ok, err := checks.VerifyRandomizationProofs(r.Transcript(), r.shared, r.checks, r.randomized, r.rerandProofs, r.Pool)
	if err != nil {
		return r.AbortRound(err, culprit), nil
	}
	if !ok {
		return r.AbortRound(errors.New("failed to validate rerandomization proofs"), culprit), nil
	}

	ok, err = checks.VerifyPartialDecryptionProofs(r.Transcript(), r.userPublic, r.randomized, r.partials, r.decryptionProofs, r.Pool)
	if err != nil {
		return r.AbortRound(err, culprit), nil
	}
	if !ok {
		return r.AbortRound(errors.New("failed to validate partial decryption proofs"), culprit), nil
	}

	userDecrypted := make([]*elgamal.Ciphertext, len(r.partials))
	for i, p := range r.partials {
		userDecrypted[i] = p.Ciphertext()
	}
	final, _, err := checks.PartialDecryptionAndProof(r.Transcript(), userDecrypted, r.secret, r.Pool)
	if err != nil {
		return r, err
	}
	passed := checks.Outcome(final)

	r.log.Debug().
		Int("positions", len(passed)).
		Bool("passed", checks.AllPassed(passed)).
		Msg("evaluated checks")

	return r.ResultRound(&ServerResult{
		Passed:    passed,
		SharedKey: r.shared,
		UserKey:   r.userPublic,
	}), nil
}

// MessageContent implements round.Round.
func (round3S) MessageContent() round.Content { return &message3U{} }

// Number implements round.Round.
func (round3S) Number() round.Number { return 3 }
