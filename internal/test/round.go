package test

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/party"
	"golang.org/x/sync/errgroup"
)

// Rule describes various hooks that can be applied to a protocol execution.
type Rule interface {
	// ModifyBefore modifies r before r.Finalize() is called.
	ModifyBefore(r round.Session)
	// ModifyAfter modifies rNext, which is the round returned by r.Finalize().
	ModifyAfter(rNext round.Session)
	// ModifyContent modifies content for the message that is delivered in rNext.
	ModifyContent(rNext round.Session, to party.ID, content round.Content)
}

type pending struct {
	from, to party.ID
	number   round.Number
	data     []byte
}

// Done returns true if r is an Output or an Abort round.
func Done(r round.Session) bool {
	switch r.(type) {
	case *round.Output, *round.Abort:
		return true
	}
	return false
}

// Rounds executes all sessions until each of them reached an Output or an Abort round.
//
// Only the sessions that can make progress are finalized at each step: either their round expects no message,
// or the message for their current round was already stored.
// Messages go through a cbor round trip before being handed to the recipient.
// The slice is updated in place with the latest round of each session.
func Rounds(rounds []round.Session, rule Rule) error {
	var queue []pending
	stored := make([]map[round.Number]bool, len(rounds))
	for i := range stored {
		stored[i] = map[round.Number]bool{}
	}

	for {
		progress := false

		var remaining []pending
		for _, p := range queue {
			idx := indexOf(rounds, p.to)
			if idx < 0 {
				return fmt.Errorf("test: no party %q", p.to)
			}
			r := rounds[idx]
			if Done(r) || r.Number() != p.number || r.MessageContent() == nil {
				remaining = append(remaining, p)
				continue
			}
			if err := deliver(r, p); err != nil {
				return err
			}
			stored[idx][p.number] = true
			progress = true
		}
		queue = remaining

		var errGroup errgroup.Group
		out := make([][]*round.Message, len(rounds))
		for i := range rounds {
			idx := i
			r := rounds[idx]
			if Done(r) {
				continue
			}
			if r.MessageContent() != nil && !stored[idx][r.Number()] {
				continue
			}
			progress = true
			errGroup.Go(func() error {
				rNew, msgs, err := finalize(r, rule)
				if err != nil {
					return err
				}
				rounds[idx] = rNew
				out[idx] = msgs
				return nil
			})
		}
		if err := errGroup.Wait(); err != nil {
			return err
		}

		for i, msgs := range out {
			for _, msg := range msgs {
				data, err := cbor.Marshal(msg.Content)
				if err != nil {
					return err
				}
				for _, r := range rounds {
					if r.SelfID() == rounds[i].SelfID() {
						continue
					}
					if msg.To != "" && msg.To != r.SelfID() {
						continue
					}
					queue = append(queue, pending{
						from:   msg.From,
						to:     r.SelfID(),
						number: msg.Content.RoundNumber(),
						data:   data,
					})
				}
			}
		}

		finished := true
		for _, r := range rounds {
			if !Done(r) {
				finished = false
			}
		}
		if finished {
			return nil
		}
		if !progress {
			return errors.New("test: no session can make progress")
		}
	}
}

func finalize(r round.Session, rule Rule) (round.Session, []*round.Message, error) {
	out := make(chan *round.Message, r.N()+1)
	if rule != nil {
		rule.ModifyBefore(r)
	}
	rNew, err := r.Finalize(out)
	close(out)
	if err != nil {
		return nil, nil, err
	}
	if rNew == nil {
		return nil, nil, fmt.Errorf("test: round %d of %s returned no session", r.Number(), r.SelfID())
	}
	if rule != nil {
		rule.ModifyAfter(rNew)
	}
	var msgs []*round.Message
	for msg := range out {
		if rule != nil {
			rule.ModifyContent(rNew, msg.To, msg.Content)
		}
		msgs = append(msgs, msg)
	}
	return rNew, msgs, nil
}

func deliver(r round.Session, p pending) error {
	content := r.MessageContent()
	if err := cbor.Unmarshal(p.data, content); err != nil {
		return fmt.Errorf("test: %s: failed to unmarshal message from %s: %w", r.SelfID(), p.from, err)
	}
	msg := round.Message{From: p.from, To: p.to, Content: content}
	if err := r.VerifyMessage(msg); err != nil {
		return fmt.Errorf("test: %s: message from %s: %w", r.SelfID(), p.from, err)
	}
	return r.StoreMessage(msg)
}

func indexOf(rounds []round.Session, id party.ID) int {
	for i, r := range rounds {
		if r.SelfID() == id {
			return i
		}
	}
	return -1
}
