package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/party"
)

// Option configures a TwoPartyHandler.
type Option func(*TwoPartyHandler)

// WithLogger sets the logger used by the handler. By default nothing is logged.
func WithLogger(log zerolog.Logger) Option {
	return func(h *TwoPartyHandler) {
		h.Log = log
	}
}

// TwoPartyHandler represents a restriction of the Handler for 2 party protocols.
//
// The two parties alternate: the leader finalizes its first round as soon as the
// handler is created, and every round of either party then waits for a single
// message from the other.
type TwoPartyHandler struct {
	Log zerolog.Logger

	round    round.Session
	leader   bool
	err      error
	result   interface{}
	done     bool
	messages map[round.Number]*Message
	out      chan *Message
	mtx      sync.Mutex
}

var _ Handler = (*TwoPartyHandler)(nil)

func NewTwoPartyHandler(create StartFunc, sessionID []byte, leader bool, opts ...Option) (*TwoPartyHandler, error) {
	r, err := create(sessionID)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to create round: %w", err)
	}
	handler := &TwoPartyHandler{
		Log:      zerolog.Nop(),
		round:    r,
		leader:   leader,
		messages: map[round.Number]*Message{},
		out:      make(chan *Message, int(r.FinalRoundNumber())+2),
	}
	for _, opt := range opts {
		opt(handler)
	}
	handler.Log = handler.Log.With().
		Str("protocol", r.ProtocolID()).
		Str("party", string(r.SelfID())).
		Bool("leader", leader).
		Logger()
	handler.Log.Info().Int("round", int(r.Number())).Msg("start")

	handler.mtx.Lock()
	defer handler.mtx.Unlock()
	if leader {
		handler.advance()
	}
	return handler, nil
}

// Result returns the protocol result if the protocol completed successfully. Otherwise an error is returned.
func (h *TwoPartyHandler) Result() (interface{}, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result != nil {
		return h.result, nil
	}
	if h.err != nil {
		return nil, h.err
	}
	return nil, errors.New("protocol: not finished")
}

// Listen returns a channel with outgoing messages that must be sent to the other party.
// The channel is closed when the protocol finishes, either with a result or an error.
func (h *TwoPartyHandler) Listen() <-chan *Message {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.out
}

// Stop aborts the execution, and notifies the other party.
func (h *TwoPartyHandler) Stop() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.err == nil && h.result == nil {
		h.abort(errors.New("aborted by user"), "")
	}
}

func (h *TwoPartyHandler) String() string {
	return fmt.Sprintf("party: %s, protocol: %s", h.round.SelfID(), h.round.ProtocolID())
}

// abort records err, notifies the other party, and closes the out channel.
// A nil err marks a successful completion.
func (h *TwoPartyHandler) abort(err error, culprit party.ID) {
	if h.done {
		return
	}
	if err != nil {
		var protocolErr Error
		if !errors.As(err, &protocolErr) {
			protocolErr = Error{RoundNumber: h.round.Number(), Culprit: culprit, Err: err}
		}
		h.err = protocolErr
		h.Log.Error().Err(h.err).Msg("abort")
		select {
		case h.out <- &Message{
			SSID:     h.round.SSID(),
			From:     h.round.SelfID(),
			Protocol: h.round.ProtocolID(),
			Data:     []byte(err.Error()),
		}:
		default:
		}
	}
	h.done = true
	close(h.out)
}

func (h *TwoPartyHandler) canAdvance() bool {
	if h.done {
		return false
	}
	if h.round.MessageContent() == nil {
		return true
	}
	return h.messages[h.round.Number()] != nil
}

func extractRoundMessage(r round.Session, msg *Message) (round.Message, error) {
	content := r.MessageContent()
	if err := cbor.Unmarshal(msg.Data, content); err != nil {
		return round.Message{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	roundMsg := round.Message{
		From:    msg.From,
		To:      msg.To,
		Content: content,
	}
	return roundMsg, nil
}

func (h *TwoPartyHandler) verifyMessage(msg *Message) error {
	if msg == nil {
		return nil
	}
	r := h.round
	roundMsg, err := extractRoundMessage(r, msg)
	if err != nil {
		return err
	}

	if err = r.VerifyMessage(roundMsg); err != nil {
		return err
	}

	if err = r.StoreMessage(roundMsg); err != nil {
		return err
	}

	return nil
}

func (h *TwoPartyHandler) advance() {
	for h.canAdvance() {
		msg := h.messages[h.round.Number()]
		delete(h.messages, h.round.Number())
		if err := h.verifyMessage(msg); err != nil {
			h.Log.Warn().Err(err).Stringer("msg", msg).Msg("failed to verify")
			h.abort(err, msg.From)
			return
		}
		out := make(chan *round.Message, 1)
		newRound, err := h.round.Finalize(out)
		close(out)
		if err != nil {
			h.abort(err, "")
			return
		}
		if newRound == nil {
			h.abort(errors.New("round finalized without a successor"), "")
			return
		}
		for roundMsg := range out {
			data, err := cbor.Marshal(roundMsg.Content)
			if err != nil {
				h.abort(fmt.Errorf("failed to marshal round message: %w", err), "")
				return
			}
			h.out <- &Message{
				SSID:        newRound.SSID(),
				From:        newRound.SelfID(),
				To:          roundMsg.To,
				Protocol:    newRound.ProtocolID(),
				RoundNumber: roundMsg.Content.RoundNumber(),
				Data:        data,
			}
		}
		h.round = newRound
		switch R := newRound.(type) {
		// An abort happened
		case *round.Abort:
			err := R.Err
			if err == nil {
				err = errors.New("aborted without error")
			}
			var culprit party.ID
			if len(R.Culprits) > 0 {
				culprit = R.Culprits[0]
			}
			h.abort(err, culprit)
			return
		// We have the result
		case *round.Output:
			h.result = R.Result
			h.Log.Info().Msg("finished")
			h.abort(nil, "")
			return
		default:
			h.Log.Info().Int("round", int(newRound.Number())).Msg("round advanced")
		}
	}
}

// CanAccept checks the headers of msg against the current session.
func (h *TwoPartyHandler) CanAccept(msg *Message) bool {
	r := h.round
	if msg == nil {
		return false
	}
	if !msg.IsFor(r.SelfID()) {
		return false
	}
	if msg.Protocol != r.ProtocolID() {
		return false
	}
	if !bytes.Equal(msg.SSID, r.SSID()) {
		return false
	}
	if !r.OtherPartyIDs().Contains(msg.From) {
		return false
	}
	if msg.Data == nil {
		return false
	}
	if msg.RoundNumber > r.FinalRoundNumber() {
		return false
	}
	return true
}

// Accept stores msg, and advances the protocol as far as possible.
func (h *TwoPartyHandler) Accept(msg *Message) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.done || !h.CanAccept(msg) {
		if msg != nil {
			h.Log.Warn().Stringer("msg", msg).Msg("rejected message")
		}
		return
	}

	if msg.RoundNumber == 0 {
		h.abort(Error{
			RoundNumber: h.round.Number(),
			Culprit:     msg.From,
			Err:         fmt.Errorf("aborted by other party with error: \"%s\"", msg.Data),
		}, "")
		return
	}

	if msg.RoundNumber < h.round.Number() || h.messages[msg.RoundNumber] != nil {
		h.Log.Warn().Stringer("msg", msg).Msg("duplicate message")
		return
	}
	h.messages[msg.RoundNumber] = msg

	h.advance()
}
