package protocol

import (
	"github.com/taurusgroup/zkcheck/internal/round"
)

// StartFunc is function that creates the first round of a protocol.
// It returns the first round initialized with the session information.
// If the creation fails (likely due to misconfiguration), and error is returned.
//
// An optional sessionID can be provided, which should unique among all protocol executions.
type StartFunc func(sessionID []byte) (round.Session, error)

// Handler represents some kind of handler for a protocol.
type Handler interface {
	// Result should return the result of running the protocol, or an error
	Result() (interface{}, error)
	// Listen returns a channel which will receive new messages
	Listen() <-chan *Message
	// Stop should abort the execution of the protocol
	Stop()
	// CanAccept checks whether or not a message can be accepted at the current point in the protocol
	CanAccept(msg *Message) bool
	// Accept advances the protocol execution after receiving a message
	Accept(msg *Message)
}
