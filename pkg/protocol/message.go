package protocol

import (
	"fmt"

	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/hash"
	"github.com/taurusgroup/zkcheck/pkg/party"
)

type Message struct {
	// SSID is a byte string which uniquely identifies the session this message belongs to.
	SSID []byte
	// From is the party.ID of the sender
	From party.ID
	// To is the intended recipient for this message. If To == "", then the message is for every other party.
	To party.ID
	// Protocol identifies the protocol this message belongs to
	Protocol string
	// RoundNumber is the index of the round this message belongs to.
	// A message with RoundNumber 0 signals that the sender aborted, Data then holds the reason.
	RoundNumber round.Number
	// Data is the actual content consumed by the round.
	Data []byte
}

// String implements fmt.Stringer.
func (m Message) String() string {
	return fmt.Sprintf("message: round %d, from: %s, to %v, protocol: %s", m.RoundNumber, m.From, m.To, m.Protocol)
}

// IsFor returns true if the message is intended for the designated party.
func (m Message) IsFor(id party.ID) bool {
	if m.From == id {
		return false
	}
	return m.To == "" || m.To == id
}

// Hash returns a 64 byte slice of the message content, including the headers.
// Can be used to produce a signature for the message.
func (m *Message) Hash() []byte {
	h := hash.New(
		hash.BytesWithDomain{TheDomain: "SSID", Bytes: m.SSID},
		m.From,
		hash.BytesWithDomain{TheDomain: "To", Bytes: []byte(m.To)},
		hash.BytesWithDomain{TheDomain: "Protocol", Bytes: []byte(m.Protocol)},
		m.RoundNumber,
		hash.BytesWithDomain{TheDomain: "Content", Bytes: m.Data},
	)
	return h.Sum()
}
