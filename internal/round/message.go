package round

import (
	"github.com/taurusgroup/zkcheck/pkg/party"
)

// Content represents the message returned by a round during finalization.
//
// RoundNumber is the number of the round which consumes the message.
type Content interface {
	RoundNumber() Number
}

type Message struct {
	From, To party.ID
	Content  Content
}
