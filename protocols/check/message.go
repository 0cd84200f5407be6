package check

import (
	"encoding"
	"fmt"

	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/keys"
	zksch "github.com/taurusgroup/zkcheck/pkg/zk/sch"
)

// message1U is sent by the user in round 1.
type message1U struct {
	// PublicKey is the user's share of the joint key.
	PublicKey *keys.PublicKey
	// Proof shows knowledge of the secret key behind PublicKey.
	Proof *zksch.Proof
}

// RoundNumber implements round.Content.
func (message1U) RoundNumber() round.Number { return 1 }

// message1S is the server's answer to message1U.
type message1S struct {
	PublicKey *keys.PublicKey
	Proof     *zksch.Proof
}

// RoundNumber implements round.Content.
func (message1S) RoundNumber() round.Number { return 2 }

// message2U holds the user's encrypted values.
//
// Vectors are sent as lists of encodings, since their length is only known once received.
type message2U struct {
	Ciphertexts [][]byte
}

// RoundNumber implements round.Content.
func (message2U) RoundNumber() round.Number { return 2 }

// message2S holds the checks computed by the server.
type message2S struct {
	Checks [][]byte
}

// RoundNumber implements round.Content.
func (message2S) RoundNumber() round.Number { return 3 }

// message3U holds the rerandomized checks with the user's partial decryption of them,
// and the proofs for both steps.
type message3U struct {
	Randomized       [][]byte
	RerandProofs     [][]byte
	Partials         [][]byte
	DecryptionProofs [][]byte
}

// RoundNumber implements round.Content.
func (message3U) RoundNumber() round.Number { return 3 }

func marshalAll[T encoding.BinaryMarshaler](values []T) ([][]byte, error) {
	out := make([][]byte, len(values))
	for i, v := range values {
		data, err := v.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = data
	}
	return out, nil
}

// unmarshalAll decodes every element of data into a value obtained from empty.
func unmarshalAll[T encoding.BinaryUnmarshaler](data [][]byte, empty func() T) ([]T, error) {
	out := make([]T, len(data))
	for i, d := range data {
		v := empty()
		if err := v.UnmarshalBinary(d); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
