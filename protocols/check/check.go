// Package check runs the private equality check between a user and a server.
//
// The user holds a vector of values, the server a vector of expected values of the same length.
// At the end of the protocol, the server learns for each position whether both values are equal,
// and nothing else about the user's values: before decryption, the user multiplies each check by a
// fresh non zero scalar, so a failed position decrypts to a uniformly random point.
// The user learns nothing about the expected values.
//
// The user is the leader of the protocol: it sends the first message.
package check

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/pkg/checks"
	"github.com/taurusgroup/zkcheck/pkg/elgamal"
	"github.com/taurusgroup/zkcheck/pkg/hash"
	"github.com/taurusgroup/zkcheck/pkg/keys"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/party"
	"github.com/taurusgroup/zkcheck/pkg/pool"
	"github.com/taurusgroup/zkcheck/pkg/protocol"
	zkrerand "github.com/taurusgroup/zkcheck/pkg/zk/rerand"
)

const (
	// ProtocolID identifies the equality check protocol.
	ProtocolID = "zkcheck/check"
	// rounds before the output round.
	finalRound round.Number = 3
)

// Config holds the parameters shared by both roles.
type Config struct {
	// Group is the prime order group all values and keys live in.
	Group curve.Curve
	// Pool parallelizes the per position work, it may be nil.
	Pool *pool.Pool
	// Log receives debug output about the outcome of the rounds, it may be nil.
	Log *zerolog.Logger
}

func (c Config) logger() zerolog.Logger {
	if c.Log == nil {
		return zerolog.Nop()
	}
	return *c.Log
}

// UserResult is the output of the protocol for the user.
type UserResult struct {
	// SharedKey is the joint public key both parties encrypted under.
	SharedKey *keys.PublicKey
	// Randomized are the blinded and rerandomized checks the user decrypted.
	Randomized []*elgamal.Ciphertext
	// RandomizationProofs prove that Randomized[i] encrypts a non zero multiple of the plaintext of check i.
	RandomizationProofs []*zkrerand.Proof
}

// ServerResult is the output of the protocol for the server.
type ServerResult struct {
	// Passed[i] is true if the user's value at position i equals the expected value.
	Passed []bool
	// SharedKey is the joint public key both parties encrypted under.
	SharedKey *keys.PublicKey
	// UserKey is the user's share of SharedKey.
	UserKey *keys.PublicKey
}

// AllPassed returns true if every position passed.
func (r *ServerResult) AllPassed() bool {
	return checks.AllPassed(r.Passed)
}

// StartUser starts the protocol on the side of the user with the given values.
func StartUser(config Config, selfID, serverID party.ID, values []curve.Scalar) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if err := validScalars(config.Group, values); err != nil {
			return nil, fmt.Errorf("check.StartUser: %w", err)
		}
		helper, err := newSession(config, selfID, selfID, serverID, sessionID)
		if err != nil {
			return nil, fmt.Errorf("check.StartUser: %w", err)
		}
		return &round1U{
			Helper: helper,
			log:    config.logger(),
			values: values,
		}, nil
	}
}

// StartServer starts the protocol on the side of the server, which checks the user's values against expected.
func StartServer(config Config, selfID, userID party.ID, expected []curve.Scalar) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if err := validScalars(config.Group, expected); err != nil {
			return nil, fmt.Errorf("check.StartServer: %w", err)
		}
		helper, err := newSession(config, selfID, userID, selfID, sessionID)
		if err != nil {
			return nil, fmt.Errorf("check.StartServer: %w", err)
		}
		return &round1S{
			Helper:   helper,
			log:      config.logger(),
			expected: expected,
		}, nil
	}
}

func newSession(config Config, selfID, userID, serverID party.ID, sessionID []byte) (*round.Helper, error) {
	if userID == serverID {
		return nil, errors.New("user and server must be different parties")
	}
	info := round.Info{
		ProtocolID:       ProtocolID,
		FinalRoundNumber: finalRound,
		SelfID:           selfID,
		PartyIDs:         []party.ID{userID, serverID},
		Group:            config.Group,
	}
	// both parties must agree on who plays which role
	return round.NewSession(info, sessionID, config.Pool, &hash.BytesWithDomain{
		TheDomain: "User ID",
		Bytes:     []byte(userID),
	})
}

func validScalars(group curve.Curve, values []curve.Scalar) error {
	if group == nil {
		return errors.New("no group")
	}
	for i, v := range values {
		if v == nil {
			return fmt.Errorf("value %d is nil", i)
		}
		if v.Curve().Name() != group.Name() {
			return fmt.Errorf("value %d is in group %s, not %s", i, v.Curve().Name(), group.Name())
		}
	}
	return nil
}
