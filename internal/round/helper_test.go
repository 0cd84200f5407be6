package round_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taurusgroup/zkcheck/internal/round"
	"github.com/taurusgroup/zkcheck/internal/test"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/party"
)

func TestNewSession(t *testing.T) {
	RNumber := round.Number(3)
	partyIDs := test.PartyIDs(2)
	selfID := partyIDs[0]
	tests := []struct {
		name        string
		roundNumber round.Number
		selfID      party.ID
		partyIDs    []party.ID
		group       curve.Curve
		wantErr     bool
	}{
		{
			"valid",
			RNumber,
			selfID,
			partyIDs,
			curve.Secp256k1{},
			false,
		},
		{
			"invalid selfID",
			RNumber,
			"",
			partyIDs,
			curve.Secp256k1{},
			true,
		},
		{
			"unknown selfID",
			RNumber,
			"z",
			partyIDs,
			curve.Secp256k1{},
			true,
		},
		{
			"duplicate selfID",
			RNumber,
			selfID,
			append(partyIDs.Copy(), selfID),
			curve.Secp256k1{},
			true,
		},
		{
			"single party",
			RNumber,
			selfID,
			partyIDs[:1],
			curve.Secp256k1{},
			true,
		},
		{
			"no group",
			RNumber,
			selfID,
			partyIDs,
			nil,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := round.Info{
				ProtocolID:       "TEST",
				FinalRoundNumber: tt.roundNumber,
				SelfID:           tt.selfID,
				PartyIDs:         tt.partyIDs,
				Group:            tt.group,
			}
			_, err := round.NewSession(info, nil, nil)
			if tt.wantErr == (err == nil) {
				t.Error(err)
			}
		})
	}
}

func TestSessionAgreement(t *testing.T) {
	partyIDs := test.PartyIDs(2)
	group := curve.Ristretto255{}
	newHelper := func(self party.ID, sessionID []byte) *round.Helper {
		h, err := round.NewSession(round.Info{
			ProtocolID:       "TEST",
			FinalRoundNumber: 3,
			SelfID:           self,
			PartyIDs:         []party.ID{partyIDs[1], partyIDs[0]},
			Group:            group,
		}, sessionID, nil)
		if err != nil {
			t.Fatal(err)
		}
		return h
	}
	a, b := newHelper(partyIDs[0], []byte("session")), newHelper(partyIDs[1], []byte("session"))
	assert.Equal(t, a.SSID(), b.SSID())
	assert.Equal(t, partyIDs[1:], a.OtherPartyIDs())
	assert.True(t, a.Transcript().ChallengeScalar("e", group).Equal(b.Transcript().ChallengeScalar("e", group)))
	assert.False(t, a.TranscriptForID(partyIDs[0]).ChallengeScalar("e", group).Equal(b.TranscriptForID(partyIDs[1]).ChallengeScalar("e", group)))

	c := newHelper(partyIDs[0], []byte("other session"))
	assert.NotEqual(t, a.SSID(), c.SSID())
}
