package party

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSlice_Valid(t *testing.T) {
	tests := []struct {
		name     string
		partyIDs IDSlice
		want     bool
	}{
		{"empty", IDSlice{}, true},
		{"sorted", IDSlice{"a", "b", "c"}, true},
		{"unsorted", IDSlice{"b", "a"}, false},
		{"duplicate", IDSlice{"a", "a"}, false},
		{"empty id", IDSlice{"", "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.partyIDs.Valid())
		})
	}
}

func TestNewIDSlice(t *testing.T) {
	raw := []ID{"server", "user"}
	reversed := []ID{"user", "server"}
	ids := NewIDSlice(reversed)
	assert.Equal(t, IDSlice(raw), ids)
	assert.Equal(t, []ID{"user", "server"}, reversed, "input must not be modified")
	assert.True(t, ids.Valid())
	assert.True(t, ids.Contains("user", "server"))
	assert.False(t, ids.Contains("other"))
	assert.Equal(t, IDSlice{"server"}, ids.Remove("user"))
}

func TestIDSlice_WriteTo(t *testing.T) {
	var b1, b2 bytes.Buffer
	_, err := IDSlice{"ab", "c"}.WriteTo(&b1)
	require.NoError(t, err)
	_, err = IDSlice{"a", "bc"}.WriteTo(&b2)
	require.NoError(t, err)
	assert.NotEqual(t, b1.Bytes(), b2.Bytes())

	_, err = ID("").WriteTo(&b1)
	assert.Error(t, err)
}
