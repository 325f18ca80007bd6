package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositiveID(t *testing.T) {
	id, err := ParsePositiveID("eventID", " 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, raw := range []string{"", "  ", "abc", "0", "-3", "1.5"} {
		_, err := ParsePositiveID("eventID", raw)
		assert.Error(t, err, "raw=%q", raw)
	}

	_, err = ParsePositiveID("matchID", "x")
	assert.ErrorContains(t, err, "matchID")
}
