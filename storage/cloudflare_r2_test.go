package storage

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	base, err := url.Parse("https://cdn.example.com/exports/")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/exports/league-events/7/standings.json", PublicURL(base, "league-events/7/standings.json"))
	assert.Equal(t, "https://cdn.example.com/exports/a.json", PublicURL(base, "/a.json"))
	assert.Equal(t, "", PublicURL(base, ""))
	assert.Equal(t, "", PublicURL(nil, "a.json"))
}
