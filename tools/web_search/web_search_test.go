package web_search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWebSearcher_KnownProviders(t *testing.T) {
	for _, p := range []Provider{SerperProvider, BraveProvider} {
		s, err := NewWebSearcher(p, "key", 0)
		require.NoError(t, err)
		assert.NotNil(t, s)
	}
}

func TestNewWebSearcher_UnknownProvider(t *testing.T) {
	_, err := NewWebSearcher("duckduckgo", "key", 0)
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
