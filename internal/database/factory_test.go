package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdapter(t *testing.T) {
	for _, provider := range []string{"postgresql", "postgres", " PostgreSQL "} {
		a, err := NewAdapter(provider)
		require.NoError(t, err, provider)
		assert.NotNil(t, a)
	}

	for _, provider := range []string{"mysql", "sqlite", ""} {
		_, err := NewAdapter(provider)
		assert.Error(t, err, provider)
	}
}
