package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyBuilder(t *testing.T) {
	tests := []struct {
		name           string
		environment    string
		expectedPrefix string
	}{
		{
			name:           "Production environment",
			environment:    "production",
			expectedPrefix: "prod",
		},
		{
			name:           "Development environment",
			environment:    "development",
			expectedPrefix: "staging",
		},
		{
			name:           "Staging environment",
			environment:    "staging",
			expectedPrefix: "staging",
		},
		{
			name:           "Unknown environment defaults to prod",
			environment:    "something-else",
			expectedPrefix: "prod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.expectedPrefix, kb.GetPrefix())
		})
	}
}

func TestKeyBuilder_BuildKey(t *testing.T) {
	kb := NewKeyBuilder("production")
	assert.Equal(t, "prod:sweets:all", kb.KeySweetsAll())
	assert.Equal(t, "prod:session:abc-123", kb.KeySession("abc-123"))
}
