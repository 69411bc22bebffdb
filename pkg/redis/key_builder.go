package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeySweetsAll returns the key for the cached sweet listing.
func (kb *KeyBuilder) KeySweetsAll() string {
	return kb.BuildKey(KeySweetsAll)
}

// KeySession returns the key for a provider session id.
func (kb *KeyBuilder) KeySession(sessionID string) string {
	return kb.BuildKey(fmt.Sprintf(KeySession, sessionID))
}
