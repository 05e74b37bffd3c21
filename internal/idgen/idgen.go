// Package idgen generates identifiers: UUIDs for movies and short,
// URL-safe nanoid tokens for stream subscriptions.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// SubscriptionPrefix is prepended to every generated subscription ID.
var SubscriptionPrefix = "sub-"

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// MovieID returns a new random (version 4) UUID string.
func MovieID() string {
	return uuid.NewString()
}

// SubscriptionID returns a new stream subscription ID using the default prefix.
func SubscriptionID() (string, error) {
	return GenerateWithPrefix(SubscriptionPrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
