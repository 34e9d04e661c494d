// Package id generates identifiers for library records.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for NanoID-based ids.
const (
	PrefixNotification = "ntf"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "ntf-V1StGXR8_Z5jdHi6B-myT").
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewEntryID returns a random UUID. Entry ids are UUIDs so they line up with
// rows already held by the remote library backend.
func NewEntryID() string {
	return uuid.NewString()
}

// NewNotificationID returns a notification id.
func NewNotificationID() string {
	return MustGenerate(PrefixNotification)
}
