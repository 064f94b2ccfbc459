// Package uuid generates collision-resistant string identifiers for records.
package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"

	googleuuid "github.com/google/uuid"
)

// New generates a new version-4 UUID string: 122 random bits plus the fixed
// version and variant nibbles. Randomness comes from crypto/rand; if that
// source is unavailable the bytes are filled from math/rand instead, so New
// always returns a syntactically valid identifier and never fails.
func New() string {
	var uuid [16]byte

	if _, err := rand.Read(uuid[:]); err != nil {
		for i := range uuid {
			uuid[i] = byte(mathrand.Uint32())
		}
	}

	// Set version (4 bits) to 0100 (4)
	uuid[6] = (uuid[6] & 0x0f) | 0x40

	// Set variant (2 bits) to 10
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return formatUUID(uuid)
}

// formatUUID formats a 16-byte array as a UUID string
func formatUUID(uuid [16]byte) string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(uuid[0:4]),
		binary.BigEndian.Uint16(uuid[4:6]),
		binary.BigEndian.Uint16(uuid[6:8]),
		binary.BigEndian.Uint16(uuid[8:10]),
		uuid[10:16],
	)
}

// Parse validates and parses a UUID string
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
