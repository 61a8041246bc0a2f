package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// LinkIDLength is the fixed length of payment link identifiers.
	LinkIDLength = 6
)

// linkIDPattern matches a well-formed payment link identifier. The length is
// fixed so decoders can distinguish a short link's last path segment from an
// arbitrary path.
var linkIDPattern = regexp.MustCompile(fmt.Sprintf("^[A-Za-z0-9]{%d}$", LinkIDLength))

// Generate creates a random short ID with the specified length using Base62 encoding.
// The generated ID is cryptographically random and URL-safe.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = LinkIDLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// MustGenerate creates a random short ID and panics on error.
// Use this only when you're certain the generation won't fail.
func MustGenerate(length int) string {
	id, err := Generate(length)
	if err != nil {
		panic(err)
	}
	return id
}

// NewLinkID generates a new payment link identifier candidate. Uniqueness is
// not guaranteed here; the allocator probes the store and the insert's unique
// index remains the authority.
func NewLinkID() (string, error) {
	return Generate(LinkIDLength)
}

// IsLinkID reports whether s is a well-formed payment link identifier.
func IsLinkID(s string) bool {
	return linkIDPattern.MatchString(s)
}
