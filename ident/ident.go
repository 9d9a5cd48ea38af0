package ident

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// GlobalIDLength is the length of a compressed global identifier.
const GlobalIDLength = 22

// alphabet is the 64-symbol digit set of the compressed encoding.
// Ordinal position is the digit value, so digit 0 renders as '0' and
// digit 63 renders as '$'.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// ErrInvalidIdentifier is returned when an identifier string does not
// reduce to exactly 32 hexadecimal digits after separator removal.
var ErrInvalidIdentifier = errors.New("ident: invalid identifier")

// NewUUID returns a fresh 128-bit random value from a cryptographically
// strong source. It is used only to seed new identifiers; existing
// identifiers are never recomputed.
func NewUUID() uuid.UUID {
	return uuid.Must(uuid.NewRandom())
}

// NewGlobalID mints a new compressed global identifier.
func NewGlobalID() string {
	return Compress(NewUUID())
}

// Compress encodes a 128-bit value as 22 digits of the 64-symbol
// alphabet, most-significant digit first. The result is always exactly
// GlobalIDLength characters.
func Compress(u uuid.UUID) string {
	n := new(big.Int).SetBytes(u[:])
	base := big.NewInt(64)
	mod := new(big.Int)

	var out [GlobalIDLength]byte
	for i := GlobalIDLength - 1; i >= 0; i-- {
		n.DivMod(n, base, mod)
		out[i] = alphabet[mod.Int64()]
	}
	return string(out[:])
}

// CompressString parses an identifier string and compresses it. Hyphen,
// brace, and urn-prefix separators are removed before parsing; the
// remainder must be exactly 32 hexadecimal digits or the function fails
// with ErrInvalidIdentifier.
func CompressString(s string) (string, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(s), "urn:uuid:")
	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case '-', '{', '}':
			return -1
		}
		return r
	}, cleaned)

	if len(cleaned) != 32 {
		return "", fmt.Errorf("%w: %q does not reduce to 32 hex digits", ErrInvalidIdentifier, s)
	}

	u, err := uuid.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidIdentifier, s, err)
	}
	return Compress(u), nil
}
