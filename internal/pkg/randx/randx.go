/*
Package randx generates cryptographically secure random identifiers.

It provides Base62 OAuth state values and UUID record identifiers.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the number of characters in Base62Chars.
	Base62Len = int64(len(Base62Chars))

	// StateLength is the length of an OAuth state value.
	StateLength = 32
)

// Base62 returns a random Base62 string of the given length using crypto/rand.
func Base62(length int) (string, error) {
	result := make([]byte, length)

	for i := range length {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// OAuthState returns a fresh anti-CSRF state value for an OAuth authorization request.
func OAuthState() (string, error) {
	return Base62(StateLength)
}

// IsValidState reports whether s has the shape of a value produced by OAuthState.
func IsValidState(s string) bool {
	if len(s) != StateLength {
		return false
	}

	for _, char := range s {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}

// ID returns a UUID v4 string for new records.
func ID() string {
	return uuid.New().String()
}
