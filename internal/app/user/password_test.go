package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Passw0rd!", true},
		{"Aa1@aaaa", true},
		{"ZZzz99$$", true},
		{"Aa1@aaa", false},    // seven characters
		{"password1!", false}, // no upper case
		{"PASSWORD1!", false}, // no lower case
		{"Password!!", false}, // no digit
		{"Password11", false}, // no special character
		{"Passw0rd!^", false}, // ^ is not allowed
		{"Pass w0rd!", false}, // spaces are not allowed
		{"Pässw0rd!", false},  // non-ASCII letters are not allowed
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsStrongPassword(tt.password), tt.password)
	}
}
