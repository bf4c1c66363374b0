// internal/app/system/credentials/credentials.go

// Package credentials generates the one-time login credentials delivered to
// newly provisioned users. Passwords come from crypto/rand and exist only in
// memory; nothing here persists or logs them.
package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// passwordCharset includes upper/lower letters, digits, and a fixed symbol
// set. Kept in sync with what the mobile app's password rules accept.
const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()-_=+"

// DefaultPasswordLength is the password length used for invitations.
const DefaultPasswordLength = 12

// usernameSuffixRange bounds the random decimal suffix appended to
// usernames (0–9999). The suffix reduces collision probability but does not
// guarantee uniqueness; creation-time collisions are a recoverable error the
// caller handles by regenerating.
const usernameSuffixRange = 10000

// Credentials is one generated username/password pair. The password is
// ephemeral: it is handed to the identity provisioner and the notification
// payload, and never stored.
type Credentials struct {
	Username string
	Password string
}

// Generate produces credentials for the given display name. The username is
// the lower-cased alphanumerics of the name plus a random decimal suffix;
// the password is DefaultPasswordLength characters from passwordCharset.
func Generate(name string) (Credentials, error) {
	username, err := GenerateUsername(name)
	if err != nil {
		return Credentials{}, err
	}
	password, err := GeneratePassword(DefaultPasswordLength)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Username: username, Password: password}, nil
}

// GenerateUsername derives a username from a display name by stripping all
// non-alphanumeric characters, lower-casing, and appending a random suffix.
func GenerateUsername(name string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = "user"
	}

	n, err := rand.Int(rand.Reader, big.NewInt(usernameSuffixRange))
	if err != nil {
		return "", fmt.Errorf("generate username suffix: %w", err)
	}
	return fmt.Sprintf("%s%d", base, n.Int64()), nil
}

// GeneratePassword draws length characters from passwordCharset using a
// cryptographically strong source.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = DefaultPasswordLength
	}
	max := big.NewInt(int64(len(passwordCharset)))

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		b.WriteByte(passwordCharset[n.Int64()])
	}
	return b.String(), nil
}
