package credentials

import (
	"regexp"
	"strings"
	"testing"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9]+$`)

func TestGenerateUsername(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prefix string
	}{
		{"simple", "Jane Doe", "janedoe"},
		{"punctuation stripped", "O'Brien, Pat!", "obrienpat"},
		{"digits kept", "Agent 99", "agent99"},
		{"empty falls back", "", "user"},
		{"symbols only falls back", "!!!", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateUsername(tt.input)
			if err != nil {
				t.Fatalf("GenerateUsername failed: %v", err)
			}
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("username %q should start with %q", got, tt.prefix)
			}
			if !usernameRe.MatchString(got) {
				t.Errorf("username %q contains invalid characters", got)
			}
			suffix := strings.TrimPrefix(got, tt.prefix)
			if len(suffix) == 0 || len(suffix) > 4 {
				t.Errorf("suffix %q should be 1-4 digits", suffix)
			}
		})
	}
}

// Collisions within the 0–9999 suffix range are expected and must be handled
// by the caller. With 10k draws from a 10k range, duplicates are a
// near-certainty; this test pins down that the generator does NOT promise
// global uniqueness.
func TestGenerateUsername_CollisionsArePossible(t *testing.T) {
	seen := make(map[string]bool, 10000)
	collisions := 0
	for i := 0; i < 10000; i++ {
		u, err := GenerateUsername("Jane Doe")
		if err != nil {
			t.Fatalf("GenerateUsername failed: %v", err)
		}
		if seen[u] {
			collisions++
		}
		seen[u] = true
	}
	if collisions == 0 {
		t.Error("expected suffix collisions across 10000 draws from a 0-9999 range")
	}
	// Every draw stays within the advertised range.
	if len(seen) > 10000 {
		t.Errorf("more distinct usernames (%d) than the suffix range allows", len(seen))
	}
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(0)
	if err != nil {
		t.Fatalf("GeneratePassword failed: %v", err)
	}
	if len(pw) != DefaultPasswordLength {
		t.Errorf("length: got %d, want %d", len(pw), DefaultPasswordLength)
	}

	for _, c := range pw {
		if !strings.ContainsRune(passwordCharset, c) {
			t.Errorf("password contains character %q outside charset", c)
		}
	}
}

func TestGeneratePassword_Distinct(t *testing.T) {
	a, err := GeneratePassword(12)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GeneratePassword(12)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two generated passwords should not match")
	}
}
