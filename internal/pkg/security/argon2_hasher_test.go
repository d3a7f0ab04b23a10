package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/nixbug/entebus-server/internal/config"
	"github.com/nixbug/entebus-server/internal/pkg/security"
)

var testOpts = &config.Argon2{
	Memory:     65535,
	Iterations: 3,
	Threads:    2,
	SaltLength: 16,
	KeyLength:  32,
}

func TestArgon2Hasher_Hash(t *testing.T) {
	t.Parallel()

	hasher := security.NewArgon2Hasher(testOpts, "paminta")
	hashed, err := hasher.Hash("rice")
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(hashed, "$")
	if got, want := len(parts), 6; got != want {
		t.Fatalf("len(parts) = %d, want: %d", got, want)
	}

	wantParts := []string{"", "argon2id", "v=19", "m=65535,t=3,p=2"}
	for i, want := range wantParts {
		if parts[i] != want {
			t.Errorf("parts[%d] = %q, want: %q", i, parts[i], want)
		}
	}

	other, err := hasher.Hash("rice")
	if err != nil {
		t.Fatal(err)
	}

	if other == hashed {
		t.Error("two hashes of the same password are equal, want distinct salts")
	}
}

func TestArgon2Hasher_Verify(t *testing.T) {
	t.Parallel()

	hasher := security.NewArgon2Hasher(testOpts, "paminta")
	hashed, err := hasher.Hash("rice")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		hasher *security.Argon2Hasher
		plain  string
		want   bool
	}{
		{"match", hasher, "rice", true},
		{"wrong password", hasher, "garlic", false},
		{"wrong pepper", security.NewArgon2Hasher(testOpts, "asin"), "rice", false},
		{"other cost settings", security.NewArgon2Hasher(&config.Argon2{Memory: 1024, Iterations: 1, Threads: 1, SaltLength: 8, KeyLength: 16}, "paminta"), "rice", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.hasher.Verify(tt.plain, hashed)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("hasher.Verify(%q) = %v, want: %v", tt.plain, got, tt.want)
			}
		})
	}
}

func TestArgon2Hasher_Verify_Malformed(t *testing.T) {
	t.Parallel()

	hasher := security.NewArgon2Hasher(testOpts, "")

	tests := []struct {
		name    string
		hashed  string
		wantErr error
	}{
		{"not phc", "plaintext", security.ErrInvalidHash},
		{"other algorithm", "$argon2i$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", security.ErrInvalidHash},
		{"old version", "$argon2id$v=16$m=1,t=1,p=1$c2FsdA$aGFzaA", security.ErrInvalidHash},
		{"bad params", "$argon2id$v=19$memory$c2FsdA$aGFzaA", nil},
		{"bad salt", "$argon2id$v=19$m=1,t=1,p=1$!!$aGFzaA", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := hasher.Verify("rice", tt.hashed)
			if err == nil {
				t.Fatalf("hasher.Verify(%q) = nil, want: error", tt.hashed)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("hasher.Verify(%q) = %v, want: %v", tt.hashed, err, tt.wantErr)
			}
		})
	}
}
