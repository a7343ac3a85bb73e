package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "password123"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "unicode password", password: "пароль-123"},
		{name: "empty password", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)

			salt, key, ok := strings.Cut(hash, ":")
			require.True(t, ok)
			assert.Len(t, salt, saltLen*2)
			assert.Len(t, key, keyLen*2)

			assert.True(t, Verify(hash, tt.password))
		})
	}
}

func TestVerify(t *testing.T) {
	correctHash, err := GetHash("correct_password")
	require.NoError(t, err)

	anotherHash, err := GetHash("another_password")
	require.NoError(t, err)

	tests := []struct {
		name        string
		hash        string
		password    string
		shouldMatch bool
	}{
		{name: "matching password", hash: correctHash, password: "correct_password", shouldMatch: true},
		{name: "one char altered", hash: correctHash, password: "correct_passwore", shouldMatch: false},
		{name: "first char altered", hash: correctHash, password: "Correct_password", shouldMatch: false},
		{name: "different hash same password", hash: anotherHash, password: "correct_password", shouldMatch: false},
		{name: "empty password", hash: correctHash, password: "", shouldMatch: false},
		{name: "no separator", hash: "deadbeef", password: "correct_password", shouldMatch: false},
		{name: "bad salt hex", hash: "zz:" + strings.Repeat("00", keyLen), password: "x", shouldMatch: false},
		{name: "bad hash hex", hash: "00ff:zz", password: "x", shouldMatch: false},
		{name: "short hash", hash: "00ff:00ff", password: "x", shouldMatch: false},
		{name: "empty stored", hash: "", password: "x", shouldMatch: false},
		{name: "empty salt", hash: ":" + strings.Repeat("00", keyLen), password: "x", shouldMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.shouldMatch, Verify(tt.hash, tt.password))
			})
		})
	}
}

func TestGetHash_SamePasswordDifferentSalt(t *testing.T) {
	hash1, err := GetHash("password1")
	require.NoError(t, err)

	hash2, err := GetHash("password1")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}
