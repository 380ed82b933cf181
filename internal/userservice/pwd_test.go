package userservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordSetAndCompare(t *testing.T) {
	var p Password
	err := p.set("secret-password")
	assert.NoError(t, err)

	assert.True(t, p.compare("secret-password"))
	assert.False(t, p.compare("wrong-password"))
	assert.False(t, p.compare(""))
}

func TestPasswordCredentialFormat(t *testing.T) {
	var p Password
	err := p.set("secret-password")
	assert.NoError(t, err)

	parts := strings.Split(string(p.hash), "$")
	assert.Len(t, parts, 3)
	assert.Equal(t, "pbkdf2:sha256:600000", parts[0])
	// 16-byte salt, hex-encoded
	assert.Len(t, parts[1], 32)
	assert.Len(t, parts[2], 64)
}

func TestPasswordSaltIsRandom(t *testing.T) {
	var p1, p2 Password
	assert.NoError(t, p1.set("secret-password"))
	assert.NoError(t, p2.set("secret-password"))

	assert.NotEqual(t, string(p1.hash), string(p2.hash))

	// both still verify
	assert.True(t, p1.compare("secret-password"))
	assert.True(t, p2.compare("secret-password"))
}

func TestPasswordCompareMalformedCredential(t *testing.T) {
	testCases := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "no separators", hash: "pbkdf2:sha256:600000"},
		{name: "missing digest", hash: "pbkdf2:sha256:600000$abcdef01"},
		{name: "unknown algorithm", hash: "scrypt:sha256:600000$abcdef0123456789$abcdef"},
		{name: "bad iteration count", hash: "pbkdf2:sha256:zero$abcdef0123456789$abcdef"},
		{name: "salt not hex", hash: "pbkdf2:sha256:600000$nothex!$abcdef"},
		{name: "salt too short", hash: "pbkdf2:sha256:600000$abcd$abcdef"},
		{name: "digest not hex", hash: "pbkdf2:sha256:600000$abcdef0123456789$nothex!"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := Password{hash: []byte(tc.hash)}
			// fails closed, never panics
			assert.False(t, p.compare("secret-password"))
		})
	}
}
