package userservice

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 600_000
	pbkdf2KeyLength  = 32
	pbkdf2SaltLength = 16
)

// set derives a salted PBKDF2-HMAC-SHA256 credential from pwd. The stored
// form is self-describing: pbkdf2:sha256:<iterations>$<salt>$<digest>.
func (p *Password) set(pwd string) error {
	salt := make([]byte, pbkdf2SaltLength)
	_, err := rand.Read(salt)
	if err != nil {
		return err
	}

	key := pbkdf2.Key([]byte(pwd), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)

	p.Plain = pwd
	p.hash = []byte(fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", pbkdf2Iterations, hex.EncodeToString(salt), hex.EncodeToString(key)))

	return nil
}

// compare recomputes the credential with the embedded salt and iteration
// count and compares in constant time. A malformed stored credential always
// verifies false.
func (p *Password) compare(pwd string) bool {
	method, rest, ok := strings.Cut(string(p.hash), "$")
	if !ok {
		return false
	}

	saltHex, digestHex, ok := strings.Cut(rest, "$")
	if !ok {
		return false
	}

	params := strings.Split(method, ":")
	if len(params) != 3 || params[0] != "pbkdf2" || params[1] != "sha256" {
		return false
	}

	iterations, err := strconv.Atoi(params[2])
	if err != nil || iterations < 1 {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) < 8 {
		return false
	}

	digest, err := hex.DecodeString(digestHex)
	if err != nil || len(digest) == 0 {
		return false
	}

	key := pbkdf2.Key([]byte(pwd), salt, iterations, len(digest), sha256.New)

	return subtle.ConstantTimeCompare(key, digest) == 1
}
