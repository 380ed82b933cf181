package userservice

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"time"

	"github.com/sushihentaime/inkpot/internal/common"
)

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newSession(userID int, ttl time.Duration) (*Session, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Plain:  base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes),
		UserID: userID,
		Expiry: time.Now().Add(ttl),
	}

	session.Hash = hashToken(session.Plain)

	return session, nil
}

// createSession mints a session token and binds its hash to the user id
// until expiry. Only the user id is cached; the user record is read from
// the database on every request.
func (s *UserService) createSession(userID int) (*Session, error) {
	session, err := newSession(userID, SessionTokenTime)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeySession(session.Hash), session.UserID, time.Until(session.Expiry))

	return session, nil
}

func (s *UserService) lookupSession(token string) (int, bool) {
	v, ok := s.c.Get(common.CacheKeySession(hashToken(token)))
	if !ok {
		return 0, false
	}

	userID, ok := v.(int)
	return userID, ok
}

func (s *UserService) deleteSession(token string) {
	s.c.Delete(common.CacheKeySession(hashToken(token)))
}
