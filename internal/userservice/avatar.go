package userservice

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const (
	avatarSize    = 100
	avatarDefault = "retro"
	avatarRating  = "g"
)

// AvatarURL derives a deterministic identicon URL from the digest of the
// lower-cased email. URL construction only, nothing is fetched here.
func AvatarURL(email string) string {
	hash := md5.Sum([]byte(strings.ToLower(email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=%s&r=%s", hash, avatarSize, avatarDefault, avatarRating)
}
