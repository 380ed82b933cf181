package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/inkpot/internal/common"
)

type Role string

const (
	RoleReader Role = "reader"
	RoleAdmin  Role = "admin"

	SessionTokenTime time.Duration = 7 * 24 * time.Hour
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m *DBModel
	c *common.Cache
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Role      Role      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// Session is an opaque login token. Only the plain form leaves the process,
// only the hash is kept server-side.
type Session struct {
	Plain  string    `json:"-"`
	Hash   []byte    `json:"-"`
	UserID int       `json:"-"`
	Expiry time.Time `json:"-"`
}
