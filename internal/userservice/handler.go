package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sushihentaime/inkpot/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("incorrect password")
)

func NewUserService(db *sql.DB, c *common.Cache) *UserService {
	return &UserService{
		m: newUserModel(db),
		c: c,
	}
}

// Emails are compared case-insensitively: canonicalized before storage and
// before every lookup.
func canonicalEmail(email string) string {
	return strings.ToLower(email)
}

// RegisterUser creates a new reader account and opens a session for it.
// A duplicate email surfaces as ErrDuplicateEmail; the uniqueness check is
// the database constraint, not a check-then-act in application code.
func (s *UserService) RegisterUser(ctx context.Context, email, password, name string) (*User, *Session, error) {
	// Perform validation
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	validateName(v, name)
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	u := User{
		Email:     canonicalEmail(email),
		Name:      name,
		AvatarURL: AvatarURL(email),
		Role:      RoleReader,
		Password:  Password{Plain: password},
	}

	// Set the password hash
	err := u.Password.set(u.Password.Plain)
	if err != nil {
		return nil, nil, err
	}

	// Insert the user into the database
	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(u.ID)
	if err != nil {
		return nil, nil, err
	}

	return &u, session, nil
}

// LoginUser authenticates an email/password pair and opens a session.
// An unknown email returns ErrNotFound, a hash mismatch returns
// ErrAuthenticationFailure; the caller decides how much to reveal.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*User, *Session, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	user, err := s.m.getUserByEmail(ctx, canonicalEmail(email))
	if err != nil {
		return nil, nil, err
	}

	if !user.Password.compare(password) {
		return nil, nil, ErrAuthenticationFailure
	}

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// LogoutUser drops the session bound to token. Idempotent: logging out an
// unknown or already-removed token is a no-op.
func (s *UserService) LogoutUser(token string) {
	s.deleteSession(token)
}

// GetUserBySessionToken resolves a session token to its user. The user row
// (and with it the role) is read fresh on every call.
func (s *UserService) GetUserBySessionToken(ctx context.Context, token string) (*User, error) {
	userID, ok := s.lookupSession(token)
	if !ok {
		return nil, ErrNotFound
	}

	return s.m.getUserByID(ctx, userID)
}

// EnsureAdminUser creates the administrator account on first start, or
// promotes an existing account with the configured email. Admin status lives
// on the role column, not on any particular row id.
func (s *UserService) EnsureAdminUser(ctx context.Context, email, password, name string) (*User, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	validateName(v, name)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByEmail(ctx, canonicalEmail(email))
	if err == nil {
		if user.Role != RoleAdmin {
			if err := s.m.setUserRole(ctx, user.ID, RoleAdmin); err != nil {
				return nil, err
			}
			user.Role = RoleAdmin
		}
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	u := User{
		Email:     canonicalEmail(email),
		Name:      name,
		AvatarURL: AvatarURL(email),
		Role:      RoleAdmin,
		Password:  Password{Plain: password},
	}

	if err := u.Password.set(u.Password.Plain); err != nil {
		return nil, err
	}

	if err := s.m.insertUser(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
