// Package auth implements the admin access gate: a static credential check
// that issues a session token, and a pure routing decision over that token.
// This is a deterrent for a wedding admin panel, not a security boundary.
package auth

import (
	"crypto/subtle"
	"strings"
	"time"
)

// Gate holds the expected admin credentials and the token manager.
type Gate struct {
	user      string
	password  string
	tokens    *JWTManager
	loginPath string
}

// NewGate creates the gate. loginPath is where unauthenticated admin
// requests are redirected.
func NewGate(user, password, secret, loginPath string, tokenDuration time.Duration) *Gate {
	return &Gate{
		user:      user,
		password:  password,
		tokens:    NewJWTManager(secret, tokenDuration),
		loginPath: loginPath,
	}
}

// Login compares the submitted credentials against the configured values and
// returns a session token on match.
func (g *Gate) Login(user, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(g.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	if !userOK || !passOK {
		return "", ErrBadCredentials
	}
	return g.tokens.Generate(user)
}

// CheckPassword reports whether the given password matches the admin
// password. The destructive bulk clear re-confirms with it.
func (g *Gate) CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
}

// Decision is the outcome of evaluating a request against the gate.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Allow is a pure function of (token validity, requested path). The login
// path is always reachable; everything else in the admin area requires a
// valid session token.
func (g *Gate) Allow(token, path string) Decision {
	if path == g.loginPath {
		return Decision{Allow: true}
	}
	if _, err := g.tokens.Validate(strings.TrimSpace(token)); err != nil {
		return Decision{Allow: false, RedirectTo: g.loginPath}
	}
	return Decision{Allow: true}
}

// LoginPath exposes the configured login route for handlers.
func (g *Gate) LoginPath() string {
	return g.loginPath
}
