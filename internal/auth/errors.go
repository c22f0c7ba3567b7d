package auth

import "errors"

var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrMalformedHeader    = errors.New("auth: malformed authorization header")
	ErrBadCredentials     = errors.New("auth: incorrect username or password")
	ErrInvalidToken       = errors.New("auth: invalid token")
)
