package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
)

// Policy determines which requests skip authentication.
type Policy struct {
	ExemptPaths map[string]struct{}
}

// NewPolicy builds a policy exempting the given paths.
func NewPolicy(exemptPaths []string) Policy {
	set := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		set[path] = struct{}{}
	}
	return Policy{ExemptPaths: set}
}

// IsExempt returns true when a request should skip auth.
func (p Policy) IsExempt(r *http.Request) bool {
	if r == nil {
		return true
	}
	_, ok := p.ExemptPaths[r.URL.Path]
	return ok
}

// BasicCredentials are the configured username/password pair.
type BasicCredentials struct {
	Username string
	Password string
}

func (c BasicCredentials) configured() bool {
	return c.Username != "" && c.Password != ""
}

// ErrorFunc writes an authentication failure to the client.
type ErrorFunc func(w http.ResponseWriter, r *http.Request, status int, message string)

// Middleware authenticates API requests. Basic credentials are the primary
// scheme; bearer JWTs are accepted as well when a secret is configured.
type Middleware struct {
	Basic  BasicCredentials
	Secret []byte
	Policy Policy

	// OnError overrides the failure response writer; plain http.Error
	// otherwise.
	OnError ErrorFunc
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(basic BasicCredentials, secret []byte, policy Policy) *Middleware {
	return &Middleware{Basic: basic, Secret: secret, Policy: policy}
}

// Wrap applies authentication to the handler.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Policy.IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		switch {
		case header == "":
			m.fail(w, r, http.StatusUnauthorized, "you are not logged in, please provide credentials")
		case strings.HasPrefix(header, "Basic "):
			username, err := m.verifyBasic(strings.TrimPrefix(header, "Basic "))
			if err == ErrMalformedHeader {
				m.fail(w, r, http.StatusBadRequest, "please provide username and password")
				return
			}
			if err != nil {
				m.fail(w, r, http.StatusUnauthorized, "incorrect username or password")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), username)))
		case strings.HasPrefix(header, "Bearer "):
			claims, err := ParseJWT(strings.TrimPrefix(header, "Bearer "), m.Secret)
			if err != nil {
				m.fail(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.Subject)))
		default:
			m.fail(w, r, http.StatusUnauthorized, "unsupported authorization scheme")
		}
	})
}

func (m *Middleware) verifyBasic(encoded string) (string, error) {
	if !m.Basic.configured() {
		return "", ErrBadCredentials
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrMalformedHeader
	}
	username, password, found := strings.Cut(string(decoded), ":")
	if !found || username == "" || password == "" {
		return "", ErrMalformedHeader
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.Basic.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.Basic.Password)) == 1
	if !userOK || !passOK {
		return "", ErrBadCredentials
	}
	return username, nil
}

func (m *Middleware) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	if m.OnError != nil {
		m.OnError(w, r, status, message)
		return
	}
	http.Error(w, message, status)
}
