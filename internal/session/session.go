// Package session owns the bearer token issued at login.
package session

// TokenKey is the store key the token lives under.
const TokenKey = "token"

// Session is the only holder of the token. Components that issue
// authenticated calls receive it explicitly.
type Session struct {
	store Store
}

func New(store Store) *Session {
	return &Session{store: store}
}

// Token returns the stored token, if any.
func (s *Session) Token() (string, bool) {
	token, ok := s.store.Get(TokenKey)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// LoggedIn reports whether a token is stored.
func (s *Session) LoggedIn() bool {
	_, ok := s.Token()
	return ok
}

// SetToken stores the token issued at login.
func (s *Session) SetToken(token string) error {
	return s.store.Set(TokenKey, token)
}

// Clear removes the token. It reports whether one was present.
func (s *Session) Clear() (bool, error) {
	had := s.LoggedIn()
	if err := s.store.Delete(TokenKey); err != nil {
		return had, err
	}
	return had, nil
}
