// Package session owns the client's authentication state: the bearer token
// and the user it resolves to.
//
// Session is the only writer of that state. Establish, Expire, Logout and
// Bootstrap mutate it under a mutex; everything else reads. The token is
// persisted through a TokenStore so a restart can resume the session.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/client/client"
	"github.com/dmitrijs2005/feedbackportal/internal/logging"
)

type State string

const (
	StateAnonymous State = "anonymous"
	StateManager   State = "manager"
	StateEmployee  State = "employee"
)

type TokenStore interface {
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// UserResolver derives the user record from a token.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (api.User, error)
}

// Authenticator is what SignIn and SignUp need from the backend.
type Authenticator interface {
	UserResolver
	Login(ctx context.Context, email, password string) (api.Token, error)
	Register(ctx context.Context, in api.UserCreate) (api.User, error)
}

type Session struct {
	mu    sync.RWMutex
	token string
	user  *api.User

	store  TokenStore
	logger logging.Logger
}

func New(store TokenStore, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{store: store, logger: logger.With("module", "session")}
}

// Token returns the current bearer token, "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user.
func (s *Session) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

// State is anonymous until both token and user are present.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stateOf(s.token, s.user)
}

func stateOf(token string, user *api.User) State {
	if token == "" || user == nil {
		return StateAnonymous
	}
	switch user.Role {
	case api.RoleManager:
		return StateManager
	case api.RoleEmployee:
		return StateEmployee
	}
	return StateAnonymous
}

// Establish persists token and installs it together with user.
func (s *Session) Establish(ctx context.Context, token string, user api.User) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := s.store.SaveToken(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	s.logger.Info(ctx, "session established", "user_id", user.ID, "role", string(user.Role))
	return nil
}

// Expire tears the session down if token is still the current one and
// reports whether it did. Rejections of an older token are ignored.
func (s *Session) Expire(ctx context.Context, token string) bool {
	s.mu.Lock()
	if token == "" || token != s.token {
		s.mu.Unlock()
		return false
	}
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.ClearToken(ctx); err != nil {
		s.logger.Warn(ctx, "failed to purge stored token", "error", err)
	}
	s.logger.Info(ctx, "session expired")
	return true
}

// Logout clears the in-memory session first, then the stored token.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	return s.store.ClearToken(ctx)
}

// Observe inspects an error returned by any backend call. A token rejection
// expires the session it belongs to; the result reports whether this call
// did the teardown, so concurrent 401s yield a single true.
func (s *Session) Observe(ctx context.Context, err error) bool {
	var ue *client.UnauthorizedError
	if !errors.As(err, &ue) {
		return false
	}
	return s.Expire(ctx, ue.Token)
}

// Bootstrap resumes a persisted session. A rejected token is purged. When
// the backend cannot be reached the stored token is kept for a later
// attempt, the session stays anonymous and the error is returned.
func (s *Session) Bootstrap(ctx context.Context, resolver UserResolver) (State, error) {
	token, err := s.store.LoadToken(ctx)
	if err != nil {
		return StateAnonymous, err
	}
	if token == "" {
		return StateAnonymous, nil
	}

	s.mu.Lock()
	s.token = token
	s.user = nil
	s.mu.Unlock()

	user, err := resolver.CurrentUser(ctx, token)
	if err != nil {
		s.mu.Lock()
		if s.token == token {
			s.token = ""
			s.user = nil
		}
		s.mu.Unlock()

		if errors.Is(err, client.ErrUnauthorized) {
			if cerr := s.store.ClearToken(ctx); cerr != nil {
				s.logger.Warn(ctx, "failed to purge stored token", "error", cerr)
			}
			s.logger.Info(ctx, "stored token rejected")
			return StateAnonymous, nil
		}
		return StateAnonymous, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return stateOf(s.token, s.user), nil
	}
	s.user = &user
	return stateOf(s.token, s.user), nil
}

// SignIn logs in and resolves the user from the issued token before the
// session is established.
func (s *Session) SignIn(ctx context.Context, auth Authenticator, email, password string) (api.User, error) {
	tok, err := auth.Login(ctx, email, password)
	if err != nil {
		return api.User{}, err
	}
	return s.adopt(ctx, auth, tok.AccessToken)
}

// SignUp registers the account, then signs in with the same credentials.
func (s *Session) SignUp(ctx context.Context, auth Authenticator, in api.UserCreate) (api.User, error) {
	if _, err := auth.Register(ctx, in); err != nil {
		return api.User{}, err
	}
	return s.SignIn(ctx, auth, in.Email, in.Password)
}

func (s *Session) adopt(ctx context.Context, auth Authenticator, token string) (api.User, error) {
	if token == "" {
		return api.User{}, errors.New("backend returned an empty token")
	}
	user, err := auth.CurrentUser(ctx, token)
	if err != nil {
		return api.User{}, err
	}
	if err := s.Establish(ctx, token, user); err != nil {
		return api.User{}, err
	}
	return user, nil
}

var _ client.TokenSource = (*Session)(nil)
