package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bance-assetou/mindvision/internal/guard"
	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

// API is the part of the backend client the manager drives.
// *client.Client satisfies it.
type API interface {
	Login(ctx context.Context, creds client.Credentials) (*client.AuthResponse, error)
	Register(ctx context.Context, reg client.Registration) (*client.AuthResponse, error)
	MeWithToken(ctx context.Context, token string) (json.RawMessage, error)
	SetToken(token string)
	ClearToken()
}

// Manager owns the signed-in user. The record lives in memory; the store
// and the client's bearer header are mirrors it keeps in step.
type Manager struct {
	api   API
	store Store
	log   zerolog.Logger
	now   func() time.Time

	mu          sync.Mutex
	user        *domain.User
	initialized bool
}

// NewManager wires a manager to its backend and store. Call Init before
// reading State.
func NewManager(api API, store Store, log zerolog.Logger) *Manager {
	return &Manager{
		api:   api,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Init restores the stored session, if any. It is safe to call more than
// once; only the first call reads the store.
func (m *Manager) Init(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return
	}
	m.initialized = true

	u := m.store.Load()
	if u == nil {
		m.log.Debug().Msg("no stored session")
		return
	}
	if TokenExpired(u.Token, m.now()) {
		// The backend decides; a stale token surfaces as a 401 later.
		m.log.Warn().Str("user", u.ID).Msg("stored token has expired")
	}
	m.user = u
	m.api.SetToken(u.Token)
	m.log.Info().Str("user", u.ID).Str("role", string(u.Role)).Msg("session restored")
}

// Login signs in with email and password. On success the session is live
// in memory, on disk and on the client. On failure nothing changes and the
// error is an *AuthenticationError or a *NetworkError.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	resp, err := m.api.Login(ctx, client.Credentials{Email: email, Password: password})
	if err != nil {
		m.log.Info().Err(err).Str("email", email).Msg("login rejected")
		return nil, classify(err, func(msg string, cause error) error {
			return &AuthenticationError{Message: msg, Err: cause}
		}, "Login failed")
	}
	u, err := m.establish(ctx, resp)
	if err != nil {
		return nil, classify(err, func(msg string, cause error) error {
			return &AuthenticationError{Message: msg, Err: cause}
		}, "Login failed")
	}
	m.log.Info().Str("user", u.ID).Msg("logged in")
	return u, nil
}

// Register creates an account and signs it in. Failures are a
// *RegistrationError or a *NetworkError.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	resp, err := m.api.Register(ctx, client.Registration{Name: name, Email: email, Password: password})
	if err != nil {
		m.log.Info().Err(err).Str("email", email).Msg("registration rejected")
		return nil, classify(err, func(msg string, cause error) error {
			return &RegistrationError{Message: msg, Err: cause}
		}, "Registration failed")
	}
	u, err := m.establish(ctx, resp)
	if err != nil {
		return nil, classify(err, func(msg string, cause error) error {
			return &RegistrationError{Message: msg, Err: cause}
		}, "Registration failed")
	}
	m.log.Info().Str("user", u.ID).Msg("registered")
	return u, nil
}

// establish fetches the profile that belongs to the fresh token and adopts
// the merged record. The token rides on the profile request alone; the
// shared header only changes in setSession, together with the record, so
// overlapping sign-ins can't leave one user's token beside another's
// profile.
func (m *Manager) establish(ctx context.Context, resp *client.AuthResponse) (*domain.User, error) {
	raw, err := m.api.MeWithToken(ctx, resp.Token)
	if err != nil {
		return nil, err
	}
	profile, err := normalizeProfile(raw)
	if err != nil {
		return nil, err
	}
	fromAuth, err := normalizeProfile(resp.Raw)
	if err != nil {
		// The token was already extracted from this body; its other fields
		// are a bonus.
		m.log.Debug().Err(err).Msg("auth response profile ignored")
		fromAuth = nil
	}
	u := mergeProfiles(profile, fromAuth)
	u.Token = resp.Token

	if err := m.setSession(u); err != nil {
		return nil, err
	}
	return u.Clone(), nil
}

// setSession persists u and then adopts it in memory and on the client.
// A record that could not be saved is not adopted.
func (m *Manager) setSession(u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Save(u); err != nil {
		m.log.Error().Err(err).Msg("persist session")
		return err
	}
	m.user = u
	m.initialized = true
	m.api.SetToken(u.Token)
	return nil
}

// Logout drops the session everywhere. It never fails; a store that can't
// be cleared is logged.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := ""
	if m.user != nil {
		id = m.user.ID
	}
	m.user = nil
	m.initialized = true
	m.api.ClearToken()
	if err := m.store.Clear(); err != nil {
		m.log.Error().Err(err).Msg("clear stored session")
	}
	m.log.Info().Str("user", id).Msg("logged out")
}

// UpdateUser merges the non-nil fields of p into the current record and
// persists the result. Without a session it does nothing. A patch that
// blanks the token is refused with ErrEmptyToken; Logout ends a session.
func (m *Manager) UpdateUser(p domain.UserPatch) error {
	if p.Token != nil && *p.Token == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	next := p.Apply(m.user)
	if err := m.store.Save(next); err != nil {
		return err
	}
	m.user = next
	m.api.SetToken(next.Token)
	return nil
}

// Current returns a copy of the signed-in user, or nil.
func (m *Manager) Current() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.Clone()
}

// State reports where the session lifecycle is, for the route guard.
func (m *Manager) State() guard.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case !m.initialized:
		return guard.Initializing
	case m.user != nil:
		return guard.Authenticated
	default:
		return guard.Unauthenticated
	}
}

// classify maps a client error onto the session error vocabulary. wrap
// builds the operation-specific error for backend rejections.
func classify(err error, wrap func(msg string, cause error) error, fallback string) error {
	if client.IsNetwork(err) {
		return &NetworkError{Err: err}
	}
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return wrap(httpErr.Message, err)
	}
	return wrap(fallback, err)
}
