package auth

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"go.uber.org/zap"
)

type EventKind string

const (
	EventLogin   EventKind = "login"
	EventLogout  EventKind = "logout"
	EventRevoked EventKind = "revoked"
)

type Event struct {
	Kind    EventKind
	IsAdmin bool
}

// Authenticator exchanges credentials for a token. The backend client
// implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Session owns every read and write of the stored credential. Controllers
// get it at construction and never touch the store themselves.
type Session struct {
	mu     sync.RWMutex
	store  TokenStore
	logger logger.ZapLogger
	now    func() time.Time

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func NewSession(store TokenStore, log logger.ZapLogger) *Session {
	return &Session{
		store:  store,
		logger: log,
		now:    time.Now,
		subs:   map[int]func(Event){},
	}
}

// Token returns the stored credential or "" when there is none.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, err := s.store.Load()
	if err != nil {
		s.logger.Warn("failed to read stored token", zap.Error(err))
		return ""
	}
	return token
}

// IsAdmin decodes the stored credential afresh. A token that cannot be
// decoded, or has expired, is discarded and never retried.
func (s *Session) IsAdmin() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	claims, err := Decode(token)
	if err == nil && !claims.expired(s.now()) {
		return claims.IsAdmin
	}

	if err != nil {
		s.logger.Warn("invalid stored token, discarding", zap.Error(err))
	} else {
		s.logger.Info("stored token expired, discarding")
	}
	s.mu.Lock()
	if cerr := s.store.Clear(); cerr != nil {
		s.logger.Error("failed to clear stored token", zap.Error(cerr))
	}
	s.mu.Unlock()
	s.publish(Event{Kind: EventRevoked})
	return false
}

// RequireAdmin is IsAdmin as an error, for command handlers.
func (s *Session) RequireAdmin() error {
	if s.IsAdmin() {
		return nil
	}
	if s.Token() == "" {
		return apperr.UnauthorizedErr("Please log in as admin")
	}
	return apperr.ForbiddenErr("Only admins can access the admin console")
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidateCredentials returns the first violation in the login form.
func ValidateCredentials(email, password string) error {
	switch {
	case strings.TrimSpace(email) == "":
		return apperr.InvalidErr("email", "Email is required")
	case !emailPattern.MatchString(email):
		return apperr.InvalidErr("email", "Please enter a valid email address")
	case password == "":
		return apperr.InvalidErr("password", "Password is required")
	case len(password) < 6:
		return apperr.InvalidErr("password", "Password must be at least 6 characters")
	}
	return nil
}

// Login authenticates and stores the returned token. It reports whether the
// new session has admin rights.
func (s *Session) Login(ctx context.Context, a Authenticator, email, password string) (bool, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return false, err
	}
	token, err := a.Login(ctx, email, password)
	if err != nil {
		if ae, ok := apperr.As(err); ok && ae.PublicMsg == "" {
			ae.PublicMsg = "Invalid email or password"
		}
		return false, err
	}

	s.mu.Lock()
	err = s.store.Save(token)
	s.mu.Unlock()
	if err != nil {
		return false, apperr.Wrap(err)
	}

	admin := isAuthorizedAdminAt(token, s.now())
	s.logger.Info("logged in", zap.String("email", email), zap.Bool("is_admin", admin))
	s.publish(Event{Kind: EventLogin, IsAdmin: admin})
	return admin, nil
}

func (s *Session) Logout() error {
	s.mu.Lock()
	err := s.store.Clear()
	s.mu.Unlock()
	if err != nil {
		return apperr.Wrap(err)
	}
	s.publish(Event{Kind: EventLogout})
	return nil
}

// Subscribe registers fn for session changes and returns its cancel func.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) publish(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}
