// Package service implements the orchestration core: the session store,
// the card collection store, and the startup/login coordination between
// them. Services convert every remote failure into state the view can
// render; they never panic on I/O errors.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/placefeed/placefeed/internal/domain/popup"
	"github.com/placefeed/placefeed/internal/domain/session"
	"github.com/placefeed/placefeed/internal/port/outbound"
)

// Fixed registration outcome messages shown by the info dialog.
const (
	RegisterSuccessMessage = "You're all signed up!"
	RegisterFailureMessage = "Something went wrong! Please try again."
)

// credentialsForm is validated before any auth round trip.
type credentialsForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// SessionService is the session store. It owns the authentication state
// machine and the persisted credential.
type SessionService struct {
	auth   outbound.AuthClient
	creds  outbound.CredentialStore
	popups *popup.Orchestrator
	logger *slog.Logger

	validate *validator.Validate

	mu      sync.Mutex
	session session.Session
}

// NewSessionService creates the session store.
func NewSessionService(auth outbound.AuthClient, creds outbound.CredentialStore, popups *popup.Orchestrator, logger *slog.Logger) *SessionService {
	return &SessionService{
		auth:     auth,
		creds:    creds,
		popups:   popups,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Session returns a copy of the current session state.
func (s *SessionService) Session() session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Register creates an account. It does not authenticate the user: on
// success the info dialog transitions to its success state and the caller
// is expected to direct the user to sign in; on failure it transitions to
// the failure state.
func (s *SessionService) Register(ctx context.Context, email, password string) error {
	form := credentialsForm{Email: email, Password: password}
	if err := s.validate.Struct(form); err != nil {
		return err
	}

	if err := s.auth.Register(ctx, email, password); err != nil {
		s.logger.Warn("registration failed", "email", email, "error", err)
		s.popups.OpenInfo(false)
		return err
	}

	s.popups.OpenInfo(true)
	return nil
}

// Login authenticates the user. On success the credential is persisted,
// the email recorded, and the session becomes authenticated. On failure
// the session stays anonymous and nothing is persisted.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	form := credentialsForm{Email: email, Password: password}
	if err := s.validate.Struct(form); err != nil {
		return err
	}

	credential, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email, "error", err)
		return err
	}

	if err := s.creds.Save(credential); err != nil {
		// Still authenticated for this run; only persistence is degraded.
		s.logger.Warn("failed to persist credential", "error", err)
	}
	s.auth.SetCredential(credential)

	s.mu.Lock()
	s.session.Authenticate(email, credential)
	s.mu.Unlock()

	return nil
}

// Verify restores a previous session from the persisted credential. It
// runs once at startup and never fails loudly: an absent credential is a
// no-op, and a rejected credential is discarded, leaving the session
// anonymous. Returns whether the session is authenticated afterwards.
func (s *SessionService) Verify(ctx context.Context) bool {
	credential, err := s.creds.Load()
	if err != nil {
		s.logger.Warn("failed to read stored credential", "error", err)
		return false
	}
	if credential == "" {
		return false
	}

	email, err := s.auth.VerifyToken(ctx, credential)
	if err != nil {
		s.logger.Warn("stored credential rejected, discarding", "error", err)
		if clearErr := s.creds.Clear(); clearErr != nil {
			s.logger.Warn("failed to discard credential", "error", clearErr)
		}
		return false
	}

	s.auth.SetCredential(credential)

	s.mu.Lock()
	s.session.Authenticate(email, credential)
	s.mu.Unlock()

	return true
}

// Logout unconditionally resets the session to anonymous and removes the
// persisted credential.
func (s *SessionService) Logout() {
	s.mu.Lock()
	s.session.Reset()
	s.mu.Unlock()

	s.auth.SetCredential("")
	if err := s.creds.Clear(); err != nil {
		s.logger.Warn("failed to remove stored credential", "error", err)
	}
}
