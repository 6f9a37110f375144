package service

import (
	"context"
	"log/slog"
	"sync"
)

// AppService coordinates the session and feed stores: the profile and
// card fetch fires exactly once per transition into the authenticated
// state, not on every command. A failed initial load is logged and the
// feed left empty; it is not retried within the same transition.
type AppService struct {
	sessions *SessionService
	feed     *FeedService
	logger   *slog.Logger

	mu     sync.Mutex
	loaded bool
}

// NewAppService creates the coordinator.
func NewAppService(sessions *SessionService, feed *FeedService, logger *slog.Logger) *AppService {
	return &AppService{
		sessions: sessions,
		feed:     feed,
		logger:   logger,
	}
}

// Startup restores a previous session from the persisted credential and,
// when that succeeds, performs the initial load. Returns whether the
// session is authenticated.
func (a *AppService) Startup(ctx context.Context) bool {
	if !a.sessions.Verify(ctx) {
		return false
	}
	a.ensureLoaded(ctx)
	return true
}

// Login signs the user in and performs the initial load on success.
func (a *AppService) Login(ctx context.Context, email, password string) error {
	if err := a.sessions.Login(ctx, email, password); err != nil {
		return err
	}
	a.ensureLoaded(ctx)
	return nil
}

// Logout signs the user out. The next transition into authenticated
// state triggers a fresh initial load.
func (a *AppService) Logout() {
	a.sessions.Logout()
	a.mu.Lock()
	a.loaded = false
	a.mu.Unlock()
}

// ensureLoaded runs the initial load once per authenticated transition.
func (a *AppService) ensureLoaded(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loaded {
		return
	}
	a.loaded = true
	if err := a.feed.LoadInitial(ctx); err != nil {
		a.logger.Error("initial load failed, feed left empty", "error", err)
	}
}
