package service

import (
	"context"
	"errors"
	"testing"

	"github.com/placefeed/placefeed/internal/domain/popup"
)

func newAppFixture(auth *mockAuthClient, creds *mockCredentialStore, client *mockResourceClient) *AppService {
	if client.profile == nil {
		client.profile = &testProfile
	}
	if client.cards == nil {
		client.cards = feedCards
	}
	popups := popup.NewOrchestrator()
	sessions := NewSessionService(auth, creds, popups, testLogger())
	feed := NewFeedService(client, popups, nil, testLogger())
	return NewAppService(sessions, feed, testLogger())
}

func TestStartupAnonymous(t *testing.T) {
	client := &mockResourceClient{}
	app := newAppFixture(&mockAuthClient{}, &mockCredentialStore{}, client)

	if app.Startup(context.Background()) {
		t.Error("Startup() = true with no stored credential")
	}
	if client.profileCalls != 0 {
		t.Errorf("profile fetched %d times while anonymous, want 0", client.profileCalls)
	}
}

func TestStartupLoadsOnce(t *testing.T) {
	auth := &mockAuthClient{verifyEmail: "user@example.com"}
	creds := &mockCredentialStore{stored: "tok-1"}
	client := &mockResourceClient{}
	app := newAppFixture(auth, creds, client)

	ctx := context.Background()
	if !app.Startup(ctx) {
		t.Fatal("Startup() = false for valid credential")
	}
	if !app.Startup(ctx) {
		t.Fatal("second Startup() = false")
	}

	// One transition into authenticated state, one load.
	if client.profileCalls != 1 || client.cardsCalls != 1 {
		t.Errorf("fetches = %d profile, %d cards; want 1 each", client.profileCalls, client.cardsCalls)
	}
}

func TestLogoutRearmsInitialLoad(t *testing.T) {
	auth := &mockAuthClient{loginToken: "tok-1"}
	client := &mockResourceClient{}
	app := newAppFixture(auth, &mockCredentialStore{}, client)

	ctx := context.Background()
	if err := app.Login(ctx, "user@example.com", "secret1"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	app.Logout()
	if err := app.Login(ctx, "user@example.com", "secret1"); err != nil {
		t.Fatalf("second Login() error: %v", err)
	}

	if client.profileCalls != 2 {
		t.Errorf("profile fetched %d times across two sign-ins, want 2", client.profileCalls)
	}
}

func TestFailedLoadNotRetried(t *testing.T) {
	auth := &mockAuthClient{verifyEmail: "user@example.com"}
	creds := &mockCredentialStore{stored: "tok-1"}
	client := &mockResourceClient{profileErr: errors.New("500")}
	app := newAppFixture(auth, creds, client)

	ctx := context.Background()
	// Startup still reports authenticated; only the feed is degraded.
	if !app.Startup(ctx) {
		t.Fatal("Startup() = false when only the load failed")
	}
	if !app.Startup(ctx) {
		t.Fatal("second Startup() = false")
	}

	if client.profileCalls != 1 {
		t.Errorf("profile fetched %d times after failed load, want 1 (no retry)", client.profileCalls)
	}
}

func TestLoginFailureSkipsLoad(t *testing.T) {
	auth := &mockAuthClient{loginErr: errors.New("bad password")}
	client := &mockResourceClient{}
	app := newAppFixture(auth, &mockCredentialStore{}, client)

	if err := app.Login(context.Background(), "user@example.com", "secret1"); err == nil {
		t.Fatal("Login() succeeded, want error")
	}
	if client.profileCalls != 0 {
		t.Errorf("profile fetched %d times after failed login, want 0", client.profileCalls)
	}
}
