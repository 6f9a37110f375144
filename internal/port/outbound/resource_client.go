// Package outbound defines the outbound port interfaces the orchestration
// core depends on: the remote resource API and local credential storage.
package outbound

import (
	"context"

	"github.com/placefeed/placefeed/internal/domain/card"
	"github.com/placefeed/placefeed/internal/domain/user"
)

// ResourceClient is the outbound port for the card and profile resources.
// Every call carries the current credential as a bearer header. A non-2xx
// response is surfaced as a rejected outcome carrying the status code; the
// client performs no retries.
type ResourceClient interface {
	// FetchProfile returns the current user's profile.
	FetchProfile(ctx context.Context) (*user.Profile, error)

	// UpdateProfile sets the profile name and about line and returns the
	// server's authoritative profile.
	UpdateProfile(ctx context.Context, name, about string) (*user.Profile, error)

	// UpdateAvatar sets the avatar URL and returns the server's
	// authoritative profile.
	UpdateAvatar(ctx context.Context, avatarURL string) (*user.Profile, error)

	// FetchCards returns the shared card feed in server order.
	FetchCards(ctx context.Context) ([]card.Card, error)

	// CreateCard submits a new card and returns it with the server-assigned ID.
	CreateCard(ctx context.Context, name, imageURL string) (*card.Card, error)

	// DeleteCard removes a card by ID.
	DeleteCard(ctx context.Context, cardID string) error

	// LikeCard adds the current user's like and returns the authoritative card.
	LikeCard(ctx context.Context, cardID string) (*card.Card, error)

	// UnlikeCard removes the current user's like and returns the authoritative card.
	UnlikeCard(ctx context.Context, cardID string) (*card.Card, error)
}

// AuthClient is the outbound port for the authentication endpoints.
// Register and Login carry no authorization header.
type AuthClient interface {
	// Register creates an account. It does not authenticate the user.
	Register(ctx context.Context, email, password string) error

	// Login exchanges credentials for an opaque bearer token.
	Login(ctx context.Context, email, password string) (string, error)

	// VerifyToken checks a stored credential and returns the account email.
	VerifyToken(ctx context.Context, credential string) (string, error)

	// SetCredential installs the credential used for authorized calls.
	// An empty string clears it.
	SetCredential(credential string)
}

// CredentialStore persists the opaque credential across process runs.
type CredentialStore interface {
	// Load reads the stored credential. Returns "" with a nil error when
	// no credential is stored.
	Load() (string, error)

	// Save writes the credential.
	Save(credential string) error

	// Clear removes the stored credential. Clearing an absent credential
	// is not an error.
	Clear() error
}
