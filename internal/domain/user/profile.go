// Package user holds the authenticated user's profile.
package user

// Profile is the current user's public profile as the server reports it.
// Profile edits are never patched locally: the server's response replaces
// the whole value.
type Profile struct {
	// ID is the server-assigned user identifier.
	ID string `json:"_id"`
	// Name is the display name shown on the profile and on owned cards.
	Name string `json:"name"`
	// About is the short bio line.
	About string `json:"about"`
	// AvatarURL is the profile picture location.
	AvatarURL string `json:"avatar"`
}
