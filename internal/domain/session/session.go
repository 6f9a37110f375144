// Package session tracks the client's authentication state.
package session

// Session is the client's view of who is signed in. The zero value is
// anonymous. Transitions:
//
//	anonymous     --login/verify success--> authenticated
//	authenticated --logout or credential rejection--> anonymous
//
// No transition retries automatically; a failed login leaves the session
// anonymous with the failure surfaced to the caller.
type Session struct {
	// Authenticated reports whether a credential has been accepted.
	Authenticated bool
	// Email is the signed-in user's email. Empty while anonymous.
	Email string
	// Credential is the opaque bearer token. Empty while anonymous.
	Credential string
}

// Authenticate transitions the session into the authenticated state.
func (s *Session) Authenticate(email, credential string) {
	s.Authenticated = true
	s.Email = email
	s.Credential = credential
}

// Reset transitions the session back to anonymous, clearing everything.
func (s *Session) Reset() {
	*s = Session{}
}

// Anonymous reports whether nobody is signed in.
func (s *Session) Anonymous() bool {
	return !s.Authenticated
}
