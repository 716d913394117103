// Package models defines the client-side data model: the authenticated
// user, token pair, conversation sessions, and chat messages.
package models

// TokenPair holds the opaque access/refresh credentials returned by the
// backend. Either both values are present or neither is; an access token
// without a refresh token is unrecoverable on expiry.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Valid reports whether the pair satisfies the both-or-neither invariant
// with both values present.
func (p TokenPair) Valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// User is the profile of the authenticated account as returned by the
// backend. Cached locally; destroyed on logout.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
