package models

import "time"

// Session is an issued identity: a signed-in user, possibly elevated to
// admin, or a read-only guest.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	Guest     bool      `json:"guest"`
	Admin     bool      `json:"admin"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) SignedIn() bool {
	return !s.Guest && !IsAnonymous(s.User.ID)
}
