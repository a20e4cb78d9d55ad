package models

import (
	"time"
)

// Session is the marker stored for the currently logged-in admin. There is only ever one of it.
type Session struct {
	// The session ID (the API key that identifies this session)
	ID string `json:"id"`
	// The name of the user that has logged-in for this session
	UserName string `json:"userName"`
	// When has the session been created?
	CreatedAt time.Time `json:"createdAt"`
}
