package internal

import "github.com/derWhity/hackpulse/internal/models"

// -- Request data -----------------------------------------------------------------------------------------------------

// loginRequest carries the credentials of a login attempt
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// updateRequest carries the ID of the hackathon to update and the fields to change
type updateRequest struct {
	ID    string
	Patch models.HackathonPatch
}

// tagRequest carries a single tag of the catalog
type tagRequest struct {
	Tag string `json:"tag"`
}
