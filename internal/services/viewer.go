package services

import "github.com/NDQnhat/realestatepro-api/internal/models"

// Viewer is the identity resolved from a session token. A nil *Viewer is an
// anonymous caller.
type Viewer struct {
	ID   string
	Role models.Role
}

func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == models.RoleAdmin
}

func (v *Viewer) IsAgent() bool {
	return v != nil && v.Role == models.RoleAgent
}

func (v *Viewer) id() string {
	if v == nil {
		return ""
	}
	return v.ID
}
