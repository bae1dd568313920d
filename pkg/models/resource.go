package models

import "time"

// Resource is an actor (human or automated agent) belonging to one enterprise.
// OAuth2Sub links it to an external identity subject; at most one resource per
// (enterprise, subject) is expected, and resolution uses the first match.
type Resource struct {
	ID           string    `json:"id" db:"id"`
	DisplayID    string    `json:"display_id" db:"display_id"`
	EnterpriseID string    `json:"enterprise_id" db:"enterprise_id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description,omitempty" db:"description"`
	OAuth2Sub    string    `json:"oauth2_sub,omitempty" db:"oauth2_sub"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
