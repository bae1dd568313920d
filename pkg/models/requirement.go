package models

import "time"

type RequirementState string

const (
	RequirementDraft     RequirementState = "draft"
	RequirementActive    RequirementState = "active"
	RequirementDone      RequirementState = "done"
	RequirementCancelled RequirementState = "cancelled"
)

// Requirement is project-owned. KeywordID optionally links the requirement to
// a category keyword in the owning enterprise.
type Requirement struct {
	ID          string           `json:"id" db:"id"`
	DisplayID   string           `json:"display_id" db:"display_id"`
	ProjectID   string           `json:"project_id" db:"project_id"`
	ParentID    string           `json:"parent_id,omitempty" db:"parent_id"`
	KeywordID   string           `json:"keyword_id,omitempty" db:"keyword_id"`
	Title       string           `json:"title" db:"title"`
	Description string           `json:"description,omitempty" db:"description"`
	State       RequirementState `json:"state" db:"state"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// Standard is enterprise-owned with an optional project link.
type Standard struct {
	ID           string    `json:"id" db:"id"`
	DisplayID    string    `json:"display_id" db:"display_id"`
	EnterpriseID string    `json:"enterprise_id" db:"enterprise_id"`
	ProjectID    string    `json:"project_id,omitempty" db:"project_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Keyword is an enterprise-owned category label. Ingest derives its display id
// from the name when none is supplied.
type Keyword struct {
	ID           string    `json:"id" db:"id"`
	DisplayID    string    `json:"display_id" db:"display_id"`
	EnterpriseID string    `json:"enterprise_id" db:"enterprise_id"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
