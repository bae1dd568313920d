package models

import "time"

// Enterprise is the top-level tenant. Its display id is globally unique and
// serves as the owner prefix for project slugs (e.g. E001 -> E001-P001).
type Enterprise struct {
	ID          string    `json:"id" db:"id"`
	DisplayID   string    `json:"display_id" db:"display_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectOnHold   ProjectStatus = "on_hold"
	ProjectArchived ProjectStatus = "archived"
)

// Project is the unit of most scoping. Its display id is unique within its
// enterprise, not globally.
type Project struct {
	ID           string        `json:"id" db:"id"`
	DisplayID    string        `json:"display_id" db:"display_id"`
	EnterpriseID string        `json:"enterprise_id" db:"enterprise_id"`
	Name         string        `json:"name" db:"name"`
	Description  string        `json:"description,omitempty" db:"description"`
	Status       ProjectStatus `json:"status" db:"status"`
	TechStack    string        `json:"tech_stack,omitempty" db:"tech_stack"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// ProjectResource is the membership join between projects and resources.
// A row grants the resource visibility into the project and its enterprise.
type ProjectResource struct {
	ProjectID  string `json:"project_id" db:"project_id"`
	ResourceID string `json:"resource_id" db:"resource_id"`
}
