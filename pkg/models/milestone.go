package models

import "time"

type MilestoneState string

const (
	MilestonePlanned   MilestoneState = "planned"
	MilestoneActive    MilestoneState = "active"
	MilestoneCompleted MilestoneState = "completed"
	MilestoneCancelled MilestoneState = "cancelled"
)

// Milestone is enterprise-owned with an optional project link.
type Milestone struct {
	ID           string         `json:"id" db:"id"`
	DisplayID    string         `json:"display_id" db:"display_id"`
	EnterpriseID string         `json:"enterprise_id" db:"enterprise_id"`
	ProjectID    string         `json:"project_id,omitempty" db:"project_id"`
	Title        string         `json:"title" db:"title"`
	Description  string         `json:"description,omitempty" db:"description"`
	DueDate      *time.Time     `json:"due_date,omitempty" db:"due_date"`
	State        MilestoneState `json:"state" db:"state"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Release is project-owned.
type Release struct {
	ID          string     `json:"id" db:"id"`
	DisplayID   string     `json:"display_id" db:"display_id"`
	ProjectID   string     `json:"project_id" db:"project_id"`
	Name        string     `json:"name" db:"name"`
	TagVersion  string     `json:"tag_version,omitempty" db:"tag_version"`
	ReleaseDate *time.Time `json:"release_date,omitempty" db:"release_date"`
	Notes       string     `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
