package models

import "time"

type IssueState string

const (
	IssueOpen       IssueState = "open"
	IssueInProgress IssueState = "in_progress"
	IssueDone       IssueState = "done"
	IssueClosed     IssueState = "closed"
)

// Issue is project-owned, optionally assigned to a resource.
type Issue struct {
	ID          string     `json:"id" db:"id"`
	DisplayID   string     `json:"display_id" db:"display_id"`
	ProjectID   string     `json:"project_id" db:"project_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	State       IssueState `json:"state" db:"state"`
	ResourceID  string     `json:"resource_id,omitempty" db:"resource_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
