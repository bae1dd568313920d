package models

import "time"

type WorkItemLevel string

const (
	LevelWork WorkItemLevel = "work"
	LevelTask WorkItemLevel = "task"
)

type WorkItemState string

const (
	WorkItemPlanned   WorkItemState = "planned"
	WorkItemActive    WorkItemState = "active"
	WorkItemBlocked   WorkItemState = "blocked"
	WorkItemDone      WorkItemState = "done"
	WorkItemCancelled WorkItemState = "cancelled"
)

type WorkItemStatus string

const (
	StatusTodo       WorkItemStatus = "todo"
	StatusInProgress WorkItemStatus = "in_progress"
	StatusDone       WorkItemStatus = "done"
	StatusCancelled  WorkItemStatus = "cancelled"
)

// WorkItem is a project-owned unit of work. Optional references are empty
// strings when unset.
type WorkItem struct {
	ID          string         `json:"id" db:"id"`
	DisplayID   string         `json:"display_id" db:"display_id"`
	ProjectID   string         `json:"project_id" db:"project_id"`
	ParentID    string         `json:"parent_id,omitempty" db:"parent_id"`
	Level       WorkItemLevel  `json:"level" db:"level"`
	State       WorkItemState  `json:"state,omitempty" db:"state"`
	Status      WorkItemStatus `json:"status,omitempty" db:"status"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description,omitempty" db:"description"`
	ResourceID  string         `json:"resource_id,omitempty" db:"resource_id"`
	MilestoneID string         `json:"milestone_id,omitempty" db:"milestone_id"`
	ReleaseID   string         `json:"release_id,omitempty" db:"release_id"`
	StartDate   *time.Time     `json:"start_date,omitempty" db:"start_date"`
	DueDate     *time.Time     `json:"due_date,omitempty" db:"due_date"`
	EffortHours float64        `json:"effort_hours,omitempty" db:"effort_hours"`
	Complexity  int            `json:"complexity,omitempty" db:"complexity"`
	Priority    int            `json:"priority,omitempty" db:"priority"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// WorkItemFilter narrows work item listings. All provided fields must match
// (AND semantics); empty fields impose no constraint.
type WorkItemFilter struct {
	ProjectID   string
	ParentID    string
	Level       WorkItemLevel
	Status      WorkItemStatus
	MilestoneID string
	ResourceID  string
}
