package models

import "time"

// SearchResult is one cross-entity search hit.
type SearchResult struct {
	EntityType string `json:"entity_type"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet,omitempty"`
}

// ReportSummary aggregates task progress for one project.
type ReportSummary struct {
	ProjectID       string `json:"project_id"`
	TotalTasks      int    `json:"total_tasks"`
	DoneTasks       int    `json:"done_tasks"`
	InProgressTasks int    `json:"in_progress_tasks"`
}

// GanttItem is a work item reduced to its schedule span.
type GanttItem struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Start *time.Time `json:"start,omitempty"`
	Due   *time.Time `json:"due,omitempty"`
}
