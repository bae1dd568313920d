package view

import (
	"context"
	"strings"

	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
)

// Search runs a case-insensitive substring search over the scope's projects
// and their requirements, work items, and issues. A blank query or a scope
// with no projects yields an empty result, not an error.
func (v *View) Search(ctx context.Context, s scope.Scope, query string) ([]models.SearchResult, error) {
	results := []models.SearchResult{}
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" || len(s.AllowedProjectIDs) == 0 {
		return results, nil
	}

	matches := func(title, description string) bool {
		return strings.Contains(strings.ToLower(title), term) ||
			strings.Contains(strings.ToLower(description), term)
	}

	for _, projectID := range s.AllowedProjectIDs {
		project, err := v.store.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if project == nil {
			continue
		}
		if matches(project.Name, project.Description) {
			results = append(results, models.SearchResult{
				EntityType: "Project", ID: project.ID, Title: project.Name, Snippet: project.Description,
			})
		}

		requirements, err := v.store.ListRequirementsByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		for _, r := range requirements {
			if matches(r.Title, r.Description) {
				results = append(results, models.SearchResult{
					EntityType: "Requirement", ID: r.ID, Title: r.Title, Snippet: r.Description,
				})
			}
		}

		workItems, err := v.store.ListWorkItems(ctx, models.WorkItemFilter{ProjectID: projectID})
		if err != nil {
			return nil, err
		}
		for _, w := range workItems {
			if matches(w.Title, w.Description) {
				results = append(results, models.SearchResult{
					EntityType: "WorkItem", ID: w.ID, Title: w.Title, Snippet: w.Description,
				})
			}
		}

		issues, err := v.store.ListIssuesByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		for _, i := range issues {
			if matches(i.Title, i.Description) {
				results = append(results, models.SearchResult{
					EntityType: "Issue", ID: i.ID, Title: i.Title, Snippet: i.Description,
				})
			}
		}
	}

	v.log.Debug().Str("query", term).Int("hits", len(results)).Msg("search completed")
	return results, nil
}

// ProjectSummaries reports task progress per in-scope project. Only task-level
// work items count; projects with no tasks are absent from the report.
func (v *View) ProjectSummaries(ctx context.Context, s scope.Scope) ([]models.ReportSummary, error) {
	summaries := []models.ReportSummary{}
	for _, projectID := range s.AllowedProjectIDs {
		tasks, err := v.store.ListWorkItems(ctx, models.WorkItemFilter{
			ProjectID: projectID,
			Level:     models.LevelTask,
		})
		if err != nil {
			return nil, err
		}
		if len(tasks) == 0 {
			continue
		}

		summary := models.ReportSummary{ProjectID: projectID, TotalTasks: len(tasks)}
		for _, task := range tasks {
			switch task.Status {
			case models.StatusDone:
				summary.DoneTasks++
			case models.StatusInProgress:
				summary.InProgressTasks++
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GanttItems returns the project's work items reduced to their schedule spans.
func (v *View) GanttItems(ctx context.Context, s scope.Scope, projectID string) ([]models.GanttItem, error) {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return nil, err
	}
	workItems, err := v.store.ListWorkItems(ctx, models.WorkItemFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	items := make([]models.GanttItem, 0, len(workItems))
	for _, w := range workItems {
		items = append(items, models.GanttItem{
			ID:    w.ID,
			Title: w.Title,
			Start: w.StartDate,
			Due:   w.DueDate,
		})
	}
	return items, nil
}
