package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
)

func TestSearchAcrossEntities(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)
	ctx := context.Background()

	_, err := v.UpsertRequirement(ctx, s, project.ID, &models.Requirement{Title: "Login flow"})
	require.NoError(t, err)
	_, err = v.UpsertWorkItem(ctx, s, project.ID, &models.WorkItem{Title: "Wire the login API"})
	require.NoError(t, err)
	_, err = v.UpsertIssue(ctx, s, project.ID, &models.Issue{Title: "Logout broken", Description: "login redirect loops"})
	require.NoError(t, err)
	_, err = v.UpsertWorkItem(ctx, s, project.ID, &models.WorkItem{Title: "Unrelated"})
	require.NoError(t, err)

	// Case-insensitive, matches titles and descriptions.
	results, err := v.Search(ctx, s, "LOGIN")
	require.NoError(t, err)
	require.Len(t, results, 3)
	types := map[string]int{}
	for _, res := range results {
		types[res.EntityType]++
	}
	assert.Equal(t, map[string]int{"Requirement": 1, "WorkItem": 1, "Issue": 1}, types)

	// Project names match too.
	results, err = v.Search(ctx, s, "rollout")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Project", results[0].EntityType)
	assert.Equal(t, project.ID, results[0].ID)
}

func TestSearchBlankQueryOrEmptyScope(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)

	_, err := v.UpsertWorkItem(context.Background(), s, project.ID, &models.WorkItem{Title: "Login"})
	require.NoError(t, err)

	results, err := v.Search(context.Background(), s, "   ")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = v.Search(context.Background(), scope.Empty(), "login")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchStaysInsideScope(t *testing.T) {
	v, store := newTestView(t)
	s, _ := projectFixture(t, v, store)

	other := seedEnterprise(t, store, "OTHER")
	otherScope := enterpriseScope(other.ID)
	otherProject, err := v.UpsertProject(context.Background(), otherScope, other.ID, &models.Project{Name: "Hidden"})
	require.NoError(t, err)
	otherScope.AllowedProjectIDs = []string{otherProject.ID}
	_, err = v.UpsertWorkItem(context.Background(), otherScope, otherProject.ID, &models.WorkItem{Title: "Hidden login task"})
	require.NoError(t, err)

	results, err := v.Search(context.Background(), s, "login")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProjectSummaries(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)
	ctx := context.Background()

	for _, status := range []models.WorkItemStatus{
		models.StatusDone, models.StatusDone, models.StatusInProgress, models.StatusTodo,
	} {
		_, err := v.UpsertWorkItem(ctx, s, project.ID, &models.WorkItem{Title: "Task", Status: status})
		require.NoError(t, err)
	}
	// Work-level items stay out of the task counts.
	_, err := v.UpsertWorkItem(ctx, s, project.ID, &models.WorkItem{Title: "Epic", Level: models.LevelWork})
	require.NoError(t, err)

	summaries, err := v.ProjectSummaries(ctx, s)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, project.ID, summaries[0].ProjectID)
	assert.Equal(t, 4, summaries[0].TotalTasks)
	assert.Equal(t, 2, summaries[0].DoneTasks)
	assert.Equal(t, 1, summaries[0].InProgressTasks)
}

func TestProjectSummariesSkipsTasklessProjects(t *testing.T) {
	v, store := newTestView(t)
	s, _ := projectFixture(t, v, store)

	summaries, err := v.ProjectSummaries(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestGanttItems(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, 14)
	_, err := v.UpsertWorkItem(ctx, s, project.ID, &models.WorkItem{
		Title: "Scheduled", StartDate: &start, DueDate: &due,
	})
	require.NoError(t, err)
	_, err = v.UpsertWorkItem(ctx, s, project.ID, &models.WorkItem{Title: "Unscheduled"})
	require.NoError(t, err)

	items, err := v.GanttItems(ctx, s, project.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		switch item.Title {
		case "Scheduled":
			require.NotNil(t, item.Start)
			assert.Equal(t, start, *item.Start)
			require.NotNil(t, item.Due)
			assert.Equal(t, due, *item.Due)
		case "Unscheduled":
			assert.Nil(t, item.Start)
			assert.Nil(t, item.Due)
		default:
			t.Fatalf("unexpected item %q", item.Title)
		}
	}

	_, err = v.GanttItems(ctx, scope.Empty(), project.ID)
	require.Error(t, err)
	assert.True(t, scope.IsViolation(err))
}
