package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-mcp-backend/pkg/database"
	"project-mcp-backend/pkg/logger"
	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/slug"
)

func newTestView(t *testing.T) (*View, *database.MemoryStore) {
	t.Helper()
	store := database.NewMemoryStore()
	alloc := slug.NewAllocator(store, logger.Nop())
	return NewView(store, alloc, logger.Nop()), store
}

func seedEnterprise(t *testing.T, store *database.MemoryStore, displayID string) *models.Enterprise {
	t.Helper()
	enterprise := &models.Enterprise{
		ID:        "ent-" + displayID,
		DisplayID: displayID,
		Name:      displayID + " Corp",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateEnterprise(context.Background(), enterprise))
	return enterprise
}

func enterpriseScope(enterpriseIDs ...string) scope.Scope {
	return scope.Scope{AllowedEnterpriseIDs: enterpriseIDs, AllowedProjectIDs: []string{}}
}

func TestGetEnterpriseOutOfScope(t *testing.T) {
	v, store := newTestView(t)
	seedEnterprise(t, store, "ACME")

	_, err := v.GetEnterprise(context.Background(), scope.Empty(), "ent-ACME")
	require.Error(t, err)
	assert.True(t, scope.IsViolation(err))
}

func TestListEnterprisesEmptyScope(t *testing.T) {
	v, store := newTestView(t)
	seedEnterprise(t, store, "ACME")

	enterprises, err := v.ListEnterprises(context.Background(), scope.Empty())
	require.NoError(t, err)
	assert.Empty(t, enterprises)
}

func TestProvisionEnterprise(t *testing.T) {
	v, _ := newTestView(t)

	enterprise, err := v.ProvisionEnterprise(context.Background(), &models.Enterprise{
		DisplayID: "ACME",
		Name:      "Acme Corp",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, enterprise.ID)
	assert.Equal(t, enterprise.CreatedAt, enterprise.UpdatedAt)

	// Display ids are globally unique, case-insensitively.
	_, err = v.ProvisionEnterprise(context.Background(), &models.Enterprise{
		DisplayID: "acme",
		Name:      "Impostor",
	})
	require.Error(t, err)
	assert.True(t, database.IsDuplicateDisplayID(err))
}

func TestUpdateEnterprisePreservesDisplayID(t *testing.T) {
	v, store := newTestView(t)
	enterprise := seedEnterprise(t, store, "ACME")
	s := enterpriseScope(enterprise.ID)

	updated, err := v.UpdateEnterprise(context.Background(), s, &models.Enterprise{
		ID:        enterprise.ID,
		DisplayID: "HACKED",
		Name:      "Acme Renamed",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME", updated.DisplayID)
	assert.Equal(t, "Acme Renamed", updated.Name)
	assert.Equal(t, enterprise.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(enterprise.UpdatedAt))
}

func TestUpdateEnterpriseNotFound(t *testing.T) {
	v, _ := newTestView(t)
	s := enterpriseScope("ent-missing")

	_, err := v.UpdateEnterprise(context.Background(), s, &models.Enterprise{ID: "ent-missing"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestUpsertProjectCreate(t *testing.T) {
	v, store := newTestView(t)
	enterprise := seedEnterprise(t, store, "ACME")
	s := enterpriseScope(enterprise.ID)

	project, err := v.UpsertProject(context.Background(), s, enterprise.ID, &models.Project{Name: "Rollout"})
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "ACME-P001", project.DisplayID)
	assert.Equal(t, enterprise.ID, project.EnterpriseID)
	assert.Equal(t, models.ProjectActive, project.Status)
	assert.Equal(t, project.CreatedAt, project.UpdatedAt)
	assert.Equal(t, time.UTC, project.CreatedAt.Location())

	// Sequential ids within the enterprise.
	second, err := v.UpsertProject(context.Background(), s, enterprise.ID, &models.Project{Name: "Second"})
	require.NoError(t, err)
	assert.Equal(t, "ACME-P002", second.DisplayID)
}

func TestUpsertProjectCreateMissingEnterprise(t *testing.T) {
	v, _ := newTestView(t)
	s := enterpriseScope("ent-missing")

	_, err := v.UpsertProject(context.Background(), s, "ent-missing", &models.Project{Name: "Orphan"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestUpsertProjectUpdatePreservesIdentity(t *testing.T) {
	v, store := newTestView(t)
	enterprise := seedEnterprise(t, store, "ACME")
	s := enterpriseScope(enterprise.ID)

	created, err := v.UpsertProject(context.Background(), s, enterprise.ID, &models.Project{Name: "Rollout"})
	require.NoError(t, err)

	updated, err := v.UpsertProject(context.Background(), s, enterprise.ID, &models.Project{
		ID:        created.ID,
		DisplayID: "ACME-P999",
		Name:      "Rollout v2",
	})
	require.NoError(t, err)
	assert.Equal(t, created.DisplayID, updated.DisplayID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.Status, updated.Status)
	assert.Equal(t, "Rollout v2", updated.Name)
}

func TestUpsertProjectRejectsEnterpriseMove(t *testing.T) {
	v, store := newTestView(t)
	acme := seedEnterprise(t, store, "ACME")
	other := seedEnterprise(t, store, "OTHER")
	s := enterpriseScope(acme.ID, other.ID)

	created, err := v.UpsertProject(context.Background(), s, acme.ID, &models.Project{Name: "Rollout"})
	require.NoError(t, err)

	_, err = v.UpsertProject(context.Background(), s, other.ID, &models.Project{ID: created.ID, Name: "Moved"})
	require.Error(t, err)
	assert.True(t, scope.IsViolation(err))
}

func projectFixture(t *testing.T, v *View, store *database.MemoryStore) (scope.Scope, *models.Project) {
	t.Helper()
	enterprise := seedEnterprise(t, store, "ACME")
	s := enterpriseScope(enterprise.ID)
	project, err := v.UpsertProject(context.Background(), s, enterprise.ID, &models.Project{Name: "Rollout"})
	require.NoError(t, err)
	s.AllowedProjectIDs = []string{project.ID}
	return s, project
}

func TestUpsertWorkItemDefaults(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)

	item, err := v.UpsertWorkItem(context.Background(), s, project.ID, &models.WorkItem{Title: "Wire the API"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "ACME-P001-WI000001", item.DisplayID)
	assert.Equal(t, project.ID, item.ProjectID)
	assert.Equal(t, models.LevelTask, item.Level)
	assert.Equal(t, models.WorkItemPlanned, item.State)
	assert.Equal(t, models.StatusTodo, item.Status)
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)
}

func TestUpsertWorkItemKeepsSuppliedDisplayID(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)

	item, err := v.UpsertWorkItem(context.Background(), s, project.ID, &models.WorkItem{
		DisplayID: "ACME-P001-WI000500",
		Title:     "Imported",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME-P001-WI000500", item.DisplayID)

	// The allocator derives the next id from existing rows, imported ones included.
	next, err := v.UpsertWorkItem(context.Background(), s, project.ID, &models.WorkItem{Title: "Fresh"})
	require.NoError(t, err)
	assert.Equal(t, "ACME-P001-WI000501", next.DisplayID)
}

func TestUpsertWorkItemUpdateFallsBackToExistingEnums(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)

	created, err := v.UpsertWorkItem(context.Background(), s, project.ID, &models.WorkItem{
		Title:  "Wire the API",
		Status: models.StatusInProgress,
	})
	require.NoError(t, err)

	updated, err := v.UpsertWorkItem(context.Background(), s, project.ID, &models.WorkItem{
		ID:    created.ID,
		Title: "Wire the API v2",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, created.Level, updated.Level)
	assert.Equal(t, created.DisplayID, updated.DisplayID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestListWorkItemsAssumesSingleProjectScope(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)

	_, err := v.UpsertWorkItem(context.Background(), s, project.ID, &models.WorkItem{Title: "One"})
	require.NoError(t, err)

	items, err := v.ListWorkItems(context.Background(), s, models.WorkItemFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// With several projects in scope the caller must pick one.
	s.AllowedProjectIDs = append(s.AllowedProjectIDs, "p-other")
	_, err = v.ListWorkItems(context.Background(), s, models.WorkItemFilter{})
	require.Error(t, err)
	assert.True(t, scope.IsViolation(err))

	items, err = v.ListWorkItems(context.Background(), s, models.WorkItemFilter{ProjectID: project.ID})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDeleteWorkItem(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)

	item, err := v.UpsertWorkItem(context.Background(), s, project.ID, &models.WorkItem{Title: "Doomed"})
	require.NoError(t, err)

	deleted, err := v.DeleteWorkItem(context.Background(), s, "nonexistent")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = v.DeleteWorkItem(context.Background(), scope.Empty(), item.ID)
	require.Error(t, err)
	assert.True(t, scope.IsViolation(err))

	deleted, err = v.DeleteWorkItem(context.Background(), s, item.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := v.GetWorkItem(context.Background(), s, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertKeywordAllocatesDisplayID(t *testing.T) {
	v, store := newTestView(t)
	enterprise := seedEnterprise(t, store, "ACME")
	s := enterpriseScope(enterprise.ID)

	keyword, err := v.UpsertKeyword(context.Background(), s, enterprise.ID, &models.Keyword{Name: "Security"})
	require.NoError(t, err)
	assert.Equal(t, "ACME-KW0001", keyword.DisplayID)

	supplied, err := v.UpsertKeyword(context.Background(), s, enterprise.ID, &models.Keyword{
		DisplayID: "KW-security-review",
		Name:      "Security Review",
	})
	require.NoError(t, err)
	assert.Equal(t, "KW-security-review", supplied.DisplayID)
}

func TestGetProjectAbsentIsNilNotError(t *testing.T) {
	v, store := newTestView(t)
	enterprise := seedEnterprise(t, store, "ACME")
	s := enterpriseScope(enterprise.ID)

	project, err := v.GetProject(context.Background(), s, "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, project)
}

func TestGetProjectBySlugIsCaseInsensitive(t *testing.T) {
	v, store := newTestView(t)
	enterprise := seedEnterprise(t, store, "ACME")
	s := enterpriseScope(enterprise.ID)

	created, err := v.UpsertProject(context.Background(), s, enterprise.ID, &models.Project{Name: "Rollout"})
	require.NoError(t, err)

	project, err := v.GetProjectBySlug(context.Background(), s, enterprise.ID, "acme-p001")
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, created.ID, project.ID)
}

func TestGrantProjectMembershipWidensScope(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)

	resource := &models.Resource{
		ID:           "r1",
		DisplayID:    "RES-001",
		EnterpriseID: project.EnterpriseID,
		Name:         "Agent",
		OAuth2Sub:    "sub-1",
	}
	require.NoError(t, store.CreateResource(context.Background(), resource))

	require.NoError(t, v.GrantProjectMembership(context.Background(), s, project.ID, resource.ID))

	enterpriseIDs, projectIDs, err := store.ScopeForResource(context.Background(), resource.ID)
	require.NoError(t, err)
	assert.Contains(t, enterpriseIDs, project.EnterpriseID)
	assert.Contains(t, projectIDs, project.ID)
}

func TestGrantProjectMembershipUnknownProject(t *testing.T) {
	v, store := newTestView(t)
	enterprise := seedEnterprise(t, store, "ACME")
	s := enterpriseScope(enterprise.ID)
	// A stale membership can leave a project id in scope after the row is gone.
	s.AllowedProjectIDs = []string{"p-gone"}

	err := v.GrantProjectMembership(context.Background(), s, "p-gone", "r1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGrantProjectMembershipUnknownResource(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)

	err := v.GrantProjectMembership(context.Background(), s, project.ID, "nonexistent")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestUpsertMilestoneValidatesProjectLink(t *testing.T) {
	v, store := newTestView(t)
	s, project := projectFixture(t, v, store)

	milestone, err := v.UpsertMilestone(context.Background(), s, project.EnterpriseID, &models.Milestone{
		Title:     "Beta",
		ProjectID: project.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME-MS0001", milestone.DisplayID)
	assert.Equal(t, models.MilestonePlanned, milestone.State)

	_, err = v.UpsertMilestone(context.Background(), s, project.EnterpriseID, &models.Milestone{
		Title:     "Broken",
		ProjectID: "p-outside",
	})
	require.Error(t, err)
	assert.True(t, scope.IsViolation(err))
}
