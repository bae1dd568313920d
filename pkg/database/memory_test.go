package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/slug"
)

func TestCreateProjectRejectsDuplicateDisplayID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateProject(ctx, &models.Project{
		ID: "p1", EnterpriseID: "e1", DisplayID: "ACME-P001", Name: "First",
	}))

	// Case-insensitive within the same enterprise.
	err := store.CreateProject(ctx, &models.Project{
		ID: "p2", EnterpriseID: "e1", DisplayID: "acme-p001", Name: "Clash",
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateDisplayID(err))

	// Same display id under another enterprise is fine.
	require.NoError(t, store.CreateProject(ctx, &models.Project{
		ID: "p3", EnterpriseID: "e2", DisplayID: "ACME-P001", Name: "Elsewhere",
	}))
}

func TestCreateWorkItemDuplicateScopedToProject(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateWorkItem(ctx, &models.WorkItem{
		ID: "w1", ProjectID: "p1", DisplayID: "ACME-P001-WI000001", Title: "One",
	}))

	err := store.CreateWorkItem(ctx, &models.WorkItem{
		ID: "w2", ProjectID: "p1", DisplayID: "ACME-P001-WI000001", Title: "Dup",
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateDisplayID(err))

	require.NoError(t, store.CreateWorkItem(ctx, &models.WorkItem{
		ID: "w3", ProjectID: "p2", DisplayID: "ACME-P001-WI000001", Title: "Other project",
	}))
}

func TestListWorkItemsFilter(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateWorkItem(ctx, &models.WorkItem{
		ID: "w1", ProjectID: "p1", DisplayID: "WI000001", Title: "A",
		Level: models.LevelTask, Status: models.StatusTodo, MilestoneID: "m1",
	}))
	require.NoError(t, store.CreateWorkItem(ctx, &models.WorkItem{
		ID: "w2", ProjectID: "p1", DisplayID: "WI000002", Title: "B",
		Level: models.LevelTask, Status: models.StatusInProgress,
	}))
	require.NoError(t, store.CreateWorkItem(ctx, &models.WorkItem{
		ID: "w3", ProjectID: "p2", DisplayID: "WI000001", Title: "C",
		Level: models.LevelTask, Status: models.StatusTodo,
	}))

	items, err := store.ListWorkItems(ctx, models.WorkItemFilter{ProjectID: "p1"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = store.ListWorkItems(ctx, models.WorkItemFilter{ProjectID: "p1", Status: models.StatusInProgress})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "w2", items[0].ID)

	items, err = store.ListWorkItems(ctx, models.WorkItemFilter{ProjectID: "p1", MilestoneID: "m1"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "w1", items[0].ID)
}

func TestScopeForResource(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateProject(ctx, &models.Project{ID: "p1", EnterpriseID: "e1", DisplayID: "P001"}))
	require.NoError(t, store.CreateProject(ctx, &models.Project{ID: "p2", EnterpriseID: "e1", DisplayID: "P002"}))
	require.NoError(t, store.AddProjectResource(ctx, "p1", "r1"))
	require.NoError(t, store.AddProjectResource(ctx, "p2", "r1"))
	// Repeat grants are idempotent.
	require.NoError(t, store.AddProjectResource(ctx, "p1", "r1"))

	enterpriseIDs, projectIDs, err := store.ScopeForResource(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, enterpriseIDs)
	assert.ElementsMatch(t, []string{"p1", "p2"}, projectIDs)

	enterpriseIDs, projectIDs, err = store.ScopeForResource(ctx, "r-none")
	require.NoError(t, err)
	assert.Empty(t, enterpriseIDs)
	assert.Empty(t, projectIDs)
}

func TestResolveResourceBySubject(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateResource(ctx, &models.Resource{
		ID: "r1", EnterpriseID: "e1", DisplayID: "RES-001", Name: "Agent", OAuth2Sub: "sub-1",
	}))
	require.NoError(t, store.CreateResource(ctx, &models.Resource{
		ID: "r2", EnterpriseID: "e1", DisplayID: "RES-002", Name: "No subject",
	}))

	resource, err := store.ResolveResourceBySubject(ctx, "sub-1")
	require.NoError(t, err)
	require.NotNil(t, resource)
	assert.Equal(t, "r1", resource.ID)

	// An empty subject never matches, even against rows with no subject set.
	resource, err = store.ResolveResourceBySubject(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, resource)
}

func TestDisplayIDsUnsupportedType(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.DisplayIDs(context.Background(), slug.EntityType("enterprise"))
	require.Error(t, err)
	assert.ErrorIs(t, err, slug.ErrUnsupportedEntityType)
}

func TestGetAbsentRowsReturnNil(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	project, err := store.GetProject(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, project)

	item, err := store.GetWorkItem(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, item)

	enterprise, err := store.GetEnterprise(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, enterprise)
}
