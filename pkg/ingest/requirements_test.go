package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-mcp-backend/pkg/database"
	"project-mcp-backend/pkg/logger"
	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/slug"
	"project-mcp-backend/pkg/view"
)

type fixture struct {
	view    *view.View
	store   *database.MemoryStore
	scope   scope.Scope
	project *models.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := database.NewMemoryStore()
	v := view.NewView(store, slug.NewAllocator(store, logger.Nop()), logger.Nop())

	enterprise := &models.Enterprise{ID: "e1", DisplayID: "ACME", Name: "Acme"}
	require.NoError(t, store.CreateEnterprise(ctx, enterprise))

	s := scope.Scope{AllowedEnterpriseIDs: []string{"e1"}, AllowedProjectIDs: []string{}}
	project, err := v.UpsertProject(ctx, s, "e1", &models.Project{Name: "Rollout"})
	require.NoError(t, err)
	s.AllowedProjectIDs = []string{project.ID}

	return &fixture{view: v, store: store, scope: s, project: project}
}

func TestIngestLegacyArray(t *testing.T) {
	f := newFixture(t)
	ing := NewRequirementIngester(f.view, logger.Nop())

	payload := []byte(`[
		{"title": "Login", "description": "Users can log in"},
		{"title": "Logout", "description": "Users can log out"},
		{"title": "  ", "description": "no title"},
		{"title": "Audit", "description": "Actions are logged"}
	]`)

	result, err := ing.Ingest(context.Background(), f.scope, f.project.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, 3, result.CreatedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Skipped item with empty title.", result.Errors[0])

	requirements, err := f.view.ListRequirements(context.Background(), f.scope, f.project.ID)
	require.NoError(t, err)
	assert.Len(t, requirements, 3)
	for _, r := range requirements {
		assert.Equal(t, models.RequirementDraft, r.State)
		assert.NotEmpty(t, r.DisplayID)
	}
}

func TestIngestLegacyArrayIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ing := NewRequirementIngester(f.view, logger.Nop())

	payload := []byte(`[{"title": "Login", "description": "v1"}]`)
	result, err := ing.Ingest(context.Background(), f.scope, f.project.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)

	// Title match is case-insensitive; the rerun updates in place.
	payload = []byte(`[{"title": "LOGIN", "description": "v2"}]`)
	result, err = ing.Ingest(context.Background(), f.scope, f.project.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Empty(t, result.Errors)

	requirements, err := f.view.ListRequirements(context.Background(), f.scope, f.project.ID)
	require.NoError(t, err)
	require.Len(t, requirements, 1)
	assert.Equal(t, "v2", requirements[0].Description)
}

func TestIngestDocumentFormat(t *testing.T) {
	f := newFixture(t)
	ing := NewRequirementIngester(f.view, logger.Nop())

	payload := []byte(`{
		"keywords": [
			{"display_id": "KW-security", "name": "Security"},
			{"name": "User Experience"}
		],
		"requirements": [
			{"title": "Login", "description": "Users can log in", "state": "approved", "category_keyword_name": "Security"},
			{"title": "Theming", "category_keyword_name": "Nonexistent Category"}
		]
	}`)

	result, err := ing.Ingest(context.Background(), f.scope, f.project.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, 2, result.KeywordsCreatedCount)
	assert.Equal(t, 2, result.CreatedCount)
	assert.Empty(t, result.Errors)

	keywords, err := f.view.ListKeywords(context.Background(), f.scope, "e1")
	require.NoError(t, err)
	require.Len(t, keywords, 2)
	displayIDs := []string{keywords[0].DisplayID, keywords[1].DisplayID}
	assert.Contains(t, displayIDs, "KW-security")
	assert.Contains(t, displayIDs, "KW-user-experience")

	var securityID string
	for _, k := range keywords {
		if k.Name == "Security" {
			securityID = k.ID
		}
	}
	require.NotEmpty(t, securityID)

	requirements, err := f.view.ListRequirements(context.Background(), f.scope, f.project.ID)
	require.NoError(t, err)
	require.Len(t, requirements, 2)
	for _, r := range requirements {
		switch r.Title {
		case "Login":
			assert.Equal(t, models.RequirementState("approved"), r.State)
			assert.Equal(t, securityID, r.KeywordID)
		case "Theming":
			assert.Equal(t, models.RequirementDraft, r.State)
			assert.Empty(t, r.KeywordID)
		default:
			t.Fatalf("unexpected requirement %q", r.Title)
		}
	}
}

func TestIngestDocumentMatchesByDisplayID(t *testing.T) {
	f := newFixture(t)
	ing := NewRequirementIngester(f.view, logger.Nop())
	ctx := context.Background()

	payload := []byte(`{"requirements": [{"display_id": "ACME-P001-REQ0001", "title": "Login", "description": "v1"}]}`)
	result, err := ing.Ingest(ctx, f.scope, f.project.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)

	// Same display id, different title: updates rather than creating.
	payload = []byte(`{"requirements": [{"display_id": "ACME-P001-REQ0001", "title": "Sign in", "description": "v2"}]}`)
	result, err = ing.Ingest(ctx, f.scope, f.project.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Empty(t, result.Errors)

	requirements, err := f.view.ListRequirements(ctx, f.scope, f.project.ID)
	require.NoError(t, err)
	require.Len(t, requirements, 1)
	assert.Equal(t, "Sign in", requirements[0].Title)
	assert.Equal(t, "v2", requirements[0].Description)
}

func TestIngestRerunSkipsExistingKeywords(t *testing.T) {
	f := newFixture(t)
	ing := NewRequirementIngester(f.view, logger.Nop())
	ctx := context.Background()

	payload := []byte(`{"keywords": [{"name": "Security"}]}`)
	result, err := ing.Ingest(ctx, f.scope, f.project.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, result.KeywordsCreatedCount)

	result, err = ing.Ingest(ctx, f.scope, f.project.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, 0, result.KeywordsCreatedCount)
}

func TestIngestInvalidJSON(t *testing.T) {
	f := newFixture(t)
	ing := NewRequirementIngester(f.view, logger.Nop())

	result, err := ing.Ingest(context.Background(), f.scope, f.project.ID, []byte(`{not json`))
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Invalid JSON")
}

func TestIngestProjectOutOfScope(t *testing.T) {
	f := newFixture(t)
	ing := NewRequirementIngester(f.view, logger.Nop())

	result, err := ing.Ingest(context.Background(), scope.Empty(), f.project.ID, []byte(`[]`))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Project not found or not in scope.", result.Errors[0])
}

func TestSlugFromName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Security", "KW-security"},
		{"User Experience", "KW-user-experience"},
		{"v2.1 Migration", "KW-v2-1-migration"},
		{"Already-Hyphenated", "KW-already-hyphenated"},
		{"weird!@#chars", "KW-weirdchars"},
		{"", "KW-unknown"},
		{"   ", "KW-unknown"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SlugFromName(tc.name), "name %q", tc.name)
	}

	long := SlugFromName("a very long keyword name that keeps going well past the cap on slug length")
	assert.LessOrEqual(t, len(long), len("KW-")+40)
}
