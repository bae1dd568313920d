package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-mcp-backend/pkg/logger"
	"project-mcp-backend/pkg/scope"
)

func TestStandardIngest(t *testing.T) {
	f := newFixture(t)
	ing := NewStandardIngester(f.view, logger.Nop())
	ctx := context.Background()

	payload := []byte(`[
		{"title": "Code Review", "description": "Every change is reviewed"},
		{"title": "", "description": "no title"},
		{"title": "Branch Naming", "description": "feature/, fix/ prefixes"}
	]`)

	result, err := ing.Ingest(ctx, f.scope, "e1", "", payload)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Skipped item with empty title.", result.Errors[0])

	standards, err := f.view.ListStandards(ctx, f.scope, "e1")
	require.NoError(t, err)
	assert.Len(t, standards, 2)
	for _, st := range standards {
		assert.NotEmpty(t, st.DisplayID)
		assert.Empty(t, st.ProjectID)
	}
}

func TestStandardIngestIsIdempotentByTitle(t *testing.T) {
	f := newFixture(t)
	ing := NewStandardIngester(f.view, logger.Nop())
	ctx := context.Background()

	result, err := ing.Ingest(ctx, f.scope, "e1", f.project.ID,
		[]byte(`[{"title": "Code Review", "description": "v1"}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)

	// Rerun without a project link: updates in place and keeps the link.
	result, err = ing.Ingest(ctx, f.scope, "e1", "",
		[]byte(`[{"title": "code review", "description": "v2"}]`))
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Empty(t, result.Errors)

	standards, err := f.view.ListStandards(ctx, f.scope, "e1")
	require.NoError(t, err)
	require.Len(t, standards, 1)
	assert.Equal(t, "v2", standards[0].Description)
	assert.Equal(t, f.project.ID, standards[0].ProjectID)
}

func TestStandardIngestEnterpriseOutOfScope(t *testing.T) {
	f := newFixture(t)
	ing := NewStandardIngester(f.view, logger.Nop())

	result, err := ing.Ingest(context.Background(), scope.Empty(), "e1", "", []byte(`[]`))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Enterprise not found or not in scope.", result.Errors[0])
}

func TestStandardIngestProjectOutOfScope(t *testing.T) {
	f := newFixture(t)
	ing := NewStandardIngester(f.view, logger.Nop())

	result, err := ing.Ingest(context.Background(), f.scope, "e1", "p-outside", []byte(`[]`))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Project not in scope.", result.Errors[0])
}

func TestStandardIngestInvalidJSON(t *testing.T) {
	f := newFixture(t)
	ing := NewStandardIngester(f.view, logger.Nop())

	result, err := ing.Ingest(context.Background(), f.scope, "e1", "", []byte(`not json`))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Invalid JSON")
}
