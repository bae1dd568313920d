package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-mcp-backend/pkg/logger"
	"project-mcp-backend/pkg/models"
)

type fakeDirectory struct {
	resources   map[string]*models.Resource
	bySubject   map[string]*models.Resource
	enterprises map[string][]string
	projects    map[string][]string
}

func (d *fakeDirectory) GetResource(_ context.Context, id string) (*models.Resource, error) {
	return d.resources[id], nil
}

func (d *fakeDirectory) ResolveResourceBySubject(_ context.Context, oauth2Sub string) (*models.Resource, error) {
	return d.bySubject[oauth2Sub], nil
}

func (d *fakeDirectory) ScopeForResource(_ context.Context, resourceID string) ([]string, []string, error) {
	return d.enterprises[resourceID], d.projects[resourceID], nil
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		resources:   map[string]*models.Resource{},
		bySubject:   map[string]*models.Resource{},
		enterprises: map[string][]string{},
		projects:    map[string][]string{},
	}
}

func TestScopeForUnresolvablePrincipal(t *testing.T) {
	authority := NewAuthority(newFakeDirectory(), logger.Nop())

	s, err := authority.ScopeFor(context.Background(), &models.TokenClaims{Sub: "unknown"})
	require.NoError(t, err)
	assert.Equal(t, Empty(), s)
}

func TestScopeForNilPrincipal(t *testing.T) {
	authority := NewAuthority(newFakeDirectory(), logger.Nop())

	s, err := authority.ScopeFor(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Empty(), s)
}

func TestScopeForResolvedSubject(t *testing.T) {
	dir := newFakeDirectory()
	resource := &models.Resource{ID: "r1", EnterpriseID: "e1", OAuth2Sub: "sub-1"}
	dir.bySubject["sub-1"] = resource
	dir.enterprises["r1"] = []string{"e1"}
	dir.projects["r1"] = []string{"p1", "p2"}

	authority := NewAuthority(dir, logger.Nop())

	s, err := authority.ScopeFor(context.Background(), &models.TokenClaims{Sub: "sub-1"})
	require.NoError(t, err)
	assert.Equal(t, "r1", s.CurrentResourceID)
	assert.Equal(t, []string{"e1"}, s.AllowedEnterpriseIDs)
	assert.Equal(t, []string{"p1", "p2"}, s.AllowedProjectIDs)
}

func TestResolveResourceFallbackOrder(t *testing.T) {
	dir := newFakeDirectory()
	byID := &models.Resource{ID: "r-default"}
	bySub := &models.Resource{ID: "r-sub"}
	dir.resources["r-default"] = byID
	dir.bySubject["fallback-sub"] = bySub

	authority := NewAuthority(dir, logger.Nop())
	authority.DefaultResourceID = "r-default"
	authority.DefaultOAuth2Sub = "fallback-sub"

	// Default resource id wins over the default subject.
	resource, err := authority.ResolveResource(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, resource)
	assert.Equal(t, "r-default", resource.ID)

	// With no default resource the default subject resolves.
	authority.DefaultResourceID = ""
	resource, err = authority.ResolveResource(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, resource)
	assert.Equal(t, "r-sub", resource.ID)
}

func TestResolveResourcePrincipalBeatsDefaults(t *testing.T) {
	dir := newFakeDirectory()
	dir.bySubject["sub-1"] = &models.Resource{ID: "r1"}
	dir.resources["r-default"] = &models.Resource{ID: "r-default"}

	authority := NewAuthority(dir, logger.Nop())
	authority.DefaultResourceID = "r-default"

	resource, err := authority.ResolveResource(context.Background(), &models.TokenClaims{Sub: "sub-1"})
	require.NoError(t, err)
	require.NotNil(t, resource)
	assert.Equal(t, "r1", resource.ID)
}

func TestComputeScopeNormalizesNilSlices(t *testing.T) {
	dir := newFakeDirectory()
	authority := NewAuthority(dir, logger.Nop())

	s, err := authority.ComputeScope(context.Background(), &models.Resource{ID: "r1"})
	require.NoError(t, err)
	assert.NotNil(t, s.AllowedEnterpriseIDs)
	assert.NotNil(t, s.AllowedProjectIDs)
	assert.Equal(t, "r1", s.CurrentResourceID)
}
