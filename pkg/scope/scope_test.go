package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyScope(t *testing.T) {
	s := Empty()

	assert.NotNil(t, s.AllowedEnterpriseIDs)
	assert.NotNil(t, s.AllowedProjectIDs)
	assert.False(t, s.HasEnterprise("e1"))
	assert.False(t, s.HasProject("p1"))
}

func TestHasEnterpriseAndProject(t *testing.T) {
	s := Scope{
		AllowedEnterpriseIDs: []string{"e1", "e2"},
		AllowedProjectIDs:    []string{"p1"},
	}

	assert.True(t, s.HasEnterprise("e1"))
	assert.True(t, s.HasEnterprise("e2"))
	assert.False(t, s.HasEnterprise("e3"))
	assert.True(t, s.HasProject("p1"))
	assert.False(t, s.HasProject("p2"))
}

func TestEnsureEnterprise(t *testing.T) {
	s := Scope{AllowedEnterpriseIDs: []string{"e1"}}

	require.NoError(t, EnsureEnterprise(s, "e1"))

	err := EnsureEnterprise(s, "e2")
	require.Error(t, err)
	assert.True(t, IsViolation(err))
}

func TestEnsureProjectRequiresID(t *testing.T) {
	s := Scope{AllowedProjectIDs: []string{"p1"}}

	require.NoError(t, EnsureProject(s, "p1"))

	err := EnsureProject(s, "")
	require.Error(t, err)
	assert.True(t, IsViolation(err))

	err = EnsureProject(s, "p2")
	require.Error(t, err)
	assert.True(t, IsViolation(err))
}

func TestIsViolation(t *testing.T) {
	assert.True(t, IsViolation(Violationf("project %s is outside the current scope", "p1")))
	assert.True(t, IsViolation(ErrViolation))
	assert.False(t, IsViolation(nil))
	assert.False(t, IsViolation(assert.AnError))
}
