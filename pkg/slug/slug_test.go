package slug

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-mcp-backend/pkg/logger"
)

type staticSource map[EntityType][]string

func (s staticSource) DisplayIDs(_ context.Context, entityType EntityType) ([]string, error) {
	ids, ok := s[entityType]
	if !ok {
		return nil, ErrUnsupportedEntityType
	}
	return ids, nil
}

func TestAllocateFirstID(t *testing.T) {
	alloc := NewAllocator(staticSource{Project: nil}, logger.Nop())

	id, err := alloc.Allocate(context.Background(), Project, "")
	require.NoError(t, err)
	assert.Equal(t, "P001", id)
}

func TestAllocateWithOwnerPrefix(t *testing.T) {
	source := staticSource{
		Project: {"ACME-P001", "ACME-P010", "OTHER-P050"},
	}
	alloc := NewAllocator(source, logger.Nop())

	id, err := alloc.Allocate(context.Background(), Project, "ACME")
	require.NoError(t, err)
	assert.Equal(t, "ACME-P011", id)
}

func TestAllocateIgnoresOtherOwners(t *testing.T) {
	source := staticSource{
		WorkItem: {"OTHER-WI000042"},
	}
	alloc := NewAllocator(source, logger.Nop())

	id, err := alloc.Allocate(context.Background(), WorkItem, "ACME-P001")
	require.NoError(t, err)
	assert.Equal(t, "ACME-P001-WI000001", id)
}

func TestAllocateSurvivesGaps(t *testing.T) {
	source := staticSource{
		Requirement: {"ACME-P001-REQ0001", "ACME-P001-REQ0007", "ACME-P001-REQ0003"},
	}
	alloc := NewAllocator(source, logger.Nop())

	id, err := alloc.Allocate(context.Background(), Requirement, "ACME-P001")
	require.NoError(t, err)
	assert.Equal(t, "ACME-P001-REQ0008", id)
}

func TestAllocateZeroPadding(t *testing.T) {
	cases := []struct {
		entityType EntityType
		want       string
	}{
		{Project, "E-P001"},
		{WorkItem, "E-WI000001"},
		{Milestone, "E-MS0001"},
		{Release, "E-REL0001"},
		{Keyword, "E-KW0001"},
		{Issue, "E-ISS0001"},
		{Standard, "E-STD0001"},
		{Requirement, "E-REQ0001"},
	}
	for _, tc := range cases {
		source := staticSource{tc.entityType: nil}
		alloc := NewAllocator(source, logger.Nop())

		id, err := alloc.Allocate(context.Background(), tc.entityType, "E")
		require.NoError(t, err)
		assert.Equal(t, tc.want, id)
	}
}

func TestAllocateTrimsOwner(t *testing.T) {
	alloc := NewAllocator(staticSource{Issue: nil}, logger.Nop())

	id, err := alloc.Allocate(context.Background(), Issue, "  ACME  ")
	require.NoError(t, err)
	assert.Equal(t, "ACME-ISS0001", id)
}

func TestAllocateUnsupportedType(t *testing.T) {
	alloc := NewAllocator(staticSource{}, logger.Nop())

	_, err := alloc.Allocate(context.Background(), EntityType("enterprise"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedEntityType)
}

func TestParseTrailingIndex(t *testing.T) {
	assert.Equal(t, 42, parseTrailingIndex("ACME-P042"))
	assert.Equal(t, 0, parseTrailingIndex("ACME-P"))
	assert.Equal(t, 7, parseTrailingIndex("7"))
	assert.Equal(t, 0, parseTrailingIndex(""))
}
