// Package slug allocates human-readable sequential display ids, scoped to an
// owning prefix (e.g. enterprise E001 owns projects E001-P001, E001-P002).
package slug

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EntityType names an entity family with display ids.
type EntityType string

const (
	Project     EntityType = "project"
	WorkItem    EntityType = "work_item"
	Milestone   EntityType = "milestone"
	Release     EntityType = "release"
	Keyword     EntityType = "keyword"
	Issue       EntityType = "issue"
	Standard    EntityType = "standard"
	Requirement EntityType = "requirement"
)

// ErrUnsupportedEntityType is returned when an entity type has no registered
// slug format or no backing collection wired in the store.
var ErrUnsupportedEntityType = errors.New("unsupported entity type")

// format is the fixed (tag, width) pair for one entity family.
type format struct {
	Tag   string
	Width int
}

var formats = map[EntityType]format{
	Project:     {"P", 3},
	WorkItem:    {"WI", 6},
	Milestone:   {"MS", 4},
	Release:     {"REL", 4},
	Keyword:     {"KW", 4},
	Issue:       {"ISS", 4},
	Standard:    {"STD", 4},
	Requirement: {"REQ", 4},
}

// Source exposes the existing display ids for an entity family. A store that
// has no collection wired for the type must return ErrUnsupportedEntityType.
type Source interface {
	DisplayIDs(ctx context.Context, entityType EntityType) ([]string, error)
}

// Allocator computes the next display id for an entity family by scanning the
// ids already present in the store. Numbering is derived, not counted, so it
// stays correct under external manual inserts.
//
// Two concurrent allocations for the same (type, owner) can compute the same
// value; the store's unique index on (owner, display id) is the backstop, and
// callers must treat a uniqueness violation on insert as retryable with a
// fresh allocation.
type Allocator struct {
	source Source
	log    zerolog.Logger
}

// NewAllocator creates an allocator backed by the given display-id source.
func NewAllocator(source Source, log zerolog.Logger) *Allocator {
	return &Allocator{source: source, log: log}
}

// Allocate returns the next unused display id for entityType under ownerSlug.
// An empty ownerSlug yields bare ids like P001; otherwise ids take the form
// <owner>-<tag><index> with the index zero-padded to the configured width.
func (a *Allocator) Allocate(ctx context.Context, entityType EntityType, ownerSlug string) (string, error) {
	f, ok := formats[entityType]
	if !ok {
		a.log.Warn().Str("entity_type", string(entityType)).Msg("slug allocation requested for unsupported entity type")
		return "", fmt.Errorf("%w: %s", ErrUnsupportedEntityType, entityType)
	}

	owner := strings.TrimSpace(ownerSlug)
	baseSlug := f.Tag
	if owner != "" {
		baseSlug = owner + "-" + f.Tag
	}

	displayIDs, err := a.source.DisplayIDs(ctx, entityType)
	if err != nil {
		return "", err
	}

	maxIndex := 0
	for _, id := range displayIDs {
		if !strings.HasPrefix(id, baseSlug) {
			continue
		}
		if n := parseTrailingIndex(id); n > maxIndex {
			maxIndex = n
		}
	}

	allocated := fmt.Sprintf("%s%0*d", baseSlug, f.Width, maxIndex+1)
	a.log.Debug().
		Str("slug", allocated).
		Str("entity_type", string(entityType)).
		Str("owner", owner).
		Msg("allocated slug")
	return allocated, nil
}

// parseTrailingIndex parses the trailing contiguous run of decimal digits of a
// display id. Ids without trailing digits parse as 0.
func parseTrailingIndex(id string) int {
	end := len(id)
	start := end
	for start > 0 && id[start-1] >= '0' && id[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0
	}
	n, err := strconv.Atoi(id[start:end])
	if err != nil {
		return 0
	}
	return n
}
