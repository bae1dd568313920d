package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/view"
)

// StandardIngester imports enterprise standards from a JSON array of
// {title, description} items, optionally linking each to a project.
type StandardIngester struct {
	view *view.View
	log  zerolog.Logger
}

func NewStandardIngester(v *view.View, log zerolog.Logger) *StandardIngester {
	return &StandardIngester{view: v, log: log}
}

type standardItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Ingest upserts the payload's standards under enterpriseID. Items match
// existing standards by trimmed case-insensitive title, so repeating a run
// updates descriptions in place instead of accumulating duplicates. An empty
// projectID leaves the standards enterprise-wide.
func (ing *StandardIngester) Ingest(ctx context.Context, s scope.Scope, enterpriseID, projectID string, payload []byte) (*Result, error) {
	result := newResult()
	ing.log.Info().
		Str("enterprise_id", enterpriseID).
		Str("project_id", projectID).
		Int("payload_bytes", len(payload)).
		Msg("standard ingest started")

	enterprise, err := ing.view.GetEnterprise(ctx, s, enterpriseID)
	if err != nil {
		if scope.IsViolation(err) {
			result.Errors = append(result.Errors, "Enterprise not found or not in scope.")
			return result, nil
		}
		return nil, err
	}
	if enterprise == nil {
		ing.log.Warn().Str("enterprise_id", enterpriseID).Msg("standard ingest aborted: enterprise not found")
		result.Errors = append(result.Errors, "Enterprise not found or not in scope.")
		return result, nil
	}

	if projectID != "" && !s.HasProject(projectID) {
		ing.log.Warn().Str("project_id", projectID).Msg("standard ingest aborted: project not in scope")
		result.Errors = append(result.Errors, "Project not in scope.")
		return result, nil
	}

	var items []standardItem
	if err := json.Unmarshal(payload, &items); err != nil {
		ing.log.Warn().Err(err).Msg("standard ingest: invalid JSON")
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result, nil
	}
	if len(items) == 0 {
		ing.log.Warn().Msg("standard ingest: no items in payload")
		return result, nil
	}

	existing, err := ing.view.ListStandards(ctx, s, enterpriseID)
	if err != nil {
		return nil, err
	}
	byTitle := map[string]models.Standard{}
	for _, st := range existing {
		title := strings.ToLower(strings.TrimSpace(st.Title))
		if title == "" {
			continue
		}
		if _, ok := byTitle[title]; !ok {
			byTitle[title] = st
		}
	}

	ing.log.Info().Int("items", len(items)).Msg("standard ingest: processing")
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			result.Errors = append(result.Errors, "Skipped item with empty title.")
			continue
		}

		standard := &models.Standard{
			ProjectID:   projectID,
			Title:       title,
			Description: strings.TrimSpace(item.Description),
		}
		prior, isUpdate := byTitle[strings.ToLower(title)]
		if isUpdate {
			standard.ID = prior.ID
			if standard.ProjectID == "" {
				standard.ProjectID = prior.ProjectID
			}
		}

		saved, err := ing.view.UpsertStandard(ctx, s, enterpriseID, standard)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", title, err))
			ing.log.Warn().Err(err).Str("title", title).Msg("standard ingest item failed")
			continue
		}
		if !isUpdate {
			result.CreatedCount++
			byTitle[strings.ToLower(title)] = *saved
		}
	}

	ing.log.Info().
		Int("created", result.CreatedCount).
		Int("errors", len(result.Errors)).
		Msg("standard ingest completed")
	return result, nil
}
