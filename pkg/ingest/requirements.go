package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/view"
)

// RequirementIngester imports requirements into a project from JSON. Two
// payload shapes are accepted: a document with keyword and requirement
// sections, and a legacy bare array of {title, description} items.
type RequirementIngester struct {
	view *view.View
	log  zerolog.Logger
}

func NewRequirementIngester(v *view.View, log zerolog.Logger) *RequirementIngester {
	return &RequirementIngester{view: v, log: log}
}

type requirementDocument struct {
	Keywords     []keywordItem     `json:"keywords"`
	Requirements []requirementItem `json:"requirements"`
}

type keywordItem struct {
	DisplayID string `json:"display_id"`
	Name      string `json:"name"`
}

type requirementItem struct {
	DisplayID           string `json:"display_id"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	State               string `json:"state"`
	CategoryKeywordName string `json:"category_keyword_name"`
}

// Ingest parses the payload and upserts its records into projectID. Records
// match existing requirements by display id when given, by trimmed
// case-insensitive title otherwise, so re-running the same payload updates in
// place instead of duplicating. The returned error is reserved for store
// failures on the up-front reads; per-record failures go into Result.Errors.
func (ing *RequirementIngester) Ingest(ctx context.Context, s scope.Scope, projectID string, payload []byte) (*Result, error) {
	result := newResult()
	ing.log.Info().
		Str("project_id", projectID).
		Int("payload_bytes", len(payload)).
		Msg("requirement ingest started")

	project, err := ing.view.GetProject(ctx, s, projectID)
	if err != nil {
		if scope.IsViolation(err) {
			result.Errors = append(result.Errors, "Project not found or not in scope.")
			return result, nil
		}
		return nil, err
	}
	if project == nil {
		ing.log.Warn().Str("project_id", projectID).Msg("requirement ingest aborted: project not found")
		result.Errors = append(result.Errors, "Project not found or not in scope.")
		return result, nil
	}

	var doc requirementDocument
	if err := json.Unmarshal(payload, &doc); err == nil && (len(doc.Keywords) > 0 || len(doc.Requirements) > 0) {
		ing.log.Info().
			Int("keywords", len(doc.Keywords)).
			Int("requirements", len(doc.Requirements)).
			Msg("requirement ingest: document format")
		return ing.ingestDocument(ctx, s, project, doc, result)
	}

	var items []requirementItem
	if err := json.Unmarshal(payload, &items); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result, nil
	}
	if len(items) == 0 {
		ing.log.Warn().Msg("requirement ingest: no items in payload")
		return result, nil
	}

	ing.log.Info().Int("items", len(items)).Msg("requirement ingest: legacy array format")
	existing, err := ing.view.ListRequirements(ctx, s, project.ID)
	if err != nil {
		return nil, err
	}
	byTitle := requirementsByTitle(existing)

	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			result.Errors = append(result.Errors, "Skipped item with empty title.")
			continue
		}

		requirement := &models.Requirement{
			Title:       title,
			Description: strings.TrimSpace(item.Description),
			State:       models.RequirementDraft,
		}
		prior, isUpdate := byTitle[strings.ToLower(title)]
		if isUpdate {
			requirement.ID = prior.ID
		}

		saved, err := ing.view.UpsertRequirement(ctx, s, project.ID, requirement)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", title, err))
			ing.log.Warn().Err(err).Str("title", title).Msg("requirement ingest item failed")
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
		Msg("requirement ingest completed")
	return result, nil
}

func (ing *RequirementIngester) ingestDocument(ctx context.Context, s scope.Scope, project *models.Project, doc requirementDocument, result *Result) (*Result, error) {
	enterpriseID := project.EnterpriseID

	// Phase 1: ensure a keyword exists per category.
	if len(doc.Keywords) > 0 {
		existing, err := ing.view.ListKeywords(ctx, s, enterpriseID)
		if err != nil {
			return nil, err
		}
		byDisplayID := map[string]bool{}
		for _, k := range existing {
			byDisplayID[strings.ToLower(k.DisplayID)] = true
		}

		for _, kw := range doc.Keywords {
			displayID := strings.TrimSpace(kw.DisplayID)
			name := strings.TrimSpace(kw.Name)
			if displayID == "" {
				displayID = SlugFromName(name)
			}
			if displayID == "" || name == "" {
				continue
			}
			if byDisplayID[strings.ToLower(displayID)] {
				continue
			}

			keyword := &models.Keyword{DisplayID: displayID, Name: name}
			if _, err := ing.view.UpsertKeyword(ctx, s, enterpriseID, keyword); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Keyword '%s': %v", name, err))
				ing.log.Warn().Err(err).Str("name", name).Msg("requirement ingest: keyword creation failed")
				continue
			}
			byDisplayID[strings.ToLower(displayID)] = true
			result.KeywordsCreatedCount++
		}
	}

	// Category-name lookup for linking requirements to keywords. Unresolved
	// names leave the link empty rather than failing the record.
	keywordIDByName := map[string]string{}
	allKeywords, err := ing.view.ListKeywords(ctx, s, enterpriseID)
	if err != nil {
		return nil, err
	}
	for _, k := range allKeywords {
		name := strings.ToLower(strings.TrimSpace(k.Name))
		if name != "" && keywordIDByName[name] == "" {
			keywordIDByName[name] = k.ID
		}
	}

	// Phase 2: upsert requirements, matching by display id then title.
	if len(doc.Requirements) > 0 {
		existing, err := ing.view.ListRequirements(ctx, s, project.ID)
		if err != nil {
			return nil, err
		}
		byDisplayID := map[string]models.Requirement{}
		for _, r := range existing {
			byDisplayID[strings.ToLower(r.DisplayID)] = r
		}
		byTitle := requirementsByTitle(existing)

		for _, item := range doc.Requirements {
			title := strings.TrimSpace(item.Title)
			if title == "" {
				result.Errors = append(result.Errors, "Skipped requirement with empty title.")
				continue
			}

			var prior *models.Requirement
			displayID := strings.TrimSpace(item.DisplayID)
			if displayID != "" {
				if match, ok := byDisplayID[strings.ToLower(displayID)]; ok {
					prior = &match
				}
			} else if match, ok := byTitle[strings.ToLower(title)]; ok {
				prior = &match
			}

			state := models.RequirementState(strings.TrimSpace(item.State))
			if state == "" {
				state = models.RequirementDraft
			}
			requirement := &models.Requirement{
				DisplayID:   displayID,
				Title:       title,
				Description: strings.TrimSpace(item.Description),
				State:       state,
				KeywordID:   keywordIDByName[strings.ToLower(strings.TrimSpace(item.CategoryKeywordName))],
			}
			if prior != nil {
				requirement.ID = prior.ID
			}

			saved, err := ing.view.UpsertRequirement(ctx, s, project.ID, requirement)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", title, err))
				ing.log.Warn().Err(err).Str("title", title).Msg("requirement ingest: requirement failed")
				continue
			}
			if prior == nil {
				result.CreatedCount++
				byDisplayID[strings.ToLower(saved.DisplayID)] = *saved
				byTitle[strings.ToLower(title)] = *saved
			}
		}
	}

	ing.log.Info().
		Int("keywords_created", result.KeywordsCreatedCount).
		Int("requirements_created", result.CreatedCount).
		Int("errors", len(result.Errors)).
		Msg("requirement ingest completed")
	return result, nil
}

func requirementsByTitle(requirements []models.Requirement) map[string]models.Requirement {
	byTitle := map[string]models.Requirement{}
	for _, r := range requirements {
		title := strings.ToLower(strings.TrimSpace(r.Title))
		if title == "" {
			continue
		}
		if _, ok := byTitle[title]; !ok {
			byTitle[title] = r
		}
	}
	return byTitle
}

// SlugFromName derives a keyword display id from a human name: keep letters,
// digits, spaces, dots and hyphens, then join the space/dot separated words
// with hyphens, lowercased and capped at 40 characters after the KW- prefix.
func SlugFromName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "KW-unknown"
	}

	var kept strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '.' || r == '-' {
			kept.WriteRune(r)
		}
	}

	words := strings.FieldsFunc(kept.String(), func(r rune) bool {
		return r == ' ' || r == '.'
	})
	joined := strings.ToLower(strings.Join(words, "-"))
	if len(joined) > 40 {
		joined = joined[:40]
	}
	return "KW-" + joined
}
