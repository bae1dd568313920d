package handlers

import (
	"io"
	"net/http"
	"strings"

	chiRoute "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"project-mcp-backend/pkg/config"
	"project-mcp-backend/pkg/ingest"
	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/utils"
	"project-mcp-backend/pkg/view"
)

// RequirementsHandler serves requirements, keywords and requirement ingest.
type RequirementsHandler struct {
	config    *config.Config
	view      *view.View
	authority *scope.Authority
	ingester  *ingest.RequirementIngester
	log       zerolog.Logger
}

func NewRequirementsHandler(cfg *config.Config, v *view.View, authority *scope.Authority, ingester *ingest.RequirementIngester, log zerolog.Logger) *RequirementsHandler {
	return &RequirementsHandler{config: cfg, view: v, authority: authority, ingester: ingester, log: log}
}

// GET /api/projects/{id}/requirements
func (h *RequirementsHandler) List(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	requirements, err := h.view.ListRequirements(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"requirements": requirements})
}

// GET /api/requirements/{id}
func (h *RequirementsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	requirement, err := h.view.GetRequirement(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	if requirement == nil {
		utils.WriteNotFoundResponse(w, "Requirement not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"requirement": requirement})
}

// POST /api/projects/{id}/requirements
func (h *RequirementsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var requirement models.Requirement
	if err := utils.ParseJSONBody(r, &requirement); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(requirement.Title) == "" {
		utils.WriteBadRequestResponse(w, "Title required")
		return
	}

	isCreate := requirement.ID == ""
	saved, err := h.view.UpsertRequirement(r.Context(), s, chiRoute.URLParam(r, "id"), &requirement)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"requirement": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"requirement": saved})
}

// POST /api/projects/{id}/requirements/ingest
// Body is the raw ingest payload (document or legacy array form).
func (h *RequirementsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteBadRequestResponse(w, "Failed to read body")
		return
	}
	defer r.Body.Close()

	result, err := h.ingester.Ingest(r.Context(), s, chiRoute.URLParam(r, "id"), payload)
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, result)
}

// GET /api/enterprises/{id}/keywords
func (h *RequirementsHandler) ListKeywords(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	keywords, err := h.view.ListKeywords(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"keywords": keywords})
}

// GET /api/keywords/{id}
func (h *RequirementsHandler) GetKeyword(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	keyword, err := h.view.GetKeyword(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	if keyword == nil {
		utils.WriteNotFoundResponse(w, "Keyword not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"keyword": keyword})
}

// POST /api/enterprises/{id}/keywords
func (h *RequirementsHandler) UpsertKeyword(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var keyword models.Keyword
	if err := utils.ParseJSONBody(r, &keyword); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(keyword.Name) == "" {
		utils.WriteBadRequestResponse(w, "Name required")
		return
	}

	isCreate := keyword.ID == ""
	saved, err := h.view.UpsertKeyword(r.Context(), s, chiRoute.URLParam(r, "id"), &keyword)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"keyword": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"keyword": saved})
}
