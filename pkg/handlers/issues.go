package handlers

import (
	"net/http"
	"strings"

	chiRoute "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"project-mcp-backend/pkg/config"
	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/utils"
	"project-mcp-backend/pkg/view"
)

type IssuesHandler struct {
	config    *config.Config
	view      *view.View
	authority *scope.Authority
	log       zerolog.Logger
}

func NewIssuesHandler(cfg *config.Config, v *view.View, authority *scope.Authority, log zerolog.Logger) *IssuesHandler {
	return &IssuesHandler{config: cfg, view: v, authority: authority, log: log}
}

// GET /api/projects/{id}/issues
func (h *IssuesHandler) List(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	issues, err := h.view.ListIssues(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"issues": issues})
}

// GET /api/issues/{id}
func (h *IssuesHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	issue, err := h.view.GetIssue(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	if issue == nil {
		utils.WriteNotFoundResponse(w, "Issue not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"issue": issue})
}

// POST /api/projects/{id}/issues
func (h *IssuesHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var issue models.Issue
	if err := utils.ParseJSONBody(r, &issue); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(issue.Title) == "" {
		utils.WriteBadRequestResponse(w, "Title required")
		return
	}

	isCreate := issue.ID == ""
	saved, err := h.view.UpsertIssue(r.Context(), s, chiRoute.URLParam(r, "id"), &issue)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"issue": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"issue": saved})
}
