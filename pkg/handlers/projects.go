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

type ProjectsHandler struct {
	config    *config.Config
	view      *view.View
	authority *scope.Authority
	log       zerolog.Logger
}

func NewProjectsHandler(cfg *config.Config, v *view.View, authority *scope.Authority, log zerolog.Logger) *ProjectsHandler {
	return &ProjectsHandler{config: cfg, view: v, authority: authority, log: log}
}

// GET /api/projects
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	projects, err := h.view.ListProjects(r.Context(), s)
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"projects": projects})
}

// GET /api/enterprises/{id}/projects
func (h *ProjectsHandler) ListByEnterprise(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	enterpriseID := chiRoute.URLParam(r, "id")
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		writeViewError(w, err)
		return
	}

	projects, err := h.view.ListProjects(r.Context(), s)
	if err != nil {
		writeViewError(w, err)
		return
	}
	filtered := []models.Project{}
	for _, p := range projects {
		if p.EnterpriseID == enterpriseID {
			filtered = append(filtered, p)
		}
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"projects": filtered})
}

// GET /api/projects/{id}
// The id may be a uuid or a display id qualified with ?enterprise_id=.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	id := chiRoute.URLParam(r, "id")

	var project *models.Project
	if enterpriseID := utils.GetQueryParam(r, "enterprise_id", ""); enterpriseID != "" && !looksLikeUUID(id) {
		project, err = h.view.GetProjectBySlug(r.Context(), s, enterpriseID, id)
	} else {
		project, err = h.view.GetProject(r.Context(), s, id)
	}
	if err != nil {
		writeViewError(w, err)
		return
	}
	if project == nil {
		utils.WriteNotFoundResponse(w, "Project not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"project": project})
}

// POST /api/enterprises/{id}/projects
// Creates when the body has no id, updates otherwise.
func (h *ProjectsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	enterpriseID := chiRoute.URLParam(r, "id")

	var project models.Project
	if err := utils.ParseJSONBody(r, &project); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(project.Name) == "" {
		utils.WriteBadRequestResponse(w, "Name required")
		return
	}

	isCreate := project.ID == ""
	saved, err := h.view.UpsertProject(r.Context(), s, enterpriseID, &project)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"project": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"project": saved})
}

// looksLikeUUID is a cheap shape test to pick the lookup strategy.
func looksLikeUUID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}
