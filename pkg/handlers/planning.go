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

// PlanningHandler serves milestones and releases.
type PlanningHandler struct {
	config    *config.Config
	view      *view.View
	authority *scope.Authority
	log       zerolog.Logger
}

func NewPlanningHandler(cfg *config.Config, v *view.View, authority *scope.Authority, log zerolog.Logger) *PlanningHandler {
	return &PlanningHandler{config: cfg, view: v, authority: authority, log: log}
}

// GET /api/enterprises/{id}/milestones
func (h *PlanningHandler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	milestones, err := h.view.ListMilestones(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"milestones": milestones})
}

// GET /api/milestones/{id}
func (h *PlanningHandler) GetMilestone(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	milestone, err := h.view.GetMilestone(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	if milestone == nil {
		utils.WriteNotFoundResponse(w, "Milestone not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"milestone": milestone})
}

// POST /api/enterprises/{id}/milestones
func (h *PlanningHandler) UpsertMilestone(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var milestone models.Milestone
	if err := utils.ParseJSONBody(r, &milestone); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(milestone.Title) == "" {
		utils.WriteBadRequestResponse(w, "Title required")
		return
	}

	isCreate := milestone.ID == ""
	saved, err := h.view.UpsertMilestone(r.Context(), s, chiRoute.URLParam(r, "id"), &milestone)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"milestone": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"milestone": saved})
}

// GET /api/projects/{id}/releases
func (h *PlanningHandler) ListReleases(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	releases, err := h.view.ListReleases(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"releases": releases})
}

// GET /api/releases/{id}
func (h *PlanningHandler) GetRelease(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	release, err := h.view.GetRelease(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	if release == nil {
		utils.WriteNotFoundResponse(w, "Release not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"release": release})
}

// POST /api/projects/{id}/releases
func (h *PlanningHandler) UpsertRelease(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var release models.Release
	if err := utils.ParseJSONBody(r, &release); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(release.Name) == "" {
		utils.WriteBadRequestResponse(w, "Name required")
		return
	}

	isCreate := release.ID == ""
	saved, err := h.view.UpsertRelease(r.Context(), s, chiRoute.URLParam(r, "id"), &release)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"release": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"release": saved})
}
