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

type WorkItemsHandler struct {
	config    *config.Config
	view      *view.View
	authority *scope.Authority
	log       zerolog.Logger
}

func NewWorkItemsHandler(cfg *config.Config, v *view.View, authority *scope.Authority, log zerolog.Logger) *WorkItemsHandler {
	return &WorkItemsHandler{config: cfg, view: v, authority: authority, log: log}
}

// GET /api/workitems?project_id=&parent_id=&level=&status=&milestone_id=&resource_id=
// Without project_id the scope's single project is assumed when unambiguous.
func (h *WorkItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	filter := models.WorkItemFilter{
		ProjectID:   utils.GetQueryParam(r, "project_id", ""),
		ParentID:    utils.GetQueryParam(r, "parent_id", ""),
		Level:       models.WorkItemLevel(utils.GetQueryParam(r, "level", "")),
		Status:      models.WorkItemStatus(utils.GetQueryParam(r, "status", "")),
		MilestoneID: utils.GetQueryParam(r, "milestone_id", ""),
		ResourceID:  utils.GetQueryParam(r, "resource_id", ""),
	}

	items, err := h.view.ListWorkItems(r.Context(), s, filter)
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"work_items": items})
}

// GET /api/workitems/{id}
func (h *WorkItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	id := chiRoute.URLParam(r, "id")
	item, err := h.view.GetWorkItem(r.Context(), s, id)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if item == nil {
		utils.WriteNotFoundResponse(w, "Work item not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"work_item": item})
}

// POST /api/projects/{id}/workitems
func (h *WorkItemsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	projectID := chiRoute.URLParam(r, "id")

	var item models.WorkItem
	if err := utils.ParseJSONBody(r, &item); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(item.Title) == "" {
		utils.WriteBadRequestResponse(w, "Title required")
		return
	}

	isCreate := item.ID == ""
	saved, err := h.view.UpsertWorkItem(r.Context(), s, projectID, &item)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"work_item": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"work_item": saved})
}

// DELETE /api/workitems/{id}
func (h *WorkItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	id := chiRoute.URLParam(r, "id")
	deleted, err := h.view.DeleteWorkItem(r.Context(), s, id)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if !deleted {
		utils.WriteNotFoundResponse(w, "Work item not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"deleted": true})
}
