package handlers

import (
	"net/http"
	"strings"

	chiRoute "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"project-mcp-backend/pkg/config"
	"project-mcp-backend/pkg/middleware"
	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/utils"
	"project-mcp-backend/pkg/view"
)

// ResourcesHandler serves resources, project membership and scope
// introspection.
type ResourcesHandler struct {
	config    *config.Config
	view      *view.View
	authority *scope.Authority
	log       zerolog.Logger
}

func NewResourcesHandler(cfg *config.Config, v *view.View, authority *scope.Authority, log zerolog.Logger) *ResourcesHandler {
	return &ResourcesHandler{config: cfg, view: v, authority: authority, log: log}
}

// GET /api/scope
// Returns the caller's resolved scope and resource, mainly for debugging
// access questions ("why can't I see project X").
func (h *ResourcesHandler) GetScope(w http.ResponseWriter, r *http.Request) {
	var principal scope.Principal
	if claims, ok := middleware.GetPrincipalFromContext(r.Context()); ok && claims != nil {
		principal = claims
	}

	resource, err := h.authority.ResolveResource(r.Context(), principal)
	if err != nil {
		writeViewError(w, err)
		return
	}

	s := scope.Empty()
	if resource != nil {
		s, err = h.authority.ComputeScope(r.Context(), resource)
		if err != nil {
			writeViewError(w, err)
			return
		}
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"scope":    s,
		"resource": resource,
	})
}

// GET /api/enterprises/{id}/resources
func (h *ResourcesHandler) List(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	resources, err := h.view.ListResources(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"resources": resources})
}

// GET /api/resources/{id}
func (h *ResourcesHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	resource, err := h.view.GetResource(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	if resource == nil {
		utils.WriteNotFoundResponse(w, "Resource not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"resource": resource})
}

// POST /api/enterprises/{id}/resources
func (h *ResourcesHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var resource models.Resource
	if err := utils.ParseJSONBody(r, &resource); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(resource.Name) == "" {
		utils.WriteBadRequestResponse(w, "Name required")
		return
	}

	isCreate := resource.ID == ""
	saved, err := h.view.UpsertResource(r.Context(), s, chiRoute.URLParam(r, "id"), &resource)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"resource": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"resource": saved})
}

// POST /api/projects/{id}/members
func (h *ResourcesHandler) GrantMembership(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var req struct {
		ResourceID string `json:"resource_id"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(req.ResourceID) == "" {
		utils.WriteBadRequestResponse(w, "resource_id required")
		return
	}

	projectID := chiRoute.URLParam(r, "id")
	if err := h.view.GrantProjectMembership(r.Context(), s, projectID, req.ResourceID); err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"project_id":  projectID,
		"resource_id": req.ResourceID,
	})
}
