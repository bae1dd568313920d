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

type EnterprisesHandler struct {
	config    *config.Config
	view      *view.View
	authority *scope.Authority
	log       zerolog.Logger
}

func NewEnterprisesHandler(cfg *config.Config, v *view.View, authority *scope.Authority, log zerolog.Logger) *EnterprisesHandler {
	return &EnterprisesHandler{config: cfg, view: v, authority: authority, log: log}
}

// GET /api/enterprises
func (h *EnterprisesHandler) List(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	enterprises, err := h.view.ListEnterprises(r.Context(), s)
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"enterprises": enterprises})
}

// POST /api/enterprises
//
// Provisioning has no scope check (a new enterprise is in nobody's scope), so
// it is the one endpoint that insists on an authenticated caller.
func (h *EnterprisesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequirePrincipal(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var req struct {
		DisplayID   string `json:"display_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	displayID := strings.TrimSpace(req.DisplayID)
	name := strings.TrimSpace(req.Name)
	if displayID == "" || name == "" {
		utils.WriteBadRequestResponse(w, "display_id and name are required")
		return
	}

	enterprise, err := h.view.ProvisionEnterprise(r.Context(), &models.Enterprise{
		DisplayID:   displayID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, map[string]interface{}{"enterprise": enterprise})
}

// GET /api/enterprises/{id}
func (h *EnterprisesHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	id := chiRoute.URLParam(r, "id")
	enterprise, err := h.view.GetEnterprise(r.Context(), s, id)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if enterprise == nil {
		utils.WriteNotFoundResponse(w, "Enterprise not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"enterprise": enterprise})
}

// PUT /api/enterprises/{id}
func (h *EnterprisesHandler) Update(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	id := chiRoute.URLParam(r, "id")

	if err := scope.EnsureEnterprise(s, id); err != nil {
		writeViewError(w, err)
		return
	}
	existing, err := h.view.GetEnterprise(r.Context(), s, id)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if existing == nil {
		utils.WriteNotFoundResponse(w, "Enterprise not found")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(req.Name) != "" {
		existing.Name = strings.TrimSpace(req.Name)
	}
	if strings.TrimSpace(req.Description) != "" {
		existing.Description = strings.TrimSpace(req.Description)
	}

	updated, err := h.view.UpdateEnterprise(r.Context(), s, existing)
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"enterprise": updated})
}
