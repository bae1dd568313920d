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

// CatalogHandler serves the enterprise catalog: domains, systems and assets.
type CatalogHandler struct {
	config    *config.Config
	view      *view.View
	authority *scope.Authority
	log       zerolog.Logger
}

func NewCatalogHandler(cfg *config.Config, v *view.View, authority *scope.Authority, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{config: cfg, view: v, authority: authority, log: log}
}

// GET /api/enterprises/{id}/domains
func (h *CatalogHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	domains, err := h.view.ListDomains(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"domains": domains})
}

// POST /api/enterprises/{id}/domains
func (h *CatalogHandler) UpsertDomain(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var domain models.Domain
	if err := utils.ParseJSONBody(r, &domain); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(domain.Name) == "" {
		utils.WriteBadRequestResponse(w, "Name required")
		return
	}

	isCreate := domain.ID == ""
	saved, err := h.view.UpsertDomain(r.Context(), s, chiRoute.URLParam(r, "id"), &domain)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"domain": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"domain": saved})
}

// GET /api/enterprises/{id}/systems
func (h *CatalogHandler) ListSystems(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	systems, err := h.view.ListSystems(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"systems": systems})
}

// POST /api/enterprises/{id}/systems
func (h *CatalogHandler) UpsertSystem(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var system models.SystemEntity
	if err := utils.ParseJSONBody(r, &system); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(system.Name) == "" {
		utils.WriteBadRequestResponse(w, "Name required")
		return
	}

	isCreate := system.ID == ""
	saved, err := h.view.UpsertSystem(r.Context(), s, chiRoute.URLParam(r, "id"), &system)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"system": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"system": saved})
}

// GET /api/enterprises/{id}/assets
func (h *CatalogHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	assets, err := h.view.ListAssets(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"assets": assets})
}

// POST /api/enterprises/{id}/assets
func (h *CatalogHandler) UpsertAsset(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var asset models.Asset
	if err := utils.ParseJSONBody(r, &asset); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(asset.Name) == "" {
		utils.WriteBadRequestResponse(w, "Name required")
		return
	}

	isCreate := asset.ID == ""
	saved, err := h.view.UpsertAsset(r.Context(), s, chiRoute.URLParam(r, "id"), &asset)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"asset": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"asset": saved})
}
