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

type StandardsHandler struct {
	config    *config.Config
	view      *view.View
	authority *scope.Authority
	ingester  *ingest.StandardIngester
	log       zerolog.Logger
}

func NewStandardsHandler(cfg *config.Config, v *view.View, authority *scope.Authority, ingester *ingest.StandardIngester, log zerolog.Logger) *StandardsHandler {
	return &StandardsHandler{config: cfg, view: v, authority: authority, ingester: ingester, log: log}
}

// GET /api/enterprises/{id}/standards
func (h *StandardsHandler) ListByEnterprise(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	standards, err := h.view.ListStandards(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"standards": standards})
}

// GET /api/projects/{id}/standards
func (h *StandardsHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	standards, err := h.view.ListStandardsByProject(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"standards": standards})
}

// GET /api/standards/{id}
func (h *StandardsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	standard, err := h.view.GetStandard(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	if standard == nil {
		utils.WriteNotFoundResponse(w, "Standard not found")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"standard": standard})
}

// POST /api/enterprises/{id}/standards
func (h *StandardsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}

	var standard models.Standard
	if err := utils.ParseJSONBody(r, &standard); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(standard.Title) == "" {
		utils.WriteBadRequestResponse(w, "Title required")
		return
	}

	isCreate := standard.ID == ""
	saved, err := h.view.UpsertStandard(r.Context(), s, chiRoute.URLParam(r, "id"), &standard)
	if err != nil {
		writeViewError(w, err)
		return
	}
	if isCreate {
		utils.WriteCreatedResponse(w, map[string]interface{}{"standard": saved})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"standard": saved})
}

// POST /api/enterprises/{id}/standards/ingest?project_id=
// Body is a JSON array of {title, description}.
func (h *StandardsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
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

	enterpriseID := chiRoute.URLParam(r, "id")
	projectID := utils.GetQueryParam(r, "project_id", "")
	result, err := h.ingester.Ingest(r.Context(), s, enterpriseID, projectID, payload)
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, result)
}
