package handlers

import (
	"net/http"

	chiRoute "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"project-mcp-backend/pkg/config"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/utils"
	"project-mcp-backend/pkg/view"
)

type ReportsHandler struct {
	config    *config.Config
	view      *view.View
	authority *scope.Authority
	log       zerolog.Logger
}

func NewReportsHandler(cfg *config.Config, v *view.View, authority *scope.Authority, log zerolog.Logger) *ReportsHandler {
	return &ReportsHandler{config: cfg, view: v, authority: authority, log: log}
}

// GET /api/search?q=term
func (h *ReportsHandler) Search(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	results, err := h.view.Search(r.Context(), s, utils.GetQueryParam(r, "q", ""))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"results": results})
}

// GET /api/reports/projects
func (h *ReportsHandler) ProjectSummaries(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	summaries, err := h.view.ProjectSummaries(r.Context(), s)
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"summaries": summaries})
}

// GET /api/projects/{id}/gantt
func (h *ReportsHandler) Gantt(w http.ResponseWriter, r *http.Request) {
	s, err := resolveScope(r, h.authority)
	if err != nil {
		writeViewError(w, err)
		return
	}
	items, err := h.view.GanttItems(r.Context(), s, chiRoute.URLParam(r, "id"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"items": items})
}
