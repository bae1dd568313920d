package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"project-mcp-backend/pkg/config"
	"project-mcp-backend/pkg/database"
	"project-mcp-backend/pkg/utils"
)

// AuthHandler serves token issuance and service health. Real deployments sit
// behind an external OAuth2 provider; the dev token endpoint only exists in
// development so local callers can mint a subject to test scope resolution.
type AuthHandler struct {
	config *config.Config
	db     database.Store
	jwt    *utils.JWTService
	log    zerolog.Logger
}

func NewAuthHandler(cfg *config.Config, db database.Store, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		config: cfg,
		db:     db,
		jwt:    utils.NewJWTService(cfg.JWTSecret),
		log:    log,
	}
}

// GET /
func (h *AuthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "ok"
	if err := h.db.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		dbStatus = err.Error()
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"status":      status,
		"database":    dbStatus,
		"environment": h.config.Environment,
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}

// POST /api/auth/dev-token
// Development only. Issues an access token for an arbitrary subject.
func (h *AuthHandler) DevToken(w http.ResponseWriter, r *http.Request) {
	if !h.config.IsDevelopment() {
		utils.WriteNotFoundResponse(w, "Not found")
		return
	}

	var req struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid body")
		return
	}
	if strings.TrimSpace(req.Sub) == "" {
		utils.WriteBadRequestResponse(w, "sub required")
		return
	}

	token, expiresAt, err := h.jwt.GenerateAccessToken(req.Sub, req.Name, req.Email)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, err.Error())
		return
	}

	h.log.Info().Str("sub", req.Sub).Msg("issued dev token")
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_at":   expiresAt,
	})
}
