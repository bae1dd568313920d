package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-mcp-backend/pkg/config"
	"project-mcp-backend/pkg/database"
	"project-mcp-backend/pkg/logger"
	"project-mcp-backend/pkg/middleware"
	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/slug"
	"project-mcp-backend/pkg/view"
)

func newEnterprisesHandler() *EnterprisesHandler {
	store := database.NewMemoryStore()
	v := view.NewView(store, slug.NewAllocator(store, logger.Nop()), logger.Nop())
	authority := scope.NewAuthority(store, logger.Nop())
	return NewEnterprisesHandler(&config.Config{}, v, authority, logger.Nop())
}

func createRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/api/enterprises", strings.NewReader(body))
}

func withPrincipal(r *http.Request) *http.Request {
	claims := &models.TokenClaims{Sub: "sub-1", Type: "access"}
	return r.WithContext(context.WithValue(r.Context(), middleware.PrincipalContextKey, claims))
}

func TestCreateEnterpriseRequiresPrincipal(t *testing.T) {
	h := newEnterprisesHandler()

	rec := httptest.NewRecorder()
	h.Create(rec, createRequest(`{"display_id": "ACME", "name": "Acme"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateEnterprise(t *testing.T) {
	h := newEnterprisesHandler()

	rec := httptest.NewRecorder()
	h.Create(rec, withPrincipal(createRequest(`{"display_id": "ACME", "name": "Acme"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display_id":"ACME"`)
}

func TestCreateEnterpriseValidatesBody(t *testing.T) {
	h := newEnterprisesHandler()

	rec := httptest.NewRecorder()
	h.Create(rec, withPrincipal(createRequest(`{"name": "No display id"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
