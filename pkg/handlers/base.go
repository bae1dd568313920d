// Package handlers exposes the scoped view over HTTP. Every handler resolves
// the caller's scope from the request principal before touching the view.
package handlers

import (
	"net/http"

	"project-mcp-backend/pkg/database"
	"project-mcp-backend/pkg/middleware"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/utils"
	"project-mcp-backend/pkg/view"
)

// resolveScope computes the per-request scope. Requests without a principal
// fall back to the authority's configured defaults or the empty scope.
func resolveScope(r *http.Request, authority *scope.Authority) (scope.Scope, error) {
	var principal scope.Principal
	if claims, ok := middleware.GetPrincipalFromContext(r.Context()); ok && claims != nil {
		principal = claims
	}
	return authority.ScopeFor(r.Context(), principal)
}

// writeViewError maps view and store errors onto the response envelope.
// Scope refusals are 403 so callers can tell them apart from 404s on records
// that do not exist at all.
func writeViewError(w http.ResponseWriter, err error) {
	switch {
	case scope.IsViolation(err):
		utils.WriteScopeViolationResponse(w, err.Error())
	case view.IsNotFound(err):
		utils.WriteNotFoundResponse(w, err.Error())
	case database.IsDuplicateDisplayID(err):
		utils.WriteConflictResponse(w, err.Error())
	default:
		utils.WriteInternalServerErrorResponse(w, err.Error())
	}
}
