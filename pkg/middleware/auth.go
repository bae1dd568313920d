package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"project-mcp-backend/pkg/config"
	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/utils"
)

// ContextKey types the keys stored in the request context.
type ContextKey string

const (
	PrincipalContextKey ContextKey = "principal"
)

// AuthMiddleware requires a valid access token and stores its claims as the
// request principal.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, errMsg := principalFromRequest(r, cfg.JWTSecret)
			if claims == nil {
				utils.WriteUnauthorizedResponse(w, errMsg)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware parses the access token when present. Requests
// without a usable token continue anonymously; the scope authority maps the
// missing principal to the empty scope downstream.
func OptionalAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := principalFromRequest(r, cfg.JWTSecret)
			if claims != nil {
				ctx := context.WithValue(r.Context(), PrincipalContextKey, claims)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principalFromRequest(r *http.Request, secret string) (*models.TokenClaims, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, "Missing authorization header"
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, "Invalid authorization header format"
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, "Invalid token: " + err.Error()
	}
	if !token.Valid {
		return nil, "Invalid token"
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok {
		return nil, "Invalid token claims"
	}
	if claims.Type != "access" {
		return nil, "Invalid token type"
	}
	if time.Now().Unix() > claims.Exp {
		return nil, "Token expired"
	}

	return claims, ""
}

// GetPrincipalFromContext returns the request principal, if any.
func GetPrincipalFromContext(ctx context.Context) (*models.TokenClaims, bool) {
	claims, ok := ctx.Value(PrincipalContextKey).(*models.TokenClaims)
	return claims, ok
}

// RequirePrincipal fails when the request carries no authenticated principal.
func RequirePrincipal(ctx context.Context) (*models.TokenClaims, error) {
	claims, ok := GetPrincipalFromContext(ctx)
	if !ok || claims == nil {
		return nil, fmt.Errorf("principal not authenticated")
	}
	return claims, nil
}
