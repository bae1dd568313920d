package scope

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"project-mcp-backend/pkg/models"
)

// Principal is an opaque claims-bearing identity. JWT claims satisfy it.
type Principal interface {
	GetSubject() (string, error)
}

// Directory is the slice of the store the authority needs: resource lookup and
// the membership join.
type Directory interface {
	GetResource(ctx context.Context, id string) (*models.Resource, error)
	ResolveResourceBySubject(ctx context.Context, oauth2Sub string) (*models.Resource, error)
	ScopeForResource(ctx context.Context, resourceID string) (enterpriseIDs []string, projectIDs []string, err error)
}

// Authority maps a principal to a Scope. Resolution goes through the database
// only; OAuth scope claims on the token are never trusted.
type Authority struct {
	dir Directory
	log zerolog.Logger

	// Optional fallbacks for callers without a resolvable identity.
	DefaultResourceID string
	DefaultOAuth2Sub  string
}

// NewAuthority creates a scope authority over the given directory.
func NewAuthority(dir Directory, log zerolog.Logger) *Authority {
	return &Authority{dir: dir, log: log}
}

// ScopeFor resolves the principal to a resource and computes its scope. An
// unresolvable principal yields the empty scope, not an error.
func (a *Authority) ScopeFor(ctx context.Context, principal Principal) (Scope, error) {
	resource, err := a.ResolveResource(ctx, principal)
	if err != nil {
		return Scope{}, err
	}
	if resource == nil {
		return Empty(), nil
	}
	return a.ComputeScope(ctx, resource)
}

// ResolveResource tries, in order: the principal's OAuth2 subject, the
// configured default resource id, the configured default subject. Each step is
// independent; the first success wins. Returns nil when nothing resolves.
func (a *Authority) ResolveResource(ctx context.Context, principal Principal) (*models.Resource, error) {
	if principal != nil {
		subject, err := principal.GetSubject()
		if err == nil && strings.TrimSpace(subject) != "" {
			resource, err := a.dir.ResolveResourceBySubject(ctx, subject)
			if err != nil {
				return nil, err
			}
			if resource != nil {
				return resource, nil
			}
		}
	}

	if a.DefaultResourceID != "" {
		resource, err := a.dir.GetResource(ctx, a.DefaultResourceID)
		if err != nil {
			return nil, err
		}
		if resource != nil {
			return resource, nil
		}
	}

	if a.DefaultOAuth2Sub != "" {
		resource, err := a.dir.ResolveResourceBySubject(ctx, a.DefaultOAuth2Sub)
		if err != nil {
			return nil, err
		}
		if resource != nil {
			return resource, nil
		}
	}

	a.log.Debug().Msg("no resource resolved for principal; scope will be empty")
	return nil, nil
}

// ComputeScope derives the allowed sets for a resolved resource from the
// project_resources membership rows.
func (a *Authority) ComputeScope(ctx context.Context, resource *models.Resource) (Scope, error) {
	enterpriseIDs, projectIDs, err := a.dir.ScopeForResource(ctx, resource.ID)
	if err != nil {
		return Scope{}, err
	}
	if enterpriseIDs == nil {
		enterpriseIDs = []string{}
	}
	if projectIDs == nil {
		projectIDs = []string{}
	}
	return Scope{
		AllowedEnterpriseIDs: enterpriseIDs,
		AllowedProjectIDs:    projectIDs,
		CurrentResourceID:    resource.ID,
	}, nil
}
