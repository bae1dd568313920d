// Package scope resolves an authenticated principal to the set of enterprises
// and projects it may touch, and adjudicates access against that set.
package scope

import (
	"errors"
	"fmt"
)

// ErrViolation marks access refusals: the target exists but is outside the
// caller's resolved scope, or a required scope dimension is missing. It is
// deliberately distinct from not-found (a nil result), so callers can tell
// "does not exist" from "not visible to you".
var ErrViolation = errors.New("scope violation")

// Violationf builds a scope violation error with a formatted message.
func Violationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrViolation, fmt.Sprintf(format, args...))
}

// IsViolation reports whether err is a scope violation.
func IsViolation(err error) bool {
	return errors.Is(err, ErrViolation)
}

// Scope is the per-request access set for a resolved resource. It is computed
// fresh from the membership relation on every request and never cached, so
// access follows membership changes without an invalidation step.
type Scope struct {
	AllowedEnterpriseIDs []string `json:"allowed_enterprise_ids"`
	AllowedProjectIDs    []string `json:"allowed_project_ids"`
	CurrentResourceID    string   `json:"current_resource_id,omitempty"`
}

// Empty is the anonymous/no-access scope. It is a valid state, not an error.
func Empty() Scope {
	return Scope{AllowedEnterpriseIDs: []string{}, AllowedProjectIDs: []string{}}
}

// HasEnterprise reports whether the enterprise id is in scope.
func (s Scope) HasEnterprise(enterpriseID string) bool {
	for _, id := range s.AllowedEnterpriseIDs {
		if id == enterpriseID {
			return true
		}
	}
	return false
}

// HasProject reports whether the project id is in scope.
func (s Scope) HasProject(projectID string) bool {
	for _, id := range s.AllowedProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

// EnsureEnterprise fails with a scope violation when the enterprise is not in
// the allowed set.
func EnsureEnterprise(s Scope, enterpriseID string) error {
	if !s.HasEnterprise(enterpriseID) {
		return Violationf("enterprise %s is outside the current scope", enterpriseID)
	}
	return nil
}

// EnsureProject fails with a scope violation when the project is not in the
// allowed set.
func EnsureProject(s Scope, projectID string) error {
	if projectID == "" {
		return Violationf("project scope is required for this operation")
	}
	if !s.HasProject(projectID) {
		return Violationf("project %s is outside the current scope", projectID)
	}
	return nil
}
