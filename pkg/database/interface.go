package database

import (
	"context"
	"errors"
	"fmt"

	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/slug"
)

// ErrDuplicateDisplayID is returned when an insert would violate a
// (owner, display id) unique index. Slug allocation callers treat it as
// retryable with a fresh allocation.
var ErrDuplicateDisplayID = errors.New("duplicate display id")

// IsDuplicateDisplayID reports whether err is a display-id uniqueness conflict.
func IsDuplicateDisplayID(err error) bool {
	return errors.Is(err, ErrDuplicateDisplayID)
}

// Store defines the entity store interface. Get methods return (nil, nil) when
// the record does not exist; absence is a result, not an error.
type Store interface {
	// Enterprises
	GetEnterprise(ctx context.Context, id string) (*models.Enterprise, error)
	ListEnterprisesByIDs(ctx context.Context, ids []string) ([]models.Enterprise, error)
	CreateEnterprise(ctx context.Context, enterprise *models.Enterprise) error
	UpdateEnterprise(ctx context.Context, enterprise *models.Enterprise) error

	// Projects
	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetProjectBySlug(ctx context.Context, displayID, enterpriseID string) (*models.Project, error)
	ListProjectsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) error
	UpdateProject(ctx context.Context, project *models.Project) error
	ProjectExists(ctx context.Context, id string) (bool, error)

	// Work items
	GetWorkItem(ctx context.Context, id string) (*models.WorkItem, error)
	ListWorkItems(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, error)
	CreateWorkItem(ctx context.Context, item *models.WorkItem) error
	UpdateWorkItem(ctx context.Context, item *models.WorkItem) error
	DeleteWorkItem(ctx context.Context, id string) (bool, error)

	// Milestones
	GetMilestone(ctx context.Context, id string) (*models.Milestone, error)
	ListMilestonesByEnterprise(ctx context.Context, enterpriseID string) ([]models.Milestone, error)
	CreateMilestone(ctx context.Context, milestone *models.Milestone) error
	UpdateMilestone(ctx context.Context, milestone *models.Milestone) error

	// Releases
	GetRelease(ctx context.Context, id string) (*models.Release, error)
	ListReleasesByProject(ctx context.Context, projectID string) ([]models.Release, error)
	CreateRelease(ctx context.Context, release *models.Release) error
	UpdateRelease(ctx context.Context, release *models.Release) error

	// Requirements
	GetRequirement(ctx context.Context, id string) (*models.Requirement, error)
	ListRequirementsByProject(ctx context.Context, projectID string) ([]models.Requirement, error)
	CreateRequirement(ctx context.Context, requirement *models.Requirement) error
	UpdateRequirement(ctx context.Context, requirement *models.Requirement) error

	// Standards
	GetStandard(ctx context.Context, id string) (*models.Standard, error)
	ListStandardsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Standard, error)
	ListStandardsByProject(ctx context.Context, projectID string) ([]models.Standard, error)
	CreateStandard(ctx context.Context, standard *models.Standard) error
	UpdateStandard(ctx context.Context, standard *models.Standard) error

	// Issues
	GetIssue(ctx context.Context, id string) (*models.Issue, error)
	ListIssuesByProject(ctx context.Context, projectID string) ([]models.Issue, error)
	CreateIssue(ctx context.Context, issue *models.Issue) error
	UpdateIssue(ctx context.Context, issue *models.Issue) error

	// Keywords
	GetKeyword(ctx context.Context, id string) (*models.Keyword, error)
	ListKeywordsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Keyword, error)
	CreateKeyword(ctx context.Context, keyword *models.Keyword) error
	UpdateKeyword(ctx context.Context, keyword *models.Keyword) error

	// Domains
	GetDomain(ctx context.Context, id string) (*models.Domain, error)
	ListDomainsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Domain, error)
	CreateDomain(ctx context.Context, domain *models.Domain) error
	UpdateDomain(ctx context.Context, domain *models.Domain) error

	// Systems
	GetSystem(ctx context.Context, id string) (*models.SystemEntity, error)
	ListSystemsByEnterprise(ctx context.Context, enterpriseID string) ([]models.SystemEntity, error)
	CreateSystem(ctx context.Context, system *models.SystemEntity) error
	UpdateSystem(ctx context.Context, system *models.SystemEntity) error

	// Assets
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	ListAssetsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Asset, error)
	CreateAsset(ctx context.Context, asset *models.Asset) error
	UpdateAsset(ctx context.Context, asset *models.Asset) error

	// Resources
	GetResource(ctx context.Context, id string) (*models.Resource, error)
	ListResourcesByEnterprise(ctx context.Context, enterpriseID string) ([]models.Resource, error)
	ResolveResourceBySubject(ctx context.Context, oauth2Sub string) (*models.Resource, error)
	CreateResource(ctx context.Context, resource *models.Resource) error
	UpdateResource(ctx context.Context, resource *models.Resource) error

	// Project-resource membership (the scope relation)
	AddProjectResource(ctx context.Context, projectID, resourceID string) error
	ScopeForResource(ctx context.Context, resourceID string) (enterpriseIDs []string, projectIDs []string, err error)

	// DisplayIDs exposes existing display ids per entity family for the slug
	// allocator. Unwired kinds return slug.ErrUnsupportedEntityType.
	DisplayIDs(ctx context.Context, entityType slug.EntityType) ([]string, error)

	// Health check
	HealthCheck(ctx context.Context) error

	// Close releases the underlying connections.
	Close() error
}

// DatabaseConfig selects and parameterizes the store backend.
type DatabaseConfig struct {
	UseMemoryDB bool
	PostgresDSN string
	Debug       bool
}

// NewDatabase selects the store implementation from the configuration:
// PostgreSQL when a DSN is set, otherwise the in-memory store.
func NewDatabase(config DatabaseConfig) Store {
	if config.PostgresDSN != "" && !config.UseMemoryDB {
		fmt.Println("Using PostgreSQL store")
		return NewPostgresStore(config.PostgresDSN)
	}

	fmt.Println("Using in-memory store")
	return NewMemoryStore()
}
