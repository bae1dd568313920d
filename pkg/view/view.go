// Package view is the scoped façade over the entity store. Every read is
// filtered to the caller's scope and every write is checked against it, so
// handlers above this package never touch the store directly.
package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"project-mcp-backend/pkg/database"
	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/slug"
)

// ErrNotFound is returned on updates that target a record that does not
// exist. Reads signal absence with a nil result instead.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err marks a missing update target.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// View wraps the store with scope enforcement, id stamping and display-id
// allocation. Upsert methods treat an empty record id as a create and a
// non-empty id as an update of an existing record.
type View struct {
	store database.Store
	alloc *slug.Allocator
	log   zerolog.Logger
}

// NewView creates a scoped view over the given store.
func NewView(store database.Store, alloc *slug.Allocator, log zerolog.Logger) *View {
	return &View{store: store, alloc: alloc, log: log}
}

func now() time.Time {
	return time.Now().UTC()
}

// stampCreate assigns a fresh uuid when id is empty and returns create and
// update timestamps set to the same instant.
func stampCreate(id *string) time.Time {
	if *id == "" {
		*id = uuid.New().String()
	}
	return now()
}

// createWithAllocation allocates a display id, assigns it and runs the insert.
// A concurrent allocation can race to the same display id; the unique index
// rejects the loser and we retry once with a fresh allocation.
func (v *View) createWithAllocation(ctx context.Context, entityType slug.EntityType, owner string,
	assign func(displayID string), create func() error) error {
	for attempt := 0; ; attempt++ {
		displayID, err := v.alloc.Allocate(ctx, entityType, owner)
		if err != nil {
			return err
		}
		assign(displayID)

		err = create()
		if err == nil {
			return nil
		}
		if !database.IsDuplicateDisplayID(err) || attempt >= 1 {
			return err
		}
		v.log.Warn().
			Str("display_id", displayID).
			Str("entity_type", string(entityType)).
			Msg("display id collision, retrying allocation")
	}
}

// ==== Enterprises ====

// GetEnterprise returns the enterprise when it is inside the scope.
func (v *View) GetEnterprise(ctx context.Context, s scope.Scope, id string) (*models.Enterprise, error) {
	if err := scope.EnsureEnterprise(s, id); err != nil {
		return nil, err
	}
	return v.store.GetEnterprise(ctx, id)
}

// ListEnterprises returns the enterprises the scope allows.
func (v *View) ListEnterprises(ctx context.Context, s scope.Scope) ([]models.Enterprise, error) {
	if len(s.AllowedEnterpriseIDs) == 0 {
		return []models.Enterprise{}, nil
	}
	return v.store.ListEnterprisesByIDs(ctx, s.AllowedEnterpriseIDs)
}

// ProvisionEnterprise creates a new enterprise. No scope check applies: a new
// enterprise cannot be inside anyone's scope until a project and membership
// exist under it. The display id must be supplied and is globally unique.
func (v *View) ProvisionEnterprise(ctx context.Context, enterprise *models.Enterprise) (*models.Enterprise, error) {
	ts := stampCreate(&enterprise.ID)
	enterprise.CreatedAt = ts
	enterprise.UpdatedAt = ts
	if err := v.store.CreateEnterprise(ctx, enterprise); err != nil {
		return nil, err
	}
	v.log.Info().
		Str("enterprise_id", enterprise.ID).
		Str("display_id", enterprise.DisplayID).
		Msg("enterprise provisioned")
	return enterprise, nil
}

// UpdateEnterprise updates an in-scope enterprise's metadata.
func (v *View) UpdateEnterprise(ctx context.Context, s scope.Scope, enterprise *models.Enterprise) (*models.Enterprise, error) {
	if err := scope.EnsureEnterprise(s, enterprise.ID); err != nil {
		return nil, err
	}
	existing, err := v.store.GetEnterprise(ctx, enterprise.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("enterprise %s: %w", enterprise.ID, ErrNotFound)
	}

	enterprise.DisplayID = existing.DisplayID
	enterprise.CreatedAt = existing.CreatedAt
	enterprise.UpdatedAt = now()
	if err := v.store.UpdateEnterprise(ctx, enterprise); err != nil {
		return nil, err
	}
	return enterprise, nil
}

// ==== Projects ====

// GetProject returns the project when its enterprise is in scope and, when
// the scope restricts projects, the project itself is in the allowed set.
func (v *View) GetProject(ctx context.Context, s scope.Scope, id string) (*models.Project, error) {
	project, err := v.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	if err := scope.EnsureEnterprise(s, project.EnterpriseID); err != nil {
		return nil, err
	}
	if len(s.AllowedProjectIDs) > 0 && !s.HasProject(project.ID) {
		return nil, scope.Violationf("project %s is outside the current scope", project.ID)
	}
	return project, nil
}

// GetProjectBySlug resolves a project by its display id within an enterprise.
func (v *View) GetProjectBySlug(ctx context.Context, s scope.Scope, enterpriseID, displayID string) (*models.Project, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}
	project, err := v.store.GetProjectBySlug(ctx, displayID, enterpriseID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	if len(s.AllowedProjectIDs) > 0 && !s.HasProject(project.ID) {
		return nil, scope.Violationf("project %s is outside the current scope", project.ID)
	}
	return project, nil
}

// ListProjects returns the scope's projects across all allowed enterprises.
func (v *View) ListProjects(ctx context.Context, s scope.Scope) ([]models.Project, error) {
	results := []models.Project{}
	for _, enterpriseID := range s.AllowedEnterpriseIDs {
		projects, err := v.store.ListProjectsByEnterprise(ctx, enterpriseID)
		if err != nil {
			return nil, err
		}
		for _, p := range projects {
			if len(s.AllowedProjectIDs) > 0 && !s.HasProject(p.ID) {
				continue
			}
			results = append(results, p)
		}
	}
	return results, nil
}

// UpsertProject creates or updates a project inside the stated enterprise.
// New projects get a display id like <enterprise>-P001 unless one is supplied.
func (v *View) UpsertProject(ctx context.Context, s scope.Scope, enterpriseID string, project *models.Project) (*models.Project, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}

	if project.ID == "" {
		enterprise, err := v.store.GetEnterprise(ctx, enterpriseID)
		if err != nil {
			return nil, err
		}
		if enterprise == nil {
			return nil, fmt.Errorf("enterprise %s: %w", enterpriseID, ErrNotFound)
		}

		project.EnterpriseID = enterpriseID
		if project.Status == "" {
			project.Status = models.ProjectActive
		}
		ts := stampCreate(&project.ID)
		project.CreatedAt = ts
		project.UpdatedAt = ts

		if project.DisplayID != "" {
			if err := v.store.CreateProject(ctx, project); err != nil {
				return nil, err
			}
			return project, nil
		}
		err = v.createWithAllocation(ctx, slug.Project, enterprise.DisplayID,
			func(displayID string) { project.DisplayID = displayID },
			func() error { return v.store.CreateProject(ctx, project) })
		if err != nil {
			return nil, err
		}
		return project, nil
	}

	existing, err := v.store.GetProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("project %s: %w", project.ID, ErrNotFound)
	}
	if existing.EnterpriseID != enterpriseID {
		return nil, scope.Violationf("project %s does not belong to enterprise %s", project.ID, enterpriseID)
	}

	project.EnterpriseID = existing.EnterpriseID
	project.DisplayID = existing.DisplayID
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = now()
	if project.Status == "" {
		project.Status = existing.Status
	}
	if err := v.store.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// ==== Work items ====

func (v *View) GetWorkItem(ctx context.Context, s scope.Scope, id string) (*models.WorkItem, error) {
	item, err := v.store.GetWorkItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if err := scope.EnsureProject(s, item.ProjectID); err != nil {
		return nil, err
	}
	return item, nil
}

// ListWorkItems lists work items under the filter's project. When the filter
// names no project and the scope holds exactly one, that project is assumed;
// with zero or several in-scope projects the caller must name one.
func (v *View) ListWorkItems(ctx context.Context, s scope.Scope, filter models.WorkItemFilter) ([]models.WorkItem, error) {
	if filter.ProjectID == "" {
		if len(s.AllowedProjectIDs) != 1 {
			return nil, scope.Violationf("project scope is required for this operation")
		}
		filter.ProjectID = s.AllowedProjectIDs[0]
	}
	if err := scope.EnsureProject(s, filter.ProjectID); err != nil {
		return nil, err
	}
	return v.store.ListWorkItems(ctx, filter)
}

func (v *View) UpsertWorkItem(ctx context.Context, s scope.Scope, projectID string, item *models.WorkItem) (*models.WorkItem, error) {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return nil, err
	}

	if item.ID == "" {
		project, err := v.store.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
		}

		item.ProjectID = projectID
		if item.Level == "" {
			item.Level = models.LevelTask
		}
		if item.State == "" {
			item.State = models.WorkItemPlanned
		}
		if item.Status == "" {
			item.Status = models.StatusTodo
		}
		ts := stampCreate(&item.ID)
		item.CreatedAt = ts
		item.UpdatedAt = ts

		if item.DisplayID != "" {
			if err := v.store.CreateWorkItem(ctx, item); err != nil {
				return nil, err
			}
			return item, nil
		}
		err = v.createWithAllocation(ctx, slug.WorkItem, project.DisplayID,
			func(displayID string) { item.DisplayID = displayID },
			func() error { return v.store.CreateWorkItem(ctx, item) })
		if err != nil {
			return nil, err
		}
		return item, nil
	}

	existing, err := v.store.GetWorkItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("work item %s: %w", item.ID, ErrNotFound)
	}
	if existing.ProjectID != projectID {
		return nil, scope.Violationf("work item %s does not belong to project %s", item.ID, projectID)
	}

	item.ProjectID = existing.ProjectID
	item.DisplayID = existing.DisplayID
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = now()
	if item.Level == "" {
		item.Level = existing.Level
	}
	if item.State == "" {
		item.State = existing.State
	}
	if item.Status == "" {
		item.Status = existing.Status
	}
	if err := v.store.UpdateWorkItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteWorkItem removes a work item. It reports false when the item does not
// exist, and a scope violation when it exists outside the caller's scope.
func (v *View) DeleteWorkItem(ctx context.Context, s scope.Scope, id string) (bool, error) {
	item, err := v.store.GetWorkItem(ctx, id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	if err := scope.EnsureProject(s, item.ProjectID); err != nil {
		return false, err
	}
	return v.store.DeleteWorkItem(ctx, id)
}

// ==== Milestones ====

func (v *View) GetMilestone(ctx context.Context, s scope.Scope, id string) (*models.Milestone, error) {
	milestone, err := v.store.GetMilestone(ctx, id)
	if err != nil {
		return nil, err
	}
	if milestone == nil {
		return nil, nil
	}
	if err := scope.EnsureEnterprise(s, milestone.EnterpriseID); err != nil {
		return nil, err
	}
	return milestone, nil
}

func (v *View) ListMilestones(ctx context.Context, s scope.Scope, enterpriseID string) ([]models.Milestone, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}
	return v.store.ListMilestonesByEnterprise(ctx, enterpriseID)
}

func (v *View) UpsertMilestone(ctx context.Context, s scope.Scope, enterpriseID string, milestone *models.Milestone) (*models.Milestone, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}
	if milestone.ProjectID != "" {
		if err := v.ensureProjectInEnterprise(ctx, s, milestone.ProjectID, enterpriseID); err != nil {
			return nil, err
		}
	}

	if milestone.ID == "" {
		enterprise, err := v.store.GetEnterprise(ctx, enterpriseID)
		if err != nil {
			return nil, err
		}
		if enterprise == nil {
			return nil, fmt.Errorf("enterprise %s: %w", enterpriseID, ErrNotFound)
		}

		milestone.EnterpriseID = enterpriseID
		if milestone.State == "" {
			milestone.State = models.MilestonePlanned
		}
		ts := stampCreate(&milestone.ID)
		milestone.CreatedAt = ts
		milestone.UpdatedAt = ts

		if milestone.DisplayID != "" {
			if err := v.store.CreateMilestone(ctx, milestone); err != nil {
				return nil, err
			}
			return milestone, nil
		}
		err = v.createWithAllocation(ctx, slug.Milestone, enterprise.DisplayID,
			func(displayID string) { milestone.DisplayID = displayID },
			func() error { return v.store.CreateMilestone(ctx, milestone) })
		if err != nil {
			return nil, err
		}
		return milestone, nil
	}

	existing, err := v.store.GetMilestone(ctx, milestone.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("milestone %s: %w", milestone.ID, ErrNotFound)
	}
	if existing.EnterpriseID != enterpriseID {
		return nil, scope.Violationf("milestone %s does not belong to enterprise %s", milestone.ID, enterpriseID)
	}

	milestone.EnterpriseID = existing.EnterpriseID
	milestone.DisplayID = existing.DisplayID
	milestone.CreatedAt = existing.CreatedAt
	milestone.UpdatedAt = now()
	if milestone.State == "" {
		milestone.State = existing.State
	}
	if err := v.store.UpdateMilestone(ctx, milestone); err != nil {
		return nil, err
	}
	return milestone, nil
}

// ==== Releases ====

func (v *View) GetRelease(ctx context.Context, s scope.Scope, id string) (*models.Release, error) {
	release, err := v.store.GetRelease(ctx, id)
	if err != nil {
		return nil, err
	}
	if release == nil {
		return nil, nil
	}
	if err := scope.EnsureProject(s, release.ProjectID); err != nil {
		return nil, err
	}
	return release, nil
}

func (v *View) ListReleases(ctx context.Context, s scope.Scope, projectID string) ([]models.Release, error) {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return nil, err
	}
	return v.store.ListReleasesByProject(ctx, projectID)
}

func (v *View) UpsertRelease(ctx context.Context, s scope.Scope, projectID string, release *models.Release) (*models.Release, error) {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return nil, err
	}

	if release.ID == "" {
		project, err := v.store.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
		}

		release.ProjectID = projectID
		ts := stampCreate(&release.ID)
		release.CreatedAt = ts
		release.UpdatedAt = ts

		if release.DisplayID != "" {
			if err := v.store.CreateRelease(ctx, release); err != nil {
				return nil, err
			}
			return release, nil
		}
		err = v.createWithAllocation(ctx, slug.Release, project.DisplayID,
			func(displayID string) { release.DisplayID = displayID },
			func() error { return v.store.CreateRelease(ctx, release) })
		if err != nil {
			return nil, err
		}
		return release, nil
	}

	existing, err := v.store.GetRelease(ctx, release.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("release %s: %w", release.ID, ErrNotFound)
	}
	if existing.ProjectID != projectID {
		return nil, scope.Violationf("release %s does not belong to project %s", release.ID, projectID)
	}

	release.ProjectID = existing.ProjectID
	release.DisplayID = existing.DisplayID
	release.CreatedAt = existing.CreatedAt
	release.UpdatedAt = now()
	if err := v.store.UpdateRelease(ctx, release); err != nil {
		return nil, err
	}
	return release, nil
}

// ==== Requirements ====

func (v *View) GetRequirement(ctx context.Context, s scope.Scope, id string) (*models.Requirement, error) {
	requirement, err := v.store.GetRequirement(ctx, id)
	if err != nil {
		return nil, err
	}
	if requirement == nil {
		return nil, nil
	}
	if err := scope.EnsureProject(s, requirement.ProjectID); err != nil {
		return nil, err
	}
	return requirement, nil
}

func (v *View) ListRequirements(ctx context.Context, s scope.Scope, projectID string) ([]models.Requirement, error) {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return nil, err
	}
	return v.store.ListRequirementsByProject(ctx, projectID)
}

func (v *View) UpsertRequirement(ctx context.Context, s scope.Scope, projectID string, requirement *models.Requirement) (*models.Requirement, error) {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return nil, err
	}

	if requirement.ID == "" {
		project, err := v.store.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
		}

		requirement.ProjectID = projectID
		if requirement.State == "" {
			requirement.State = models.RequirementDraft
		}
		ts := stampCreate(&requirement.ID)
		requirement.CreatedAt = ts
		requirement.UpdatedAt = ts

		if requirement.DisplayID != "" {
			if err := v.store.CreateRequirement(ctx, requirement); err != nil {
				return nil, err
			}
			return requirement, nil
		}
		err = v.createWithAllocation(ctx, slug.Requirement, project.DisplayID,
			func(displayID string) { requirement.DisplayID = displayID },
			func() error { return v.store.CreateRequirement(ctx, requirement) })
		if err != nil {
			return nil, err
		}
		return requirement, nil
	}

	existing, err := v.store.GetRequirement(ctx, requirement.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("requirement %s: %w", requirement.ID, ErrNotFound)
	}
	if existing.ProjectID != projectID {
		return nil, scope.Violationf("requirement %s does not belong to project %s", requirement.ID, projectID)
	}

	requirement.ProjectID = existing.ProjectID
	requirement.DisplayID = existing.DisplayID
	requirement.CreatedAt = existing.CreatedAt
	requirement.UpdatedAt = now()
	if requirement.State == "" {
		requirement.State = existing.State
	}
	if err := v.store.UpdateRequirement(ctx, requirement); err != nil {
		return nil, err
	}
	return requirement, nil
}

// ==== Standards ====

func (v *View) GetStandard(ctx context.Context, s scope.Scope, id string) (*models.Standard, error) {
	standard, err := v.store.GetStandard(ctx, id)
	if err != nil {
		return nil, err
	}
	if standard == nil {
		return nil, nil
	}
	if err := scope.EnsureEnterprise(s, standard.EnterpriseID); err != nil {
		return nil, err
	}
	return standard, nil
}

func (v *View) ListStandards(ctx context.Context, s scope.Scope, enterpriseID string) ([]models.Standard, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}
	return v.store.ListStandardsByEnterprise(ctx, enterpriseID)
}

func (v *View) ListStandardsByProject(ctx context.Context, s scope.Scope, projectID string) ([]models.Standard, error) {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return nil, err
	}
	return v.store.ListStandardsByProject(ctx, projectID)
}

func (v *View) UpsertStandard(ctx context.Context, s scope.Scope, enterpriseID string, standard *models.Standard) (*models.Standard, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}
	if standard.ProjectID != "" {
		if err := v.ensureProjectInEnterprise(ctx, s, standard.ProjectID, enterpriseID); err != nil {
			return nil, err
		}
	}

	if standard.ID == "" {
		enterprise, err := v.store.GetEnterprise(ctx, enterpriseID)
		if err != nil {
			return nil, err
		}
		if enterprise == nil {
			return nil, fmt.Errorf("enterprise %s: %w", enterpriseID, ErrNotFound)
		}

		standard.EnterpriseID = enterpriseID
		ts := stampCreate(&standard.ID)
		standard.CreatedAt = ts
		standard.UpdatedAt = ts

		if standard.DisplayID != "" {
			if err := v.store.CreateStandard(ctx, standard); err != nil {
				return nil, err
			}
			return standard, nil
		}
		err = v.createWithAllocation(ctx, slug.Standard, enterprise.DisplayID,
			func(displayID string) { standard.DisplayID = displayID },
			func() error { return v.store.CreateStandard(ctx, standard) })
		if err != nil {
			return nil, err
		}
		return standard, nil
	}

	existing, err := v.store.GetStandard(ctx, standard.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("standard %s: %w", standard.ID, ErrNotFound)
	}
	if existing.EnterpriseID != enterpriseID {
		return nil, scope.Violationf("standard %s does not belong to enterprise %s", standard.ID, enterpriseID)
	}

	standard.EnterpriseID = existing.EnterpriseID
	standard.DisplayID = existing.DisplayID
	standard.CreatedAt = existing.CreatedAt
	standard.UpdatedAt = now()
	if err := v.store.UpdateStandard(ctx, standard); err != nil {
		return nil, err
	}
	return standard, nil
}

// ==== Issues ====

func (v *View) GetIssue(ctx context.Context, s scope.Scope, id string) (*models.Issue, error) {
	issue, err := v.store.GetIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, nil
	}
	if err := scope.EnsureProject(s, issue.ProjectID); err != nil {
		return nil, err
	}
	return issue, nil
}

func (v *View) ListIssues(ctx context.Context, s scope.Scope, projectID string) ([]models.Issue, error) {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return nil, err
	}
	return v.store.ListIssuesByProject(ctx, projectID)
}

func (v *View) UpsertIssue(ctx context.Context, s scope.Scope, projectID string, issue *models.Issue) (*models.Issue, error) {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return nil, err
	}

	if issue.ID == "" {
		project, err := v.store.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
		}

		issue.ProjectID = projectID
		if issue.State == "" {
			issue.State = models.IssueOpen
		}
		ts := stampCreate(&issue.ID)
		issue.CreatedAt = ts
		issue.UpdatedAt = ts

		if issue.DisplayID != "" {
			if err := v.store.CreateIssue(ctx, issue); err != nil {
				return nil, err
			}
			return issue, nil
		}
		err = v.createWithAllocation(ctx, slug.Issue, project.DisplayID,
			func(displayID string) { issue.DisplayID = displayID },
			func() error { return v.store.CreateIssue(ctx, issue) })
		if err != nil {
			return nil, err
		}
		return issue, nil
	}

	existing, err := v.store.GetIssue(ctx, issue.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("issue %s: %w", issue.ID, ErrNotFound)
	}
	if existing.ProjectID != projectID {
		return nil, scope.Violationf("issue %s does not belong to project %s", issue.ID, projectID)
	}

	issue.ProjectID = existing.ProjectID
	issue.DisplayID = existing.DisplayID
	issue.CreatedAt = existing.CreatedAt
	issue.UpdatedAt = now()
	if issue.State == "" {
		issue.State = existing.State
	}
	if err := v.store.UpdateIssue(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// ==== Keywords ====

func (v *View) GetKeyword(ctx context.Context, s scope.Scope, id string) (*models.Keyword, error) {
	keyword, err := v.store.GetKeyword(ctx, id)
	if err != nil {
		return nil, err
	}
	if keyword == nil {
		return nil, nil
	}
	if err := scope.EnsureEnterprise(s, keyword.EnterpriseID); err != nil {
		return nil, err
	}
	return keyword, nil
}

func (v *View) ListKeywords(ctx context.Context, s scope.Scope, enterpriseID string) ([]models.Keyword, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}
	return v.store.ListKeywordsByEnterprise(ctx, enterpriseID)
}

func (v *View) UpsertKeyword(ctx context.Context, s scope.Scope, enterpriseID string, keyword *models.Keyword) (*models.Keyword, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}

	if keyword.ID == "" {
		enterprise, err := v.store.GetEnterprise(ctx, enterpriseID)
		if err != nil {
			return nil, err
		}
		if enterprise == nil {
			return nil, fmt.Errorf("enterprise %s: %w", enterpriseID, ErrNotFound)
		}

		keyword.EnterpriseID = enterpriseID
		ts := stampCreate(&keyword.ID)
		keyword.CreatedAt = ts
		keyword.UpdatedAt = ts

		if keyword.DisplayID != "" {
			if err := v.store.CreateKeyword(ctx, keyword); err != nil {
				return nil, err
			}
			return keyword, nil
		}
		err = v.createWithAllocation(ctx, slug.Keyword, enterprise.DisplayID,
			func(displayID string) { keyword.DisplayID = displayID },
			func() error { return v.store.CreateKeyword(ctx, keyword) })
		if err != nil {
			return nil, err
		}
		return keyword, nil
	}

	existing, err := v.store.GetKeyword(ctx, keyword.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("keyword %s: %w", keyword.ID, ErrNotFound)
	}
	if existing.EnterpriseID != enterpriseID {
		return nil, scope.Violationf("keyword %s does not belong to enterprise %s", keyword.ID, enterpriseID)
	}

	keyword.EnterpriseID = existing.EnterpriseID
	keyword.DisplayID = existing.DisplayID
	keyword.CreatedAt = existing.CreatedAt
	keyword.UpdatedAt = now()
	if err := v.store.UpdateKeyword(ctx, keyword); err != nil {
		return nil, err
	}
	return keyword, nil
}

// ==== Domains, systems, assets ====

// Catalog entities have no slug format, so callers supply display ids.

func (v *View) GetDomain(ctx context.Context, s scope.Scope, id string) (*models.Domain, error) {
	domain, err := v.store.GetDomain(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain == nil {
		return nil, nil
	}
	if err := scope.EnsureEnterprise(s, domain.EnterpriseID); err != nil {
		return nil, err
	}
	return domain, nil
}

func (v *View) ListDomains(ctx context.Context, s scope.Scope, enterpriseID string) ([]models.Domain, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}
	return v.store.ListDomainsByEnterprise(ctx, enterpriseID)
}

func (v *View) UpsertDomain(ctx context.Context, s scope.Scope, enterpriseID string, domain *models.Domain) (*models.Domain, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}

	if domain.ID == "" {
		domain.EnterpriseID = enterpriseID
		ts := stampCreate(&domain.ID)
		domain.CreatedAt = ts
		domain.UpdatedAt = ts
		if err := v.store.CreateDomain(ctx, domain); err != nil {
			return nil, err
		}
		return domain, nil
	}

	existing, err := v.store.GetDomain(ctx, domain.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("domain %s: %w", domain.ID, ErrNotFound)
	}
	if existing.EnterpriseID != enterpriseID {
		return nil, scope.Violationf("domain %s does not belong to enterprise %s", domain.ID, enterpriseID)
	}

	domain.EnterpriseID = existing.EnterpriseID
	domain.DisplayID = existing.DisplayID
	domain.CreatedAt = existing.CreatedAt
	domain.UpdatedAt = now()
	if err := v.store.UpdateDomain(ctx, domain); err != nil {
		return nil, err
	}
	return domain, nil
}

func (v *View) GetSystem(ctx context.Context, s scope.Scope, id string) (*models.SystemEntity, error) {
	system, err := v.store.GetSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if system == nil {
		return nil, nil
	}
	if err := scope.EnsureEnterprise(s, system.EnterpriseID); err != nil {
		return nil, err
	}
	return system, nil
}

func (v *View) ListSystems(ctx context.Context, s scope.Scope, enterpriseID string) ([]models.SystemEntity, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}
	return v.store.ListSystemsByEnterprise(ctx, enterpriseID)
}

func (v *View) UpsertSystem(ctx context.Context, s scope.Scope, enterpriseID string, system *models.SystemEntity) (*models.SystemEntity, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}

	if system.ID == "" {
		system.EnterpriseID = enterpriseID
		ts := stampCreate(&system.ID)
		system.CreatedAt = ts
		system.UpdatedAt = ts
		if err := v.store.CreateSystem(ctx, system); err != nil {
			return nil, err
		}
		return system, nil
	}

	existing, err := v.store.GetSystem(ctx, system.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("system %s: %w", system.ID, ErrNotFound)
	}
	if existing.EnterpriseID != enterpriseID {
		return nil, scope.Violationf("system %s does not belong to enterprise %s", system.ID, enterpriseID)
	}

	system.EnterpriseID = existing.EnterpriseID
	system.DisplayID = existing.DisplayID
	system.CreatedAt = existing.CreatedAt
	system.UpdatedAt = now()
	if err := v.store.UpdateSystem(ctx, system); err != nil {
		return nil, err
	}
	return system, nil
}

func (v *View) GetAsset(ctx context.Context, s scope.Scope, id string) (*models.Asset, error) {
	asset, err := v.store.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, nil
	}
	if err := scope.EnsureEnterprise(s, asset.EnterpriseID); err != nil {
		return nil, err
	}
	return asset, nil
}

func (v *View) ListAssets(ctx context.Context, s scope.Scope, enterpriseID string) ([]models.Asset, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}
	return v.store.ListAssetsByEnterprise(ctx, enterpriseID)
}

func (v *View) UpsertAsset(ctx context.Context, s scope.Scope, enterpriseID string, asset *models.Asset) (*models.Asset, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}

	if asset.ID == "" {
		asset.EnterpriseID = enterpriseID
		ts := stampCreate(&asset.ID)
		asset.CreatedAt = ts
		asset.UpdatedAt = ts
		if err := v.store.CreateAsset(ctx, asset); err != nil {
			return nil, err
		}
		return asset, nil
	}

	existing, err := v.store.GetAsset(ctx, asset.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("asset %s: %w", asset.ID, ErrNotFound)
	}
	if existing.EnterpriseID != enterpriseID {
		return nil, scope.Violationf("asset %s does not belong to enterprise %s", asset.ID, enterpriseID)
	}

	asset.EnterpriseID = existing.EnterpriseID
	asset.DisplayID = existing.DisplayID
	asset.CreatedAt = existing.CreatedAt
	asset.UpdatedAt = now()
	if err := v.store.UpdateAsset(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// ==== Resources ====

func (v *View) GetResource(ctx context.Context, s scope.Scope, id string) (*models.Resource, error) {
	resource, err := v.store.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, nil
	}
	if err := scope.EnsureEnterprise(s, resource.EnterpriseID); err != nil {
		return nil, err
	}
	return resource, nil
}

func (v *View) ListResources(ctx context.Context, s scope.Scope, enterpriseID string) ([]models.Resource, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}
	return v.store.ListResourcesByEnterprise(ctx, enterpriseID)
}

func (v *View) UpsertResource(ctx context.Context, s scope.Scope, enterpriseID string, resource *models.Resource) (*models.Resource, error) {
	if err := scope.EnsureEnterprise(s, enterpriseID); err != nil {
		return nil, err
	}

	if resource.ID == "" {
		resource.EnterpriseID = enterpriseID
		ts := stampCreate(&resource.ID)
		resource.CreatedAt = ts
		resource.UpdatedAt = ts
		if err := v.store.CreateResource(ctx, resource); err != nil {
			return nil, err
		}
		return resource, nil
	}

	existing, err := v.store.GetResource(ctx, resource.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("resource %s: %w", resource.ID, ErrNotFound)
	}
	if existing.EnterpriseID != enterpriseID {
		return nil, scope.Violationf("resource %s does not belong to enterprise %s", resource.ID, enterpriseID)
	}

	resource.EnterpriseID = existing.EnterpriseID
	resource.DisplayID = existing.DisplayID
	resource.CreatedAt = existing.CreatedAt
	resource.UpdatedAt = now()
	if err := v.store.UpdateResource(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// GrantProjectMembership adds a resource to a project's membership, widening
// the resource's scope on its next resolution. Both the project and the
// resource's enterprise must be inside the caller's scope.
func (v *View) GrantProjectMembership(ctx context.Context, s scope.Scope, projectID, resourceID string) error {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return err
	}
	exists, err := v.store.ProjectExists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	resource, err := v.store.GetResource(ctx, resourceID)
	if err != nil {
		return err
	}
	if resource == nil {
		return fmt.Errorf("resource %s: %w", resourceID, ErrNotFound)
	}
	if err := scope.EnsureEnterprise(s, resource.EnterpriseID); err != nil {
		return err
	}
	return v.store.AddProjectResource(ctx, projectID, resourceID)
}

// ensureProjectInEnterprise verifies a project link points at an existing
// in-scope project inside the stated enterprise.
func (v *View) ensureProjectInEnterprise(ctx context.Context, s scope.Scope, projectID, enterpriseID string) error {
	if err := scope.EnsureProject(s, projectID); err != nil {
		return err
	}
	project, err := v.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if project.EnterpriseID != enterpriseID {
		return scope.Violationf("project %s does not belong to enterprise %s", projectID, enterpriseID)
	}
	return nil
}
