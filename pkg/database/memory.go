package database

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/slug"
)

// MemoryStore is the in-process store used for tests and local development.
// It enforces the same (owner, display id) unique indexes as the relational
// schema, so it can serve as the backstop for concurrent slug allocation.
type MemoryStore struct {
	mu sync.RWMutex

	enterprises  map[string]models.Enterprise
	projects     map[string]models.Project
	workItems    map[string]models.WorkItem
	milestones   map[string]models.Milestone
	releases     map[string]models.Release
	requirements map[string]models.Requirement
	standards    map[string]models.Standard
	issues       map[string]models.Issue
	keywords     map[string]models.Keyword
	domains      map[string]models.Domain
	systems      map[string]models.SystemEntity
	assets       map[string]models.Asset
	resources    map[string]models.Resource
	memberships  []models.ProjectResource
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		enterprises:  make(map[string]models.Enterprise),
		projects:     make(map[string]models.Project),
		workItems:    make(map[string]models.WorkItem),
		milestones:   make(map[string]models.Milestone),
		releases:     make(map[string]models.Release),
		requirements: make(map[string]models.Requirement),
		standards:    make(map[string]models.Standard),
		issues:       make(map[string]models.Issue),
		keywords:     make(map[string]models.Keyword),
		domains:      make(map[string]models.Domain),
		systems:      make(map[string]models.SystemEntity),
		assets:       make(map[string]models.Asset),
		resources:    make(map[string]models.Resource),
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// ==== Enterprises ====

func (db *MemoryStore) GetEnterprise(ctx context.Context, id string) (*models.Enterprise, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if e, ok := db.enterprises[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListEnterprisesByIDs(ctx context.Context, ids []string) ([]models.Enterprise, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Enterprise{}
	for _, id := range ids {
		if e, ok := db.enterprises[id]; ok {
			results = append(results, e)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateEnterprise(ctx context.Context, enterprise *models.Enterprise) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&enterprise.ID)
	for _, e := range db.enterprises {
		if strings.EqualFold(e.DisplayID, enterprise.DisplayID) {
			return fmt.Errorf("%w: enterprise %s", ErrDuplicateDisplayID, enterprise.DisplayID)
		}
	}
	db.enterprises[enterprise.ID] = *enterprise
	return nil
}

func (db *MemoryStore) UpdateEnterprise(ctx context.Context, enterprise *models.Enterprise) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.enterprises[enterprise.ID]; !ok {
		return fmt.Errorf("enterprise not found: %s", enterprise.ID)
	}
	db.enterprises[enterprise.ID] = *enterprise
	return nil
}

// ==== Projects ====

func (db *MemoryStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if p, ok := db.projects[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (db *MemoryStore) GetProjectBySlug(ctx context.Context, displayID, enterpriseID string) (*models.Project, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, p := range db.projects {
		if p.EnterpriseID == enterpriseID && strings.EqualFold(p.DisplayID, displayID) {
			return &p, nil
		}
	}
	return nil, nil
}

func (db *MemoryStore) ListProjectsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Project, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Project{}
	for _, p := range db.projects {
		if p.EnterpriseID == enterpriseID {
			results = append(results, p)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateProject(ctx context.Context, project *models.Project) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&project.ID)
	for _, p := range db.projects {
		if p.EnterpriseID == project.EnterpriseID && strings.EqualFold(p.DisplayID, project.DisplayID) {
			return fmt.Errorf("%w: project %s", ErrDuplicateDisplayID, project.DisplayID)
		}
	}
	db.projects[project.ID] = *project
	return nil
}

func (db *MemoryStore) UpdateProject(ctx context.Context, project *models.Project) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.projects[project.ID]; !ok {
		return fmt.Errorf("project not found: %s", project.ID)
	}
	db.projects[project.ID] = *project
	return nil
}

func (db *MemoryStore) ProjectExists(ctx context.Context, id string) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.projects[id]
	return ok, nil
}

// ==== Work items ====

func (db *MemoryStore) GetWorkItem(ctx context.Context, id string) (*models.WorkItem, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if w, ok := db.workItems[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListWorkItems(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.WorkItem{}
	for _, w := range db.workItems {
		if filter.ProjectID != "" && w.ProjectID != filter.ProjectID {
			continue
		}
		if filter.ParentID != "" && w.ParentID != filter.ParentID {
			continue
		}
		if filter.Level != "" && w.Level != filter.Level {
			continue
		}
		if filter.Status != "" && w.Status != filter.Status {
			continue
		}
		if filter.MilestoneID != "" && w.MilestoneID != filter.MilestoneID {
			continue
		}
		if filter.ResourceID != "" && w.ResourceID != filter.ResourceID {
			continue
		}
		results = append(results, w)
	}
	return results, nil
}

func (db *MemoryStore) CreateWorkItem(ctx context.Context, item *models.WorkItem) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&item.ID)
	for _, w := range db.workItems {
		if w.ProjectID == item.ProjectID && strings.EqualFold(w.DisplayID, item.DisplayID) {
			return fmt.Errorf("%w: work item %s", ErrDuplicateDisplayID, item.DisplayID)
		}
	}
	db.workItems[item.ID] = *item
	return nil
}

func (db *MemoryStore) UpdateWorkItem(ctx context.Context, item *models.WorkItem) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.workItems[item.ID]; !ok {
		return fmt.Errorf("work item not found: %s", item.ID)
	}
	db.workItems[item.ID] = *item
	return nil
}

func (db *MemoryStore) DeleteWorkItem(ctx context.Context, id string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.workItems[id]; !ok {
		return false, nil
	}
	delete(db.workItems, id)
	return true, nil
}

// ==== Milestones ====

func (db *MemoryStore) GetMilestone(ctx context.Context, id string) (*models.Milestone, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if m, ok := db.milestones[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListMilestonesByEnterprise(ctx context.Context, enterpriseID string) ([]models.Milestone, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Milestone{}
	for _, m := range db.milestones {
		if m.EnterpriseID == enterpriseID {
			results = append(results, m)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateMilestone(ctx context.Context, milestone *models.Milestone) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&milestone.ID)
	for _, m := range db.milestones {
		if m.EnterpriseID == milestone.EnterpriseID && strings.EqualFold(m.DisplayID, milestone.DisplayID) {
			return fmt.Errorf("%w: milestone %s", ErrDuplicateDisplayID, milestone.DisplayID)
		}
	}
	db.milestones[milestone.ID] = *milestone
	return nil
}

func (db *MemoryStore) UpdateMilestone(ctx context.Context, milestone *models.Milestone) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.milestones[milestone.ID]; !ok {
		return fmt.Errorf("milestone not found: %s", milestone.ID)
	}
	db.milestones[milestone.ID] = *milestone
	return nil
}

// ==== Releases ====

func (db *MemoryStore) GetRelease(ctx context.Context, id string) (*models.Release, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if r, ok := db.releases[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListReleasesByProject(ctx context.Context, projectID string) ([]models.Release, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Release{}
	for _, r := range db.releases {
		if r.ProjectID == projectID {
			results = append(results, r)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateRelease(ctx context.Context, release *models.Release) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&release.ID)
	for _, r := range db.releases {
		if r.ProjectID == release.ProjectID && strings.EqualFold(r.DisplayID, release.DisplayID) {
			return fmt.Errorf("%w: release %s", ErrDuplicateDisplayID, release.DisplayID)
		}
	}
	db.releases[release.ID] = *release
	return nil
}

func (db *MemoryStore) UpdateRelease(ctx context.Context, release *models.Release) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.releases[release.ID]; !ok {
		return fmt.Errorf("release not found: %s", release.ID)
	}
	db.releases[release.ID] = *release
	return nil
}

// ==== Requirements ====

func (db *MemoryStore) GetRequirement(ctx context.Context, id string) (*models.Requirement, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if r, ok := db.requirements[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListRequirementsByProject(ctx context.Context, projectID string) ([]models.Requirement, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Requirement{}
	for _, r := range db.requirements {
		if r.ProjectID == projectID {
			results = append(results, r)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateRequirement(ctx context.Context, requirement *models.Requirement) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&requirement.ID)
	for _, r := range db.requirements {
		if r.ProjectID == requirement.ProjectID && strings.EqualFold(r.DisplayID, requirement.DisplayID) {
			return fmt.Errorf("%w: requirement %s", ErrDuplicateDisplayID, requirement.DisplayID)
		}
	}
	db.requirements[requirement.ID] = *requirement
	return nil
}

func (db *MemoryStore) UpdateRequirement(ctx context.Context, requirement *models.Requirement) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.requirements[requirement.ID]; !ok {
		return fmt.Errorf("requirement not found: %s", requirement.ID)
	}
	db.requirements[requirement.ID] = *requirement
	return nil
}

// ==== Standards ====

func (db *MemoryStore) GetStandard(ctx context.Context, id string) (*models.Standard, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if s, ok := db.standards[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListStandardsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Standard, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Standard{}
	for _, s := range db.standards {
		if s.EnterpriseID == enterpriseID {
			results = append(results, s)
		}
	}
	return results, nil
}

func (db *MemoryStore) ListStandardsByProject(ctx context.Context, projectID string) ([]models.Standard, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Standard{}
	for _, s := range db.standards {
		if s.ProjectID == projectID {
			results = append(results, s)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateStandard(ctx context.Context, standard *models.Standard) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&standard.ID)
	for _, s := range db.standards {
		if s.EnterpriseID == standard.EnterpriseID && strings.EqualFold(s.DisplayID, standard.DisplayID) {
			return fmt.Errorf("%w: standard %s", ErrDuplicateDisplayID, standard.DisplayID)
		}
	}
	db.standards[standard.ID] = *standard
	return nil
}

func (db *MemoryStore) UpdateStandard(ctx context.Context, standard *models.Standard) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.standards[standard.ID]; !ok {
		return fmt.Errorf("standard not found: %s", standard.ID)
	}
	db.standards[standard.ID] = *standard
	return nil
}

// ==== Issues ====

func (db *MemoryStore) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if i, ok := db.issues[id]; ok {
		return &i, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListIssuesByProject(ctx context.Context, projectID string) ([]models.Issue, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Issue{}
	for _, i := range db.issues {
		if i.ProjectID == projectID {
			results = append(results, i)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateIssue(ctx context.Context, issue *models.Issue) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&issue.ID)
	for _, i := range db.issues {
		if i.ProjectID == issue.ProjectID && strings.EqualFold(i.DisplayID, issue.DisplayID) {
			return fmt.Errorf("%w: issue %s", ErrDuplicateDisplayID, issue.DisplayID)
		}
	}
	db.issues[issue.ID] = *issue
	return nil
}

func (db *MemoryStore) UpdateIssue(ctx context.Context, issue *models.Issue) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.issues[issue.ID]; !ok {
		return fmt.Errorf("issue not found: %s", issue.ID)
	}
	db.issues[issue.ID] = *issue
	return nil
}

// ==== Keywords ====

func (db *MemoryStore) GetKeyword(ctx context.Context, id string) (*models.Keyword, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if k, ok := db.keywords[id]; ok {
		return &k, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListKeywordsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Keyword, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Keyword{}
	for _, k := range db.keywords {
		if k.EnterpriseID == enterpriseID {
			results = append(results, k)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateKeyword(ctx context.Context, keyword *models.Keyword) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&keyword.ID)
	for _, k := range db.keywords {
		if k.EnterpriseID == keyword.EnterpriseID && strings.EqualFold(k.DisplayID, keyword.DisplayID) {
			return fmt.Errorf("%w: keyword %s", ErrDuplicateDisplayID, keyword.DisplayID)
		}
	}
	db.keywords[keyword.ID] = *keyword
	return nil
}

func (db *MemoryStore) UpdateKeyword(ctx context.Context, keyword *models.Keyword) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.keywords[keyword.ID]; !ok {
		return fmt.Errorf("keyword not found: %s", keyword.ID)
	}
	db.keywords[keyword.ID] = *keyword
	return nil
}

// ==== Domains ====

func (db *MemoryStore) GetDomain(ctx context.Context, id string) (*models.Domain, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if d, ok := db.domains[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListDomainsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Domain, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Domain{}
	for _, d := range db.domains {
		if d.EnterpriseID == enterpriseID {
			results = append(results, d)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateDomain(ctx context.Context, domain *models.Domain) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&domain.ID)
	db.domains[domain.ID] = *domain
	return nil
}

func (db *MemoryStore) UpdateDomain(ctx context.Context, domain *models.Domain) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.domains[domain.ID]; !ok {
		return fmt.Errorf("domain not found: %s", domain.ID)
	}
	db.domains[domain.ID] = *domain
	return nil
}

// ==== Systems ====

func (db *MemoryStore) GetSystem(ctx context.Context, id string) (*models.SystemEntity, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if s, ok := db.systems[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListSystemsByEnterprise(ctx context.Context, enterpriseID string) ([]models.SystemEntity, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.SystemEntity{}
	for _, s := range db.systems {
		if s.EnterpriseID == enterpriseID {
			results = append(results, s)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateSystem(ctx context.Context, system *models.SystemEntity) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&system.ID)
	db.systems[system.ID] = *system
	return nil
}

func (db *MemoryStore) UpdateSystem(ctx context.Context, system *models.SystemEntity) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.systems[system.ID]; !ok {
		return fmt.Errorf("system not found: %s", system.ID)
	}
	db.systems[system.ID] = *system
	return nil
}

// ==== Assets ====

func (db *MemoryStore) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if a, ok := db.assets[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListAssetsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Asset, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Asset{}
	for _, a := range db.assets {
		if a.EnterpriseID == enterpriseID {
			results = append(results, a)
		}
	}
	return results, nil
}

func (db *MemoryStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&asset.ID)
	db.assets[asset.ID] = *asset
	return nil
}

func (db *MemoryStore) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.assets[asset.ID]; !ok {
		return fmt.Errorf("asset not found: %s", asset.ID)
	}
	db.assets[asset.ID] = *asset
	return nil
}

// ==== Resources ====

func (db *MemoryStore) GetResource(ctx context.Context, id string) (*models.Resource, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if r, ok := db.resources[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (db *MemoryStore) ListResourcesByEnterprise(ctx context.Context, enterpriseID string) ([]models.Resource, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := []models.Resource{}
	for _, r := range db.resources {
		if r.EnterpriseID == enterpriseID {
			results = append(results, r)
		}
	}
	return results, nil
}

func (db *MemoryStore) ResolveResourceBySubject(ctx context.Context, oauth2Sub string) (*models.Resource, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	// First match wins when the subject exists in multiple enterprises.
	for _, r := range db.resources {
		if r.OAuth2Sub != "" && r.OAuth2Sub == oauth2Sub {
			return &r, nil
		}
	}
	return nil, nil
}

func (db *MemoryStore) CreateResource(ctx context.Context, resource *models.Resource) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	ensureID(&resource.ID)
	db.resources[resource.ID] = *resource
	return nil
}

func (db *MemoryStore) UpdateResource(ctx context.Context, resource *models.Resource) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.resources[resource.ID]; !ok {
		return fmt.Errorf("resource not found: %s", resource.ID)
	}
	db.resources[resource.ID] = *resource
	return nil
}

// ==== Memberships ====

func (db *MemoryStore) AddProjectResource(ctx context.Context, projectID, resourceID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, m := range db.memberships {
		if m.ProjectID == projectID && m.ResourceID == resourceID {
			return nil
		}
	}
	db.memberships = append(db.memberships, models.ProjectResource{ProjectID: projectID, ResourceID: resourceID})
	return nil
}

func (db *MemoryStore) ScopeForResource(ctx context.Context, resourceID string) ([]string, []string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	enterpriseIDs := []string{}
	projectIDs := []string{}
	seenEnterprise := map[string]bool{}
	for _, m := range db.memberships {
		if m.ResourceID != resourceID {
			continue
		}
		projectIDs = append(projectIDs, m.ProjectID)
		if p, ok := db.projects[m.ProjectID]; ok && !seenEnterprise[p.EnterpriseID] {
			seenEnterprise[p.EnterpriseID] = true
			enterpriseIDs = append(enterpriseIDs, p.EnterpriseID)
		}
	}
	return enterpriseIDs, projectIDs, nil
}

// ==== Slug allocator source ====

func (db *MemoryStore) DisplayIDs(ctx context.Context, entityType slug.EntityType) ([]string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	ids := []string{}
	switch entityType {
	case slug.Project:
		for _, p := range db.projects {
			ids = append(ids, p.DisplayID)
		}
	case slug.WorkItem:
		for _, w := range db.workItems {
			ids = append(ids, w.DisplayID)
		}
	case slug.Milestone:
		for _, m := range db.milestones {
			ids = append(ids, m.DisplayID)
		}
	case slug.Release:
		for _, r := range db.releases {
			ids = append(ids, r.DisplayID)
		}
	case slug.Requirement:
		for _, r := range db.requirements {
			ids = append(ids, r.DisplayID)
		}
	case slug.Standard:
		for _, s := range db.standards {
			ids = append(ids, s.DisplayID)
		}
	case slug.Issue:
		for _, i := range db.issues {
			ids = append(ids, i.DisplayID)
		}
	case slug.Keyword:
		for _, k := range db.keywords {
			ids = append(ids, k.DisplayID)
		}
	default:
		return nil, fmt.Errorf("%w: %s has no backing collection", slug.ErrUnsupportedEntityType, entityType)
	}
	return ids, nil
}

// HealthCheck always succeeds for the in-memory store.
func (db *MemoryStore) HealthCheck(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (db *MemoryStore) Close() error {
	return nil
}
