package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"project-mcp-backend/pkg/models"
	"project-mcp-backend/pkg/slug"
)

// PostgresStore is the PostgreSQL implementation of Store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a PostgreSQL connection with pool limits suitable for
// both server and serverless deployments, and verifies it with a ping.
func NewPostgresStore(dsn string) Store {
	// Sanitize DSN to avoid stray CR/LF from env values
	dsn = strings.TrimSpace(dsn)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		panic(fmt.Sprintf("Failed to open PostgreSQL connection: %v", err))
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		panic(fmt.Sprintf("Failed to ping PostgreSQL: %v", err))
	}

	return &PostgresStore{db: db}
}

// isUniqueViolation reports whether err is a unique-index violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func wrapInsertErr(err error, kind, displayID string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s %s", ErrDuplicateDisplayID, kind, displayID)
	}
	return fmt.Errorf("failed to create %s: %w", kind, err)
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}

// ==== Enterprises ====

const enterpriseColumns = `id, display_id, name, COALESCE(description,''), created_at, updated_at`

func scanEnterprise(s scanner) (*models.Enterprise, error) {
	var e models.Enterprise
	err := s.Scan(&e.ID, &e.DisplayID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (db *PostgresStore) GetEnterprise(ctx context.Context, id string) (*models.Enterprise, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+enterpriseColumns+` FROM enterprises WHERE id = $1`, id)
	return scanEnterprise(row)
}

func (db *PostgresStore) ListEnterprisesByIDs(ctx context.Context, ids []string) ([]models.Enterprise, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+enterpriseColumns+` FROM enterprises WHERE id = ANY($1) ORDER BY display_id`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list enterprises: %w", err)
	}
	defer rows.Close()

	results := []models.Enterprise{}
	for rows.Next() {
		e, err := scanEnterprise(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *e)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateEnterprise(ctx context.Context, enterprise *models.Enterprise) error {
	if enterprise.ID == "" {
		enterprise.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO enterprises (id, display_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, $6)`,
		enterprise.ID, enterprise.DisplayID, enterprise.Name, enterprise.Description,
		enterprise.CreatedAt, enterprise.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "enterprise", enterprise.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateEnterprise(ctx context.Context, enterprise *models.Enterprise) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE enterprises SET name = $2, description = NULLIF($3,''), updated_at = $4
		WHERE id = $1`,
		enterprise.ID, enterprise.Name, enterprise.Description, enterprise.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update enterprise: %w", err)
	}
	return nil
}

// ==== Projects ====

const projectColumns = `id, display_id, enterprise_id, name, COALESCE(description,''),
	status, COALESCE(tech_stack,''), created_at, updated_at`

func scanProject(s scanner) (*models.Project, error) {
	var p models.Project
	err := s.Scan(&p.ID, &p.DisplayID, &p.EnterpriseID, &p.Name, &p.Description,
		&p.Status, &p.TechStack, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *PostgresStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func (db *PostgresStore) GetProjectBySlug(ctx context.Context, displayID, enterpriseID string) (*models.Project, error) {
	row := db.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE enterprise_id = $1 AND LOWER(display_id) = LOWER($2)`,
		enterpriseID, displayID)
	return scanProject(row)
}

func (db *PostgresStore) ListProjectsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Project, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE enterprise_id = $1 ORDER BY display_id`, enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	results := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *p)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateProject(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO projects (id, display_id, enterprise_id, name, description, status, tech_stack, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, NULLIF($7,''), $8, $9)`,
		project.ID, project.DisplayID, project.EnterpriseID, project.Name, project.Description,
		project.Status, project.TechStack, project.CreatedAt, project.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "project", project.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateProject(ctx context.Context, project *models.Project) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE projects SET name = $2, description = NULLIF($3,''), status = $4,
			tech_stack = NULLIF($5,''), updated_at = $6
		WHERE id = $1`,
		project.ID, project.Name, project.Description, project.Status, project.TechStack, project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

func (db *PostgresStore) ProjectExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := db.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project existence: %w", err)
	}
	return exists, nil
}

// ==== Work items ====

const workItemColumns = `id, display_id, project_id, COALESCE(parent_id,''), level,
	COALESCE(state,''), COALESCE(status,''), title, COALESCE(description,''),
	COALESCE(resource_id,''), COALESCE(milestone_id,''), COALESCE(release_id,''),
	start_date, due_date, COALESCE(effort_hours,0), COALESCE(complexity,0), COALESCE(priority,0),
	created_at, updated_at`

func scanWorkItem(s scanner) (*models.WorkItem, error) {
	var w models.WorkItem
	err := s.Scan(&w.ID, &w.DisplayID, &w.ProjectID, &w.ParentID, &w.Level,
		&w.State, &w.Status, &w.Title, &w.Description,
		&w.ResourceID, &w.MilestoneID, &w.ReleaseID,
		&w.StartDate, &w.DueDate, &w.EffortHours, &w.Complexity, &w.Priority,
		&w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (db *PostgresStore) GetWorkItem(ctx context.Context, id string) (*models.WorkItem, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+workItemColumns+` FROM work_items WHERE id = $1`, id)
	return scanWorkItem(row)
}

func (db *PostgresStore) ListWorkItems(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, error) {
	// Conjunction of all provided filter fields; empty fields are skipped.
	conditions := []string{}
	args := []interface{}{}
	add := func(column, value string) {
		if value != "" {
			args = append(args, value)
			conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("project_id", filter.ProjectID)
	add("parent_id", filter.ParentID)
	add("level", string(filter.Level))
	add("status", string(filter.Status))
	add("milestone_id", filter.MilestoneID)
	add("resource_id", filter.ResourceID)

	query := `SELECT ` + workItemColumns + ` FROM work_items`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY display_id`

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	defer rows.Close()

	results := []models.WorkItem{}
	for rows.Next() {
		w, err := scanWorkItem(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *w)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateWorkItem(ctx context.Context, item *models.WorkItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO work_items (id, display_id, project_id, parent_id, level, state, status,
			title, description, resource_id, milestone_id, release_id,
			start_date, due_date, effort_hours, complexity, priority, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, NULLIF($6,''), NULLIF($7,''),
			$8, NULLIF($9,''), NULLIF($10,''), NULLIF($11,''), NULLIF($12,''),
			$13, $14, $15, $16, $17, $18, $19)`,
		item.ID, item.DisplayID, item.ProjectID, item.ParentID, item.Level, item.State, item.Status,
		item.Title, item.Description, item.ResourceID, item.MilestoneID, item.ReleaseID,
		item.StartDate, item.DueDate, item.EffortHours, item.Complexity, item.Priority,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "work item", item.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateWorkItem(ctx context.Context, item *models.WorkItem) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE work_items SET parent_id = NULLIF($2,''), level = $3, state = NULLIF($4,''),
			status = NULLIF($5,''), title = $6, description = NULLIF($7,''),
			resource_id = NULLIF($8,''), milestone_id = NULLIF($9,''), release_id = NULLIF($10,''),
			start_date = $11, due_date = $12, effort_hours = $13, complexity = $14, priority = $15,
			updated_at = $16
		WHERE id = $1`,
		item.ID, item.ParentID, item.Level, item.State,
		item.Status, item.Title, item.Description,
		item.ResourceID, item.MilestoneID, item.ReleaseID,
		item.StartDate, item.DueDate, item.EffortHours, item.Complexity, item.Priority,
		item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update work item: %w", err)
	}
	return nil
}

func (db *PostgresStore) DeleteWorkItem(ctx context.Context, id string) (bool, error) {
	result, err := db.db.ExecContext(ctx, `DELETE FROM work_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete work item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ==== Milestones ====

const milestoneColumns = `id, display_id, enterprise_id, COALESCE(project_id,''), title,
	COALESCE(description,''), due_date, state, created_at, updated_at`

func scanMilestone(s scanner) (*models.Milestone, error) {
	var m models.Milestone
	err := s.Scan(&m.ID, &m.DisplayID, &m.EnterpriseID, &m.ProjectID, &m.Title,
		&m.Description, &m.DueDate, &m.State, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (db *PostgresStore) GetMilestone(ctx context.Context, id string) (*models.Milestone, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE id = $1`, id)
	return scanMilestone(row)
}

func (db *PostgresStore) ListMilestonesByEnterprise(ctx context.Context, enterpriseID string) ([]models.Milestone, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE enterprise_id = $1 ORDER BY display_id`, enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	results := []models.Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *m)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateMilestone(ctx context.Context, milestone *models.Milestone) error {
	if milestone.ID == "" {
		milestone.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO milestones (id, display_id, enterprise_id, project_id, title, description, due_date, state, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, NULLIF($6,''), $7, $8, $9, $10)`,
		milestone.ID, milestone.DisplayID, milestone.EnterpriseID, milestone.ProjectID,
		milestone.Title, milestone.Description, milestone.DueDate, milestone.State,
		milestone.CreatedAt, milestone.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "milestone", milestone.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateMilestone(ctx context.Context, milestone *models.Milestone) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE milestones SET project_id = NULLIF($2,''), title = $3, description = NULLIF($4,''),
			due_date = $5, state = $6, updated_at = $7
		WHERE id = $1`,
		milestone.ID, milestone.ProjectID, milestone.Title, milestone.Description,
		milestone.DueDate, milestone.State, milestone.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update milestone: %w", err)
	}
	return nil
}

// ==== Releases ====

const releaseColumns = `id, display_id, project_id, name, COALESCE(tag_version,''),
	release_date, COALESCE(notes,''), created_at, updated_at`

func scanRelease(s scanner) (*models.Release, error) {
	var r models.Release
	err := s.Scan(&r.ID, &r.DisplayID, &r.ProjectID, &r.Name, &r.TagVersion,
		&r.ReleaseDate, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *PostgresStore) GetRelease(ctx context.Context, id string) (*models.Release, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+releaseColumns+` FROM releases WHERE id = $1`, id)
	return scanRelease(row)
}

func (db *PostgresStore) ListReleasesByProject(ctx context.Context, projectID string) ([]models.Release, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+releaseColumns+` FROM releases WHERE project_id = $1 ORDER BY display_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	defer rows.Close()

	results := []models.Release{}
	for rows.Next() {
		r, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateRelease(ctx context.Context, release *models.Release) error {
	if release.ID == "" {
		release.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO releases (id, display_id, project_id, name, tag_version, release_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, NULLIF($7,''), $8, $9)`,
		release.ID, release.DisplayID, release.ProjectID, release.Name, release.TagVersion,
		release.ReleaseDate, release.Notes, release.CreatedAt, release.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "release", release.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateRelease(ctx context.Context, release *models.Release) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE releases SET name = $2, tag_version = NULLIF($3,''), release_date = $4,
			notes = NULLIF($5,''), updated_at = $6
		WHERE id = $1`,
		release.ID, release.Name, release.TagVersion, release.ReleaseDate, release.Notes, release.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update release: %w", err)
	}
	return nil
}

// ==== Requirements ====

const requirementColumns = `id, display_id, project_id, COALESCE(parent_id,''), COALESCE(keyword_id,''),
	title, COALESCE(description,''), state, created_at, updated_at`

func scanRequirement(s scanner) (*models.Requirement, error) {
	var r models.Requirement
	err := s.Scan(&r.ID, &r.DisplayID, &r.ProjectID, &r.ParentID, &r.KeywordID,
		&r.Title, &r.Description, &r.State, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *PostgresStore) GetRequirement(ctx context.Context, id string) (*models.Requirement, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE id = $1`, id)
	return scanRequirement(row)
}

func (db *PostgresStore) ListRequirementsByProject(ctx context.Context, projectID string) ([]models.Requirement, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+requirementColumns+` FROM requirements WHERE project_id = $1 ORDER BY display_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

	results := []models.Requirement{}
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateRequirement(ctx context.Context, requirement *models.Requirement) error {
	if requirement.ID == "" {
		requirement.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO requirements (id, display_id, project_id, parent_id, keyword_id, title, description, state, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), $6, NULLIF($7,''), $8, $9, $10)`,
		requirement.ID, requirement.DisplayID, requirement.ProjectID, requirement.ParentID,
		requirement.KeywordID, requirement.Title, requirement.Description, requirement.State,
		requirement.CreatedAt, requirement.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "requirement", requirement.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateRequirement(ctx context.Context, requirement *models.Requirement) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE requirements SET parent_id = NULLIF($2,''), keyword_id = NULLIF($3,''),
			title = $4, description = NULLIF($5,''), state = $6, updated_at = $7
		WHERE id = $1`,
		requirement.ID, requirement.ParentID, requirement.KeywordID,
		requirement.Title, requirement.Description, requirement.State, requirement.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update requirement: %w", err)
	}
	return nil
}

// ==== Standards ====

const standardColumns = `id, display_id, enterprise_id, COALESCE(project_id,''), title,
	COALESCE(description,''), created_at, updated_at`

func scanStandard(s scanner) (*models.Standard, error) {
	var st models.Standard
	err := s.Scan(&st.ID, &st.DisplayID, &st.EnterpriseID, &st.ProjectID, &st.Title,
		&st.Description, &st.CreatedAt, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (db *PostgresStore) GetStandard(ctx context.Context, id string) (*models.Standard, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+standardColumns+` FROM standards WHERE id = $1`, id)
	return scanStandard(row)
}

func (db *PostgresStore) ListStandardsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Standard, error) {
	return db.listStandards(ctx, `enterprise_id`, enterpriseID)
}

func (db *PostgresStore) ListStandardsByProject(ctx context.Context, projectID string) ([]models.Standard, error) {
	return db.listStandards(ctx, `project_id`, projectID)
}

func (db *PostgresStore) listStandards(ctx context.Context, column, value string) ([]models.Standard, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+standardColumns+` FROM standards WHERE `+column+` = $1 ORDER BY display_id`, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list standards: %w", err)
	}
	defer rows.Close()

	results := []models.Standard{}
	for rows.Next() {
		st, err := scanStandard(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *st)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateStandard(ctx context.Context, standard *models.Standard) error {
	if standard.ID == "" {
		standard.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO standards (id, display_id, enterprise_id, project_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, NULLIF($6,''), $7, $8)`,
		standard.ID, standard.DisplayID, standard.EnterpriseID, standard.ProjectID,
		standard.Title, standard.Description, standard.CreatedAt, standard.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "standard", standard.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateStandard(ctx context.Context, standard *models.Standard) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE standards SET project_id = NULLIF($2,''), title = $3, description = NULLIF($4,''), updated_at = $5
		WHERE id = $1`,
		standard.ID, standard.ProjectID, standard.Title, standard.Description, standard.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update standard: %w", err)
	}
	return nil
}

// ==== Issues ====

const issueColumns = `id, display_id, project_id, title, COALESCE(description,''),
	state, COALESCE(resource_id,''), created_at, updated_at`

func scanIssue(s scanner) (*models.Issue, error) {
	var i models.Issue
	err := s.Scan(&i.ID, &i.DisplayID, &i.ProjectID, &i.Title, &i.Description,
		&i.State, &i.ResourceID, &i.CreatedAt, &i.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (db *PostgresStore) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = $1`, id)
	return scanIssue(row)
}

func (db *PostgresStore) ListIssuesByProject(ctx context.Context, projectID string) ([]models.Issue, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE project_id = $1 ORDER BY display_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	results := []models.Issue{}
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *i)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateIssue(ctx context.Context, issue *models.Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO issues (id, display_id, project_id, title, description, state, resource_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, NULLIF($7,''), $8, $9)`,
		issue.ID, issue.DisplayID, issue.ProjectID, issue.Title, issue.Description,
		issue.State, issue.ResourceID, issue.CreatedAt, issue.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "issue", issue.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateIssue(ctx context.Context, issue *models.Issue) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE issues SET title = $2, description = NULLIF($3,''), state = $4,
			resource_id = NULLIF($5,''), updated_at = $6
		WHERE id = $1`,
		issue.ID, issue.Title, issue.Description, issue.State, issue.ResourceID, issue.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	return nil
}

// ==== Keywords ====

const keywordColumns = `id, display_id, enterprise_id, name, created_at, updated_at`

func scanKeyword(s scanner) (*models.Keyword, error) {
	var k models.Keyword
	err := s.Scan(&k.ID, &k.DisplayID, &k.EnterpriseID, &k.Name, &k.CreatedAt, &k.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (db *PostgresStore) GetKeyword(ctx context.Context, id string) (*models.Keyword, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+keywordColumns+` FROM keywords WHERE id = $1`, id)
	return scanKeyword(row)
}

func (db *PostgresStore) ListKeywordsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Keyword, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+keywordColumns+` FROM keywords WHERE enterprise_id = $1 ORDER BY display_id`, enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	results := []models.Keyword{}
	for rows.Next() {
		k, err := scanKeyword(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *k)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateKeyword(ctx context.Context, keyword *models.Keyword) error {
	if keyword.ID == "" {
		keyword.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO keywords (id, display_id, enterprise_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		keyword.ID, keyword.DisplayID, keyword.EnterpriseID, keyword.Name,
		keyword.CreatedAt, keyword.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "keyword", keyword.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateKeyword(ctx context.Context, keyword *models.Keyword) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE keywords SET name = $2, updated_at = $3 WHERE id = $1`,
		keyword.ID, keyword.Name, keyword.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update keyword: %w", err)
	}
	return nil
}

// ==== Domains ====

const namedEntityColumns = `id, display_id, enterprise_id, name, COALESCE(description,''), created_at, updated_at`

func (db *PostgresStore) GetDomain(ctx context.Context, id string) (*models.Domain, error) {
	var d models.Domain
	err := db.db.QueryRowContext(ctx, `SELECT `+namedEntityColumns+` FROM domains WHERE id = $1`, id).
		Scan(&d.ID, &d.DisplayID, &d.EnterpriseID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (db *PostgresStore) ListDomainsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Domain, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+namedEntityColumns+` FROM domains WHERE enterprise_id = $1 ORDER BY display_id`, enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	results := []models.Domain{}
	for rows.Next() {
		var d models.Domain
		if err := rows.Scan(&d.ID, &d.DisplayID, &d.EnterpriseID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateDomain(ctx context.Context, domain *models.Domain) error {
	if domain.ID == "" {
		domain.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO domains (id, display_id, enterprise_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, $7)`,
		domain.ID, domain.DisplayID, domain.EnterpriseID, domain.Name, domain.Description,
		domain.CreatedAt, domain.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "domain", domain.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateDomain(ctx context.Context, domain *models.Domain) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE domains SET name = $2, description = NULLIF($3,''), updated_at = $4 WHERE id = $1`,
		domain.ID, domain.Name, domain.Description, domain.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update domain: %w", err)
	}
	return nil
}

// ==== Systems ====

func (db *PostgresStore) GetSystem(ctx context.Context, id string) (*models.SystemEntity, error) {
	var s models.SystemEntity
	err := db.db.QueryRowContext(ctx, `SELECT `+namedEntityColumns+` FROM systems WHERE id = $1`, id).
		Scan(&s.ID, &s.DisplayID, &s.EnterpriseID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *PostgresStore) ListSystemsByEnterprise(ctx context.Context, enterpriseID string) ([]models.SystemEntity, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+namedEntityColumns+` FROM systems WHERE enterprise_id = $1 ORDER BY display_id`, enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list systems: %w", err)
	}
	defer rows.Close()

	results := []models.SystemEntity{}
	for rows.Next() {
		var s models.SystemEntity
		if err := rows.Scan(&s.ID, &s.DisplayID, &s.EnterpriseID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateSystem(ctx context.Context, system *models.SystemEntity) error {
	if system.ID == "" {
		system.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO systems (id, display_id, enterprise_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, $7)`,
		system.ID, system.DisplayID, system.EnterpriseID, system.Name, system.Description,
		system.CreatedAt, system.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "system", system.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateSystem(ctx context.Context, system *models.SystemEntity) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE systems SET name = $2, description = NULLIF($3,''), updated_at = $4 WHERE id = $1`,
		system.ID, system.Name, system.Description, system.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update system: %w", err)
	}
	return nil
}

// ==== Assets ====

const assetColumns = `id, display_id, enterprise_id, name, COALESCE(description,''),
	COALESCE(asset_type,''), created_at, updated_at`

func (db *PostgresStore) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	var a models.Asset
	err := db.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id).
		Scan(&a.ID, &a.DisplayID, &a.EnterpriseID, &a.Name, &a.Description, &a.AssetType, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *PostgresStore) ListAssetsByEnterprise(ctx context.Context, enterpriseID string) ([]models.Asset, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE enterprise_id = $1 ORDER BY display_id`, enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	results := []models.Asset{}
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.ID, &a.DisplayID, &a.EnterpriseID, &a.Name, &a.Description, &a.AssetType, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func (db *PostgresStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO assets (id, display_id, enterprise_id, name, description, asset_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), NULLIF($6,''), $7, $8)`,
		asset.ID, asset.DisplayID, asset.EnterpriseID, asset.Name, asset.Description,
		asset.AssetType, asset.CreatedAt, asset.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "asset", asset.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE assets SET name = $2, description = NULLIF($3,''), asset_type = NULLIF($4,''), updated_at = $5
		WHERE id = $1`,
		asset.ID, asset.Name, asset.Description, asset.AssetType, asset.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return nil
}

// ==== Resources ====

const resourceColumns = `id, display_id, enterprise_id, name, COALESCE(description,''),
	COALESCE(oauth2_sub,''), created_at, updated_at`

func scanResource(s scanner) (*models.Resource, error) {
	var r models.Resource
	err := s.Scan(&r.ID, &r.DisplayID, &r.EnterpriseID, &r.Name, &r.Description,
		&r.OAuth2Sub, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *PostgresStore) GetResource(ctx context.Context, id string) (*models.Resource, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id)
	return scanResource(row)
}

func (db *PostgresStore) ListResourcesByEnterprise(ctx context.Context, enterpriseID string) ([]models.Resource, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE enterprise_id = $1 ORDER BY display_id`, enterpriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	results := []models.Resource{}
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

func (db *PostgresStore) ResolveResourceBySubject(ctx context.Context, oauth2Sub string) (*models.Resource, error) {
	// First match wins when the subject exists in multiple enterprises.
	row := db.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE oauth2_sub = $1 ORDER BY created_at LIMIT 1`, oauth2Sub)
	return scanResource(row)
}

func (db *PostgresStore) CreateResource(ctx context.Context, resource *models.Resource) error {
	if resource.ID == "" {
		resource.ID = uuid.New().String()
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO resources (id, display_id, enterprise_id, name, description, oauth2_sub, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), NULLIF($6,''), $7, $8)`,
		resource.ID, resource.DisplayID, resource.EnterpriseID, resource.Name, resource.Description,
		resource.OAuth2Sub, resource.CreatedAt, resource.UpdatedAt)
	if err != nil {
		return wrapInsertErr(err, "resource", resource.DisplayID)
	}
	return nil
}

func (db *PostgresStore) UpdateResource(ctx context.Context, resource *models.Resource) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE resources SET name = $2, description = NULLIF($3,''), oauth2_sub = NULLIF($4,''), updated_at = $5
		WHERE id = $1`,
		resource.ID, resource.Name, resource.Description, resource.OAuth2Sub, resource.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	return nil
}

// ==== Memberships ====

func (db *PostgresStore) AddProjectResource(ctx context.Context, projectID, resourceID string) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO project_resources (project_id, resource_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, resource_id) DO NOTHING`,
		projectID, resourceID)
	if err != nil {
		return fmt.Errorf("failed to add project resource: %w", err)
	}
	return nil
}

func (db *PostgresStore) ScopeForResource(ctx context.Context, resourceID string) ([]string, []string, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT p.enterprise_id, p.id
		FROM project_resources pr
		JOIN projects p ON p.id = pr.project_id
		WHERE pr.resource_id = $1`,
		resourceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute scope: %w", err)
	}
	defer rows.Close()

	enterpriseIDs := []string{}
	projectIDs := []string{}
	seenEnterprise := map[string]bool{}
	for rows.Next() {
		var enterpriseID, projectID string
		if err := rows.Scan(&enterpriseID, &projectID); err != nil {
			return nil, nil, err
		}
		projectIDs = append(projectIDs, projectID)
		if !seenEnterprise[enterpriseID] {
			seenEnterprise[enterpriseID] = true
			enterpriseIDs = append(enterpriseIDs, enterpriseID)
		}
	}
	return enterpriseIDs, projectIDs, rows.Err()
}

// ==== Slug allocator source ====

var displayIDTables = map[slug.EntityType]string{
	slug.Project:     "projects",
	slug.WorkItem:    "work_items",
	slug.Milestone:   "milestones",
	slug.Release:     "releases",
	slug.Requirement: "requirements",
	slug.Standard:    "standards",
	slug.Issue:       "issues",
	slug.Keyword:     "keywords",
}

func (db *PostgresStore) DisplayIDs(ctx context.Context, entityType slug.EntityType) ([]string, error) {
	table, ok := displayIDTables[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no backing collection", slug.ErrUnsupportedEntityType, entityType)
	}

	rows, err := db.db.QueryContext(ctx, `SELECT display_id FROM `+table)
	if err != nil {
		return nil, fmt.Errorf("failed to list display ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HealthCheck pings the database.
func (db *PostgresStore) HealthCheck(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

// Close closes the connection pool.
func (db *PostgresStore) Close() error {
	return db.db.Close()
}
