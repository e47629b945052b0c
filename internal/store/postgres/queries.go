package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/iamtinsae/mockify/internal/model"
	"github.com/iamtinsae/mockify/internal/store"
)

const (
	projectColumns  = `id, name, description, slug, creator_id, created_at`
	resourceColumns = `id, project_id, name, created_at`
	endpointColumns = `e.id, e.resource_id, e.name, e.route, e.method, e.is_list, e.list_limit, e.created_at`
	fieldColumns    = `f.id, f.endpoint_id, f.name, f.type, f.position`
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres error codes mapped onto store errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// mapWriteError translates constraint violations into store errors.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", store.ErrConflict, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", store.ErrNotFound, pqErr.Constraint)
		}
	}
	return err
}

// mapReadError translates sql.ErrNoRows into store.ErrNotFound.
func mapReadError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// deleteByID runs a DELETE and reports store.ErrNotFound when nothing was removed.
func deleteByID(ctx context.Context, db executor, query, id string) error {
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- projects ---

func queryCreateProject(ctx context.Context, db executor, p *model.Project) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, slug, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Description, p.Slug, p.CreatorID, p.CreatedAt,
	)
	return mapWriteError(err)
}

func queryGetProject(ctx context.Context, db executor, id string) (*model.Project, error) {
	row := db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return p, nil
}

func queryGetProjectTree(ctx context.Context, db executor, slug string) (*model.Project, error) {
	row := db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug)
	p, err := scanProject(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	if err := loadTree(ctx, db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func queryListProjects(ctx context.Context, db executor, creatorID string) ([]*model.Project, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects
		WHERE creator_id = $1 ORDER BY created_at DESC, id`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func queryListAllProjects(ctx context.Context, db executor) ([]*model.Project, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	projects, err := scanProjects(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		if err := loadTree(ctx, db, p); err != nil {
			return nil, fmt.Errorf("load project %s: %w", p.Slug, err)
		}
	}
	return projects, nil
}

// loadTree populates p.Resources with endpoints and schema fields using one
// query per level.
func loadTree(ctx context.Context, db executor, p *model.Project) error {
	rows, err := db.QueryContext(ctx, `SELECT `+resourceColumns+` FROM resources
		WHERE project_id = $1 ORDER BY created_at, id`, p.ID)
	if err != nil {
		return err
	}
	resources, err := scanResources(rows)
	rows.Close()
	if err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx, `SELECT `+endpointColumns+` FROM endpoints e
		JOIN resources r ON r.id = e.resource_id
		WHERE r.project_id = $1 ORDER BY e.created_at, e.id`, p.ID)
	if err != nil {
		return err
	}
	endpoints, err := scanEndpoints(rows)
	rows.Close()
	if err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx, `SELECT `+fieldColumns+` FROM schema_fields f
		JOIN endpoints e ON e.id = f.endpoint_id
		JOIN resources r ON r.id = e.resource_id
		WHERE r.project_id = $1 ORDER BY f.endpoint_id, f.position, f.id`, p.ID)
	if err != nil {
		return err
	}
	fields, err := scanFields(rows)
	rows.Close()
	if err != nil {
		return err
	}

	byEndpoint := make(map[string]*model.Endpoint, len(endpoints))
	for _, e := range endpoints {
		e.Schemas = []model.SchemaField{}
		byEndpoint[e.ID] = e
	}
	for _, f := range fields {
		if e, ok := byEndpoint[f.EndpointID]; ok {
			e.Schemas = append(e.Schemas, f)
		}
	}

	byResource := make(map[string]*model.Resource, len(resources))
	for _, r := range resources {
		byResource[r.ID] = r
	}
	for _, e := range endpoints {
		if r, ok := byResource[e.ResourceID]; ok {
			r.Endpoints = append(r.Endpoints, e)
		}
	}

	p.Resources = resources
	return nil
}

// --- resources ---

func queryCreateResource(ctx context.Context, db executor, r *model.Resource) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO resources (id, project_id, name, created_at)
		VALUES ($1, $2, $3, $4)`,
		r.ID, r.ProjectID, r.Name, r.CreatedAt,
	)
	return mapWriteError(err)
}

func queryGetResource(ctx context.Context, db executor, id string) (*model.Resource, error) {
	row := db.QueryRowContext(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id)
	r, err := scanResource(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return r, nil
}

// queryDeleteResource relies on ON DELETE CASCADE for endpoints and fields.
func queryDeleteResource(ctx context.Context, db executor, id string) error {
	return deleteByID(ctx, db, `DELETE FROM resources WHERE id = $1`, id)
}

// --- endpoints ---

func queryCreateEndpoint(ctx context.Context, db executor, e *model.Endpoint) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO endpoints (id, resource_id, name, route, method, is_list, list_limit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.ResourceID, e.Name, e.Route, string(e.Method), e.IsList, nullIntPtr(e.ListLimit), e.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}

	for i := range e.Schemas {
		f := &e.Schemas[i]
		f.EndpointID = e.ID
		f.Position = i
		err := db.QueryRowContext(ctx, `
			INSERT INTO schema_fields (endpoint_id, name, type, position)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			e.ID, f.Name, string(f.Type), f.Position,
		).Scan(&f.ID)
		if err != nil {
			return fmt.Errorf("insert schema field %q: %w", f.Name, mapWriteError(err))
		}
	}
	return nil
}

func queryGetEndpoint(ctx context.Context, db executor, id string) (*model.Endpoint, error) {
	row := db.QueryRowContext(ctx, `SELECT `+endpointColumns+` FROM endpoints e WHERE e.id = $1`, id)
	e, err := scanEndpoint(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	fields, err := queryGetFields(ctx, db, e.ID)
	if err != nil {
		return nil, err
	}
	e.Schemas = fields
	return e, nil
}

func queryDeleteEndpoint(ctx context.Context, db executor, id string) error {
	return deleteByID(ctx, db, `DELETE FROM endpoints WHERE id = $1`, id)
}

func queryGetFields(ctx context.Context, db executor, endpointID string) ([]model.SchemaField, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+fieldColumns+` FROM schema_fields f
		WHERE f.endpoint_id = $1 ORDER BY f.position, f.id`, endpointID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFields(rows)
}

// queryFindEndpoint matches all four key components exactly. The unique
// (resource_id, route, method) constraint allows at most one row; the
// ORDER BY keeps the choice deterministic if that constraint is ever lifted.
// Absence is (nil, nil).
func queryFindEndpoint(ctx context.Context, db executor, key model.EndpointKey) (*model.Endpoint, error) {
	row := db.QueryRowContext(ctx, `SELECT `+endpointColumns+` FROM endpoints e
		JOIN resources r ON r.id = e.resource_id
		JOIN projects p ON p.id = r.project_id
		WHERE p.slug = $1 AND r.name = $2 AND e.route = $3 AND e.method = $4
		ORDER BY e.created_at, e.id
		LIMIT 1`,
		key.ProjectSlug, key.ResourceName, key.Route, string(key.Method),
	)
	e, err := scanEndpoint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	fields, err := queryGetFields(ctx, db, e.ID)
	if err != nil {
		return nil, err
	}
	e.Schemas = fields
	return e, nil
}
