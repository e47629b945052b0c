package postgres

import (
	"database/sql"

	"github.com/iamtinsae/mockify/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanProject scans a row in projectColumns order.
func scanProject(row scannable) (*model.Project, error) {
	var p model.Project
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Slug, &p.CreatorID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProjects(rows *sql.Rows) ([]*model.Project, error) {
	var out []*model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanResource scans a row in resourceColumns order.
func scanResource(row scannable) (*model.Resource, error) {
	var r model.Resource
	if err := row.Scan(&r.ID, &r.ProjectID, &r.Name, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanResources(rows *sql.Rows) ([]*model.Resource, error) {
	var out []*model.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// scanEndpoint scans a row in endpointColumns order. Schemas are left empty.
func scanEndpoint(row scannable) (*model.Endpoint, error) {
	var (
		e         model.Endpoint
		method    string
		listLimit sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.ResourceID, &e.Name, &e.Route, &method, &e.IsList, &listLimit, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Method = model.HTTPMethod(method)
	if listLimit.Valid {
		n := int(listLimit.Int64)
		e.ListLimit = &n
	}
	return &e, nil
}

func scanEndpoints(rows *sql.Rows) ([]*model.Endpoint, error) {
	var out []*model.Endpoint
	for rows.Next() {
		e, err := scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// scanFields scans rows in fieldColumns order. The result is never nil.
func scanFields(rows *sql.Rows) ([]model.SchemaField, error) {
	out := []model.SchemaField{}
	for rows.Next() {
		var (
			f   model.SchemaField
			typ string
		)
		if err := rows.Scan(&f.ID, &f.EndpointID, &f.Name, &typ, &f.Position); err != nil {
			return nil, err
		}
		f.Type = model.SemanticType(typ)
		out = append(out, f)
	}
	return out, rows.Err()
}

func nullIntPtr(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
