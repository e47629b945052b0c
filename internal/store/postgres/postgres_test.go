package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/iamtinsae/mockify/internal/model"
	"github.com/iamtinsae/mockify/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var (
	projectRowColumns  = []string{"id", "name", "description", "slug", "creator_id", "created_at"}
	resourceRowColumns = []string{"id", "project_id", "name", "created_at"}
	endpointRowColumns = []string{"id", "resource_id", "name", "route", "method", "is_list", "list_limit", "created_at"}
	fieldRowColumns    = []string{"id", "endpoint_id", "name", "type", "position"}
)

func TestMapWriteError(t *testing.T) {
	if err := mapWriteError(nil); err != nil {
		t.Errorf("mapWriteError(nil) = %v", err)
	}
	if err := mapWriteError(&pq.Error{Code: "23505", Constraint: "projects_slug_key"}); !errors.Is(err, store.ErrConflict) {
		t.Errorf("unique violation mapped to %v, want ErrConflict", err)
	}
	if err := mapWriteError(&pq.Error{Code: "23503", Constraint: "resources_project_id_fkey"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign key violation mapped to %v, want ErrNotFound", err)
	}
	other := errors.New("connection reset")
	if err := mapWriteError(other); err != other {
		t.Errorf("unrelated error mapped to %v", err)
	}
}

func TestScanHelpers(t *testing.T) {
	if nullIntPtr(nil).Valid {
		t.Error("nullIntPtr(nil) should be invalid")
	}
	n := 25
	if ni := nullIntPtr(&n); !ni.Valid || ni.Int64 != 25 {
		t.Errorf("nullIntPtr(25) = %v", ni)
	}
}

func TestQueryCreateProject(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	p := &model.Project{ID: "prj-1", Name: "Demo", Slug: "demo-1a2b3c4d", CreatorID: "alice", CreatedAt: now}

	mock.ExpectExec("INSERT INTO projects").
		WithArgs("prj-1", "Demo", "", "demo-1a2b3c4d", "alice", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryCreateProject(context.Background(), db, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryCreateProject_DuplicateSlug(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO projects").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "projects_slug_key"})

	err := queryCreateProject(context.Background(), db, &model.Project{ID: "prj-1", Slug: "demo"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestQueryGetProject_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .+ FROM projects WHERE id = \\$1").WithArgs("prj-x").WillReturnError(sql.ErrNoRows)

	_, err := queryGetProject(context.Background(), db, "prj-x")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQueryGetProjectTree(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .+ FROM projects WHERE slug = \\$1").WithArgs("demo").
		WillReturnRows(sqlmock.NewRows(projectRowColumns).AddRow("prj-1", "Demo", "", "demo", "alice", now))
	mock.ExpectQuery("SELECT .+ FROM resources WHERE project_id = \\$1").WithArgs("prj-1").
		WillReturnRows(sqlmock.NewRows(resourceRowColumns).
			AddRow("res-1", "prj-1", "users", now).
			AddRow("res-2", "prj-1", "posts", now))
	mock.ExpectQuery("SELECT .+ FROM endpoints e\\s+JOIN resources r").WithArgs("prj-1").
		WillReturnRows(sqlmock.NewRows(endpointRowColumns).
			AddRow("ep-1", "res-1", "list", "/", "GET", true, 20, now).
			AddRow("ep-2", "res-1", "create", "/", "POST", false, nil, now))
	mock.ExpectQuery("SELECT .+ FROM schema_fields f\\s+JOIN endpoints e").WithArgs("prj-1").
		WillReturnRows(sqlmock.NewRows(fieldRowColumns).
			AddRow(1, "ep-1", "id", "ID", 0).
			AddRow(2, "ep-1", "name", "NAME", 1))

	p, err := queryGetProjectTree(context.Background(), db, "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(p.Resources))
	}
	users := p.Resources[0]
	if users.Name != "users" || len(users.Endpoints) != 2 {
		t.Fatalf("users resource = %+v", users)
	}
	list := users.Endpoints[0]
	if !list.IsList || list.ListLimit == nil || *list.ListLimit != 20 {
		t.Errorf("list endpoint = %+v", list)
	}
	if len(list.Schemas) != 2 || list.Schemas[0].Name != "id" || list.Schemas[1].Type != model.TypeName {
		t.Errorf("list schemas = %+v", list.Schemas)
	}
	create := users.Endpoints[1]
	if create.ListLimit != nil {
		t.Errorf("create.ListLimit = %v, want nil", *create.ListLimit)
	}
	if create.Schemas == nil || len(create.Schemas) != 0 {
		t.Errorf("create.Schemas = %#v, want empty non-nil", create.Schemas)
	}
	if len(p.Resources[1].Endpoints) != 0 {
		t.Errorf("posts should have no endpoints")
	}
}

func TestQueryFindEndpoint(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("(?s)SELECT .+ FROM endpoints e.+JOIN projects p.+LIMIT 1").
		WithArgs("demo", "users", "/", "GET").
		WillReturnRows(sqlmock.NewRows(endpointRowColumns).AddRow("ep-1", "res-1", "list", "/", "GET", false, nil, now))
	mock.ExpectQuery("SELECT .+ FROM schema_fields f\\s+WHERE f.endpoint_id = \\$1").WithArgs("ep-1").
		WillReturnRows(sqlmock.NewRows(fieldRowColumns).
			AddRow(1, "ep-1", "a", "AGE", 0).
			AddRow(2, "ep-1", "a", "WORD", 1))

	e, err := queryFindEndpoint(context.Background(), db, findKey("demo", "users", "/", model.MethodGet))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e == nil || e.ID != "ep-1" {
		t.Fatalf("got %+v, want ep-1", e)
	}
	if len(e.Schemas) != 2 || e.Schemas[1].Type != model.TypeWord {
		t.Errorf("schemas = %+v, want ordered [AGE, WORD]", e.Schemas)
	}
}

func TestQueryFindEndpoint_NoMatch(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .+ FROM endpoints e").
		WithArgs("nope", "users", "/", "GET").
		WillReturnRows(sqlmock.NewRows(endpointRowColumns))

	e, err := queryFindEndpoint(context.Background(), db, findKey("nope", "users", "/", model.MethodGet))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e != nil {
		t.Fatalf("expected nil endpoint, got %+v", e)
	}
}

func TestQueryFindEndpoint_StoreError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .+ FROM endpoints e").WillReturnError(errors.New("connection refused"))

	if _, err := queryFindEndpoint(context.Background(), db, findKey("demo", "users", "/", model.MethodGet)); err == nil {
		t.Fatal("expected error")
	}
}

func TestQueryCreateEndpoint(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	e := &model.Endpoint{
		ID: "ep-1", ResourceID: "res-1", Name: "list", Route: "/", Method: model.MethodGet,
		IsList: true, CreatedAt: now,
		Schemas: []model.SchemaField{
			{Name: "id", Type: model.TypeID},
			{Name: "age", Type: model.TypeAge},
		},
	}

	mock.ExpectExec("INSERT INTO endpoints").
		WithArgs("ep-1", "res-1", "list", "/", "GET", true, nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO schema_fields").WithArgs("ep-1", "id", "ID", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery("INSERT INTO schema_fields").WithArgs("ep-1", "age", "AGE", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	if err := queryCreateEndpoint(context.Background(), db, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Schemas[0].ID != 11 || e.Schemas[1].ID != 12 {
		t.Errorf("field ids = %d, %d", e.Schemas[0].ID, e.Schemas[1].ID)
	}
	if e.Schemas[1].Position != 1 || e.Schemas[1].EndpointID != "ep-1" {
		t.Errorf("field = %+v", e.Schemas[1])
	}
}

func TestQueryCreateEndpoint_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO endpoints").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "endpoints_resource_id_route_method_key"})

	err := queryCreateEndpoint(context.Background(), db, &model.Endpoint{ID: "ep-2", Method: model.MethodGet})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestQueryDeleteResource(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM resources WHERE id = \\$1").WithArgs("res-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryDeleteResource(context.Background(), db, "res-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryDeleteResource_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM resources WHERE id = \\$1").WithArgs("res-x").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := queryDeleteResource(context.Background(), db, "res-x"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateEndpoint_Transaction(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO endpoints").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO schema_fields").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := s.CreateEndpoint(context.Background(), &model.Endpoint{
		ID: "ep-1", ResourceID: "res-1", Name: "get", Route: "/", Method: model.MethodGet, CreatedAt: now,
		Schemas: []model.SchemaField{{Name: "id", Type: model.TypeID}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateEndpoint_RollbackOnFieldError(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO endpoints").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO schema_fields").WillReturnError(errors.New("check constraint"))
	mock.ExpectRollback()

	err := s.CreateEndpoint(context.Background(), &model.Endpoint{
		ID: "ep-1", ResourceID: "res-1", Name: "get", Route: "/", Method: model.MethodGet,
		Schemas: []model.SchemaField{{Name: "id", Type: "BOGUS"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func findKey(slug, resource, route string, method model.HTTPMethod) model.EndpointKey {
	return model.EndpointKey{ProjectSlug: slug, ResourceName: resource, Route: route, Method: method}
}
