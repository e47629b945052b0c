// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/iamtinsae/mockify/internal/model"
	"github.com/iamtinsae/mockify/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateProject(ctx context.Context, project *model.Project) error {
	return queryCreateProject(ctx, s.db, project)
}

func (s *PostgresStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return queryGetProject(ctx, s.db, id)
}

func (s *PostgresStore) GetProjectBySlug(ctx context.Context, slug string) (*model.Project, error) {
	return queryGetProjectTree(ctx, s.db, slug)
}

func (s *PostgresStore) ListProjects(ctx context.Context, creatorID string) ([]*model.Project, error) {
	return queryListProjects(ctx, s.db, creatorID)
}

func (s *PostgresStore) ListAllProjects(ctx context.Context) ([]*model.Project, error) {
	return queryListAllProjects(ctx, s.db)
}

func (s *PostgresStore) CreateResource(ctx context.Context, resource *model.Resource) error {
	return queryCreateResource(ctx, s.db, resource)
}

func (s *PostgresStore) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	return queryGetResource(ctx, s.db, id)
}

func (s *PostgresStore) DeleteResource(ctx context.Context, id string) error {
	return queryDeleteResource(ctx, s.db, id)
}

// CreateEndpoint inserts the endpoint and its schema fields in one transaction.
func (s *PostgresStore) CreateEndpoint(ctx context.Context, endpoint *model.Endpoint) error {
	return s.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.CreateEndpoint(ctx, endpoint)
	})
}

func (s *PostgresStore) GetEndpoint(ctx context.Context, id string) (*model.Endpoint, error) {
	return queryGetEndpoint(ctx, s.db, id)
}

func (s *PostgresStore) DeleteEndpoint(ctx context.Context, id string) error {
	return queryDeleteEndpoint(ctx, s.db, id)
}

func (s *PostgresStore) FindEndpoint(ctx context.Context, key model.EndpointKey) (*model.Endpoint, error) {
	return queryFindEndpoint(ctx, s.db, key)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateProject(ctx context.Context, project *model.Project) error {
	return queryCreateProject(ctx, s.tx, project)
}

func (s *txStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return queryGetProject(ctx, s.tx, id)
}

func (s *txStore) GetProjectBySlug(ctx context.Context, slug string) (*model.Project, error) {
	return queryGetProjectTree(ctx, s.tx, slug)
}

func (s *txStore) ListProjects(ctx context.Context, creatorID string) ([]*model.Project, error) {
	return queryListProjects(ctx, s.tx, creatorID)
}

func (s *txStore) ListAllProjects(ctx context.Context) ([]*model.Project, error) {
	return queryListAllProjects(ctx, s.tx)
}

func (s *txStore) CreateResource(ctx context.Context, resource *model.Resource) error {
	return queryCreateResource(ctx, s.tx, resource)
}

func (s *txStore) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	return queryGetResource(ctx, s.tx, id)
}

func (s *txStore) DeleteResource(ctx context.Context, id string) error {
	return queryDeleteResource(ctx, s.tx, id)
}

func (s *txStore) CreateEndpoint(ctx context.Context, endpoint *model.Endpoint) error {
	return queryCreateEndpoint(ctx, s.tx, endpoint)
}

func (s *txStore) GetEndpoint(ctx context.Context, id string) (*model.Endpoint, error) {
	return queryGetEndpoint(ctx, s.tx, id)
}

func (s *txStore) DeleteEndpoint(ctx context.Context, id string) error {
	return queryDeleteEndpoint(ctx, s.tx, id)
}

func (s *txStore) FindEndpoint(ctx context.Context, key model.EndpointKey) (*model.Endpoint, error) {
	return queryFindEndpoint(ctx, s.tx, key)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Ping is a no-op inside a transaction.
func (s *txStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
