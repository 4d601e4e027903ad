package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/parts-inventory/internal/models"
	"github.com/hongminglow/parts-inventory/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users and parts.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS is_admin BOOLEAN NOT NULL DEFAULT FALSE;`,
		`CREATE TABLE IF NOT EXISTS parts (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL CHECK (name <> ''),
			quantity INTEGER NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, is_admin)
		VALUES ($1, $2)
		RETURNING id, username, is_admin, created_at;
	`
	created, err := scanUser(s.pool.QueryRow(ctx, query, user.Username, user.IsAdmin))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindUserByID fetches a user by primary key.
func (s *Store) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT id, username, is_admin, created_at FROM users WHERE id = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT id, username, is_admin, created_at FROM users WHERE username = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

// CreatePart inserts a part and returns it with its assigned id.
func (s *Store) CreatePart(ctx context.Context, part models.Part) (models.Part, error) {
	const query = `
		INSERT INTO parts (name, quantity, price)
		VALUES ($1, $2, $3)
		RETURNING id, name, quantity, price;
	`
	return scanPart(s.pool.QueryRow(ctx, query, part.Name, part.Quantity, part.Price))
}

// ListParts returns every part in insertion order.
func (s *Store) ListParts(ctx context.Context) ([]models.Part, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, quantity, price FROM parts ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	parts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Part, error) {
		return scanPart(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	return parts, nil
}

// GetPart fetches a part by id.
func (s *Store) GetPart(ctx context.Context, id int64) (models.Part, error) {
	const query = `SELECT id, name, quantity, price FROM parts WHERE id = $1;`
	return scanPart(s.pool.QueryRow(ctx, query, id))
}

// UpdatePart overwrites every mutable column of an existing part. Concurrent
// writers are last-write-wins.
func (s *Store) UpdatePart(ctx context.Context, part models.Part) (models.Part, error) {
	const query = `
		UPDATE parts
		SET name = $2, quantity = $3, price = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, quantity, price;
	`
	return scanPart(s.pool.QueryRow(ctx, query, part.ID, part.Name, part.Quantity, part.Price))
}

// DeletePart removes a part by id.
func (s *Store) DeletePart(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM parts WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanPart(row pgx.Row) (models.Part, error) {
	var part models.Part
	if err := row.Scan(&part.ID, &part.Name, &part.Quantity, &part.Price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Part{}, storage.ErrNotFound
		}
		return models.Part{}, err
	}
	return part, nil
}
