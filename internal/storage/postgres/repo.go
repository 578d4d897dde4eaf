// Package postgres implements storage.Store on PostgreSQL using pgx v5.
// Every value reaches the server as a bound parameter; SQL text is constant.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/victorcezeh/understanding-psycopg2/internal/cleaner"
	"github.com/victorcezeh/understanding-psycopg2/internal/storage"
)

const createPropertiesSQL = `
CREATE TABLE IF NOT EXISTS properties
(id serial PRIMARY KEY, street_address varchar, city varchar, zip_code varchar, state varchar,
 number_of_beds integer, number_of_baths integer, square_feet integer, property_type varchar,
 sale_date timestamp, sale_price integer, latitude decimal, longitude decimal)`

const createStudentsSQL = `
CREATE TABLE IF NOT EXISTS students
(id serial PRIMARY KEY, name varchar, favorite_food varchar)`

// Repository is a pgxpool-backed implementation of storage.Store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository connects to the database at dsn and returns the Repository
// plus a close function the caller must run on every exit path.
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool}, pool.Close, nil
}

// EnsurePropertiesTable implements storage.PropertyStore.
func (r *Repository) EnsurePropertiesTable(ctx context.Context) error {
	return r.recreate(ctx, "properties", createPropertiesSQL)
}

// EnsureStudentsTable implements storage.StudentStore.
func (r *Repository) EnsureStudentsTable(ctx context.Context) error {
	return r.recreate(ctx, "students", createStudentsSQL)
}

func (r *Repository) recreate(ctx context.Context, table, createSQL string) error {
	if _, err := r.pool.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("postgres: drop %s: %w", table, err)
	}
	if _, err := r.pool.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("postgres: create %s: %w", table, err)
	}
	return nil
}

// insertPropertySQL is built once from the shared column list so the column
// order cannot drift from the other backend.
var insertPropertySQL = func() string {
	ph := make([]string, len(storage.PropertyColumns))
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO properties (%s) VALUES (%s)",
		strings.Join(storage.PropertyColumns, ", "),
		strings.Join(ph, ", "),
	)
}()

// InsertProperties implements storage.PropertyStore.
func (r *Repository) InsertProperties(ctx context.Context, recs []cleaner.Record) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var written int64
	for i, rec := range recs {
		_, err := tx.Exec(ctx, insertPropertySQL,
			rec.StreetAddress,
			rec.City,
			rec.ZipCode,
			rec.State,
			rec.NumberOfBeds,
			rec.NumberOfBaths,
			rec.SquareFeet,
			rec.PropertyType,
			rec.SaleDate,
			rec.SalePrice,
			rec.Latitude,
			rec.Longitude,
		)
		if err != nil {
			return 0, fmt.Errorf("postgres: insert property %d: %w", i+1, err)
		}
		written++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit: %w", err)
	}
	return written, nil
}

// AveragePriceByType implements storage.PropertyStore.
func (r *Repository) AveragePriceByType(ctx context.Context) ([]storage.TypeAverage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT property_type, ROUND(AVG(sale_price))::bigint
		FROM properties
		GROUP BY property_type
		ORDER BY property_type`)
	if err != nil {
		return nil, fmt.Errorf("postgres: average price query: %w", err)
	}
	defer rows.Close()

	var out []storage.TypeAverage
	for rows.Next() {
		var ta storage.TypeAverage
		if err := rows.Scan(&ta.PropertyType, &ta.AvgSalePrice); err != nil {
			return nil, fmt.Errorf("postgres: scan average row: %w", err)
		}
		out = append(out, ta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: average price rows: %w", err)
	}
	return out, nil
}

// SeedStudents implements storage.StudentStore.
func (r *Repository) SeedStudents(ctx context.Context, students []storage.Student) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range students {
		if _, err := tx.Exec(ctx,
			"INSERT INTO students (name, favorite_food) VALUES ($1, $2)",
			s.Name, s.FavoriteFood,
		); err != nil {
			return fmt.Errorf("postgres: insert student %q: %w", s.Name, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// LookupStudent implements storage.StudentStore.
func (r *Repository) LookupStudent(ctx context.Context, name string) (storage.Student, error) {
	var s storage.Student
	err := r.pool.QueryRow(ctx,
		"SELECT id, name, favorite_food FROM students WHERE name = $1",
		name,
	).Scan(&s.ID, &s.Name, &s.FavoriteFood)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Student{}, storage.ErrStudentNotFound
	}
	if err != nil {
		return storage.Student{}, fmt.Errorf("postgres: lookup student: %w", err)
	}
	return s, nil
}
