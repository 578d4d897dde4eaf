// Package sqlite implements storage.Store on SQLite via database/sql. It
// exists for local runs and tests where no Postgres server is available;
// semantics mirror the postgres backend, including the all-or-nothing import
// transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/victorcezeh/understanding-psycopg2/internal/cleaner"
	"github.com/victorcezeh/understanding-psycopg2/internal/storage"
)

const createPropertiesSQL = `
CREATE TABLE IF NOT EXISTS properties
(id INTEGER PRIMARY KEY AUTOINCREMENT, street_address TEXT, city TEXT, zip_code TEXT, state TEXT,
 number_of_beds INTEGER, number_of_baths INTEGER, square_feet INTEGER, property_type TEXT,
 sale_date TIMESTAMP, sale_price INTEGER, latitude NUMERIC, longitude NUMERIC)`

const createStudentsSQL = `
CREATE TABLE IF NOT EXISTS students
(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, favorite_food TEXT)`

// Repository is a SQLite-backed implementation of storage.Store.
type Repository struct {
	db *sql.DB
}

// NewRepository opens (or creates) the SQLite database at dsn and returns the
// Repository plus a close function. DSN forms accepted by modernc.org/sqlite
// work here, e.g. "file:realestate.db" or ":memory:".
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("sqlite: dsn must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// One connection: the access model is single-threaded, and a ":memory:"
	// database exists per connection.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Repository{db: db}, func() { db.Close() }, nil
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
	if _, err := r.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("sqlite: drop %s: %w", table, err)
	}
	if _, err := r.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("sqlite: create %s: %w", table, err)
	}
	return nil
}

var insertPropertySQL = fmt.Sprintf(
	"INSERT INTO properties (%s) VALUES (%s)",
	strings.Join(storage.PropertyColumns, ", "),
	strings.TrimSuffix(strings.Repeat("?, ", len(storage.PropertyColumns)), ", "),
)

// InsertProperties implements storage.PropertyStore. All rows go through one
// prepared statement inside one transaction; the first failure rolls the
// whole batch back.
func (r *Repository) InsertProperties(ctx context.Context, recs []cleaner.Record) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertPropertySQL)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var written int64
	for i, rec := range recs {
		_, err := stmt.ExecContext(ctx,
			rec.StreetAddress,
			rec.City,
			rec.ZipCode,
			rec.State,
			rec.NumberOfBeds,
			rec.NumberOfBaths,
			rec.SquareFeet,
			rec.PropertyType,
			rec.SaleDate.UTC().Format(time.RFC3339),
			rec.SalePrice,
			rec.Latitude.String(),
			rec.Longitude.String(),
		)
		if err != nil {
			return 0, fmt.Errorf("sqlite: insert property %d: %w", i+1, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return written, nil
}

// AveragePriceByType implements storage.PropertyStore.
func (r *Repository) AveragePriceByType(ctx context.Context) ([]storage.TypeAverage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT property_type, CAST(ROUND(AVG(sale_price)) AS INTEGER)
		FROM properties
		GROUP BY property_type
		ORDER BY property_type`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: average price query: %w", err)
	}
	defer rows.Close()

	var out []storage.TypeAverage
	for rows.Next() {
		var ta storage.TypeAverage
		if err := rows.Scan(&ta.PropertyType, &ta.AvgSalePrice); err != nil {
			return nil, fmt.Errorf("sqlite: scan average row: %w", err)
		}
		out = append(out, ta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: average price rows: %w", err)
	}
	return out, nil
}

// SeedStudents implements storage.StudentStore.
func (r *Repository) SeedStudents(ctx context.Context, students []storage.Student) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	for _, s := range students {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO students (name, favorite_food) VALUES (?, ?)",
			s.Name, s.FavoriteFood,
		); err != nil {
			return fmt.Errorf("sqlite: insert student %q: %w", s.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// LookupStudent implements storage.StudentStore.
func (r *Repository) LookupStudent(ctx context.Context, name string) (storage.Student, error) {
	var s storage.Student
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, favorite_food FROM students WHERE name = ?",
		name,
	).Scan(&s.ID, &s.Name, &s.FavoriteFood)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Student{}, storage.ErrStudentNotFound
	}
	if err != nil {
		return storage.Student{}, fmt.Errorf("sqlite: lookup student: %w", err)
	}
	return s, nil
}
