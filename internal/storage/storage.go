// Package storage defines the persistence contracts implemented by the
// postgres and sqlite backends. Both databases share the same two-table
// layout: a properties table fed by the CSV import and a students roster.
package storage

import (
	"context"
	"errors"

	"github.com/victorcezeh/understanding-psycopg2/internal/cleaner"
)

// ErrStudentNotFound is returned by LookupStudent when no row matches the
// requested name. It is a valid outcome, not a failure; callers distinguish
// it from connection and query errors with errors.Is.
var ErrStudentNotFound = errors.New("storage: student not found")

// PropertyColumns lists the insertable columns of the properties table in
// statement order. The serial id column is excluded.
var PropertyColumns = []string{
	"street_address",
	"city",
	"zip_code",
	"state",
	"number_of_beds",
	"number_of_baths",
	"square_feet",
	"property_type",
	"sale_date",
	"sale_price",
	"latitude",
	"longitude",
}

// Student is one roster row.
type Student struct {
	ID           int64
	Name         string
	FavoriteFood string
}

// TypeAverage is one row of the grouped-average price report.
type TypeAverage struct {
	PropertyType string
	AvgSalePrice int64
}

// PropertyStore persists cleaned property records and serves the report.
type PropertyStore interface {
	// EnsurePropertiesTable drops and recreates the properties table so every
	// import starts from a clean slate.
	EnsurePropertiesTable(ctx context.Context) error

	// InsertProperties writes all records inside a single transaction, one
	// parameterized insert per record, preserving input order. The first
	// failure rolls back the whole batch. Returns the number of rows written.
	InsertProperties(ctx context.Context, recs []cleaner.Record) (int64, error)

	// AveragePriceByType returns the rounded average sale price per property
	// type, ordered by type name.
	AveragePriceByType(ctx context.Context) ([]TypeAverage, error)
}

// StudentStore manages the class roster.
type StudentStore interface {
	// EnsureStudentsTable drops and recreates the students table.
	EnsureStudentsTable(ctx context.Context) error

	// SeedStudents inserts the given students in one transaction.
	SeedStudents(ctx context.Context, students []Student) error

	// LookupStudent returns the first student with the given name, or
	// ErrStudentNotFound.
	LookupStudent(ctx context.Context, name string) (Student, error)
}

// Store is the full surface a backend provides.
type Store interface {
	PropertyStore
	StudentStore
}
