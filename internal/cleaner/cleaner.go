// Package cleaner turns raw CSV rows into typed, insert-ready property
// records. It renames source columns to their destination names and performs
// strict type coercion: integers for bed/bath/area counts, an arbitrary-
// precision decimal for coordinates, and a timezone-aware timestamp for the
// sale date. Cleaning is pure: no I/O, no retained state, one Record per
// RawRow.
package cleaner

import (
	"fmt"
	"strconv"
	"time"

	// Guarantee named-zone resolution even on hosts without a tz database.
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	rawcsv "github.com/victorcezeh/understanding-psycopg2/internal/parser/csv"
)

// FieldError reports a single source value that failed type coercion. Field
// is the destination column name; Value is the offending raw input.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("cleaner: malformed field %s: %q", e.Field, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Record is a fully typed property row matching the destination schema.
// All twelve fields are populated before a Record is returned.
type Record struct {
	StreetAddress string
	City          string
	ZipCode       string
	State         string
	NumberOfBeds  int
	NumberOfBaths int
	SquareFeet    int
	PropertyType  string
	SaleDate      time.Time
	SalePrice     int64
	Latitude      decimal.Decimal
	Longitude     decimal.Decimal
}

// Source-to-destination column renames. Columns not listed here keep their
// source name (city, state, sale_date, latitude, longitude).
const (
	srcStreet = "street"
	srcZip    = "zip"
	srcType   = "type"
	srcSqFt   = "sq__ft"
	srcBeds   = "beds"
	srcBaths  = "baths"
	srcPrice  = "price"
)

// Clean converts one RawRow into a Record. The first field that fails
// coercion aborts with a *FieldError naming the destination column.
func Clean(raw rawcsv.RawRow) (Record, error) {
	var (
		rec Record
		err error
	)

	if rec.StreetAddress, err = text(raw, srcStreet, "street_address"); err != nil {
		return Record{}, err
	}
	if rec.City, err = text(raw, "city", "city"); err != nil {
		return Record{}, err
	}
	if rec.ZipCode, err = text(raw, srcZip, "zip_code"); err != nil {
		return Record{}, err
	}
	if rec.State, err = text(raw, "state", "state"); err != nil {
		return Record{}, err
	}
	if rec.NumberOfBeds, err = integer(raw, srcBeds, "number_of_beds"); err != nil {
		return Record{}, err
	}
	if rec.NumberOfBaths, err = integer(raw, srcBaths, "number_of_baths"); err != nil {
		return Record{}, err
	}
	if rec.SquareFeet, err = integer(raw, srcSqFt, "square_feet"); err != nil {
		return Record{}, err
	}
	if rec.PropertyType, err = text(raw, srcType, "property_type"); err != nil {
		return Record{}, err
	}
	if rec.SaleDate, err = timestamp(raw, "sale_date", "sale_date"); err != nil {
		return Record{}, err
	}

	// The destination column is an integer, so the price is converted like its
	// sibling numeric fields instead of being passed through as text.
	rawPrice := raw[srcPrice]
	if rec.SalePrice, err = strconv.ParseInt(rawPrice, 10, 64); err != nil {
		return Record{}, &FieldError{Field: "sale_price", Value: rawPrice, Err: err}
	}

	if rec.Latitude, err = coordinate(raw, "latitude", "latitude"); err != nil {
		return Record{}, err
	}
	if rec.Longitude, err = coordinate(raw, "longitude", "longitude"); err != nil {
		return Record{}, err
	}

	return rec, nil
}

func text(raw rawcsv.RawRow, src, dst string) (string, error) {
	v, ok := raw[src]
	if !ok || v == "" {
		return "", &FieldError{Field: dst, Value: v}
	}
	return v, nil
}

func integer(raw rawcsv.RawRow, src, dst string) (int, error) {
	v := raw[src]
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &FieldError{Field: dst, Value: v, Err: err}
	}
	return n, nil
}

func coordinate(raw rawcsv.RawRow, src, dst string) (decimal.Decimal, error) {
	v := raw[src]
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, &FieldError{Field: dst, Value: v, Err: err}
	}
	return d, nil
}

func timestamp(raw rawcsv.RawRow, src, dst string) (time.Time, error) {
	v := raw[src]
	t, err := ParseTimestamp(v)
	if err != nil {
		return time.Time{}, &FieldError{Field: dst, Value: v, Err: err}
	}
	return t, nil
}
