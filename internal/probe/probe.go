// Package probe inspects a CSV source before import. It reports per-column
// statistics (non-empty count, max width, distinct values, inferred kind)
// so a surprising file can be caught without touching the database.
package probe

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/victorcezeh/understanding-psycopg2/internal/cleaner"
	rawcsv "github.com/victorcezeh/understanding-psycopg2/internal/parser/csv"
)

// Kind is the inferred value kind of a column.
type Kind string

const (
	KindInt     Kind = "int"
	KindDecimal Kind = "decimal"
	KindDate    Kind = "date"
	KindText    Kind = "text"
)

// ColumnStats summarizes one column across the sampled rows.
type ColumnStats struct {
	Name     string
	NonEmpty int
	MaxWidth int
	Distinct int
	Kind     Kind
}

// Result is the outcome of one probe run.
type Result struct {
	Rows    int
	Columns []ColumnStats
}

// column accumulates stats while streaming. Distinct counting stores 64-bit
// xxh3 hashes instead of the values themselves, so wide text columns do not
// pin the whole sample in memory.
type column struct {
	nonEmpty int
	maxWidth int
	seen     map[uint64]struct{}
	allInt   bool
	allDec   bool
	allDate  bool
}

// Analyze consumes r to exhaustion and computes column statistics. Limit
// caps the number of data rows examined; 0 means no cap.
func Analyze(r *rawcsv.Reader, limit int) (Result, error) {
	header := r.Header()
	cols := make([]*column, len(header))
	for i := range cols {
		cols[i] = &column{seen: make(map[uint64]struct{}), allInt: true, allDec: true, allDate: true}
	}

	rows := 0
	for {
		if limit > 0 && rows >= limit {
			break
		}
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, err
		}
		rows++

		for i, name := range header {
			cols[i].observe(row[name])
		}
	}

	res := Result{Rows: rows, Columns: make([]ColumnStats, len(header))}
	for i, name := range header {
		res.Columns[i] = cols[i].stats(name)
	}
	return res, nil
}

// AnalyzeFile probes the file at path.
func AnalyzeFile(path string, limit int) (Result, error) {
	r, err := rawcsv.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer r.Close()

	return Analyze(r, limit)
}

func (c *column) observe(v string) {
	if v == "" {
		return
	}
	c.nonEmpty++
	if len(v) > c.maxWidth {
		c.maxWidth = len(v)
	}
	c.seen[xxh3.Hash([]byte(v))] = struct{}{}

	if c.allInt {
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			c.allInt = false
		}
	}
	if c.allDec {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			c.allDec = false
		}
	}
	if c.allDate {
		if _, err := cleaner.ParseTimestamp(v); err != nil {
			c.allDate = false
		}
	}
}

func (c *column) stats(name string) ColumnStats {
	s := ColumnStats{
		Name:     name,
		NonEmpty: c.nonEmpty,
		MaxWidth: c.maxWidth,
		Distinct: len(c.seen),
		Kind:     KindText,
	}
	if c.nonEmpty == 0 {
		return s
	}
	switch {
	case c.allInt:
		s.Kind = KindInt
	case c.allDec:
		s.Kind = KindDecimal
	case c.allDate:
		s.Kind = KindDate
	}
	return s
}

// Format renders the result as an aligned plain-text table.
func (res Result) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows sampled: %d\n", res.Rows)
	fmt.Fprintf(&b, "%-20s %-8s %9s %9s %9s\n", "column", "kind", "non-empty", "distinct", "max-width")
	for _, c := range res.Columns {
		fmt.Fprintf(&b, "%-20s %-8s %9d %9d %9d\n", c.Name, c.Kind, c.NonEmpty, c.Distinct, c.MaxWidth)
	}
	return b.String()
}
