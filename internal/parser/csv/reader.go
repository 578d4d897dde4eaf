// Package csv implements a streaming, header-driven CSV reader. The first
// line names the columns; every following line is surfaced as a RawRow keyed
// by the normalized header name. The stream is single-pass and consumed in
// order; it never buffers the whole file.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// RawRow is one source record as a normalized-header to string-value mapping,
// pre-transformation. Values are space-trimmed; they are not type-converted.
type RawRow map[string]string

// SourceError indicates the source file could not be opened for reading.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("csv: open source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Reader streams RawRows from a delimited input. It is not safe for
// concurrent use; each import owns its Reader exclusively.
type Reader struct {
	cr     *csv.Reader
	closer io.Closer
	header []string
	line   int
}

// Open opens the file at path and prepares a Reader over it. The header line
// is consumed immediately so that a malformed or empty file fails here, not
// midway through an import. The caller must Close the Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader wraps an io.Reader (for callers that already hold an open stream,
// and for tests). The header line is read and normalized eagerly.
func NewReader(in io.Reader) (*Reader, error) {
	cr := csv.NewReader(in)
	cr.ReuseRecord = true

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	header := make([]string, len(hdr))
	for i, h := range hdr {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		header[i] = NormalizeHeader(h)
	}

	// Enforce a fixed width from here on. A row of the wrong width is a hard
	// error because the import is all-or-nothing.
	cr.FieldsPerRecord = len(header)

	return &Reader{cr: cr, header: header, line: 1}, nil
}

// Header returns the normalized column names in file order.
func (r *Reader) Header() []string {
	out := make([]string, len(r.header))
	copy(out, r.header)
	return out
}

// Next returns the next data row, or io.EOF when the input is exhausted.
// Any other error aborts the stream.
func (r *Reader) Next() (RawRow, error) {
	rec, err := r.cr.Read()
	r.line++
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("csv: line %d: %w", r.line, err)
	}

	row := make(RawRow, len(r.header))
	for i, name := range r.header {
		row[name] = strings.TrimSpace(rec[i])
	}
	return row, nil
}

// Close releases the underlying file, if any. Safe to call on a Reader built
// from a bare io.Reader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// NormalizeHeader produces a canonical snake_case column key: trimmed,
// lowercased, diacritics stripped, with spaces, dashes and dots turned into
// underscores. Existing underscores are preserved verbatim so that source
// names like "sq__ft" survive unchanged.
func NormalizeHeader(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		ascii = strings.TrimSpace(s)
	}

	var b strings.Builder
	for _, r := range strings.ToLower(ascii) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.':
			b.WriteRune('_')
		}
	}
	return b.String()
}
