// Package importer wires the CSV reader, the cleaner, and a property store
// into the one-pass import operation: read every row, coerce it, then write
// the whole batch in a single transaction.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/victorcezeh/understanding-psycopg2/internal/cleaner"
	rawcsv "github.com/victorcezeh/understanding-psycopg2/internal/parser/csv"
	"github.com/victorcezeh/understanding-psycopg2/internal/storage"
)

// Run consumes r to exhaustion, cleans each row, and inserts the batch
// through store. The first malformed row aborts the import before anything
// is written; a store failure rolls the transaction back. Returns the number
// of rows committed.
func Run(ctx context.Context, log *zap.SugaredLogger, r *rawcsv.Reader, store storage.PropertyStore) (int64, error) {
	var recs []cleaner.Record

	// Data starts on line 2; line 1 is the header.
	for line := 2; ; line++ {
		raw, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}

		rec, err := cleaner.Clean(raw)
		if err != nil {
			return 0, fmt.Errorf("importer: line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	log.Infow("csv cleaned", "rows", len(recs))

	n, err := store.InsertProperties(ctx, recs)
	if err != nil {
		return 0, err
	}
	log.Infow("import committed", "rows", n)
	return n, nil
}

// ImportFile is the full import operation over a file path: open, stream,
// clean, insert, close. The reader is released on every exit path.
func ImportFile(ctx context.Context, log *zap.SugaredLogger, path string, store storage.PropertyStore) (int64, error) {
	r, err := rawcsv.Open(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	return Run(ctx, log, r, store)
}
