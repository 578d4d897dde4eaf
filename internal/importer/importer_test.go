package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/victorcezeh/understanding-psycopg2/internal/cleaner"
	"github.com/victorcezeh/understanding-psycopg2/internal/storage/sqlite"
)

func setupStore(t *testing.T) *sqlite.Repository {
	t.Helper()
	ctx := context.Background()

	repo, closeFn, err := sqlite.NewRepository(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(closeFn)

	require.NoError(t, repo.EnsurePropertiesTable(ctx))
	return repo
}

func TestImportFile_WellFormed(t *testing.T) {
	repo := setupStore(t)
	ctx := context.Background()

	n, err := ImportFile(ctx, zap.NewNop().Sugar(), "testdata/properties.csv", repo)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	// All five rows visible after the commit, grouped into three types.
	report, err := repo.AveragePriceByType(ctx)
	require.NoError(t, err)
	require.Len(t, report, 3)
	assert.Equal(t, "Condo", report[0].PropertyType)
	assert.Equal(t, int64(69094), report[0].AvgSalePrice) // round(avg(68880, 69307))
}

func TestImportFile_MalformedRowLeavesNothingBehind(t *testing.T) {
	repo := setupStore(t)
	ctx := context.Background()

	_, err := ImportFile(ctx, zap.NewNop().Sugar(), "testdata/properties_bad_row.csv", repo)

	var fe *cleaner.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "number_of_beds", fe.Field)
	assert.Equal(t, "three", fe.Value)

	report, err := repo.AveragePriceByType(ctx)
	require.NoError(t, err)
	assert.Empty(t, report, "aborted import must not leave partial rows")
}

func TestImportFile_MissingSource(t *testing.T) {
	repo := setupStore(t)

	_, err := ImportFile(context.Background(), zap.NewNop().Sugar(), "testdata/nope.csv", repo)
	require.Error(t, err)

	var fe *cleaner.FieldError
	assert.False(t, errors.As(err, &fe), "missing file must surface as a source error, not a field error")
}
