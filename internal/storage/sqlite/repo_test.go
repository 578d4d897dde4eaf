package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorcezeh/understanding-psycopg2/internal/cleaner"
	"github.com/victorcezeh/understanding-psycopg2/internal/storage"
)

// setupTestStore opens an in-memory database with both tables created.
func setupTestStore(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	repo, closeFn, err := NewRepository(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(closeFn)

	require.NoError(t, repo.EnsurePropertiesTable(ctx))
	require.NoError(t, repo.EnsureStudentsTable(ctx))
	return repo
}

func makeRecord(street, propertyType string, price int64) cleaner.Record {
	return cleaner.Record{
		StreetAddress: street,
		City:          "SACRAMENTO",
		ZipCode:       "95838",
		State:         "CA",
		NumberOfBeds:  2,
		NumberOfBaths: 1,
		SquareFeet:    836,
		PropertyType:  propertyType,
		SaleDate:      time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC),
		SalePrice:     price,
		Latitude:      decimal.RequireFromString("38.631913"),
		Longitude:     decimal.RequireFromString("-121.434879"),
	}
}

func TestSeedAndLookupStudent(t *testing.T) {
	repo := setupTestStore(t)
	ctx := context.Background()

	seed := []storage.Student{
		{Name: "Victor", FavoriteFood: "Chicken"},
		{Name: "Esan", FavoriteFood: "Rice"},
		{Name: "Pelumi", FavoriteFood: "Beans"},
	}
	require.NoError(t, repo.SeedStudents(ctx, seed))

	s, err := repo.LookupStudent(ctx, "Esan")
	require.NoError(t, err)
	assert.Equal(t, "Esan", s.Name)
	assert.Equal(t, "Rice", s.FavoriteFood)
	assert.NotZero(t, s.ID)

	_, err = repo.LookupStudent(ctx, "Nonexistent")
	assert.ErrorIs(t, err, storage.ErrStudentNotFound)
}

func TestInsertProperties_WritesAllRowsInOrder(t *testing.T) {
	repo := setupTestStore(t)
	ctx := context.Background()

	recs := []cleaner.Record{
		makeRecord("1 FIRST ST", "Residential", 100),
		makeRecord("2 SECOND ST", "Residential", 200),
		makeRecord("3 THIRD ST", "Condo", 300),
	}
	n, err := repo.InsertProperties(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rows, err := repo.db.QueryContext(ctx, "SELECT street_address FROM properties ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var streets []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		streets = append(streets, s)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"1 FIRST ST", "2 SECOND ST", "3 THIRD ST"}, streets)
}

func TestInsertProperties_RollsBackWholeBatch(t *testing.T) {
	repo := setupTestStore(t)
	ctx := context.Background()

	// A unique index makes the third row fail so the rollback path can be
	// observed.
	_, err := repo.db.ExecContext(ctx, "CREATE UNIQUE INDEX props_street ON properties(street_address)")
	require.NoError(t, err)

	recs := []cleaner.Record{
		makeRecord("1 FIRST ST", "Residential", 100),
		makeRecord("2 SECOND ST", "Residential", 200),
		makeRecord("1 FIRST ST", "Condo", 300),
	}
	_, err = repo.InsertProperties(ctx, recs)
	require.Error(t, err)

	var count int
	require.NoError(t, repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties").Scan(&count))
	assert.Zero(t, count, "a failed batch must leave no rows behind")
}

func TestAveragePriceByType(t *testing.T) {
	repo := setupTestStore(t)
	ctx := context.Background()

	recs := []cleaner.Record{
		makeRecord("1 A ST", "Condo", 100),
		makeRecord("2 A ST", "Condo", 200),
		makeRecord("3 A ST", "Condo", 300),
		makeRecord("4 A ST", "Single Family", 400),
		makeRecord("5 A ST", "Single Family", 600),
	}
	_, err := repo.InsertProperties(ctx, recs)
	require.NoError(t, err)

	got, err := repo.AveragePriceByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, []storage.TypeAverage{
		{PropertyType: "Condo", AvgSalePrice: 200},
		{PropertyType: "Single Family", AvgSalePrice: 500},
	}, got)
}

func TestEnsurePropertiesTable_DropsOldData(t *testing.T) {
	repo := setupTestStore(t)
	ctx := context.Background()

	_, err := repo.InsertProperties(ctx, []cleaner.Record{makeRecord("1 A ST", "Condo", 100)})
	require.NoError(t, err)

	require.NoError(t, repo.EnsurePropertiesTable(ctx))

	var count int
	require.NoError(t, repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties").Scan(&count))
	assert.Zero(t, count)
}
