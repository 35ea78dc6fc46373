package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refurbtrack/price-tracker/internal/types"
	"github.com/refurbtrack/price-tracker/internal/validation"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s := New(filepath.Join(dir, DefaultDataFile), filepath.Join(dir, "rejected"), zerolog.Nop())
	return s, dir
}

func snap(name string, count int) types.CompetitorSnapshot {
	products := make([]types.ProductRecord, count)
	for i := range products {
		products[i] = types.ProductRecord{
			Brand:       "Dell",
			Model:       "Latitude 5400",
			ProductType: types.ProductTypeLaptop,
		}
	}
	return types.CompetitorSnapshot{
		Competitor:    name,
		TotalProducts: count,
		Products:      products,
	}
}

func TestLoadMissingFileYieldsEmpty(t *testing.T) {
	s, _ := testStore(t)
	data := s.Load()
	require.NotNil(t, data)
	assert.Empty(t, data)
}

func TestLoadCorruptFileYieldsEmpty(t *testing.T) {
	s, _ := testStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	data := s.Load()
	require.NotNil(t, data)
	assert.Empty(t, data)

	// The corrupt file stays for inspection until the next save.
	_, err := os.Stat(s.Path())
	assert.NoError(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	s, _ := testStore(t)

	data := types.Dataset{"PCLiquidations": snap("PCLiquidations", 3)}
	require.NoError(t, s.Save(data))

	loaded := s.Load()
	require.Contains(t, loaded, "PCLiquidations")
	assert.Equal(t, 3, loaded["PCLiquidations"].TotalProducts)
	assert.Len(t, loaded["PCLiquidations"].Products, 3)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s, dir := testStore(t)
	require.NoError(t, s.Save(types.Dataset{"A": snap("A", 1)}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestInterruptedSaveLeavesPreviousDatasetIntact(t *testing.T) {
	s, dir := testStore(t)
	require.NoError(t, s.Save(types.Dataset{"A": snap("A", 5)}))

	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	// A crash between the temp write and the rename leaves a half-written
	// temp file next to the dataset. The dataset itself must be untouched
	// and still parse.
	partial := filepath.Join(dir, ".competitor_prices-crashed.tmp")
	require.NoError(t, os.WriteFile(partial, []byte(`{"A": {"competitor": "A", "total_p`), 0o644))

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	loaded := s.Load()
	require.Contains(t, loaded, "A")
	assert.Equal(t, 5, loaded["A"].TotalProducts)

	// And the next save still goes through cleanly.
	require.NoError(t, s.Save(types.Dataset{"A": snap("A", 6)}))
	assert.Equal(t, 6, s.Load()["A"].TotalProducts)
}

func TestUpdateCompetitorReplacesOneKey(t *testing.T) {
	s, _ := testStore(t)

	require.NoError(t, s.Save(types.Dataset{
		"A": snap("A", 2),
		"B": snap("B", 4),
	}))

	require.NoError(t, s.UpdateCompetitor("A", snap("A", 7)))

	loaded := s.Load()
	assert.Equal(t, 7, loaded["A"].TotalProducts)
	assert.Equal(t, 4, loaded["B"].TotalProducts)
	assert.Len(t, loaded, 2)
}

func TestUpdateCompetitorOnEmptyStore(t *testing.T) {
	s, _ := testStore(t)
	require.NoError(t, s.UpdateCompetitor("Dell Refurbished", snap("Dell Refurbished", 1)))

	loaded := s.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, 1, loaded["Dell Refurbished"].TotalProducts)
}

func TestWriteRejectedDoesNotTouchDataset(t *testing.T) {
	s, dir := testStore(t)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 8, 15, 0, 0, time.UTC) }

	require.NoError(t, s.Save(types.Dataset{"Discount Electronics": snap("Discount Electronics", 100)}))
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	res := validation.New(0.30).Check(100, 10)
	require.False(t, res.Accepted)

	path, err := s.WriteRejected(snap("Discount Electronics", 10), res)
	require.NoError(t, err)
	assert.Equal(t, "rejected_discount_electronics_20250601_081500.json", filepath.Base(path))
	assert.Equal(t, filepath.Join(dir, "rejected"), filepath.Dir(path))

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var payload struct {
		Validation validation.Result        `json:"validation"`
		Snapshot   types.CompetitorSnapshot `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.False(t, payload.Validation.Accepted)
	assert.Equal(t, 10, payload.Snapshot.TotalProducts)
}

func TestAbsentPriceStaysAbsent(t *testing.T) {
	s, _ := testStore(t)

	withUnknownPrice := snap("A", 1)
	withUnknownPrice.Products[0].Price = nil
	require.NoError(t, s.Save(types.Dataset{"A": withUnknownPrice}))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"price": 0`)

	loaded := s.Load()
	assert.Nil(t, loaded["A"].Products[0].Price)
}
