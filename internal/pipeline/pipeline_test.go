package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refurbtrack/price-tracker/internal/backup"
	"github.com/refurbtrack/price-tracker/internal/extract"
	"github.com/refurbtrack/price-tracker/internal/store"
	"github.com/refurbtrack/price-tracker/internal/types"
	"github.com/refurbtrack/price-tracker/internal/validation"
)

type stubFetcher struct {
	err error
}

func (f *stubFetcher) GetBytes(ctx context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("<body><p>listing page</p></body>"), nil
}

type stubExtractor struct {
	records []types.ProductRecord
}

func (e *stubExtractor) Extract(ctx context.Context, page extract.Page) ([]types.ProductRecord, error) {
	out := make([]types.ProductRecord, len(e.records))
	copy(out, e.records)
	return out, nil
}

func relevantRecord(url string) types.ProductRecord {
	return types.ProductRecord{
		Brand:       "Dell",
		Model:       "Latitude 5400",
		ProductType: types.ProductTypeLaptop,
		Title:       "Dell Latitude 5400",
		Price:       types.Float64Ptr(299.99),
		URL:         url,
		Config:      types.ProductConfig{Processor: "Intel Core i5-8365U", RAM: "16GB", Storage: "256GB"},
	}
}

func records(n int) []types.ProductRecord {
	out := make([]types.ProductRecord, n)
	for i := range out {
		out[i] = relevantRecord(fmt.Sprintf("https://x.com/p%d", i))
	}
	return out
}

func seeded(t *testing.T, name string, count int) (*store.Store, *backup.Manager, string) {
	t.Helper()
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, store.DefaultDataFile), filepath.Join(dir, "rejected"), zerolog.Nop())
	bm := backup.NewManager(filepath.Join(dir, "backups"), 5, zerolog.Nop())

	if count > 0 {
		require.NoError(t, st.Save(types.Dataset{name: {
			Competitor:    name,
			TotalProducts: count,
			Products:      records(count),
		}}))
	}
	return st, bm, dir
}

func newTestPipeline(st *store.Store, bm *backup.Manager, ex extract.Extractor, f extract.Fetcher, cfg Config) *Pipeline {
	return New(f, ex, st, bm, validation.New(validation.DefaultDropThreshold), nil, nil, cfg, zerolog.Nop())
}

func TestFirstRunSeedsDataset(t *testing.T) {
	st, bm, dir := seeded(t, "DiscountPC", 0)
	p := newTestPipeline(st, bm, &stubExtractor{records: records(2)}, &stubFetcher{},
		Config{MaxPages: 1, Incremental: false, EnforceRelevance: true})

	res := p.RunCompetitor(context.Background(), "DiscountPC")
	require.NoError(t, res.Err)
	assert.True(t, res.Accepted)
	assert.Equal(t, 2, res.Products)
	assert.Equal(t, 2, res.Change)

	data := st.Load()
	require.Contains(t, data, "DiscountPC")
	assert.Equal(t, 2, data["DiscountPC"].TotalProducts)
	assert.Equal(t, 0, data["DiscountPC"].PreviousCount)
	assert.Equal(t, "https://discountpc.com", data["DiscountPC"].Website)

	// No prior data means no backup.
	backups, err := bm.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
	_ = dir
}

func TestRejectionLeavesDatasetUntouched(t *testing.T) {
	st, bm, _ := seeded(t, "DiscountPC", 10)
	p := newTestPipeline(st, bm, &stubExtractor{records: records(1)}, &stubFetcher{},
		Config{MaxPages: 1, Incremental: false, EnforceRelevance: true})

	res := p.RunCompetitor(context.Background(), "DiscountPC")
	require.NoError(t, res.Err)
	assert.False(t, res.Accepted)
	require.NotEmpty(t, res.RejectedPath)

	data := st.Load()
	assert.Equal(t, 10, data["DiscountPC"].TotalProducts)
	assert.Len(t, data["DiscountPC"].Products, 10)
}

func TestBorderlineDropAccepted(t *testing.T) {
	st, bm, _ := seeded(t, "DiscountPC", 10)
	p := newTestPipeline(st, bm, &stubExtractor{records: records(7)}, &stubFetcher{},
		Config{MaxPages: 1, Incremental: false, EnforceRelevance: true})

	res := p.RunCompetitor(context.Background(), "DiscountPC")
	require.NoError(t, res.Err)
	assert.True(t, res.Accepted)
	assert.Equal(t, -3, res.Change)

	data := st.Load()
	assert.Equal(t, 7, data["DiscountPC"].TotalProducts)
	assert.Equal(t, 10, data["DiscountPC"].PreviousCount)
	assert.Equal(t, -3, data["DiscountPC"].Change)

	// Prior data existed, so the update was preceded by a backup.
	backups, err := bm.List()
	require.NoError(t, err)
	require.Len(t, backups, 1)
}

func TestFetchFailureProducesNoWrite(t *testing.T) {
	st, bm, _ := seeded(t, "DiscountPC", 5)
	p := newTestPipeline(st, bm, &stubExtractor{}, &stubFetcher{err: errors.New("blocked")},
		Config{MaxPages: 1, Incremental: false, EnforceRelevance: true})

	res := p.RunCompetitor(context.Background(), "DiscountPC")
	assert.Error(t, res.Err)

	data := st.Load()
	assert.Equal(t, 5, data["DiscountPC"].TotalProducts)

	backups, err := bm.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestIncrementalMergeNeverDropsExisting(t *testing.T) {
	st, bm, _ := seeded(t, "PCLiquidations", 2)
	newRec := relevantRecord("https://x.com/new-product")
	p := newTestPipeline(st, bm, &stubExtractor{records: []types.ProductRecord{newRec}}, &stubFetcher{},
		Config{MaxPages: 1, Incremental: true, EnforceRelevance: true})

	res := p.RunCompetitor(context.Background(), "PCLiquidations")
	require.NoError(t, res.Err)

	// One observed product against a baseline of two is past the drop
	// threshold, so the final replacement is rejected...
	assert.False(t, res.Accepted)
	assert.NotEmpty(t, res.RejectedPath)

	// ...but the incremental merge kept every previously seen product
	// and added the new one.
	data := st.Load()
	urls := map[string]bool{}
	for _, rec := range data["PCLiquidations"].Products {
		urls[rec.URL] = true
	}
	assert.True(t, urls["https://x.com/p0"])
	assert.True(t, urls["https://x.com/p1"])
	assert.True(t, urls["https://x.com/new-product"])
	assert.Len(t, data["PCLiquidations"].Products, 3)
}

func TestRejectionDoesNotTouchOtherCompetitors(t *testing.T) {
	st, bm, _ := seeded(t, "DiscountPC", 10)
	require.NoError(t, st.UpdateCompetitor("PCLiquidations", types.CompetitorSnapshot{
		Competitor:    "PCLiquidations",
		TotalProducts: 4,
		Products:      records(4),
	}))

	p := newTestPipeline(st, bm, &stubExtractor{records: records(1)}, &stubFetcher{},
		Config{MaxPages: 1, Incremental: false, EnforceRelevance: true})

	res := p.RunCompetitor(context.Background(), "DiscountPC")
	require.NoError(t, res.Err)
	require.False(t, res.Accepted)

	// The rejected run changes nothing for anyone: the scraped competitor
	// keeps its last accepted snapshot and the other competitor's entry is
	// byte-for-byte what it was.
	data := st.Load()
	assert.Equal(t, 10, data["DiscountPC"].TotalProducts)
	assert.Equal(t, 4, data["PCLiquidations"].TotalProducts)
	assert.Len(t, data["PCLiquidations"].Products, 4)

	// No accepted write happened, so no backup was taken either.
	backups, err := bm.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestUnknownCompetitor(t *testing.T) {
	st, bm, _ := seeded(t, "DiscountPC", 0)
	p := newTestPipeline(st, bm, &stubExtractor{}, &stubFetcher{}, DefaultConfig())

	res := p.RunCompetitor(context.Background(), "NoSuchSite")
	assert.Error(t, res.Err)
}

func TestIrrelevantRecordsFilteredAtBoundary(t *testing.T) {
	st, bm, _ := seeded(t, "DiscountPC", 0)
	old := relevantRecord("https://x.com/old")
	old.Config.Processor = "Intel Core i5-6300U"
	apple := relevantRecord("https://x.com/mac")
	apple.Brand = "Apple"

	p := newTestPipeline(st, bm,
		&stubExtractor{records: []types.ProductRecord{relevantRecord("https://x.com/keep"), old, apple}},
		&stubFetcher{}, Config{MaxPages: 1, Incremental: false, EnforceRelevance: true})

	res := p.RunCompetitor(context.Background(), "DiscountPC")
	require.NoError(t, res.Err)
	require.True(t, res.Accepted)
	assert.Equal(t, 1, res.Products)

	data := st.Load()
	require.Len(t, data["DiscountPC"].Products, 1)
	assert.Equal(t, "https://x.com/keep", data["DiscountPC"].Products[0].URL)
}
