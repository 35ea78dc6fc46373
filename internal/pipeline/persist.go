package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/refurbtrack/price-tracker/internal/competitors"
	"github.com/refurbtrack/price-tracker/internal/extract"
	"github.com/refurbtrack/price-tracker/internal/matching"
	"github.com/refurbtrack/price-tracker/internal/tracker"
	"github.com/refurbtrack/price-tracker/internal/types"
)

// runState accumulates everything one competitor run has observed.
type runState struct {
	comp     competitors.Competitor
	seen     map[string]int
	products []types.ProductRecord
	backedUp bool
	page     int
}

func newRunState(comp competitors.Competitor) *runState {
	return &runState{comp: comp, seen: make(map[string]int)}
}

func (r *runState) nextPage() int {
	r.page++
	return r.page
}

// add merges one record into the run's accumulation. Re-observing the
// same product on a later page updates it in place instead of
// duplicating it.
func (r *runState) add(rec types.ProductRecord) bool {
	key := mergeKey(rec)
	if idx, ok := r.seen[key]; ok {
		r.products[idx] = rec
		return false
	}
	r.seen[key] = len(r.products)
	r.products = append(r.products, rec)
	return true
}

// mergeKey identifies a product across pages and runs. The URL is the
// strongest identity a site gives us; records without one fall back to
// the configuration signature.
func mergeKey(r types.ProductRecord) string {
	if r.URL != "" {
		return r.URL
	}
	return matching.Signature(r)
}

// processPage extracts one page's records, applies the boundary rules,
// merges into the run and optionally persists the merged state.
func (p *Pipeline) processPage(ctx context.Context, comp competitors.Competitor, page extract.Page, run *runState, baseline, pageNum int) (int, error) {
	records, err := p.extractor.Extract(ctx, page)
	if err != nil {
		return 0, fmt.Errorf("extracting %s: %w", page.URL, err)
	}

	// An empty page past the first means pagination ran off the end.
	if len(records) == 0 {
		if pageNum > 1 {
			return 0, errEndOfListing
		}
		return 0, nil
	}

	kept := p.applyBoundary(comp, page, records)
	if p.metrics != nil {
		p.metrics.RecordsExtracted.WithLabelValues(comp.Name).Add(float64(len(kept)))
	}

	added := 0
	for _, rec := range kept {
		if run.add(rec) {
			added++
		}
	}

	if p.config.Incremental && added > 0 {
		if err := p.persistMerged(run, baseline); err != nil {
			return added, err
		}
	}
	return added, nil
}

// applyBoundary enforces the record rules at the extraction edge:
// relative URLs become absolute, records missing brand or product type
// are dropped, off-list brands are dropped, and when configured, so is
// anything outside the tracked CPU generation window.
func (p *Pipeline) applyBoundary(comp competitors.Competitor, page extract.Page, records []types.ProductRecord) []types.ProductRecord {
	kept := records[:0:0]
	for _, r := range records {
		r.Competitor = comp.Name
		r.URL = comp.AbsoluteURL(r.URL)
		if r.ProductType == "" {
			r.ProductType = page.ProductType
		}
		if r.Brand == "" || r.ProductType == "" {
			continue
		}
		if !types.IsAllowedBrand(r.Brand) {
			continue
		}
		if p.config.EnforceRelevance && !extract.IsRelevant(r) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// persistMerged saves the union of the persisted snapshot and the run's
// accumulation. The union never drops a previously persisted product, so
// its count can only grow past the baseline; a mid-run crash therefore
// leaves the dataset at least as complete as before the run.
func (p *Pipeline) persistMerged(run *runState, baseline int) error {
	data := p.store.Load()

	if err := p.ensureBackup(run, data); err != nil {
		return err
	}

	existing := data[run.comp.Name]
	merged := make([]types.ProductRecord, 0, len(existing.Products)+len(run.products))
	seen := make(map[string]int, len(existing.Products))
	for _, rec := range existing.Products {
		seen[mergeKey(rec)] = len(merged)
		merged = append(merged, rec)
	}
	for _, rec := range run.products {
		if idx, ok := seen[mergeKey(rec)]; ok {
			merged[idx] = rec
			continue
		}
		seen[mergeKey(rec)] = len(merged)
		merged = append(merged, rec)
	}

	res := p.validator.Check(baseline, len(merged))
	if !res.Accepted {
		return fmt.Errorf("merged snapshot failed validation: %s", res.Reason)
	}

	snap := p.buildSnapshot(run.comp, merged, baseline)
	return p.store.UpdateCompetitor(run.comp.Name, snap)
}

// finalize validates this run's complete observation against the
// baseline and either replaces the competitor's snapshot or preserves
// the rejected snapshot in a side file.
func (p *Pipeline) finalize(run *runState, baseline int, result *CompetitorResult, logger zerolog.Logger) {
	if result.Pages == 0 {
		result.Err = fmt.Errorf("no pages fetched for %s", run.comp.Name)
		return
	}

	snap := p.buildSnapshot(run.comp, run.products, baseline)
	res := p.validator.Check(baseline, len(run.products))
	if !res.Accepted {
		if p.metrics != nil {
			p.metrics.SnapshotsRejected.WithLabelValues(run.comp.Name).Inc()
		}
		path, err := p.store.WriteRejected(snap, res)
		if err != nil {
			result.Err = fmt.Errorf("preserving rejected snapshot: %w", err)
			return
		}
		result.RejectedPath = path
		logger.Warn().Str("reason", res.Reason).Str("rejected", path).Msg("snapshot rejected, dataset unchanged")
		return
	}

	data := p.store.Load()
	if err := p.ensureBackup(run, data); err != nil {
		result.Err = err
		return
	}

	delta := tracker.Compute(run.comp.Name, baseline, len(run.products), p.now())
	tracker.Annotate(&snap, delta)
	if err := p.store.UpdateCompetitor(run.comp.Name, snap); err != nil {
		result.Err = err
		return
	}

	if p.metrics != nil {
		p.metrics.SnapshotsAccepted.WithLabelValues(run.comp.Name).Inc()
		p.metrics.ProductCount.WithLabelValues(run.comp.Name).Set(float64(len(run.products)))
	}
	result.Accepted = true
	result.Products = len(run.products)
	result.Change = delta.Change
}

// ensureBackup writes the pre-update backup once per run, before the
// run's first write. A backup failure aborts the update: overwriting the
// only good copy unprotected is never worth it.
func (p *Pipeline) ensureBackup(run *runState, data types.Dataset) error {
	if run.backedUp {
		return nil
	}
	path, err := p.backups.Create(data)
	if err != nil {
		return fmt.Errorf("backup before update: %w", err)
	}
	run.backedUp = true
	if path != "" && p.metrics != nil {
		p.metrics.BackupsCreated.Inc()
	}
	return nil
}

func (p *Pipeline) buildSnapshot(comp competitors.Competitor, products []types.ProductRecord, baseline int) types.CompetitorSnapshot {
	snap := types.CompetitorSnapshot{
		Competitor: comp.Name,
		Website:    comp.BaseURL,
		Products:   products,
	}
	tracker.Annotate(&snap, tracker.Compute(comp.Name, baseline, len(products), p.now()))
	return snap
}
