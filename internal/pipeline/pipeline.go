// Package pipeline orchestrates one scrape run: fetch listing pages per
// competitor, extract records, merge them into the dataset page by page,
// then validate and persist the completed snapshot.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/refurbtrack/price-tracker/internal/backup"
	"github.com/refurbtrack/price-tracker/internal/competitors"
	"github.com/refurbtrack/price-tracker/internal/extract"
	"github.com/refurbtrack/price-tracker/internal/metrics"
	"github.com/refurbtrack/price-tracker/internal/storage"
	"github.com/refurbtrack/price-tracker/internal/store"
	"github.com/refurbtrack/price-tracker/internal/validation"
)

// Config tunes one pipeline run.
type Config struct {
	// MaxPages bounds pagination per listing URL.
	MaxPages int
	// Incremental persists the merged dataset after every page, so a
	// mid-run crash loses at most one page of work.
	Incremental bool
	// EnforceRelevance drops records outside the tracked brand and CPU
	// generation window at the extraction boundary.
	EnforceRelevance bool
}

// DefaultConfig mirrors the scraper's operational defaults.
func DefaultConfig() Config {
	return Config{MaxPages: 5, Incremental: true, EnforceRelevance: true}
}

// CompetitorResult is the outcome of scraping one competitor.
type CompetitorResult struct {
	Competitor   string `json:"competitor"`
	RunID        string `json:"run_id"`
	Pages        int    `json:"pages"`
	Extracted    int    `json:"extracted"`
	Accepted     bool   `json:"accepted"`
	Products     int    `json:"products"`
	Change       int    `json:"change"`
	RejectedPath string `json:"rejected_path,omitempty"`
	Err          error  `json:"-"`
}

// Summary is the outcome of a full run across competitors.
type Summary struct {
	Results []CompetitorResult
}

// Failed returns the results that ended in an error.
func (s Summary) Failed() []CompetitorResult {
	var out []CompetitorResult
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Pipeline wires the fetch, extract, validate and persist stages.
type Pipeline struct {
	fetcher   extract.Fetcher
	extractor extract.Extractor
	store     *store.Store
	backups   *backup.Manager
	validator *validation.Validator
	archive   storage.Storage
	metrics   *metrics.Metrics
	config    Config
	tracer    trace.Tracer
	now       func() time.Time
	logger    zerolog.Logger
}

// New assembles a pipeline. The archive and metrics may be nil; the
// pipeline then runs without page archival or instrumentation.
func New(
	fetcher extract.Fetcher,
	extractor extract.Extractor,
	st *store.Store,
	backups *backup.Manager,
	validator *validation.Validator,
	archive storage.Storage,
	m *metrics.Metrics,
	config Config,
	logger zerolog.Logger,
) *Pipeline {
	if config.MaxPages < 1 {
		config.MaxPages = DefaultConfig().MaxPages
	}
	return &Pipeline{
		fetcher:   fetcher,
		extractor: extractor,
		store:     st,
		backups:   backups,
		validator: validator,
		archive:   archive,
		metrics:   m,
		config:    config,
		tracer:    otel.Tracer("pipeline"),
		now:       time.Now,
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
}

// RunAll scrapes every registered competitor sequentially. A failure in
// one competitor never blocks the others; each result carries its own
// error.
func (p *Pipeline) RunAll(ctx context.Context) Summary {
	var summary Summary
	for _, comp := range competitors.All() {
		if ctx.Err() != nil {
			summary.Results = append(summary.Results, CompetitorResult{Competitor: comp.Name, Err: ctx.Err()})
			continue
		}
		summary.Results = append(summary.Results, p.RunCompetitor(ctx, comp.Name))
	}
	return summary
}

// RunCompetitor scrapes one competitor end to end.
func (p *Pipeline) RunCompetitor(ctx context.Context, name string) CompetitorResult {
	result := CompetitorResult{Competitor: name, RunID: uuid.NewString()}

	comp, err := competitors.Get(name)
	if err != nil {
		result.Err = err
		return result
	}

	ctx, span := p.tracer.Start(ctx, "pipeline.RunCompetitor",
		trace.WithAttributes(attribute.String("competitor", name), attribute.String("run_id", result.RunID)))
	defer span.End()

	started := p.now()
	logger := p.logger.With().Str("competitor", name).Str("run_id", result.RunID).Logger()
	logger.Info().Msg("scrape started")

	// The validation baseline is the last persisted accepted count, read
	// once before this run writes anything.
	baseline := p.store.Load()[name].TotalProducts

	run := newRunState(comp)
	for _, listing := range comp.Listings {
		pages, err := p.scrapeListing(ctx, comp, listing, run, baseline, &result)
		result.Pages += pages
		if err != nil {
			logger.Warn().Err(err).Str("listing", listing.URL).Msg("listing abandoned")
		}
	}

	p.finalize(run, baseline, &result, logger)

	if p.metrics != nil {
		p.metrics.ScrapeDuration.WithLabelValues(name).Observe(p.now().Sub(started).Seconds())
	}
	logger.Info().
		Int("pages", result.Pages).
		Int("extracted", result.Extracted).
		Bool("accepted", result.Accepted).
		Int("products", result.Products).
		Msg("scrape finished")
	return result
}

// RunOne is a convenience wrapper returning an error when the single
// competitor run failed outright.
func (p *Pipeline) RunOne(ctx context.Context, name string) (CompetitorResult, error) {
	result := p.RunCompetitor(ctx, name)
	if result.Err != nil {
		return result, fmt.Errorf("scraping %s: %w", name, result.Err)
	}
	return result, nil
}
