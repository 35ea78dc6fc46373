package pipeline

import (
	"context"
	"errors"

	"github.com/refurbtrack/price-tracker/internal/competitors"
	"github.com/refurbtrack/price-tracker/internal/extract"
	"github.com/refurbtrack/price-tracker/internal/storage"
)

// errEndOfListing signals that pagination walked past the last page.
var errEndOfListing = errors.New("end of listing")

// scrapeListing walks one listing URL page by page until the listing
// ends, the page budget runs out, or a page fails. Returns the number of
// pages successfully processed.
func (p *Pipeline) scrapeListing(
	ctx context.Context,
	comp competitors.Competitor,
	listing competitors.Listing,
	run *runState,
	baseline int,
	result *CompetitorResult,
) (int, error) {
	pages := 0
	for pageNum := 1; pageNum <= p.config.MaxPages; pageNum++ {
		page, err := p.fetchPage(ctx, comp, listing, pageNum, run)
		if err != nil {
			if p.metrics != nil {
				p.metrics.PagesFetched.WithLabelValues(comp.Name, "error").Inc()
			}
			return pages, err
		}
		if p.metrics != nil {
			p.metrics.PagesFetched.WithLabelValues(comp.Name, "ok").Inc()
		}
		pages++

		added, err := p.processPage(ctx, comp, page, run, baseline, pageNum)
		if err != nil {
			if errors.Is(err, errEndOfListing) {
				return pages, nil
			}
			return pages, err
		}
		result.Extracted += added
	}
	return pages, nil
}

// fetchPage downloads one page, reduces it to text, and archives the
// reduced form for post-mortem review of bad scrapes.
func (p *Pipeline) fetchPage(ctx context.Context, comp competitors.Competitor, listing competitors.Listing, pageNum int, run *runState) (extract.Page, error) {
	url := competitors.PageURL(listing.URL, pageNum)
	ordinal := run.nextPage()

	body, err := p.fetcher.GetBytes(ctx, url)
	if err != nil {
		return extract.Page{}, err
	}

	text, err := extract.ReduceHTML(body)
	if err != nil {
		return extract.Page{}, err
	}

	if p.archive != nil {
		key := storage.PageKey(comp.Name, p.now(), ordinal)
		if err := p.archive.Put(ctx, key, []byte(url+"\n\n"+text)); err != nil {
			// Archival is best effort; a failed write must not sink the
			// scrape itself.
			p.logger.Warn().Err(err).Str("key", key).Msg("page archival failed")
		}
	}

	return extract.Page{
		Competitor:  comp.Name,
		BaseURL:     comp.BaseURL,
		URL:         url,
		ProductType: listing.ProductType,
		Text:        text,
	}, nil
}
