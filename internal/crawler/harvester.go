package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Bizzati/ETL-Pipeline/internal/model"
	"github.com/Bizzati/ETL-Pipeline/internal/observability"
)

// pageParser extracts raw records from one page's markup.
type pageParser interface {
	ParsePage(body, scrapedAt string) ([]model.RawRecord, int, error)
}

// Harvester walks the paginated catalog and collects raw product records.
type Harvester struct {
	baseURL string
	fetcher Fetcher
	parser  pageParser
	log     *slog.Logger
	loc     *time.Location
	now     func() time.Time
}

func NewHarvester(baseURL string, fetcher Fetcher, log *slog.Logger) *Harvester {
	return &Harvester{
		baseURL: baseURL,
		fetcher: fetcher,
		parser:  NewParser(log),
		log:     log,
		loc:     catalogLocation(),
		now:     time.Now,
	}
}

// catalogLocation resolves the catalog's local timezone, falling back to a
// fixed UTC+7 offset when no tzdata is available.
func catalogLocation() *time.Location {
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.FixedZone("WIB", 7*60*60)
}

func (h *Harvester) pageURL(page int) string {
	if page == 1 {
		return h.baseURL
	}
	return fmt.Sprintf("%s/page%d", h.baseURL, page)
}

// Run visits pages 1..maxPages in order and returns every record whose card
// carried both a title and a price. A page whose fetch fails contributes
// zero records and the run continues. An empty page does NOT stop the run
// early: empty pages are logged and iteration continues until maxPages, so
// callers wanting stop-on-first-empty behavior must wrap Run themselves.
//
// Records from the same page share one timestamp taken at that page's fetch
// time. A failure outside the per-page/per-card scopes aborts the whole run
// and yields an empty table.
func (h *Harvester) Run(ctx context.Context, maxPages int) (table model.RawTable) {
	table = model.NewRawTable(nil)

	defer func() {
		if r := recover(); r != nil {
			h.log.Error("harvest aborted", "panic", r)
			table = model.NewRawTable(nil)
		}
	}()

	var records []model.RawRecord

	for page := 1; page <= maxPages; page++ {
		url := h.pageURL(page)
		h.log.Info("scraping page", "page", page, "url", url)

		body, err := h.fetcher.Fetch(ctx, url)
		if err != nil {
			h.log.Error("page fetch failed", "page", page, "error", err)
			observability.PageFetchFailures.Inc()
			continue
		}
		observability.PagesFetched.Inc()

		scrapedAt := h.now().In(h.loc).Format(time.RFC3339)

		pageRecords, cards, err := h.parser.ParsePage(body, scrapedAt)
		if err != nil {
			h.log.Error("harvest aborted", "page", page, "error", err)
			return model.NewRawTable(nil)
		}

		if cards == 0 {
			h.log.Info("no products on page", "page", page)
			continue
		}

		records = append(records, pageRecords...)
		observability.ProductsHarvested.Add(float64(len(pageRecords)))
		h.log.Info("page scraped", "page", page, "records", len(pageRecords))
	}

	h.log.Info("harvest complete", "total_records", len(records))

	return model.NewRawTable(records)
}
