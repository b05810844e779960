package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Bizzati/ETL-Pipeline/internal/model"
)

func cardHTML(title, price string) string {
	return fmt.Sprintf(`<div class="collection-card">
		<h3 class="product-title">%s</h3>
		<span class="price">%s</span>
	</div>`, title, price)
}

func TestHarvester_Run(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, cardHTML("Product 1", "$10.00"))
		case "/page2":
			fmt.Fprint(w, `<html><body>no products</body></html>`)
		case "/page3":
			fmt.Fprint(w, cardHTML("Product 3", "$30.00"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	h := NewHarvester(srv.URL, NewHTTPFetcher(5*time.Second), discardLogger())

	table := h.Run(context.Background(), 3)

	// Page 2 is empty but must not stop the run before maxPages.
	if len(table.Records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(table.Records))
	}
	if table.Records[0].Title != "Product 1" || table.Records[1].Title != "Product 3" {
		t.Errorf("unexpected titles: %q, %q", table.Records[0].Title, table.Records[1].Title)
	}
}

func TestHarvester_Run_SharedPageTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, cardHTML("A", "$1.00")+cardHTML("B", "$2.00"))
	}))
	defer srv.Close()

	h := NewHarvester(srv.URL, NewHTTPFetcher(5*time.Second), discardLogger())

	table := h.Run(context.Background(), 1)

	if len(table.Records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(table.Records))
	}
	if table.Records[0].ScrapedAt != table.Records[1].ScrapedAt {
		t.Errorf("records from the same page have different timestamps: %q vs %q",
			table.Records[0].ScrapedAt, table.Records[1].ScrapedAt)
	}
	if _, err := time.Parse(time.RFC3339, table.Records[0].ScrapedAt); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", table.Records[0].ScrapedAt, err)
	}
}

func TestHarvester_Run_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := NewHarvester(srv.URL, NewHTTPFetcher(5*time.Second), discardLogger())

	table := h.Run(context.Background(), 1)
	if !table.Empty() {
		t.Errorf("expected empty table when the only page fails, got %d records", len(table.Records))
	}
}

func TestHarvester_Run_FetchFailureIsRecoverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, cardHTML("Product 2", "$20.00"))
	}))
	defer srv.Close()

	h := NewHarvester(srv.URL, NewHTTPFetcher(5*time.Second), discardLogger())

	table := h.Run(context.Background(), 2)
	if len(table.Records) != 1 {
		t.Fatalf("len(records) = %d, want 1 (failed page skipped, run continued)", len(table.Records))
	}
	if table.Records[0].Title != "Product 2" {
		t.Errorf("Title = %q, want %q", table.Records[0].Title, "Product 2")
	}
}

type timeoutFetcher struct{}

func (timeoutFetcher) Fetch(context.Context, string) (string, error) {
	return "", errors.New("context deadline exceeded")
}

func TestHarvester_Run_Timeout(t *testing.T) {
	h := NewHarvester("http://example.invalid", timeoutFetcher{}, discardLogger())

	table := h.Run(context.Background(), 1)
	if !table.Empty() {
		t.Errorf("expected empty table on timeout of the only page")
	}
}

func TestHarvester_PageURL(t *testing.T) {
	h := NewHarvester("https://catalog.example", nil, discardLogger())

	if got := h.pageURL(1); got != "https://catalog.example" {
		t.Errorf("pageURL(1) = %q", got)
	}
	if got := h.pageURL(7); got != "https://catalog.example/page7" {
		t.Errorf("pageURL(7) = %q", got)
	}
}

type panickingFetcher struct{}

func (panickingFetcher) Fetch(context.Context, string) (string, error) {
	panic("unexpected structural failure")
}

func TestHarvester_Run_RecoversFromPanic(t *testing.T) {
	h := NewHarvester("http://example.invalid", panickingFetcher{}, discardLogger())

	table := h.Run(context.Background(), 3)
	if !table.Empty() {
		t.Errorf("expected empty table when the page loop panics, got %d records", len(table.Records))
	}
}

// flakyParser succeeds once, then reports a malformed document.
type flakyParser struct {
	calls int
}

func (p *flakyParser) ParsePage(_, scrapedAt string) ([]model.RawRecord, int, error) {
	p.calls++
	if p.calls == 1 {
		rec := model.RawRecord{Title: "Product 1", PriceText: "10.00", ScrapedAt: scrapedAt}
		return []model.RawRecord{rec}, 1, nil
	}
	return nil, 0, errors.New("malformed document")
}

func TestHarvester_Run_ParseFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, cardHTML("Product 1", "$10.00"))
	}))
	defer srv.Close()

	h := NewHarvester(srv.URL, NewHTTPFetcher(5*time.Second), discardLogger())
	h.parser = &flakyParser{}

	// Unlike a fetch failure, a parse failure aborts the whole run:
	// records already collected from earlier pages are discarded.
	table := h.Run(context.Background(), 2)
	if !table.Empty() {
		t.Errorf("expected empty table when page parsing fails mid-run, got %d records", len(table.Records))
	}
}

type cacheStub struct {
	pages map[string]string
	sets  int
}

func (c *cacheStub) Get(_ context.Context, url string) (string, bool) {
	body, ok := c.pages[url]
	return body, ok
}

func (c *cacheStub) Set(_ context.Context, url, body string) {
	c.pages[url] = body
	c.sets++
}

func TestCachedFetcher(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, "body")
	}))
	defer srv.Close()

	stub := &cacheStub{pages: map[string]string{}}
	f := NewCachedFetcher(NewHTTPFetcher(5*time.Second), stub, discardLogger())

	for i := 0; i < 2; i++ {
		body, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch returned error: %v", err)
		}
		if body != "body" {
			t.Fatalf("body = %q", body)
		}
	}

	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (second fetch served from cache)", hits)
	}
	if stub.sets != 1 {
		t.Errorf("cache sets = %d, want 1", stub.sets)
	}
}
