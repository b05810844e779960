package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/Bizzati/ETL-Pipeline/internal/cache"
	"github.com/Bizzati/ETL-Pipeline/internal/config"
	"github.com/Bizzati/ETL-Pipeline/internal/crawler"
	"github.com/Bizzati/ETL-Pipeline/internal/load"
	"github.com/Bizzati/ETL-Pipeline/internal/observability"
	"github.com/Bizzati/ETL-Pipeline/internal/transform"
)

// go run cmd/etl/main.go -pages=5 -csv=product.csv
func main() {
	pages := flag.Int("pages", 0, "override MAX_PAGES")
	csvPath := flag.String("csv", "", "override CSV_PATH")
	flag.Parse()

	cfg := config.Load()
	if *pages > 0 {
		cfg.MaxPages = *pages
	}
	if *csvPath != "" {
		cfg.CSVPath = *csvPath
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("run_id", uuid.New().String())
	observability.Start(cfg.MetricsPort)

	ctx := context.Background()

	var fetcher crawler.Fetcher = crawler.NewHTTPFetcher(cfg.FetchTimeout)
	if cfg.RedisURL != "" {
		pc, err := cache.New(cfg.RedisURL, cfg.PageCacheTTL)
		if err != nil {
			log.Warn("page cache disabled", "error", err)
		} else {
			fetcher = crawler.NewCachedFetcher(fetcher, pc, log)
		}
	}

	log.Info("starting extract phase", "base_url", cfg.BaseURL, "max_pages", cfg.MaxPages)
	raw := crawler.NewHarvester(cfg.BaseURL, fetcher, log).Run(ctx, cfg.MaxPages)
	if raw.Empty() {
		log.Error("extract returned no data; exiting")
		return
	}

	log.Info("starting transform phase")
	clean, err := transform.NewTransformer(log).Transform(raw)
	if err != nil {
		log.Error("transform failed", "error", err)
		return
	}
	if len(clean) == 0 {
		log.Error("no valid rows after transform; exiting")
		return
	}

	metrics, err := transform.NewValidator(log).Validate(clean)
	if err != nil {
		log.Error("validation failed", "error", err)
		return
	}
	log.Info("validation metrics",
		"total_rows", metrics.TotalRows,
		"price_min", metrics.PriceMin,
		"price_max", metrics.PriceMax,
	)

	// Each sink is attempted regardless of the others' outcomes.
	if err := load.SaveCSV(clean, cfg.CSVPath, log); err != nil {
		log.Error("failed to save csv", "error", err)
		observability.SinkFailures.WithLabelValues("csv").Inc()
	}

	if pg, err := load.NewPostgresSink(ctx, cfg.DatabaseURL, log); err != nil {
		log.Error("failed to connect postgres", "error", err)
		observability.SinkFailures.WithLabelValues("postgres").Inc()
	} else {
		if err := pg.Replace(ctx, cfg.PGTable, clean); err != nil {
			log.Error("failed to save to postgres", "error", err)
			observability.SinkFailures.WithLabelValues("postgres").Inc()
		}
		pg.Close()
	}

	if sh, err := load.NewSheetsSink(ctx, cfg.CredentialsPath, log); err != nil {
		log.Error("failed to build sheets client", "error", err)
		observability.SinkFailures.WithLabelValues("sheets").Inc()
	} else if err := sh.Upload(ctx, cfg.SheetID, cfg.SheetRange, clean); err != nil {
		log.Error("failed to upload to sheets", "error", err)
		observability.SinkFailures.WithLabelValues("sheets").Inc()
	}

	log.Info("etl pipeline completed")
}
