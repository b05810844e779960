package load

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bizzati/ETL-Pipeline/internal/model"
)

// PostgresSink fully replaces a named table with the clean table on every
// load. No schema migration: the table is dropped and recreated.
type PostgresSink struct {
	Pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgresSink(ctx context.Context, url string, log *slog.Logger) (*PostgresSink, error) {
	if url == "" {
		return nil, &LoadError{Sink: "postgres", Err: errors.New("connection string is empty")}
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, &LoadError{Sink: "postgres", Err: err}
	}

	return &PostgresSink{Pool: pool, log: log}, nil
}

func (s *PostgresSink) Close() {
	s.Pool.Close()
}

// Replace drops and recreates tableName, then inserts one row per product,
// all inside a single transaction.
func (s *PostgresSink) Replace(ctx context.Context, tableName string, table model.CleanTable) error {
	if tableName == "" {
		return &LoadError{Sink: "postgres", Err: errors.New("table name is empty")}
	}
	if len(table) == 0 {
		return &LoadError{Sink: "postgres", Err: ErrEmptyTable}
	}

	ident := pgx.Identifier{tableName}.Sanitize()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return &LoadError{Sink: "postgres", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", ident)); err != nil {
		return &LoadError{Sink: "postgres", Err: err}
	}

	createStmt := fmt.Sprintf(`
		CREATE TABLE %s (
			id uuid PRIMARY KEY,
			title text NOT NULL,
			price double precision NOT NULL,
			rating double precision,
			colors bigint,
			size text,
			gender text,
			scrape_timestamp text NOT NULL
		)
	`, ident)
	if _, err := tx.Exec(ctx, createStmt); err != nil {
		return &LoadError{Sink: "postgres", Err: err}
	}

	insertStmt := fmt.Sprintf(`
		INSERT INTO %s
		(id, title, price, rating, colors, size, gender, scrape_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, ident)

	batch := &pgx.Batch{}
	for _, p := range table {
		batch.Queue(insertStmt, uuid.New(), p.Title, p.Price, p.Rating, p.Colors, p.Size, p.Gender, p.ScrapedAt)
	}

	br := tx.SendBatch(ctx, batch)
	for range table {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return &LoadError{Sink: "postgres", Err: err}
		}
	}
	if err := br.Close(); err != nil {
		return &LoadError{Sink: "postgres", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &LoadError{Sink: "postgres", Err: err}
	}

	s.log.Info("postgres table replaced", "table", tableName, "rows", len(table))

	return nil
}
