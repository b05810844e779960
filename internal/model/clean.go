package model

// Product is one validated, typed, sink-ready row. Optional fields are nil
// when the source text was absent or unparseable.
type Product struct {
	Title     string
	Price     float64
	Rating    *float64
	Colors    *int64
	Size      *string
	Gender    *string
	ScrapedAt string
}

// CleanTable is the unit handed to the validator and then to the sinks.
type CleanTable []Product

// ValidationMetrics summarizes the quality checks over a clean table.
// Computed fresh on every validation call, never persisted.
type ValidationMetrics struct {
	TotalRows     int
	Duplicates    int
	NullCounts    map[string]int
	InvalidTitles int
	PriceMin      float64
	PriceMax      float64
}
