package model

// Column names shared by the raw and clean tables.
const (
	ColTitle     = "Title"
	ColPrice     = "Price"
	ColRating    = "Rating"
	ColColors    = "Colors"
	ColSize      = "Size"
	ColGender    = "Gender"
	ColScrapedAt = "scrape_timestamp"
)

// AllColumns is the full column set, in sink order.
var AllColumns = []string{ColTitle, ColPrice, ColRating, ColColors, ColSize, ColGender, ColScrapedAt}

// MandatoryColumns must be present in the raw table shape before any
// transformation runs.
var MandatoryColumns = []string{ColTitle, ColPrice, ColScrapedAt}

// RawRecord is one scraped product as found on a catalog page. Title and
// PriceText are always set; the harvester drops cards where either is
// missing. The remaining fields are nil when the card did not contain them.
type RawRecord struct {
	Title      string
	PriceText  string
	RatingText *string
	ColorsText *string
	SizeText   *string
	GenderText *string
	ScrapedAt  string
}

// RawTable is the collection of records produced by one harvest run.
// Columns carries the declared input shape so downstream schema checks
// operate on what the producer claims to have populated, not on the Go
// struct definition.
type RawTable struct {
	Columns []string
	Records []RawRecord
}

// NewRawTable builds a table over records with the full column set declared.
func NewRawTable(records []RawRecord) RawTable {
	cols := make([]string, len(AllColumns))
	copy(cols, AllColumns)
	return RawTable{Columns: cols, Records: records}
}

func (t RawTable) Empty() bool {
	return len(t.Records) == 0
}

func (t RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
