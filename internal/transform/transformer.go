package transform

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/Bizzati/ETL-Pipeline/internal/model"
	"github.com/Bizzati/ETL-Pipeline/internal/observability"
)

// conversionRate converts source prices (USD) to the target currency (IDR).
const conversionRate = 16000

// placeholderTitle marks non-product entries that must never reach a sink.
const placeholderTitle = "unknown product"

var (
	ratingPattern     = regexp.MustCompile(`\d+\.?\d*`)
	nonNumericPattern = regexp.MustCompile(`[^\d.]`)
	sizePrefix        = regexp.MustCompile(`(?i)^Size:\s*`)
	genderPrefix      = regexp.MustCompile(`(?i)^Gender:\s*`)
)

// TransformationError reports a raw table whose shape is unusable: empty
// input or missing mandatory columns. It carries the first record as a
// diagnostic sample when one exists.
type TransformationError struct {
	MissingColumns []string
	InputSample    *model.RawRecord
}

func (e *TransformationError) Error() string {
	return fmt.Sprintf("incomplete input shape: missing columns %v", e.MissingColumns)
}

// Transformer turns a raw table into a typed, deduplicated clean table.
type Transformer struct {
	log *slog.Logger
}

func NewTransformer(log *slog.Logger) *Transformer {
	return &Transformer{log: log}
}

// Transform applies the cleaning steps in a fixed order: schema gate, exact
// full-row dedup, placeholder filter, title validity, price coercion and
// currency conversion, then optional-field normalization. Row-level issues
// are filtered silently; only the schema gate returns an error.
func (t *Transformer) Transform(raw model.RawTable) (model.CleanTable, error) {
	if err := checkSchema(raw); err != nil {
		return nil, err
	}

	records := dedupe(raw.Records)

	// An optional column absent from the declared input shape is
	// synthesized as null for every row, regardless of what the records
	// carry.
	hasRating := raw.HasColumn(model.ColRating)
	hasColors := raw.HasColumn(model.ColColors)
	hasSize := raw.HasColumn(model.ColSize)
	hasGender := raw.HasColumn(model.ColGender)

	out := make(model.CleanTable, 0, len(records))

	for _, rec := range records {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			observability.RowsDropped.Inc()
			continue
		}
		if strings.ToLower(title) == placeholderTitle {
			observability.RowsDropped.Inc()
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(rec.PriceText), 64)
		if err != nil || price <= 0 {
			observability.RowsDropped.Inc()
			continue
		}

		// Strip residual symbol characters from the string form of the
		// coerced value and re-parse before converting. Working on the
		// formatted value keeps inputs like "2e3" intact.
		cleaned := nonNumericPattern.ReplaceAllString(strconv.FormatFloat(price, 'f', -1, 64), "")
		price, err = strconv.ParseFloat(cleaned, 64)
		if err != nil {
			observability.RowsDropped.Inc()
			continue
		}

		p := model.Product{
			Title:     title,
			Price:     price * conversionRate,
			ScrapedAt: rec.ScrapedAt,
		}

		if hasRating && rec.RatingText != nil {
			// First decimal-or-integer number wins. No range clamp here;
			// callers must not assume a 0-5 scale without validating.
			if m := ratingPattern.FindString(*rec.RatingText); m != "" {
				if v, err := strconv.ParseFloat(m, 64); err == nil {
					p.Rating = &v
				}
			}
		}

		if hasColors && rec.ColorsText != nil {
			if v, err := strconv.ParseInt(strings.TrimSpace(*rec.ColorsText), 10, 64); err == nil {
				p.Colors = &v
			}
		}

		if hasSize && rec.SizeText != nil {
			v := sizePrefix.ReplaceAllString(*rec.SizeText, "")
			p.Size = &v
		}

		if hasGender && rec.GenderText != nil {
			v := genderPrefix.ReplaceAllString(*rec.GenderText, "")
			p.Gender = &v
		}

		out = append(out, p)
	}

	t.log.Info("transform complete", "rows_in", len(raw.Records), "rows_out", len(out))

	return out, nil
}

func checkSchema(raw model.RawTable) error {
	if raw.Empty() {
		missing := make([]string, len(model.MandatoryColumns))
		copy(missing, model.MandatoryColumns)
		return &TransformationError{MissingColumns: missing}
	}

	var missing []string
	for _, col := range model.MandatoryColumns {
		if !raw.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sample := raw.Records[0]
		return &TransformationError{MissingColumns: missing, InputSample: &sample}
	}

	return nil
}

// dedupe drops records identical across every field, timestamp included.
// First occurrence wins. Records equal on Title and Price alone are kept.
func dedupe(records []model.RawRecord) []model.RawRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.RawRecord, 0, len(records))

	for _, rec := range records {
		key := recordKey(rec)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}

	return out
}

func recordKey(rec model.RawRecord) string {
	opt := func(p *string) string {
		if p == nil {
			return "\x00"
		}
		return *p
	}

	return strings.Join([]string{
		rec.Title,
		rec.PriceText,
		opt(rec.RatingText),
		opt(rec.ColorsText),
		opt(rec.SizeText),
		opt(rec.GenderText),
		rec.ScrapedAt,
	}, "\x1f")
}
