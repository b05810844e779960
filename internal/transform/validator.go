package transform

import (
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/Bizzati/ETL-Pipeline/internal/model"
)

// Validation errors, checked in a fixed order. A table violating several
// rules at once reports only the first in this order.
var (
	ErrEmptyTable       = errors.New("clean table is empty")
	ErrDuplicateRows    = errors.New("clean table contains duplicate rows")
	ErrNullMandatory    = errors.New("Title or Price contains null values")
	ErrPlaceholderTitle = errors.New("clean table contains placeholder product titles")
)

// Validator is the read-only quality gate between the transformer and the
// sinks. Nothing reaches a sink without passing it.
type Validator struct {
	log *slog.Logger
}

func NewValidator(log *slog.Logger) *Validator {
	return &Validator{log: log}
}

// Validate computes quality metrics over the clean table and returns them
// only when every check passes. The full metrics are computed before any
// check fires, but a failed call returns the error alone: duplicate rows
// first, then nulls in Title/Price, then placeholder titles.
//
// A null Title is the empty string after trimming; a null Price is NaN.
func (v *Validator) Validate(clean model.CleanTable) (*model.ValidationMetrics, error) {
	if len(clean) == 0 {
		return nil, ErrEmptyTable
	}

	metrics := &model.ValidationMetrics{
		TotalRows: len(clean),
		NullCounts: map[string]int{
			model.ColTitle: 0,
			model.ColPrice: 0,
		},
	}

	seen := make(map[string]struct{}, len(clean))

	for i, p := range clean {
		key := productKey(p)
		if _, ok := seen[key]; ok {
			metrics.Duplicates++
		} else {
			seen[key] = struct{}{}
		}

		title := strings.TrimSpace(p.Title)
		if title == "" {
			metrics.NullCounts[model.ColTitle]++
		}
		if math.IsNaN(p.Price) {
			metrics.NullCounts[model.ColPrice]++
		}
		if strings.EqualFold(title, placeholderTitle) {
			metrics.InvalidTitles++
		}

		if i == 0 || p.Price < metrics.PriceMin {
			metrics.PriceMin = p.Price
		}
		if i == 0 || p.Price > metrics.PriceMax {
			metrics.PriceMax = p.Price
		}
	}

	if metrics.Duplicates > 0 {
		return nil, ErrDuplicateRows
	}
	if metrics.NullCounts[model.ColTitle] > 0 || metrics.NullCounts[model.ColPrice] > 0 {
		return nil, ErrNullMandatory
	}
	if metrics.InvalidTitles > 0 {
		return nil, ErrPlaceholderTitle
	}

	v.log.Info("validation passed",
		"total_rows", metrics.TotalRows,
		"price_min", metrics.PriceMin,
		"price_max", metrics.PriceMax,
	)

	return metrics, nil
}

func productKey(p model.Product) string {
	str := func(s *string) string {
		if s == nil {
			return "\x00"
		}
		return *s
	}
	flt := func(f *float64) string {
		if f == nil {
			return "\x00"
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	}
	num := func(n *int64) string {
		if n == nil {
			return "\x00"
		}
		return strconv.FormatInt(*n, 10)
	}

	return strings.Join([]string{
		p.Title,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		flt(p.Rating),
		num(p.Colors),
		str(p.Size),
		str(p.Gender),
		p.ScrapedAt,
	}, "\x1f")
}
