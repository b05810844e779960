package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/Bizzati/ETL-Pipeline/internal/model"
)

func product(title string, price float64) model.Product {
	return model.Product{Title: title, Price: price, ScrapedAt: ts}
}

func TestValidate_Success(t *testing.T) {
	v := NewValidator(discardLogger())

	metrics, err := v.Validate(model.CleanTable{
		product("Product 1", 160000),
		product("Product 2", 320000),
	})
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if metrics.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", metrics.TotalRows)
	}
	if metrics.Duplicates != 0 || metrics.InvalidTitles != 0 {
		t.Errorf("Duplicates = %d, InvalidTitles = %d, want 0, 0", metrics.Duplicates, metrics.InvalidTitles)
	}
	if metrics.NullCounts[model.ColTitle] != 0 || metrics.NullCounts[model.ColPrice] != 0 {
		t.Errorf("NullCounts = %v, want zeros", metrics.NullCounts)
	}
	if metrics.PriceMin != 160000 || metrics.PriceMax != 320000 {
		t.Errorf("price range = (%v, %v), want (160000, 320000)", metrics.PriceMin, metrics.PriceMax)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		table   model.CleanTable
		wantErr error
	}{
		{
			name:    "empty table",
			table:   model.CleanTable{},
			wantErr: ErrEmptyTable,
		},
		{
			name: "duplicate rows",
			table: model.CleanTable{
				product("Hat", 160000),
				product("Hat", 160000),
			},
			wantErr: ErrDuplicateRows,
		},
		{
			name: "null title",
			table: model.CleanTable{
				product("  ", 160000),
			},
			wantErr: ErrNullMandatory,
		},
		{
			name: "null price",
			table: model.CleanTable{
				product("Hat", math.NaN()),
			},
			wantErr: ErrNullMandatory,
		},
		{
			name: "placeholder title",
			table: model.CleanTable{
				product("Unknown Product", 160000),
			},
			wantErr: ErrPlaceholderTitle,
		},
	}

	v := NewValidator(discardLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics, err := v.Validate(tt.table)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate error = %v, want %v", err, tt.wantErr)
			}
			if metrics != nil {
				t.Errorf("metrics must never be returned alongside an error, got %+v", metrics)
			}
		})
	}
}

func TestValidate_FirstViolationWins(t *testing.T) {
	v := NewValidator(discardLogger())

	// Duplicates and placeholder titles together: check order is
	// duplicates -> nulls -> invalid titles.
	table := model.CleanTable{
		product("Unknown Product", 160000),
		product("Unknown Product", 160000),
	}

	_, err := v.Validate(table)
	if !errors.Is(err, ErrDuplicateRows) {
		t.Errorf("Validate error = %v, want %v (first in check order)", err, ErrDuplicateRows)
	}
}

func TestValidate_RowsDifferingOnlyInOptionals(t *testing.T) {
	v := NewValidator(discardLogger())

	size := "M"
	a := product("Hat", 160000)
	b := product("Hat", 160000)
	b.Size = &size

	if _, err := v.Validate(model.CleanTable{a, b}); err != nil {
		t.Errorf("rows differing in an optional column are not duplicates, got error %v", err)
	}
}
