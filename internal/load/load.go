// Package load writes the clean table to its destinations. Each sink fails
// independently; a LoadError from one never prevents attempting the others.
package load

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Bizzati/ETL-Pipeline/internal/model"
)

// ErrEmptyTable is returned by every sink when given no rows.
var ErrEmptyTable = errors.New("no rows to load")

// LoadError wraps a sink-specific failure.
type LoadError struct {
	Sink string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s load failed: %v", e.Sink, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// rowStrings renders a product in sink column order, nil optionals as "".
func rowStrings(p model.Product) []string {
	cells := make([]string, 0, len(model.AllColumns))

	cells = append(cells,
		p.Title,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
	)

	if p.Rating != nil {
		cells = append(cells, strconv.FormatFloat(*p.Rating, 'f', -1, 64))
	} else {
		cells = append(cells, "")
	}
	if p.Colors != nil {
		cells = append(cells, strconv.FormatInt(*p.Colors, 10))
	} else {
		cells = append(cells, "")
	}
	if p.Size != nil {
		cells = append(cells, *p.Size)
	} else {
		cells = append(cells, "")
	}
	if p.Gender != nil {
		cells = append(cells, *p.Gender)
	} else {
		cells = append(cells, "")
	}

	return append(cells, p.ScrapedAt)
}
