package load

import (
	"bufio"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/Bizzati/ETL-Pipeline/internal/model"
)

// SaveCSV writes the clean table to a delimited text file: header row of
// column names, one line per product, every cell quoted. Embedded double
// quotes are rewritten to single quotes so cells never need escaping.
// encoding/csv only quotes on demand, hence the explicit writer.
func SaveCSV(table model.CleanTable, path string, log *slog.Logger) error {
	if path == "" {
		return &LoadError{Sink: "csv", Err: errors.New("output path is empty")}
	}
	if len(table) == 0 {
		return &LoadError{Sink: "csv", Err: ErrEmptyTable}
	}

	f, err := os.Create(path)
	if err != nil {
		return &LoadError{Sink: "csv", Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if err := writeQuoted(w, model.AllColumns); err != nil {
		return &LoadError{Sink: "csv", Err: err}
	}
	for _, p := range table {
		if err := writeQuoted(w, rowStrings(p)); err != nil {
			return &LoadError{Sink: "csv", Err: err}
		}
	}

	if err := w.Flush(); err != nil {
		return &LoadError{Sink: "csv", Err: err}
	}

	log.Info("csv saved", "path", path, "rows", len(table))

	return nil
}

func writeQuoted(w *bufio.Writer, cells []string) error {
	for i, cell := range cells {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		quoted := `"` + strings.ReplaceAll(cell, `"`, `'`) + `"`
		if _, err := w.WriteString(quoted); err != nil {
			return err
		}
	}

	return w.WriteByte('\n')
}
