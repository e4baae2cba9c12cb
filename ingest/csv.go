// Package ingest turns raw CSV input into the row format the pipeline
// consumes.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/emostyz/marketing-sub014/deck"
	"github.com/emostyz/marketing-sub014/errors"
)

// DefaultMaxRows caps how many data rows a single deck ingests.
const DefaultMaxRows = 5000

// Reader parses CSV input into deck rows. The zero value is not
// usable; construct with NewReader.
type Reader struct {
	maxRows int
}

// NewReader returns a Reader capped at maxRows data rows. A
// non-positive cap falls back to DefaultMaxRows.
func NewReader(maxRows int) *Reader {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Reader{maxRows: maxRows}
}

// ReadFile parses the CSV file at path.
func (r *Reader) ReadFile(path string) (deck.Rows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()

	rows, err := r.Read(f)
	if err != nil {
		return nil, errors.WithDetailf(err, "File: %s", path)
	}
	return rows, nil
}

// Read parses CSV from in. The first record is the header; header
// cells are whitespace-trimmed and must be non-empty and unique.
// Blank lines are skipped and ragged rows are padded or truncated to
// the header width.
func (r *Reader) Read(in io.Reader) (deck.Rows, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewInvalidInput("CSV input is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}

	columns, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	rows := make(deck.Rows, 0)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read CSV row %d", len(rows)+2)
		}
		if isBlank(record) {
			continue
		}
		if len(rows) >= r.maxRows {
			return nil, errors.Newf("CSV exceeds the maximum of %d data rows", r.maxRows)
		}
		rows = append(rows, buildRow(columns, record))
	}

	if len(rows) == 0 {
		return nil, errors.NewInvalidInput("CSV has a header but no data rows")
	}
	return rows, nil
}

func parseHeader(header []string) ([]string, error) {
	columns := make([]string, 0, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			return nil, errors.NewInvalidInput("CSV header column %d is empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, errors.NewInvalidInput("CSV header column %q appears more than once", name)
		}
		seen[name] = struct{}{}
		columns = append(columns, name)
	}
	return columns, nil
}

// buildRow maps a record onto the header, padding short records with
// empty strings and dropping cells beyond the header width.
func buildRow(columns []string, record []string) map[string]string {
	row := make(map[string]string, len(columns))
	for i, name := range columns {
		if i < len(record) {
			row[name] = strings.TrimSpace(record[i])
		} else {
			row[name] = ""
		}
	}
	return row
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
