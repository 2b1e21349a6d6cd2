// Package dataset reads the external CSV source tables into typed rows.
// Tables are re-read on every call; there is no caching layer.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/altscore/credit-system/internal/core/domain"
)

// timestampLayouts are tried in order when parsing a timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// table is one parsed CSV file with a header-derived column index.
type table struct {
	name  string
	index map[string]int
	rows  [][]string
}

// readTable opens <dir>/<name>.csv and verifies the required columns exist.
// Missing or unreadable files map to domain.ErrSourceUnavailable; a header
// missing a required column is a schema error and reported distinctly.
func readTable(dir, name string, required ...string) (*table, error) {
	path := filepath.Join(dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", domain.ErrSourceUnavailable, path)
	}

	index := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		index[col] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("table %s: missing column %q", name, col)
		}
	}

	return &table{name: name, index: index, rows: records[1:]}, nil
}

func (t *table) str(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (t *table) float(row []string, rowNum int, col string) (float64, error) {
	raw := t.str(row, col)
	if raw == "" {
		// Absent numeric signals are "no activity", not "unknown".
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("table %s row %d: column %q: %v", t.name, rowNum, col, err)
	}
	return v, nil
}

func (t *table) time(row []string, rowNum int, col string) (time.Time, error) {
	raw := t.str(row, col)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("table %s row %d: column %q: unparseable timestamp %q", t.name, rowNum, col, raw)
}
