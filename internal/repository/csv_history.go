package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"DemandCast/internal/domain/models"
	"DemandCast/pkg/logger"
	"DemandCast/pkg/util"
)

// Column headers recognized in the sales CSV export. Matching is
// case-insensitive and ignores surrounding whitespace.
var csvColumns = map[string]string{
	"date":             "date",
	"product category": "category",
	"category":         "category",
	"quantity":         "quantity",
	"price per unit":   "unit_price",
	"unit price":       "unit_price",
}

// CSVHistoryStore loads the historical dataset from a CSV file on disk.
type CSVHistoryStore struct {
	path   string
	logger *logger.Logger
}

func NewCSVHistoryStore(path string, log *logger.Logger) *CSVHistoryStore {
	return &CSVHistoryStore{path: path, logger: log}
}

// LoadAll reads every row of the CSV. Rows with an unparseable date are
// skipped with a warning; unparseable numbers default to 0 so a partially
// dirty export still loads.
func (s *CSVHistoryStore) LoadAll(_ context.Context) ([]models.SalesRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		if field, ok := csvColumns[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[field] = i
		}
	}
	for _, required := range []string{"date", "category", "quantity"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataset %s missing column %q", s.path, required)
		}
	}

	var records []models.SalesRecord
	skipped := 0
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		date, ok := util.ParseDay(row[cols["date"]])
		if !ok {
			skipped++
			continue
		}
		rec := models.SalesRecord{
			Date:     date,
			Category: strings.TrimSpace(row[cols["category"]]),
			Quantity: parseFloat(row[cols["quantity"]]),
		}
		if i, ok := cols["unit_price"]; ok {
			rec.UnitPrice = parseFloat(row[i])
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		s.logger.Warn("skipped rows with invalid dates",
			logger.String("path", s.path),
			logger.Int("skipped", skipped))
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s contains no usable rows", s.path)
	}

	s.logger.Info("loaded sales history from csv",
		logger.String("path", s.path),
		logger.Int("records", len(records)))
	return records, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
