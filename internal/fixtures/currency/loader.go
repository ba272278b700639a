package currency

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amirasaad/fxconverter/pkg/domain"
)

//go:embed meta.csv
var metaCSV string

const expectedColumns = 3

// Catalog maps a currency code to its display metadata.
type Catalog map[string]domain.CurrencyMeta

// Describe returns metadata for codes in the given order. Codes missing from
// the catalog get an entry with only the code set.
func (c Catalog) Describe(codes []string) []domain.CurrencyMeta {
	out := make([]domain.CurrencyMeta, 0, len(codes))
	for _, code := range codes {
		meta, ok := c[code]
		if !ok {
			meta = domain.CurrencyMeta{Code: code}
		}
		out = append(out, meta)
	}
	return out
}

// LoadCurrencyMetaCSV loads currency metadata from a CSV file or embedded content.
// If path is empty, it uses the embedded CSV content.
func LoadCurrencyMetaCSV(path string) (Catalog, error) {
	var r io.Reader

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		r = f
	} else {
		r = strings.NewReader(metaCSV)
	}

	return parseCurrencyMetaCSV(r)
}

// MustLoadEmbedded returns the embedded catalog.
func MustLoadEmbedded() Catalog {
	c, err := LoadCurrencyMetaCSV("")
	if err != nil {
		panic(fmt.Sprintf("embedded currency metadata: %v", err))
	}
	return c
}

func parseCurrencyMetaCSV(r io.Reader) (Catalog, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("invalid CSV format: missing header")
	}
	if len(records[0]) < expectedColumns {
		return nil, fmt.Errorf(
			"invalid CSV format: expected at least %d columns, got %d",
			expectedColumns,
			len(records[0]),
		)
	}

	catalog := make(Catalog, len(records)-1)
	for _, rec := range records[1:] {
		// Skip malformed rows
		if len(rec) < expectedColumns {
			continue
		}
		code := domain.NormalizeCode(rec[0])
		if !domain.IsCurrencyCode(code) {
			continue
		}
		catalog[code] = domain.CurrencyMeta{
			Code:   code,
			Name:   strings.TrimSpace(rec[1]),
			Symbol: strings.TrimSpace(rec[2]),
		}
	}
	return catalog, nil
}
