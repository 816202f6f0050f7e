package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/huangsam/basket/schema"
)

// CSVDecoder reads a header row followed by data rows. Every cell is kept
// as a trimmed string. Rows with fewer cells than the header are skipped.
type CSVDecoder struct {
	Comma rune // defaults to ','
}

// Decode implements Decoder.
func (d CSVDecoder) Decode(r io.Reader) ([]schema.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	if d.Comma != 0 {
		reader.Comma = d.Comma
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []schema.Record{}, nil
	}
	if err != nil {
		return nil, &DecodeError{Row: -1, Err: err}
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = h
	}

	records := []schema.Record{}
	for row := 0; ; row++ {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DecodeError{Row: row, Err: err}
		}
		if len(cells) < len(header) {
			continue
		}
		rec := make(schema.Record, 0, len(header))
		for i, name := range header {
			rec.Set(name, strings.TrimSpace(cells[i]))
		}
		records = append(records, rec)
	}
	return records, nil
}
