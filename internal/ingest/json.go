package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/basket/schema"
)

// JSONDecoder reads a JSON array of objects, keeping the key order of each object.
type JSONDecoder struct{}

// Decode implements Decoder.
func (JSONDecoder) Decode(r io.Reader) ([]schema.Record, error) {
	dec := json.NewDecoder(r)

	var rows []json.RawMessage
	if err := dec.Decode(&rows); err != nil {
		if errors.Is(err, io.EOF) {
			return []schema.Record{}, nil
		}
		return nil, &DecodeError{Row: -1, Err: fmt.Errorf("expected a JSON array of objects: %w", err)}
	}

	records := make([]schema.Record, 0, len(rows))
	for i, raw := range rows {
		rec, err := DecodeRecord(raw)
		if err != nil {
			return nil, &DecodeError{Row: i, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeRecord decodes one JSON object into a Record.
func DecodeRecord(raw json.RawMessage) (schema.Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("record is not a JSON object")
	}
	var rec schema.Record
	if err := rec.UnmarshalJSON(trimmed); err != nil {
		return nil, err
	}
	return rec, nil
}
