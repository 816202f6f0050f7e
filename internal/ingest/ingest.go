// Package ingest decodes tabular input files into records.
package ingest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/basket/schema"
)

// Decoder turns an input stream into records.
type Decoder interface {
	Decode(r io.Reader) ([]schema.Record, error)
}

// DecodeError reports input that could not be turned into records.
type DecodeError struct {
	Row int // zero-based data row, -1 when the whole document is bad
	Err error
}

func (e *DecodeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode row %d: %v", e.Row, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrUnknownFormat is returned when no decoder matches the requested format.
var ErrUnknownFormat = errors.New("unknown input format")

var decoders = map[schema.InputFormat]Decoder{
	schema.CSVIn:  CSVDecoder{},
	schema.JSONIn: JSONDecoder{},
}

// ForFormat returns the decoder registered for format.
func ForFormat(format schema.InputFormat) (Decoder, error) {
	d, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return d, nil
}

// Read decodes r with the decoder for format. AutoIn sniffs the first
// non-space byte: '[' selects JSON and anything else CSV.
func Read(r io.Reader, format schema.InputFormat) ([]schema.Record, error) {
	if format == schema.AutoIn || format == "" {
		br := bufio.NewReader(r)
		format = sniff(br)
		r = br
	}
	d, err := ForFormat(format)
	if err != nil {
		return nil, err
	}
	return d.Decode(r)
}

// ReadFile decodes the file at path. A path of "-" reads stdin.
func ReadFile(path string, format schema.InputFormat) ([]schema.Record, error) {
	if path == "" || path == "-" {
		return Read(os.Stdin, format)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, format)
}

func sniff(br *bufio.Reader) schema.InputFormat {
	for n := 64; ; n *= 2 {
		peek, err := br.Peek(n)
		trimmed := bytes.TrimLeft(peek, " \t\r\n\ufeff")
		if len(trimmed) > 0 {
			if trimmed[0] == '[' {
				return schema.JSONIn
			}
			return schema.CSVIn
		}
		if err != nil {
			return schema.CSVIn
		}
	}
}
