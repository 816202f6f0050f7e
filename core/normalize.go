package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/huangsam/basket/schema"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// whitespaceRun matches runs of ASCII and Unicode separator whitespace.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// quoteStripper removes single and double quote characters.
var quoteStripper = strings.NewReplacer("'", "", `"`, "")

// NormalizeValue cleans a single field value. Strings lose their quote characters,
// have whitespace runs collapsed to one space, are trimmed and lowercased.
// Any other value is returned unchanged.
func NormalizeValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return normalizeString(s)
}

// normalizeString strips quotes before collapsing and trimming so that a second pass is a no-op.
func normalizeString(s string) string {
	s = quoteStripper.Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return cases.Lower(language.Und).String(s)
}

// Normalize cleans and deduplicates raw records.
//
// Fields with a nil value are treated as absent and removed. Records without any
// meaningful value (all strings blank and no numbers) are dropped. Duplicates are
// detected by structural equality in field order and only the first one is kept.
// A field holding a non-scalar value yields an *InvalidInputError.
func Normalize(records []schema.Record) ([]schema.Record, error) {
	out := make([]schema.Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		cleaned := make(schema.Record, 0, len(rec))
		meaningful := false
		for _, f := range rec {
			if f.Value == nil {
				continue
			}
			if !schema.IsScalar(f.Value) {
				reason := fmt.Sprintf("unsupported value type %T", f.Value)
				if schema.IsNumeric(f.Value) {
					reason = fmt.Sprintf("non-finite number %v", f.Value)
				}
				return nil, &InvalidInputError{Index: i, Field: f.Name, Reason: reason}
			}
			v := NormalizeValue(f.Value)
			if s, _ := v.(string); s != "" || schema.IsNumeric(v) {
				meaningful = true
			}
			cleaned = append(cleaned, schema.Field{Name: f.Name, Value: v})
		}
		if !meaningful {
			continue
		}

		key, err := recordKey(cleaned)
		if err != nil {
			return nil, &InvalidInputError{Index: i, Reason: err.Error()}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cleaned)
	}

	return out, nil
}

// recordKey is the canonical form used for structural equality.
func recordKey(r schema.Record) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("cannot encode record: %w", err)
	}
	return string(data), nil
}
