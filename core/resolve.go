package core

import (
	"strings"

	"github.com/huangsam/basket/schema"
)

// FieldResolver extracts the semantic fields the engine needs from a record.
// Callers with schemas the default tables do not cover can supply their own.
type FieldResolver interface {
	// BasketKey returns the basket key, or false when the record has none.
	BasketKey(r schema.Record) (string, bool)

	// ItemKey returns the item identity. It always yields a value.
	ItemKey(r schema.Record) string
}

// TableResolver resolves fields by trying candidate names in priority order.
// The first present, non-blank value wins.
type TableResolver struct {
	BasketFields []string
	ItemFields   []string
}

var _ FieldResolver = TableResolver{} // Compile-time check

// DefaultResolver returns a TableResolver with the built-in candidate names.
func DefaultResolver() TableResolver {
	return TableResolver{
		BasketFields: append([]string(nil), schema.DefaultBasketFields...),
		ItemFields:   append([]string(nil), schema.DefaultItemFields...),
	}
}

// BasketKey implements FieldResolver.
func (t TableResolver) BasketKey(r schema.Record) (string, bool) {
	return firstPresent(r, t.BasketFields)
}

// ItemKey implements FieldResolver. Without a matching field it falls back to
// the first field of the record, then to schema.UnknownItem.
func (t TableResolver) ItemKey(r schema.Record) string {
	if v, ok := firstPresent(r, t.ItemFields); ok {
		return v
	}
	if len(r) > 0 {
		if s, ok := schema.ValueString(r[0].Value); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return schema.UnknownItem
}

func firstPresent(r schema.Record, names []string) (string, bool) {
	for _, name := range names {
		v, ok := r.Get(name)
		if !ok {
			continue
		}
		s, ok := schema.ValueString(v)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		return s, true
	}
	return "", false
}
