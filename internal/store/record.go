package store

import (
	"fmt"
	"strconv"
)

// Record is an order-preserving mapping from column name to scalar value,
// one instance per stored row. Its key set always equals the schema's full
// column list, regardless of how a query produced it.
type Record struct {
	columns []string
	values  map[string]any
}

// NewRecord pairs a positional row with the known column list. vals must
// have the same length as columns; this holds for every row produced by
// SELECT * against the discovered schema.
func NewRecord(columns []string, vals []any) Record {
	values := make(map[string]any, len(columns))
	for i, col := range columns {
		v := vals[i]
		// The driver hands text back as []byte in some paths; normalize so
		// callers only ever see printable scalars.
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		values[col] = v
	}
	return Record{columns: columns, values: values}
}

// Columns returns the column names in schema order.
func (r Record) Columns() []string {
	return r.columns
}

// Get returns the raw value stored under col, or nil if the column is
// unknown.
func (r Record) Get(col string) any {
	return r.values[col]
}

// String returns the value stored under col rendered as a string.
func (r Record) String(col string) string {
	return formatValue(r.values[col])
}

// Key returns the stringified value of the key column. It is stable for a
// given row across calls.
func (r Record) Key() string {
	return formatValue(r.values[r.columns[0]])
}

// Map returns the record as a plain column→value map for serialization.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// formatValue renders a stored scalar the way it appears in documents.
// Integers must not grow a decimal point, so numeric types are handled
// explicitly rather than through %v's float heuristics.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
