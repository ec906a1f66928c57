package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Row is an ordered mapping from column label to cell value. Cell values are
// string, float64, int, int64, bool, time.Time or nil. Insertion order is kept
// so that header order survives normalization and export.
type Row struct {
	keys   []string
	values map[string]any
}

// RawRow is a report row as produced by a reader, before column names are
// reconciled.
type RawRow = Row

// NewRow returns an empty row with room for n columns.
func NewRow(n int) *Row {
	return &Row{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// RowFromMap builds a row from a plain map. Keys are ordered lexically since
// map order carries no meaning.
func RowFromMap(m map[string]any) *Row {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	r := NewRow(len(keys))
	for _, k := range keys {
		r.Set(k, m[k])
	}
	return r
}

// Set stores v under key. An existing key keeps its position.
func (r *Row) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r *Row) Get(key string) (any, bool) {
	if r == nil || r.values == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key holds a non-nil value.
func (r *Row) Has(key string) bool {
	v, ok := r.Get(key)
	return ok && v != nil
}

// Keys returns the column labels in insertion order.
func (r *Row) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone returns a shallow copy that can be modified independently.
func (r *Row) Clone() *Row {
	c := NewRow(r.Len())
	if r == nil {
		return c
	}
	for _, k := range r.keys {
		c.Set(k, r.values[k])
	}
	return c
}

// String returns the value under key rendered as text, or "" when absent.
func (r *Row) String(key string) string {
	v, ok := r.Get(key)
	if !ok {
		return ""
	}
	return CellString(v)
}

// Map returns the row as a plain map.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, r.Len())
	for _, k := range r.Keys() {
		m[k] = r.values[k]
	}
	return m
}

// MarshalJSON encodes the row as a JSON object in column order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("model: row must be a JSON object")
	}
	*r = Row{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if n, ok := v.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				v = f
			} else {
				v = n.String()
			}
		}
		r.Set(key, v)
	}
	_, err = dec.Token()
	return err
}

// CellString renders a cell value as text.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return strings.Trim(string(b), `"`)
	}
}
