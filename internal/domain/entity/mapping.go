package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FieldMapping associates logical field names (and "submit") with a
// selector. A key present with a nil value means the provider explicitly
// found no selector for it. Keys keep the order they were added in.
type FieldMapping struct {
	keys    []string
	entries map[string]*string
}

// MappingEntry is one key of a FieldMapping in provider order.
type MappingEntry struct {
	Key   string
	Value *string
}

// NewFieldMapping builds a mapping from an unordered map; keys are sorted.
func NewFieldMapping(entries map[string]*string) FieldMapping {
	list := make([]MappingEntry, 0, len(entries))
	for k, v := range entries {
		list = append(list, MappingEntry{Key: k, Value: v})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return NewOrderedFieldMapping(list...)
}

// NewOrderedFieldMapping keeps the given key order. A repeated key keeps
// its first position and its last value.
func NewOrderedFieldMapping(entries ...MappingEntry) FieldMapping {
	m := FieldMapping{
		keys:    make([]string, 0, len(entries)),
		entries: make(map[string]*string, len(entries)),
	}
	for _, e := range entries {
		if _, seen := m.entries[e.Key]; !seen {
			m.keys = append(m.keys, e.Key)
		}
		if e.Value != nil {
			v := *e.Value
			m.entries[e.Key] = &v
		} else {
			m.entries[e.Key] = nil
		}
	}
	return m
}

// Selector returns the usable selector for key. Missing keys, nulls and
// blank strings all report false.
func (m FieldMapping) Selector(key string) (string, bool) {
	v, ok := m.entries[key]
	if !ok || v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return "", false
	}
	return s, true
}

func (m FieldMapping) Has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

// Keys returns the mapping keys in insertion order.
func (m FieldMapping) Keys() []string {
	return append([]string(nil), m.keys...)
}

func (m FieldMapping) Len() int {
	return len(m.keys)
}

func (m FieldMapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m FieldMapping) String() string {
	parts := make([]string, 0, len(m.entries))
	for _, k := range m.keys {
		if v := m.entries[k]; v != nil {
			parts = append(parts, fmt.Sprintf("%s=%q", k, *v))
		} else {
			parts = append(parts, k+"=null")
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
