package typewise

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   string
	Value any
}

// Map is a string-keyed map that remembers insertion order. Keyed-map comparison walks
// entries in iteration order, so two Maps holding the same pairs in a different order
// do not compare equal. Use Map wherever that order is meaningful (decoded documents,
// literal objects).
//
// A Map is not safe for concurrent mutation.
type Map struct {
	entries []Entry
	index   map[string]int
}

// NewMap builds a Map from entries. Later duplicates overwrite earlier values but keep
// the position of the first occurrence.
func NewMap(entries ...Entry) *Map {
	m := &Map{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}

	return m
}

// Set inserts key at the end, or replaces its value in place if already present.
func (m *Map) Set(key string, value any) {
	if m.index == nil {
		m.index = make(map[string]int)
	}

	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value

		return
	}

	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}

	i, ok := m.index[key]
	if !ok {
		return nil, false
	}

	return m.entries[i].Value, true
}

// Delete removes key, reporting whether it was present.
func (m *Map) Delete(key string) bool {
	if m == nil {
		return false
	}

	i, ok := m.index[key]
	if !ok {
		return false
	}

	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, key)

	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}

	return true
}

// Len returns the number of entries. A nil Map is empty.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}

	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)

	return out
}

// All iterates the entries in insertion order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}

		for _, e := range m.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Clone returns a shallow copy.
func (m *Map) Clone() *Map {
	return NewMap(m.Entries()...)
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", e.Key, err)
		}

		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", e.Key, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (m *Map) String() string {
	if m == nil {
		return "map[]"
	}

	var buf bytes.Buffer

	buf.WriteString("map[")

	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(' ')
		}

		fmt.Fprintf(&buf, "%s:%v", e.Key, e.Value)
	}

	buf.WriteByte(']')

	return buf.String()
}
