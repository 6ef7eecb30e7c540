package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LabelSet maps each category to its sorted, duplicate-free labels. It is the
// artifact handed from the extract stage to the enrich stage.
type LabelSet map[Category][]string

// Categories returns the categories of the set in processing order. Fixed
// categories are always included, even when they hold no labels.
func (s LabelSet) Categories() []Category {
	names := make([]Category, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return OrderedCategories(names)
}

// Total is the number of labels across all categories.
func (s LabelSet) Total() int {
	total := 0
	for _, labels := range s {
		total += len(labels)
	}
	return total
}

// MarshalJSON writes categories in processing order instead of the
// alphabetical order encoding/json would pick for a map.
func (s LabelSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range s.Categories() {
		if i > 0 {
			buf.WriteByte(',')
		}
		labels := s[category]
		if labels == nil {
			labels = []string{}
		}
		if err := writeMember(&buf, category.String(), labels); err != nil {
			return nil, fmt.Errorf("encode category %s: %w", category, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *LabelSet) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set := make(LabelSet, len(raw))
	for name, labels := range raw {
		if labels == nil {
			labels = []string{}
		}
		set[Category(name)] = labels
	}
	*s = set
	return nil
}

// writeMember appends `"key":value` to buf without HTML escaping, so labels
// and summaries stay human-readable in the written files.
func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := encodeJSON(key)
	if err != nil {
		return err
	}
	v, err := encodeJSON(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

func encodeJSON(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
