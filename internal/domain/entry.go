package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// PendingSummary marks an entry whose summary has never been fetched
// successfully.
const PendingSummary = "TODO"

// Attribution is one accepted image with its provenance and license.
type Attribution struct {
	Src     string `json:"src"`     // Hotlinked image URL
	Source  string `json:"source"`  // Human-navigable file page
	Author  string `json:"author"`  // Author, credit line or "Unknown"
	License string `json:"license"` // License short name
}

// Entry is the enrichment record stored under a slug.
type Entry struct {
	Category Category      `json:"type"`
	Title    string        `json:"title"`
	Summary  string        `json:"summary"`
	Images   []Attribution `json:"images"`
	Links    []string      `json:"links"`

	// Extra keeps fields this program does not manage so a rewrite of the
	// store never drops them.
	Extra map[string]json.RawMessage `json:"-"`
}

var entryFields = []string{"type", "title", "summary", "images", "links"}

// NewEntry returns the initial state of an entry that has not been enriched.
func NewEntry(category Category, label string) *Entry {
	return &Entry{
		Category: category,
		Title:    label,
		Summary:  PendingSummary,
		Images:   []Attribution{},
		Links:    []string{},
	}
}

// HasSummary reports whether a real (non-pending) summary is present.
func (e *Entry) HasSummary() bool {
	return e != nil && e.Summary != "" && e.Summary != PendingSummary
}

// HasImages reports whether at least one image was accepted.
func (e *Entry) HasImages() bool {
	return e != nil && len(e.Images) > 0
}

// Complete reports whether the entry needs no further fetches.
func (e *Entry) Complete() bool {
	return e.HasSummary() && e.HasImages()
}

func (e Entry) MarshalJSON() ([]byte, error) {
	images := e.Images
	if images == nil {
		images = []Attribution{}
	}
	links := e.Links
	if links == nil {
		links = []string{}
	}
	values := []any{e.Category, e.Title, e.Summary, images, links}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range entryFields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, field, values[i]); err != nil {
			return nil, fmt.Errorf("encode %s: %w", field, err)
		}
	}

	extraKeys := make([]string, 0, len(e.Extra))
	for key := range e.Extra {
		extraKeys = append(extraKeys, key)
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		buf.WriteByte(',')
		if err := writeMember(&buf, key, e.Extra[key]); err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	targets := []any{&e.Category, &e.Title, &e.Summary, &e.Images, &e.Links}
	for i, field := range entryFields {
		value, ok := raw[field]
		if !ok {
			continue
		}
		delete(raw, field)
		if err := json.Unmarshal(value, targets[i]); err != nil {
			return fmt.Errorf("decode %s: %w", field, err)
		}
	}

	if e.Images == nil {
		e.Images = []Attribution{}
	}
	if e.Links == nil {
		e.Links = []string{}
	}
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

// Store maps slugs to their enrichment entries.
type Store map[string]*Entry

// Slugs returns the store keys in sorted order.
func (s Store) Slugs() []string {
	slugs := make([]string, 0, len(s))
	for slug := range s {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
