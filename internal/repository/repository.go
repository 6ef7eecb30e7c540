package repository

import (
	"bytes"
	"context"
	"encoding/json"

	"letluckdecide/enricher/internal/domain"
)

// EnrichRepository persists the enrichment store. Load is called once before
// the run and Save once after it, so a failed run never leaves a partially
// written store behind.
type EnrichRepository interface {
	Load(ctx context.Context) (domain.Store, error)
	Save(ctx context.Context, store domain.Store) error
	// Location describes where the store lives, for the run report.
	Location() string
	Close() error
}

// encodeIndented renders v as two-space indented JSON without HTML escaping.
func encodeIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeCompact(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
