package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"letluckdecide/enricher/internal/domain"
)

// ErrNotFound is returned when a required input file does not exist.
var ErrNotFound = errors.New("input file not found")

// ReadSource returns the raw text of the hand-written data file.
func ReadSource(path string) (string, error) {
	data, err := readInput(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadLabels loads the extracted label artifact.
func ReadLabels(path string) (domain.LabelSet, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}

	var labels domain.LabelSet
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return labels, nil
}

// WriteLabels stores the label artifact as indented JSON in processing order.
func WriteLabels(path string, labels domain.LabelSet) error {
	data, err := encodeIndented(labels)
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
