package service

import (
	"fmt"

	"letluckdecide/enricher/internal/domain"
	"letluckdecide/enricher/internal/extractor"
	"letluckdecide/enricher/internal/repository"

	log "github.com/sirupsen/logrus"
)

// ExtractLabels scans the data source for pooled labels and writes the label
// artifact consumed by Enrich.
func ExtractLabels(sourcePath, keywordsPath string) (domain.LabelSet, error) {
	content, err := repository.ReadSource(sourcePath)
	if err != nil {
		return nil, err
	}

	labels := extractor.New(domain.Categories).Extract(content)

	if err := repository.WriteLabels(keywordsPath, labels); err != nil {
		return nil, fmt.Errorf("failed to write labels: %w", err)
	}

	log.Infof("✅ Extracted %d labels to %s", labels.Total(), keywordsPath)
	for _, category := range labels.Categories() {
		log.Infof("  %s: %d", category, len(labels[category]))
	}
	return labels, nil
}
