package extractor

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"letluckdecide/enricher/internal/domain"

	log "github.com/sirupsen/logrus"
)

var (
	poolPattern  = regexp.MustCompile(`\bpool\s*:\s*\[`)
	labelPattern = regexp.MustCompile(`\blabel\s*:\s*"([^"]+)"`)
)

// Extractor pulls pooled labels out of a hand-written data source without
// parsing it. It only relies on balanced delimiters around category and pool
// sections.
type Extractor struct {
	categories     []domain.Category
	categoryMarker *regexp.Regexp
}

func New(categories []domain.Category) *Extractor {
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, regexp.QuoteMeta(category.String()))
	}
	return &Extractor{
		categories:     categories,
		categoryMarker: regexp.MustCompile(fmt.Sprintf(`\b(%s)\s*:\s*\{`, strings.Join(names, "|"))),
	}
}

// Extract returns, for every configured category, the sorted unique labels
// found inside its pool lists. Categories without pools map to an empty list.
func (e *Extractor) Extract(content string) domain.LabelSet {
	found := make(map[domain.Category]map[string]struct{}, len(e.categories))
	for _, category := range e.categories {
		found[category] = make(map[string]struct{})
	}

	markers := e.categoryMarker.FindAllStringSubmatchIndex(content, -1)
	for i, marker := range markers {
		category := domain.Category(content[marker[2]:marker[3]])
		start := marker[1] - 1

		var end int
		if i+1 < len(markers) {
			end = markers[i+1][0]
		} else {
			var ok bool
			end, ok = FindClose(content, start, Braces)
			if !ok {
				log.Warnf("⚠️ Unbalanced braces after category %s, scanning to end of input", category)
			}
		}

		for _, label := range e.poolLabels(content[start:end], category) {
			found[category][label] = struct{}{}
		}
	}

	result := make(domain.LabelSet, len(e.categories))
	for _, category := range e.categories {
		labels := make([]string, 0, len(found[category]))
		for label := range found[category] {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		result[category] = labels
	}
	return result
}

func (e *Extractor) poolLabels(section string, category domain.Category) []string {
	var labels []string
	for _, match := range poolPattern.FindAllStringIndex(section, -1) {
		pool, ok := Inner(section, match[1]-1, Brackets)
		if !ok {
			log.Warnf("⚠️ Unbalanced pool list in category %s, scanning to end of section", category)
		}

		for _, m := range labelPattern.FindAllStringSubmatch(pool, -1) {
			label := strings.TrimSpace(m[1])
			if label == "" {
				continue
			}
			labels = append(labels, label)
		}
	}
	log.Debugf("Found %d pooled labels in %s section", len(labels), category)
	return labels
}
