package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"letluckdecide/enricher/internal/domain"
)

// fileNamespace is the MediaWiki namespace holding uploaded files.
const fileNamespace = 6

type commonsPayload struct {
	Query struct {
		Pages []commonsPage `json:"pages"`
	} `json:"query"`
}

type commonsPage struct {
	Title     string             `json:"title"`
	Index     int                `json:"index"`
	ImageInfo []commonsImageInfo `json:"imageinfo"`
}

type commonsImageInfo struct {
	ThumbWidth  int                        `json:"thumbwidth"`
	ExtMetadata map[string]commonsMetadata `json:"extmetadata"`
}

type commonsMetadata struct {
	Value json.RawMessage `json:"value"`
}

// FetchImageCandidates searches the file namespace for the label.
func (c *referenceClient) FetchImageCandidates(ctx context.Context, label string, limit int) ([]domain.ImageCandidate, error) {
	params := map[string]string{
		"action":        "query",
		"generator":     "search",
		"gsrsearch":     label,
		"gsrnamespace":  strconv.Itoa(fileNamespace),
		"gsrlimit":      strconv.Itoa(limit),
		"prop":          "imageinfo",
		"iiprop":        "url|extmetadata",
		"iiurlwidth":    strconv.Itoa(c.commons.ThumbWidth),
		"format":        "json",
		"formatversion": "2",
	}

	body, err := c.get(ctx, c.commons.Timeout, c.commons.APIURL, params)
	if err != nil {
		return nil, err
	}

	var payload commonsPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("decode image search response: %w", err)
	}

	pages := payload.Query.Pages
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	candidates := make([]domain.ImageCandidate, 0, len(pages))
	for _, page := range pages {
		candidate := domain.ImageCandidate{Title: page.Title}
		if len(page.ImageInfo) > 0 {
			info := page.ImageInfo[0]
			candidate.ThumbWidth = info.ThumbWidth
			candidate.LicenseShortName = metadataText(info.ExtMetadata, "LicenseShortName")
			candidate.License = metadataText(info.ExtMetadata, "License")
			candidate.Artist = PlainText(metadataText(info.ExtMetadata, "Artist"))
			candidate.Author = PlainText(metadataText(info.ExtMetadata, "Author"))
			candidate.Credit = PlainText(metadataText(info.ExtMetadata, "Credit"))
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// metadataText returns a string-valued metadata field, or "" when the field
// is missing or not a string.
func metadataText(metadata map[string]commonsMetadata, key string) string {
	field, ok := metadata[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(field.Value, &value); err != nil {
		return ""
	}
	return value
}
