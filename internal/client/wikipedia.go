package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"letluckdecide/enricher/internal/domain"

	log "github.com/sirupsen/logrus"
)

type summaryPayload struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// FetchSummary looks the label up on the page summary endpoint.
func (c *referenceClient) FetchSummary(ctx context.Context, label string) (*domain.Summary, error) {
	endpoint := fmt.Sprintf("%s/page/summary/%s",
		strings.TrimRight(c.wikipedia.BaseURL, "/"),
		url.PathEscape(strings.ReplaceAll(label, " ", "_")))

	body, err := c.get(ctx, c.wikipedia.Timeout, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("decode summary response: %w", err)
	}

	if payload.Type == "disambiguation" {
		log.Infof("⏭️ %s: disambiguation page", label)
		return nil, nil
	}

	extract := strings.TrimSpace(payload.Extract)
	if extract == "" {
		return nil, nil
	}

	title := payload.Title
	if title == "" {
		title = label
	}

	return &domain.Summary{Title: title, Extract: extract}, nil
}
