package service

import (
	"fmt"
	"net/url"
	"strings"

	"letluckdecide/enricher/internal/config"
	"letluckdecide/enricher/internal/domain"
)

// RejectReason names why an image candidate was dropped.
type RejectReason string

const (
	RejectLicense  RejectReason = "license"
	RejectWidth    RejectReason = "width"
	RejectFilename RejectReason = "filename"
)

const (
	filePrefix     = "File:"
	unknownCredit  = "Unknown"
	unknownLicense = "Unknown"
)

var licenseMarkers = []string{"PUBLIC DOMAIN", "CC BY"}

// AcceptancePolicy decides which image candidates may be hotlinked and how
// they are attributed.
type AcceptancePolicy struct {
	MinWidth    int
	FileBaseURL string
	ThumbWidth  int
}

func NewAcceptancePolicy(commons config.CommonsConfig, minWidth int) AcceptancePolicy {
	return AcceptancePolicy{
		MinWidth:    minWidth,
		FileBaseURL: strings.TrimRight(commons.FileBaseURL, "/"),
		ThumbWidth:  commons.ThumbWidth,
	}
}

// Evaluate returns the attribution for an acceptable candidate, or the
// reason it was rejected.
func (p AcceptancePolicy) Evaluate(candidate domain.ImageCandidate) (*domain.Attribution, RejectReason) {
	licenseText := strings.ToUpper(candidate.LicenseShortName + " " + candidate.License)
	if !containsAny(licenseText, licenseMarkers) {
		return nil, RejectLicense
	}

	// A width of zero means the service did not report one.
	if candidate.ThumbWidth > 0 && candidate.ThumbWidth < p.MinWidth {
		return nil, RejectWidth
	}

	if !strings.HasPrefix(candidate.Title, filePrefix) {
		return nil, RejectFilename
	}
	filename := strings.TrimPrefix(candidate.Title, filePrefix)
	if filename == "" {
		return nil, RejectFilename
	}

	return &domain.Attribution{
		Src:     fmt.Sprintf("%s/Special:FilePath/%s?width=%d", p.FileBaseURL, url.PathEscape(filename), p.ThumbWidth),
		Source:  fmt.Sprintf("%s/File:%s", p.FileBaseURL, url.PathEscape(strings.ReplaceAll(filename, " ", "_"))),
		Author:  firstNonEmpty(candidate.Artist, candidate.Author, candidate.Credit, unknownCredit),
		License: firstNonEmpty(candidate.LicenseShortName, candidate.License, unknownLicense),
	}, ""
}

// Select walks candidates in order and keeps at most limit accepted images.
// onReject, if set, is called for every dropped candidate that was examined.
// The result is never nil.
func (p AcceptancePolicy) Select(candidates []domain.ImageCandidate, limit int, onReject func(domain.ImageCandidate, RejectReason)) []domain.Attribution {
	accepted := make([]domain.Attribution, 0, limit)
	for _, candidate := range candidates {
		if len(accepted) >= limit {
			break
		}
		attribution, reason := p.Evaluate(candidate)
		if attribution == nil {
			if onReject != nil {
				onReject(candidate, reason)
			}
			continue
		}
		accepted = append(accepted, *attribution)
	}
	return accepted
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
