package service_test

import (
	"testing"

	"letluckdecide/enricher/internal/config"
	"letluckdecide/enricher/internal/domain"
	"letluckdecide/enricher/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptancePolicy_Evaluate(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name      string
		candidate domain.ImageCandidate
		reason    service.RejectReason
	}{
		{
			name:      "CC BY-SA accepted",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", ThumbWidth: 1200, LicenseShortName: "CC BY-SA 4.0"},
		},
		{
			name:      "public domain in full license text",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", ThumbWidth: 1200, License: "Public Domain"},
		},
		{
			name:      "case insensitive",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", LicenseShortName: "cc by 2.0"},
		},
		{
			name:      "width not reported",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", LicenseShortName: "CC BY 3.0"},
		},
		{
			name:      "exactly minimum width",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", ThumbWidth: 800, LicenseShortName: "CC BY 3.0"},
		},
		{
			name:      "all rights reserved",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", ThumbWidth: 1200, LicenseShortName: "All Rights Reserved"},
			reason:    service.RejectLicense,
		},
		{
			name:      "no license",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", ThumbWidth: 1200},
			reason:    service.RejectLicense,
		},
		{
			name:      "undersized with accepted license",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", ThumbWidth: 799, LicenseShortName: "CC BY-SA 4.0"},
			reason:    service.RejectWidth,
		},
		{
			name:      "no file prefix",
			candidate: domain.ImageCandidate{Title: "A.jpg", ThumbWidth: 1200, LicenseShortName: "CC BY 4.0"},
			reason:    service.RejectFilename,
		},
		{
			name:      "empty filename",
			candidate: domain.ImageCandidate{Title: "File:", ThumbWidth: 1200, LicenseShortName: "CC BY 4.0"},
			reason:    service.RejectFilename,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attribution, reason := policy.Evaluate(tt.candidate)
			assert.Equal(t, tt.reason, reason)
			if tt.reason == "" {
				assert.NotNil(t, attribution)
			} else {
				assert.Nil(t, attribution)
			}
		})
	}
}

func TestAcceptancePolicy_Attribution(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name      string
		candidate domain.ImageCandidate
		author    string
		license   string
	}{
		{
			name:      "artist wins",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", LicenseShortName: "CC BY 4.0", Artist: "Artist", Author: "Author", Credit: "Credit"},
			author:    "Artist",
			license:   "CC BY 4.0",
		},
		{
			name:      "author when no artist",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", License: "cc-by-4.0", Author: "Author", Credit: "Credit"},
			author:    "Author",
			license:   "cc-by-4.0",
		},
		{
			name:      "credit fallback",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", LicenseShortName: "Public domain", Credit: "Own work"},
			author:    "Own work",
			license:   "Public domain",
		},
		{
			name:      "unknown author",
			candidate: domain.ImageCandidate{Title: "File:A.jpg", LicenseShortName: "Public domain"},
			author:    "Unknown",
			license:   "Public domain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attribution, _ := policy.Evaluate(tt.candidate)
			require.NotNil(t, attribution)
			assert.Equal(t, tt.author, attribution.Author)
			assert.Equal(t, tt.license, attribution.License)
		})
	}
}

func TestAcceptancePolicy_URLs(t *testing.T) {
	policy := service.NewAcceptancePolicy(config.CommonsConfig{
		FileBaseURL: "https://commons.wikimedia.org/wiki/",
		ThumbWidth:  1200,
	}, 800)

	attribution, reason := policy.Evaluate(domain.ImageCandidate{
		Title:            "File:Café de Flore, Paris.jpg",
		LicenseShortName: "CC BY-SA 3.0",
	})
	require.Empty(t, reason)
	require.NotNil(t, attribution)
	assert.Equal(t, "https://commons.wikimedia.org/wiki/Special:FilePath/Caf%C3%A9%20de%20Flore%2C%20Paris.jpg?width=1200", attribution.Src)
	assert.Equal(t, "https://commons.wikimedia.org/wiki/File:Caf%C3%A9_de_Flore%2C_Paris.jpg", attribution.Source)
}

func TestAcceptancePolicy_Select(t *testing.T) {
	policy := testPolicy()
	candidates := []domain.ImageCandidate{
		{Title: "File:Private.jpg", LicenseShortName: "All Rights Reserved"},
		goodImage("One.jpg"),
		{Title: "File:Small.jpg", ThumbWidth: 320, LicenseShortName: "CC BY 4.0"},
		goodImage("Two.jpg"),
		goodImage("Three.jpg"),
	}

	var rejected []service.RejectReason
	images := policy.Select(candidates, 2, func(_ domain.ImageCandidate, reason service.RejectReason) {
		rejected = append(rejected, reason)
	})

	require.Len(t, images, 2)
	assert.Contains(t, images[0].Src, "One.jpg")
	assert.Contains(t, images[1].Src, "Two.jpg")
	assert.Equal(t, []service.RejectReason{service.RejectLicense, service.RejectWidth}, rejected)

	none := policy.Select(nil, 3, nil)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
