package domain

// Summary is a usable page summary returned by the summary service.
type Summary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// ImageCandidate is a raw search hit from the image service, before the
// acceptance policy has been applied.
type ImageCandidate struct {
	Title            string `json:"title"`              // Page title, e.g. "File:Eiffel Tower.jpg"
	ThumbWidth       int    `json:"thumb_width"`        // Rendered width, 0 when not reported
	LicenseShortName string `json:"license_short_name"` // e.g. "CC BY-SA 4.0"
	License          string `json:"license"`            // e.g. "cc-by-sa-4.0"
	Artist           string `json:"artist"`
	Author           string `json:"author"`
	Credit           string `json:"credit"`
}
