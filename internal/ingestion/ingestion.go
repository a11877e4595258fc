// Package ingestion turns a job posting URL into a draft application
// document. The draft is returned to the client for review; nothing reaches
// storage until the client submits it through the normal create endpoint.
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jonathan/jobtrackr/internal/fetch"
	"github.com/jonathan/jobtrackr/internal/types"
)

var (
	// ErrFetchFailed is returned when the posting URL cannot be retrieved.
	ErrFetchFailed = fmt.Errorf("failed to fetch posting")
	// ErrExtractionFailed is returned when the page yields no usable content.
	ErrExtractionFailed = fmt.Errorf("failed to extract posting content")
)

// Metadata describes the fetch that produced a draft.
type Metadata struct {
	URL       string `json:"url"`
	FetchedAt string `json:"fetched_at"` // RFC3339
	Hash      string `json:"hash"`       // SHA256 hex digest of the cleaned text
	Platform  string `json:"platform"`
}

// Draft is an extracted application document plus provenance. The client is
// expected to correct whatever the heuristics got wrong before submitting.
type Draft struct {
	Application types.CreateApplicationRequest `json:"application"`
	Description string                         `json:"description"`
	Metadata    Metadata                       `json:"metadata"`
}

// ExtractPosting fetches a job posting and extracts a draft application.
func ExtractPosting(ctx context.Context, urlStr string) (*Draft, error) {
	platform := fetch.DetectPlatform(urlStr)

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	text, err := fetch.ExtractMainText(result.HTML,
		fetch.PlatformContentSelectors(platform),
		fetch.PlatformNoiseSelectors(platform)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	cleaned := CleanText(text)

	posting, err := parsePosting(result.HTML)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	draft := &Draft{
		Application: types.CreateApplicationRequest{
			Company: types.CompanyInfo{
				Name:     posting.Company,
				Location: posting.Location,
			},
			Job: types.JobInfo{
				Title:     posting.Title,
				JobURL:    urlStr,
				WorkMode:  posting.WorkMode,
				SalaryMin: posting.SalaryMin,
				SalaryMax: posting.SalaryMax,
			},
			Application: types.ApplicationInfo{
				Source: sourceLabel(platform),
			},
			Requirements: types.Requirements{
				SkillsRequired: ExtractSkills(cleaned),
			},
		},
		Description: cleaned,
		Metadata: Metadata{
			URL:       urlStr,
			FetchedAt: time.Now().UTC().Format(time.RFC3339),
			Hash:      computeHash(cleaned),
			Platform:  string(platform),
		},
	}

	return draft, nil
}

// sourceLabel maps a detected platform to the application source value.
func sourceLabel(platform fetch.Platform) string {
	switch platform {
	case fetch.PlatformGreenhouse:
		return "Greenhouse"
	case fetch.PlatformLever:
		return "Lever"
	case fetch.PlatformWorkday:
		return "Workday"
	default:
		return "Company Website"
	}
}

// computeHash computes the SHA256 hash of content as a hex string.
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
