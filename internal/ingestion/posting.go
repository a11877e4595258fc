package ingestion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// posting holds the structured fields pulled out of a job posting page.
type posting struct {
	Title     string
	Company   string
	Location  string
	WorkMode  string
	SalaryMin *int
	SalaryMax *int
}

// parsePosting extracts structured fields from posting HTML. Every field is
// best-effort; pages that expose nothing recognizable produce an empty
// posting, not an error.
func parsePosting(html string) (*posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	p := &posting{
		Title:    extractTitle(doc),
		Company:  extractCompany(doc),
		Location: extractLocation(doc),
	}
	p.WorkMode = detectWorkMode(doc.Text())
	p.SalaryMin, p.SalaryMax = extractSalaryRange(doc.Text())

	return p, nil
}

// extractTitle finds the job title, preferring structured metadata over
// visible headings.
func extractTitle(doc *goquery.Document) string {
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := strings.TrimSpace(title); t != "" {
			return firstTitleSegment(t)
		}
	}
	for _, selector := range []string{".posting-headline h2", ".app-title", "h1"} {
		if t := strings.TrimSpace(doc.Find(selector).First().Text()); t != "" {
			return t
		}
	}
	return firstTitleSegment(strings.TrimSpace(doc.Find("title").Text()))
}

// firstTitleSegment strips " - Company" or " | Company" suffixes that job
// boards append to page titles.
func firstTitleSegment(title string) string {
	for _, sep := range []string{" - ", " | ", " – "} {
		if idx := strings.Index(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return title
}

// extractCompany finds the hiring company name.
func extractCompany(doc *goquery.Document) string {
	if name, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		if n := strings.TrimSpace(name); n != "" {
			return n
		}
	}
	for _, selector := range []string{".company-name", ".posting-company", "[data-company]"} {
		if n := strings.TrimSpace(doc.Find(selector).First().Text()); n != "" {
			return n
		}
	}
	return ""
}

// extractLocation finds the posting location.
func extractLocation(doc *goquery.Document) string {
	for _, selector := range []string{
		".location", ".posting-categories .location", ".job-location",
		"[data-testid='location']", ".posting-category.location",
	} {
		if l := strings.TrimSpace(doc.Find(selector).First().Text()); l != "" {
			return l
		}
	}
	return ""
}

// detectWorkMode looks for remote/hybrid/onsite signals in the page text.
func detectWorkMode(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "fully remote") || strings.Contains(lower, "100% remote") ||
		strings.Contains(lower, "remote-first"):
		return "remote"
	case strings.Contains(lower, "hybrid"):
		return "hybrid"
	case strings.Contains(lower, "on-site") || strings.Contains(lower, "onsite") ||
		strings.Contains(lower, "in-office"):
		return "onsite"
	case strings.Contains(lower, "remote"):
		return "remote"
	}
	return ""
}

// salaryRangeRe matches ranges like "$120,000 - $150,000" or "$90k–$120k".
var salaryRangeRe = regexp.MustCompile(`\$\s?([\d,]+)\s*[kK]?\s*(?:-|–|—|to)\s*\$?\s?([\d,]+)\s*([kK])?`)

// extractSalaryRange pulls a disclosed salary range out of the page text.
// Returns nil bounds when no range is found or the match looks implausible.
func extractSalaryRange(text string) (*int, *int) {
	m := salaryRangeRe.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}

	low, err1 := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	high, err2 := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	if m[3] != "" || strings.Contains(m[0], "k") || strings.Contains(m[0], "K") {
		low *= 1000
		high *= 1000
	}

	// Reject noise like "$1 - $5" shipping fees or inverted ranges.
	if low < 10000 || high < low {
		return nil, nil
	}
	return &low, &high
}
