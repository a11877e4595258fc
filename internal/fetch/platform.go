package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies a known applicant tracking system hosting a job
// posting. Knowing the platform lets extraction target its markup directly
// instead of falling back to generic content selectors.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

// platformHosts maps hostname fragments to platforms.
var platformHosts = []struct {
	fragment string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"workday.com", PlatformWorkday},
	{"myworkdayjobs.com", PlatformWorkday},
}

// DetectPlatform identifies the job board platform from a posting URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	for _, entry := range platformHosts {
		if strings.Contains(host, entry.fragment) {
			return entry.platform
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns the content selectors to try for a
// platform, most specific first. Unknown platforms get the generic job
// posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".WDXK",
			".gwt-HTML",
			".job-description",
		}
	default:
		return JobPostingSelectors()
	}
}

// PlatformNoiseSelectors returns the elements to strip before text
// extraction: application forms, EEO disclosures, share widgets and cookie
// banners, plus whatever chrome the platform itself adds.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		"#application-form",
		".application-form",
		".application--container",
		".apply-button-container",
		"[data-testid='application-form']",
		".voluntary-disclosure",
		".eeo-statement",
		".eeo-section",
		"[data-testid='eeo']",
		".legal-disclosure",
		".self-identification",
		".social-share",
		".share-buttons",
		".social-links",
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common,
			".application--wrapper",
			".voluntary-self-id",
			".voluntary-self-id-wrapper",
			"#usa_self_id_section",
			".post-apply",
		)
	case PlatformLever:
		return append(common,
			".apply-section",
			".lever-application-form",
			".posting-apply",
		)
	case PlatformWorkday:
		return append(common,
			"[data-automation-id='applyButton']",
			".application-section",
			".WDAF",
		)
	default:
		return common
	}
}
