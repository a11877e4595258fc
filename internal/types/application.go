// Package types provides type definitions for structured data used throughout the jobtrackr system.
package types

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Application statuses. An application moves through these as the user
// progresses with a company; the terminal set closes the pipeline.
const (
	StatusApplied       = "applied"
	StatusScreening     = "screening"
	StatusInterview     = "interview"
	StatusTechnicalTest = "technical_test"
	StatusOffer         = "offer"
	StatusRejected      = "rejected"
	StatusAccepted      = "accepted"
	StatusWithdrawn     = "withdrawn"
)

// ValidStatuses lists every status value accepted at the API boundary.
var ValidStatuses = []string{
	StatusApplied,
	StatusScreening,
	StatusInterview,
	StatusTechnicalTest,
	StatusOffer,
	StatusRejected,
	StatusAccepted,
	StatusWithdrawn,
}

// IsValidStatus reports whether s is a recognized application status.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether the application is closed: no further
// pipeline activity is expected after these statuses.
func IsTerminalStatus(s string) bool {
	switch s {
	case StatusOffer, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// IsSuccessStatus reports whether the status counts toward the success rate.
func IsSuccessStatus(s string) bool {
	return s == StatusOffer || s == StatusAccepted
}

// CompanyInfo is the company section of an application document.
type CompanyInfo struct {
	Name     string `json:"name"`
	Website  string `json:"website,omitempty"`
	Industry string `json:"industry,omitempty"`
	Size     string `json:"size,omitempty"`
	Location string `json:"location,omitempty"`
	LogoURL  string `json:"logo_url,omitempty"`
}

// JobInfo is the job section of an application document. Salary bounds are
// optional; a nil pointer means the posting did not disclose them.
type JobInfo struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	JobURL          string `json:"job_url,omitempty"`
	EmploymentType  string `json:"employment_type,omitempty"`
	WorkMode        string `json:"work_mode,omitempty"`
	ExperienceLevel string `json:"experience_level,omitempty"`
	SalaryMin       *int   `json:"salary_min,omitempty"`
	SalaryMax       *int   `json:"salary_max,omitempty"`
	Currency        string `json:"currency,omitempty"`
}

// ApplicationInfo is the application-state section of a document.
type ApplicationInfo struct {
	AppliedDate   *time.Time `json:"applied_date,omitempty"`
	Source        string     `json:"source,omitempty"`
	Status        string     `json:"status"`
	ResumeVersion string     `json:"resume_version,omitempty"`
	CoverLetter   string     `json:"cover_letter,omitempty"`
	ReferralName  string     `json:"referral_name,omitempty"`
}

// Requirements is the requirements section of a document.
type Requirements struct {
	SkillsRequired  []string `json:"skills_required"`
	SkillsPreferred []string `json:"skills_preferred,omitempty"`
	YearsExperience *float64 `json:"years_experience,omitempty"`
	Education       string   `json:"education,omitempty"`
}

// TimelineEvent records something that happened on an application. Events are
// stored in insertion order, which is not necessarily chronological.
type TimelineEvent struct {
	Date            time.Time `json:"date"`
	EventType       string    `json:"event_type"`
	Title           string    `json:"title,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	InterviewerName string    `json:"interviewer_name,omitempty"`
	InterviewType   string    `json:"interview_type,omitempty"`
}

// Attachment references an uploaded file tied to an application.
type Attachment struct {
	Filename   string    `json:"filename"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
	FileType   string    `json:"file_type,omitempty"`
}

// Application is a job-application record. Every record belongs to exactly
// one owner; all reads are scoped by OwnerID.
type Application struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Company      CompanyInfo     `json:"company"`
	Job          JobInfo         `json:"job"`
	Application  ApplicationInfo `json:"application"`
	Requirements Requirements    `json:"requirements"`
	Timeline     []TimelineEvent `json:"timeline"`
	Attachments  []Attachment    `json:"attachments,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	IsFavorite   bool            `json:"is_favorite"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ApplyDefaults fills the optional fields a caller may omit. Defaulting
// happens once here, at the boundary, so downstream computations never need
// to re-derive it.
func (a *Application) ApplyDefaults(now time.Time) {
	if a.Application.Status == "" {
		a.Application.Status = StatusApplied
	}
	if a.Application.AppliedDate == nil {
		d := now
		a.Application.AppliedDate = &d
	}
	if a.Requirements.SkillsRequired == nil {
		a.Requirements.SkillsRequired = []string{}
	}
	if a.Timeline == nil {
		a.Timeline = []TimelineEvent{}
	}
	if a.Job.Currency == "" {
		a.Job.Currency = "USD"
	}
}

// SortedTimeline returns the timeline events ordered by date ascending.
// The stored order is insertion order, so callers that care about
// chronology must go through this.
func (a *Application) SortedTimeline() []TimelineEvent {
	events := make([]TimelineEvent, len(a.Timeline))
	copy(events, a.Timeline)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events
}

// SourceLabel returns the application source, with absent sources reported
// as "Unknown" so grouping never produces an empty key.
func (a *Application) SourceLabel() string {
	if a.Application.Source == "" {
		return "Unknown"
	}
	return a.Application.Source
}
