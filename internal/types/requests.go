package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// CreateApplicationRequest is the request body for creating an application.
// Every field except the company name and job title is optional; absent
// fields are defaulted once via Application.ApplyDefaults.
type CreateApplicationRequest struct {
	Company      CompanyInfo     `json:"company" validate:"required"`
	Job          JobInfo         `json:"job" validate:"required"`
	Application  ApplicationInfo `json:"application"`
	Requirements Requirements    `json:"requirements"`
	Timeline     []TimelineEvent `json:"timeline,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	IsFavorite   bool            `json:"is_favorite,omitempty"`
}

// UpdateApplicationRequest carries partial updates; nil sections are left
// untouched.
type UpdateApplicationRequest struct {
	Company      *CompanyInfo     `json:"company,omitempty"`
	Job          *JobInfo         `json:"job,omitempty"`
	Application  *ApplicationInfo `json:"application,omitempty"`
	Requirements *Requirements    `json:"requirements,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	IsFavorite   *bool            `json:"is_favorite,omitempty"`
}

// AddTimelineEventRequest is the request body for appending a timeline event.
type AddTimelineEventRequest struct {
	Date            *time.Time `json:"date,omitempty"`
	EventType       string     `json:"event_type" validate:"required,min=1"`
	Title           string     `json:"title" validate:"required,min=1"`
	Notes           string     `json:"notes,omitempty"`
	InterviewerName string     `json:"interviewer_name,omitempty"`
	InterviewType   string     `json:"interview_type,omitempty"`
}

// UpdateStatusRequest is the request body for a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}

// CreateCompanyRequest is the request body for creating a company record.
type CreateCompanyRequest struct {
	Name            string            `json:"name" validate:"required,min=1"`
	Website         string            `json:"website,omitempty"`
	Industry        string            `json:"industry,omitempty"`
	Size            string            `json:"size,omitempty"`
	Location        string            `json:"location,omitempty"`
	LogoURL         string            `json:"logo_url,omitempty"`
	Description     string            `json:"description,omitempty"`
	GlassdoorRating *float64          `json:"glassdoor_rating,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	IsFavorite      bool              `json:"is_favorite,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	ContactInfo     map[string]string `json:"contact_info,omitempty"`
}

// IngestRequest asks the server to fetch a job posting URL and extract a
// draft application document from it.
type IngestRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// Validate validates the CreateApplicationRequest using the validator.
func (r *CreateApplicationRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	return nil
}

// Validate validates the AddTimelineEventRequest using the validator.
func (r *AddTimelineEventRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateStatusRequest using the validator.
func (r *UpdateStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateCompanyRequest using the validator.
func (r *CreateCompanyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the IngestRequest using the validator.
func (r *IngestRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
