package types

import (
	"time"

	"github.com/google/uuid"
)

// Company is an owner-scoped company record, separate from the company
// section embedded in an application document.
type Company struct {
	ID               uuid.UUID         `json:"id"`
	OwnerID          uuid.UUID         `json:"owner_id"`
	Name             string            `json:"name"`
	Website          string            `json:"website,omitempty"`
	Industry         string            `json:"industry,omitempty"`
	Size             string            `json:"size,omitempty"`
	Location         string            `json:"location,omitempty"`
	LogoURL          string            `json:"logo_url,omitempty"`
	Description      string            `json:"description,omitempty"`
	GlassdoorRating  *float64          `json:"glassdoor_rating,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	IsFavorite       bool              `json:"is_favorite"`
	Tags             []string          `json:"tags,omitempty"`
	ContactInfo      map[string]string `json:"contact_info,omitempty"`
	ApplicationCount int               `json:"application_count,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
