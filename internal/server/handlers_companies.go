package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobtrackr/internal/db"
	"github.com/jonathan/jobtrackr/internal/types"
)

// handleCreateCompany creates a new company record. Company names are unique
// per owner, case-insensitively.
func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	var req types.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	existing, err := s.db.GetCompanyByName(r.Context(), userID, req.Name)
	if err != nil {
		log.Printf("Error checking company name for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create company")
		return
	}
	if existing != nil {
		s.errorResponse(w, http.StatusConflict, "A company with this name already exists")
		return
	}

	now := time.Now().UTC()
	company := &types.Company{
		ID:              uuid.New(),
		OwnerID:         userID,
		Name:            req.Name,
		Website:         req.Website,
		Industry:        req.Industry,
		Size:            req.Size,
		Location:        req.Location,
		LogoURL:         req.LogoURL,
		Description:     req.Description,
		GlassdoorRating: req.GlassdoorRating,
		Notes:           req.Notes,
		IsFavorite:      req.IsFavorite,
		Tags:            req.Tags,
		ContactInfo:     req.ContactInfo,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.db.CreateCompany(r.Context(), company); err != nil {
		log.Printf("Error creating company for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create company")
		return
	}

	s.jsonResponse(w, http.StatusCreated, company)
}

// handleGetCompany retrieves one company by ID.
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	company, err := s.db.GetCompany(r.Context(), id, userID)
	if err != nil {
		log.Printf("Error getting company %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get company")
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, company)
}

// handleGetCompanyByName looks a company up by its exact name, ignoring case.
func (s *Server) handleGetCompanyByName(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing company name")
		return
	}

	company, err := s.db.GetCompanyByName(r.Context(), userID, name)
	if err != nil {
		log.Printf("Error getting company by name for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get company")
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, company)
}

// handleListCompanies retrieves a filtered page of the user's companies.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	filters := db.CompanyFilters{
		Industry: r.URL.Query().Get("industry"),
		Location: r.URL.Query().Get("location"),
		Skip:     parseQueryInt(r, "skip", 0, 0),
		Limit:    parseQueryInt(r, "limit", 50, 100),
	}
	if fav := r.URL.Query().Get("is_favorite"); fav != "" {
		b, err := strconv.ParseBool(fav)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid is_favorite: must be true or false")
			return
		}
		filters.IsFavorite = &b
	}
	if tags := r.URL.Query().Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filters.Tags = append(filters.Tags, tag)
			}
		}
	}

	companies, total, err := s.db.ListCompanies(r.Context(), userID, filters)
	if err != nil {
		log.Printf("Error listing companies for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list companies")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"companies": companies,
		"total":     total,
		"skip":      filters.Skip,
		"limit":     filters.Limit,
	})
}

// handleUpdateCompany replaces the mutable fields of a company record.
func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	var req types.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	company := &types.Company{
		Name:            req.Name,
		Website:         req.Website,
		Industry:        req.Industry,
		Size:            req.Size,
		Location:        req.Location,
		LogoURL:         req.LogoURL,
		Description:     req.Description,
		GlassdoorRating: req.GlassdoorRating,
		Notes:           req.Notes,
		IsFavorite:      req.IsFavorite,
		Tags:            req.Tags,
		ContactInfo:     req.ContactInfo,
	}

	updated, err := s.db.UpdateCompany(r.Context(), id, userID, company)
	if err != nil {
		log.Printf("Error updating company %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update company")
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteCompany removes a company record. Applications that reference
// the company by name are left untouched.
func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	deleted, err := s.db.DeleteCompany(r.Context(), id, userID)
	if err != nil {
		log.Printf("Error deleting company %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete company")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
