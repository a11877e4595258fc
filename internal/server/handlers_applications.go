package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobtrackr/internal/db"
	"github.com/jonathan/jobtrackr/internal/ingestion"
	"github.com/jonathan/jobtrackr/internal/server/middleware"
	"github.com/jonathan/jobtrackr/internal/types"
)

// requestOwner resolves the authenticated user for a request. A missing
// identity means the middleware did not run, so the request is rejected.
func (s *Server) requestOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// handleCreateApplication creates a new application record.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	var req types.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if req.Application.Status != "" && !types.IsValidStatus(req.Application.Status) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid status: %s", req.Application.Status))
		return
	}

	now := time.Now().UTC()
	app := &types.Application{
		ID:           uuid.New(),
		OwnerID:      userID,
		Company:      req.Company,
		Job:          req.Job,
		Application:  req.Application,
		Requirements: req.Requirements,
		Timeline:     req.Timeline,
		Notes:        req.Notes,
		IsFavorite:   req.IsFavorite,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	app.ApplyDefaults(now)

	if err := s.db.CreateApplication(r.Context(), app); err != nil {
		log.Printf("Error creating application for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create application")
		return
	}

	s.jsonResponse(w, http.StatusCreated, app)
}

// handleGetApplication retrieves one application by ID.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	app, err := s.db.GetApplication(r.Context(), id, userID)
	if err != nil {
		log.Printf("Error getting application %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get application")
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

// handleListApplications retrieves a filtered page of the user's applications.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	filters := db.ApplicationFilters{
		Status:   r.URL.Query().Get("status"),
		Company:  r.URL.Query().Get("company"),
		JobTitle: r.URL.Query().Get("job_title"),
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
	if filters.Status != "" && !types.IsValidStatus(filters.Status) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid status: %s", filters.Status))
		return
	}

	apps, total, err := s.db.ListApplications(r.Context(), userID, filters)
	if err != nil {
		log.Printf("Error listing applications for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list applications")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": apps,
		"total":        total,
		"skip":         filters.Skip,
		"limit":        filters.Limit,
	})
}

// handleSearchApplications performs a free-text search over company names,
// job titles and notes.
func (s *Server) handleSearchApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing search query")
		return
	}

	skip := parseQueryInt(r, "skip", 0, 0)
	limit := parseQueryInt(r, "limit", 50, 100)

	apps, err := s.db.SearchApplications(r.Context(), userID, q, skip, limit)
	if err != nil {
		log.Printf("Error searching applications for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to search applications")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": apps,
		"query":        q,
	})
}

// handleUpdateApplication applies a partial update to an application.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	var req types.UpdateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Application != nil && req.Application.Status != "" && !types.IsValidStatus(req.Application.Status) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid status: %s", req.Application.Status))
		return
	}

	app, err := s.db.UpdateApplication(r.Context(), id, userID, &req)
	if err != nil {
		log.Printf("Error updating application %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update application")
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

// handleDeleteApplication removes an application permanently.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	deleted, err := s.db.DeleteApplication(r.Context(), id, userID)
	if err != nil {
		log.Printf("Error deleting application %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete application")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAddTimelineEvent appends an event to an application's timeline.
func (s *Server) handleAddTimelineEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	var req types.AddTimelineEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	event := types.TimelineEvent{
		Date:            time.Now().UTC(),
		EventType:       req.EventType,
		Title:           req.Title,
		Notes:           req.Notes,
		InterviewerName: req.InterviewerName,
		InterviewType:   req.InterviewType,
	}
	if req.Date != nil {
		event.Date = *req.Date
	}

	added, err := s.db.AddTimelineEvent(r.Context(), id, userID, event)
	if err != nil {
		log.Printf("Error adding timeline event to application %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to add timeline event")
		return
	}
	if !added {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusCreated, event)
}

// handleUpdateStatus transitions an application to a new status and records
// the transition as a timeline event.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	var req types.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if !types.IsValidStatus(req.Status) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid status: %s", req.Status))
		return
	}

	app, err := s.db.UpdateStatus(r.Context(), id, userID, req.Status, req.Notes)
	if err != nil {
		log.Printf("Error updating status of application %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

// recentApplicationsLimit caps the recent list in the stats response.
const recentApplicationsLimit = 5

// handleApplicationStats returns per-status counts, the favorite count, and
// the newest applications.
func (s *Server) handleApplicationStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	counts, err := s.db.StatusCounts(r.Context(), userID)
	if err != nil {
		log.Printf("Error computing status counts for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to compute application stats")
		return
	}
	favorites, err := s.db.CountFavorites(r.Context(), userID)
	if err != nil {
		log.Printf("Error counting favorites for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to compute application stats")
		return
	}
	recent, err := s.db.RecentApplications(r.Context(), userID, recentApplicationsLimit)
	if err != nil {
		log.Printf("Error loading recent applications for user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to compute application stats")
		return
	}
	s.jsonResponse(w, http.StatusOK, applicationStats(counts, favorites, recent))
}

// applicationStats assembles the stats payload. A user with no applications
// gets zero counts and an empty recent list rather than null.
func applicationStats(counts map[string]int, favorites int, recent []types.Application) map[string]any {
	if recent == nil {
		recent = []types.Application{}
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return map[string]any{
		"total":     total,
		"by_status": counts,
		"favorites": favorites,
		"recent":    recent,
	}
}

// handleIngestApplication fetches a job posting URL and returns a draft
// application document extracted from the page. Nothing is persisted; the
// client reviews the draft and submits it through the normal create endpoint.
func (s *Server) handleIngestApplication(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requestOwner(w, r); !ok {
		return
	}

	var req types.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	draft, err := ingestion.ExtractPosting(r.Context(), req.URL)
	if err != nil {
		log.Printf("Error ingesting posting from %s: %v", req.URL, err)
		s.errorResponse(w, http.StatusBadGateway, "Failed to fetch job posting")
		return
	}

	s.jsonResponse(w, http.StatusOK, draft)
}
