package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/jobtrackr/internal/export"
	"github.com/jonathan/jobtrackr/internal/types"
)

// setCSVHeaders prepares the response for a CSV download with a dated filename.
func setCSVHeaders(w http.ResponseWriter, prefix string) {
	filename := fmt.Sprintf("%s_%s.csv", prefix, time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// handleExportApplications streams the user's applications as CSV, optionally
// filtered by status and company.
func (s *Server) handleExportApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	filter := export.ApplicationFilter{
		Status:  r.URL.Query().Get("status"),
		Company: r.URL.Query().Get("company"),
	}
	if filter.Status != "" && !types.IsValidStatus(filter.Status) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid status: %s", filter.Status))
		return
	}

	setCSVHeaders(w, "applications")
	if err := s.export.WriteApplicationsCSV(r.Context(), w, userID, filter); err != nil {
		// Headers are already sent; all we can do is log.
		log.Printf("Error exporting applications for user %s: %v", userID, err)
	}
}

// handleExportCompanies streams the user's company records as CSV.
func (s *Server) handleExportCompanies(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	setCSVHeaders(w, "companies")
	if err := s.export.WriteCompaniesCSV(r.Context(), w, userID); err != nil {
		log.Printf("Error exporting companies for user %s: %v", userID, err)
	}
}

// handleExportAnalytics streams a sectioned analytics report as CSV.
func (s *Server) handleExportAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestOwner(w, r)
	if !ok {
		return
	}

	setCSVHeaders(w, "analytics_report")
	if err := s.export.WriteAnalyticsCSV(r.Context(), w, userID); err != nil {
		log.Printf("Error exporting analytics for user %s: %v", userID, err)
	}
}
