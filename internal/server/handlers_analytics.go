package server

import (
	"log"
	"net/http"

	"github.com/jonathan/jobtrackr/internal/analytics"
	"github.com/jonathan/jobtrackr/internal/server/middleware"
)

// handleDashboard returns the aggregate dashboard for the authenticated user.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := s.analytics.Dashboard(r.Context(), userID)
	if err != nil {
		log.Printf("Error computing dashboard for user %s: %v", userID, err)
		s.errorResponse(w, HTTPStatus(err), "Failed to compute dashboard")
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}

// handleApplicationsOverTime returns time-bucketed application counts.
// The period query parameter selects the bucket granularity and defaults
// to monthly buckets when absent.
func (s *Server) handleApplicationsOverTime(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = analytics.PeriodMonth
	}

	buckets, err := s.analytics.ApplicationsOverTime(r.Context(), userID, period)
	if err != nil {
		if HTTPStatus(err) == http.StatusBadRequest {
			s.errorResponse(w, http.StatusBadRequest, "Invalid period: must be one of month, week, day")
			return
		}
		log.Printf("Error computing applications over time for user %s: %v", userID, err)
		s.errorResponse(w, HTTPStatus(err), "Failed to compute applications over time")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"period": period,
		"data":   buckets,
	})
}

// handleSuccessRate returns the month-by-month success rate trend.
func (s *Server) handleSuccessRate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	trend, err := s.analytics.SuccessRateOverTime(r.Context(), userID)
	if err != nil {
		log.Printf("Error computing success rate trend for user %s: %v", userID, err)
		s.errorResponse(w, HTTPStatus(err), "Failed to compute success rate trend")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"data": trend})
}

// handleSkillsDemand returns the most requested skills across the user's applications.
func (s *Server) handleSkillsDemand(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	skills, err := s.analytics.SkillsDemand(r.Context(), userID)
	if err != nil {
		log.Printf("Error computing skills demand for user %s: %v", userID, err)
		s.errorResponse(w, HTTPStatus(err), "Failed to compute skills demand")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"data": skills})
}

// handleTimelineAnalysis returns event type frequencies across all timelines.
func (s *Server) handleTimelineAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	events, err := s.analytics.TimelineAnalysis(r.Context(), userID)
	if err != nil {
		log.Printf("Error computing timeline analysis for user %s: %v", userID, err)
		s.errorResponse(w, HTTPStatus(err), "Failed to compute timeline analysis")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"data": events})
}

// handleSalaryInsights returns salary statistics over disclosed ranges.
func (s *Server) handleSalaryInsights(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	insights, err := s.analytics.SalaryStats(r.Context(), userID)
	if err != nil {
		log.Printf("Error computing salary insights for user %s: %v", userID, err)
		s.errorResponse(w, HTTPStatus(err), "Failed to compute salary insights")
		return
	}

	s.jsonResponse(w, http.StatusOK, insights)
}

// handleResponseTime returns statistics on how quickly applications receive
// a first response.
func (s *Server) handleResponseTime(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := s.analytics.ResponseTimeAnalysis(r.Context(), userID)
	if err != nil {
		log.Printf("Error computing response time analysis for user %s: %v", userID, err)
		s.errorResponse(w, HTTPStatus(err), "Failed to compute response time analysis")
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}
