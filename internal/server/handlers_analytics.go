package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/nara/giftinator/internal/analytics"
)

// recordTimeout bounds one fire-and-forget analytics write.
const recordTimeout = 5 * time.Second

// TrackClickRequest represents the request body for /api/track-click.
type TrackClickRequest struct {
	SessionID string `json:"sessionId"`
	Gift      string `json:"gift" validate:"required"`
	Archetype string `json:"archetype"`
}

// SubmitFeedbackRequest represents the request body for /api/submit-feedback.
type SubmitFeedbackRequest struct {
	SessionID   string            `json:"sessionId"`
	Accuracy    string            `json:"accuracy" validate:"required,oneof=spot-on close off"`
	Archetype   string            `json:"archetype"`
	GiftRatings map[string]string `json:"giftRatings" validate:"dive,oneof=love meh miss"`
}

// AdminLoginRequest represents the request body for /api/admin/login.
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse represents the response for /api/admin/login.
type AdminLoginResponse struct {
	Token string `json:"token"`
}

// handleTrackClick records a recommendation link click. The write is
// fire-and-forget; the client gets an immediate ack.
func (s *Server) handleTrackClick(w http.ResponseWriter, r *http.Request) {
	var req TrackClickRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	click := analyticsClick(req)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.recorder.RecordClick(ctx, click); err != nil {
			log.Printf("analytics: failed to record click: %v", err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// handleSubmitFeedback records the giver's read on a finished reveal.
func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	fb := analyticsFeedback(req)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.recorder.RecordFeedback(ctx, fb); err != nil {
			log.Printf("analytics: failed to record feedback: %v", err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// handleAdminLogin verifies the admin password and issues a bearer token.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.jwtService == nil || s.adminConfig == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "admin API not configured")
		return
	}

	var req AdminLoginRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	if !s.adminConfig.VerifyPassword(req.Password) {
		s.errorResponse(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.jwtService.GenerateToken()
	if err != nil {
		log.Printf("Failed to generate admin token: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusOK, AdminLoginResponse{Token: token})
}

// handleAnalytics returns the aggregate analytics rollup.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summarize(r.Context())
	if err != nil {
		log.Printf("Failed to summarize analytics: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load analytics")
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}

// handleLearningInsights returns the learning view of clicks and feedback.
func (s *Server) handleLearningInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.store.Learn(r.Context())
	if err != nil {
		log.Printf("Failed to compute learning insights: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load insights")
		return
	}
	s.jsonResponse(w, http.StatusOK, insights)
}

func analyticsClick(req TrackClickRequest) analytics.Click {
	return analytics.Click{
		SessionID: req.SessionID,
		Gift:      req.Gift,
		Archetype: req.Archetype,
		Timestamp: time.Now().UTC(),
	}
}

func analyticsFeedback(req SubmitFeedbackRequest) analytics.Feedback {
	return analytics.Feedback{
		SessionID:   req.SessionID,
		Accuracy:    req.Accuracy,
		Archetype:   req.Archetype,
		GiftRatings: req.GiftRatings,
		Timestamp:   time.Now().UTC(),
	}
}
