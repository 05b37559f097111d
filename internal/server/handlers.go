package server

import (
	"encoding/json"
	"errors"
	"net/http"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nara/giftinator/internal/prompts"
	"github.com/nara/giftinator/internal/types"
)

// NextQuestionRequest represents the request body for /api/next-question.
// Stateless callers send the full answer history; callers with a session
// send the session id plus only the newest answer.
type NextQuestionRequest struct {
	SessionID string         `json:"sessionId,omitempty"`
	Answers   []types.Answer `json:"answers" validate:"dive"`
	NewAnswer *types.Answer  `json:"newAnswer,omitempty"`
}

// RevealRequest represents the request body for /api/reveal.
type RevealRequest struct {
	SessionID string         `json:"sessionId,omitempty"`
	Answers   []types.Answer `json:"answers" validate:"dive"`
}

// RefineQuestionRequest represents the request body for /api/refine-question.
type RefineQuestionRequest struct {
	Answers            []types.Answer        `json:"answers" validate:"required,min=1,dive"`
	PreviousReveal     *types.RevealDocument `json:"previousReveal" validate:"required"`
	RefinementFeedback string                `json:"refinementFeedback"`
	RefinementAnswers  []types.Answer        `json:"refinementAnswers" validate:"dive"`
}

// RefineRevealRequest represents the request body for /api/refine-reveal.
type RefineRevealRequest struct {
	Answers            []types.Answer        `json:"answers" validate:"required,min=1,dive"`
	PreviousReveal     *types.RevealDocument `json:"previousReveal" validate:"required"`
	RefinementFeedback string                `json:"refinementFeedback"`
	RefinementAnswers  []types.Answer        `json:"refinementAnswers" validate:"dive"`
}

// decodeRequest decodes and validates a JSON request body into req.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(req); err != nil {
		var verrs playgroundvalidator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			s.failureResponse(w, &ErrValidation{Field: verrs[0].Field(), Message: verrs[0].Tag()})
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// handleNextQuestion produces the next interview question.
func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	var req NextQuestionRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			s.failureResponse(w, &ErrValidation{Field: "sessionId", Message: "must be a valid UUID"})
			return
		}
		turn, err := s.engine.NextQuestionForSession(r.Context(), id, req.NewAnswer)
		if err != nil {
			s.failureResponse(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, turn)
		return
	}

	turn, err := s.engine.NextQuestion(r.Context(), req.Answers)
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, turn)
}

// handleReveal produces the terminal reveal document.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req RevealRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			s.failureResponse(w, &ErrValidation{Field: "sessionId", Message: "must be a valid UUID"})
			return
		}
		reveal, err := s.engine.RevealForSession(r.Context(), id)
		if err != nil {
			s.failureResponse(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, reveal)
		return
	}

	reveal, err := s.engine.Reveal(r.Context(), req.Answers)
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, reveal)
}

// handleRefineQuestion produces one follow-up question after a rejected
// reveal.
func (s *Server) handleRefineQuestion(w http.ResponseWriter, r *http.Request) {
	var req RefineQuestionRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	turn, err := s.engine.RefineQuestion(r.Context(), prompts.RefinementContext{
		Answers:           req.Answers,
		PreviousReveal:    req.PreviousReveal,
		Feedback:          req.RefinementFeedback,
		RefinementAnswers: req.RefinementAnswers,
	})
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, turn)
}

// handleRefineReveal produces the second reveal from the refinement batch.
func (s *Server) handleRefineReveal(w http.ResponseWriter, r *http.Request) {
	var req RefineRevealRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	reveal, err := s.engine.RefineReveal(r.Context(), prompts.RefinementContext{
		Answers:           req.Answers,
		PreviousReveal:    req.PreviousReveal,
		Feedback:          req.RefinementFeedback,
		RefinementAnswers: req.RefinementAnswers,
	})
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, reveal)
}
