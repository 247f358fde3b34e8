package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/fit-scorer/internal/schemas"
	"github.com/jonathan/fit-scorer/internal/types"
)

// maxProfileBytes caps the body of POST /jobs/{job_id}/score
const maxProfileBytes = 1 << 20

// RequirementsResponse represents the response for GET /jobs/{job_id}/requirements
type RequirementsResponse struct {
	JobID        string              `json:"job_id"`
	Title        string              `json:"title,omitempty"`
	Requirements []types.Requirement `json:"requirements"`
	Excluded     int                 `json:"excluded"`
}

// IndexRequest represents the optional body of POST /candidates/{candidate_id}/index
type IndexRequest struct {
	JobIDs []string `json:"job_ids,omitempty"`
}

// IndexResponse represents the response for POST /candidates/{candidate_id}/index
type IndexResponse struct {
	CandidateID string   `json:"candidate_id"`
	JobIDs      []string `json:"job_ids"`
	Indexed     bool     `json:"indexed"`
}

// handleError maps engine errors onto status codes and logs server-side failures
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	s.errorResponse(w, status, err.Error())
}

// handleRequirements returns the aggregated requirement set of a job
func (s *Server) handleRequirements(w http.ResponseWriter, r *http.Request) {
	agg, err := s.engine.Requirements(r.Context(), r.PathValue("job_id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	reqs := agg.Requirements
	if reqs == nil {
		reqs = []types.Requirement{}
	}
	s.jsonResponse(w, http.StatusOK, RequirementsResponse{
		JobID:        agg.JobID,
		Title:        agg.Title,
		Requirements: reqs,
		Excluded:     agg.Excluded,
	})
}

// handleMatch scores one candidate against one job
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.MatchCandidateToJob(r.Context(), r.PathValue("candidate_id"), r.PathValue("job_id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleScore scores a candidate profile sent in the body without storing it
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProfileBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := schemas.ValidateBytes(schemas.CandidateSchema, body); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	var profile types.CandidateProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	jobID := r.PathValue("job_id")
	agg, err := s.engine.Requirements(r.Context(), jobID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	result, err := s.engine.ScoreProfile(r.Context(), &profile, jobID, agg.Requirements)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleShortlist builds a ranked shortlist for a job.
// Query parameters: min_fit_score, max_results, applicants_only.
func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	opts, err := s.shortlistOptions(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := s.engine.FindMatchingCandidates(r.Context(), r.PathValue("job_id"), opts)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if result.Matches == nil {
		result.Matches = []types.MatchResult{}
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) shortlistOptions(r *http.Request) (types.ShortlistOptions, error) {
	opts := s.shortlist
	query := r.URL.Query()

	if v := query.Get("min_fit_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, &ErrValidation{Field: "min_fit_score", Message: "must be an integer"}
		}
		opts.MinFitScore = n
	}
	if v := query.Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, &ErrValidation{Field: "max_results", Message: "must be an integer"}
		}
		opts.MaxResults = n
	}
	if v := query.Get("applicants_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, &ErrValidation{Field: "applicants_only", Message: "must be a boolean"}
		}
		opts.ApplicantsOnly = b
	}
	return opts, nil
}

// handleIndex embeds a candidate and upserts it into the vector index
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	candidateID := r.PathValue("candidate_id")
	if err := s.engine.IndexCandidate(r.Context(), candidateID, req.JobIDs); err != nil {
		s.handleError(w, r, err)
		return
	}

	jobIDs := req.JobIDs
	if jobIDs == nil {
		jobIDs = []string{}
	}
	s.jsonResponse(w, http.StatusOK, IndexResponse{CandidateID: candidateID, JobIDs: jobIDs, Indexed: true})
}
