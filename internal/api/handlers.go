package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mirrorloop/mirrorloop/internal/notify"
	"github.com/mirrorloop/mirrorloop/internal/schema"
	"github.com/mirrorloop/mirrorloop/internal/store"
	"github.com/mirrorloop/mirrorloop/internal/surveymonkey"
)

// createFeedback runs the full chain: validate → pipeline → optional survey
// provisioning → store → announce. A pipeline failure fails the request with
// no partial result; provisioning failures only leave the surveymonkey field
// absent.
func (s *Server) createFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in schema.ComplaintInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caseID := s.store.NewCaseID()

	structured, draft, plan, err := s.pipeline.Run(ctx, in)
	if err != nil {
		s.logger.Error("pipeline failed", "case_id", caseID, "error", err)
		writeError(w, http.StatusInternalServerError, "feedback pipeline failed")
		return
	}

	var smInfo *schema.SurveyMonkeyInfo
	if s.survey.Enabled() {
		if surveyID := s.survey.CreateSurveyFromDraft(ctx, *draft, caseID); surveyID != "" {
			collectorID, weblinkURL := s.survey.CreateWeblinkCollector(ctx, surveyID)
			smInfo = &schema.SurveyMonkeyInfo{
				SurveyID:    surveyID,
				CollectorID: collectorID,
				WeblinkURL:  weblinkURL,
			}
		}
	} else {
		smInfo = &schema.SurveyMonkeyInfo{WeblinkURL: "https://www.surveymonkey.com/ (demo)"}
	}

	result := schema.ApiResult{
		CaseID:       caseID,
		Structured:   *structured,
		SurveyDraft:  *draft,
		ActionPlan:   *plan,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		SurveyMonkey: smInfo,
	}

	if err := s.store.Put(ctx, caseID, result); err != nil {
		s.logger.Warn("failed to store case", "case_id", caseID, "error", err)
	}

	s.events.CaseCreated(result)

	if s.notifier != nil && structured.Severity >= notify.SeverityThreshold {
		if err := s.notifier.PostCase(ctx, result); err != nil {
			s.logger.Warn("failed to notify slack", "case_id", caseID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) submitVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var vote schema.VoteInput
	if err := decodeJSON(r, &vote); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !s.survey.Enabled() {
		s.events.VoteRecorded(vote, true)
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "msg": "Mock vote recorded"})
		return
	}

	ok := s.survey.SubmitRatingVote(ctx, vote.SurveyID, vote.CollectorID, vote.Score, vote.QuestionIndex)
	s.events.VoteRecorded(vote, ok)

	status := "error"
	if ok {
		status = "success"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) surveyAnswers(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "surveyID")

	if !s.survey.Enabled() {
		writeJSON(w, http.StatusOK, []surveymonkey.Answer{})
		return
	}
	writeJSON(w, http.StatusOK, s.survey.GetSurveyAnswers(r.Context(), surveyID))
}

func (s *Server) caseByID(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	result, err := s.store.Get(r.Context(), caseID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "case not found")
		return
	}
	if err != nil {
		s.logger.Error("case lookup failed", "case_id", caseID, "error", err)
		writeError(w, http.StatusInternalServerError, "case lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}
