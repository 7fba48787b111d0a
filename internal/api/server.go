// Package api exposes the HTTP surface: complaint intake, vote submission,
// answer retrieval, stored case lookup and health. Handlers sequence the
// pipeline and the survey platform adapter; everything they depend on is
// injected so tests can substitute doubles.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mirrorloop/mirrorloop/internal/events"
	"github.com/mirrorloop/mirrorloop/internal/schema"
	"github.com/mirrorloop/mirrorloop/internal/store"
	"github.com/mirrorloop/mirrorloop/internal/surveymonkey"
)

// PipelineRunner is the three-stage generation chain.
type PipelineRunner interface {
	Run(ctx context.Context, in schema.ComplaintInput) (*schema.StructuredFeedback, *schema.FollowupSurveyDraft, *schema.ActionPlan, error)
}

// SurveyPlatform is the survey-provider adapter surface the handlers use.
type SurveyPlatform interface {
	Enabled() bool
	CreateSurveyFromDraft(ctx context.Context, draft schema.FollowupSurveyDraft, caseID string) string
	CreateWeblinkCollector(ctx context.Context, surveyID string) (string, string)
	SubmitRatingVote(ctx context.Context, surveyID, collectorID string, score, questionIndex int) bool
	GetSurveyAnswers(ctx context.Context, surveyID string) []surveymonkey.Answer
}

// Notifier receives stored cases worth flagging to humans.
type Notifier interface {
	PostCase(ctx context.Context, result schema.ApiResult) error
}

type Options struct {
	Port           int
	Env            string
	AllowedOrigins []string
	Pipeline       PipelineRunner
	Survey         SurveyPlatform
	Store          store.CaseStore
	Events         *events.Publisher // nil-safe
	Notifier       Notifier          // nil when Slack is not configured
	Logger         *slog.Logger
}

type Server struct {
	router   *chi.Mux
	httpSrv  *http.Server
	env      string
	pipeline PipelineRunner
	survey   SurveyPlatform
	store    store.CaseStore
	events   *events.Publisher
	notifier Notifier
	logger   *slog.Logger
}

func NewServer(opts Options) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	s := &Server{
		router:   router,
		env:      opts.Env,
		pipeline: opts.Pipeline,
		survey:   opts.Survey,
		store:    opts.Store,
		events:   opts.Events,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	router.Get("/health", s.health)
	router.Post("/api/feedback", s.createFeedback)
	router.Post("/api/vote", s.submitVote)
	router.Get("/api/answers/{surveyID}", s.surveyAnswers)
	router.Get("/api/cases/{caseID}", s.caseByID)

	return s
}

func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "env": s.env})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
