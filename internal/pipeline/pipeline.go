// Package pipeline runs the three chained generation stages that turn a raw
// complaint into a structured VoC record, a Pulse Check survey draft, and an
// action-ticket backlog. Each stage is one schema-constrained model call whose
// output seeds the next stage; a stage that fails validation fails the whole
// run — no partial results.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mirrorloop/mirrorloop/internal/schema"
)

// Generator is the structured-output capability the pipeline needs from the
// model provider. Satisfied by *openai.Client; substituted in tests.
type Generator interface {
	CompleteJSON(ctx context.Context, system, user, schemaName string, jsonSchema json.RawMessage) (json.RawMessage, error)
}

type Pipeline struct {
	llm    Generator
	logger *slog.Logger
}

func New(llm Generator, logger *slog.Logger) *Pipeline {
	return &Pipeline{llm: llm, logger: logger}
}

// Run chains the three stages. Stage 2 consumes stage 1's output, stage 3
// consumes both.
func (p *Pipeline) Run(ctx context.Context, in schema.ComplaintInput) (*schema.StructuredFeedback, *schema.FollowupSurveyDraft, *schema.ActionPlan, error) {
	structured, err := p.ExtractFeedback(ctx, in)
	if err != nil {
		return nil, nil, nil, err
	}
	draft, err := p.DraftSurvey(ctx, *structured)
	if err != nil {
		return nil, nil, nil, err
	}
	plan, err := p.TriageActions(ctx, *structured, *draft)
	if err != nil {
		return nil, nil, nil, err
	}
	return structured, draft, plan, nil
}

// ExtractFeedback is stage 1: complaint → StructuredFeedback.
func (p *Pipeline) ExtractFeedback(ctx context.Context, in schema.ComplaintInput) (*schema.StructuredFeedback, error) {
	user := fmt.Sprintf(extractUserPrompt,
		in.Complaint, in.Channel, in.JourneyStage, in.Language,
		orNone(in.OrderID), orNone(in.EmailOrPhone))

	raw, err := p.llm.CompleteJSON(ctx, extractSystemPrompt, user, "structured_feedback", structuredFeedbackSchema)
	if err != nil {
		return nil, fmt.Errorf("extract feedback: %w", err)
	}

	var out schema.StructuredFeedback
	if err := json.Unmarshal(raw, &out); err != nil {
		p.logger.Error("failed to parse extraction output", "error", err, "raw", string(raw))
		return nil, fmt.Errorf("parse extraction: %w", err)
	}
	if err := out.Validate(); err != nil {
		p.logger.Error("extraction failed validation gate", "error", err, "raw", string(raw))
		return nil, fmt.Errorf("extraction gate: %w", err)
	}

	p.logger.Info("feedback extracted",
		"issue_type", out.IssueType,
		"emotion", out.Emotion,
		"severity", out.Severity,
	)
	return &out, nil
}

// DraftSurvey is stage 2: StructuredFeedback → FollowupSurveyDraft.
func (p *Pipeline) DraftSurvey(ctx context.Context, structured schema.StructuredFeedback) (*schema.FollowupSurveyDraft, error) {
	user := fmt.Sprintf(surveyUserPrompt, mustJSON(structured))

	raw, err := p.llm.CompleteJSON(ctx, surveySystemPrompt, user, "followup_survey_draft", surveyDraftSchema)
	if err != nil {
		return nil, fmt.Errorf("draft survey: %w", err)
	}

	var out schema.FollowupSurveyDraft
	if err := json.Unmarshal(raw, &out); err != nil {
		p.logger.Error("failed to parse survey draft", "error", err, "raw", string(raw))
		return nil, fmt.Errorf("parse survey draft: %w", err)
	}
	if err := out.Validate(); err != nil {
		p.logger.Error("survey draft failed validation gate", "error", err, "raw", string(raw))
		return nil, fmt.Errorf("survey draft gate: %w", err)
	}

	// Soft generation policy: exactly 3 questions, all scale_1_5. A draft that
	// drifts still flows through, matching the permissive source schema.
	if len(out.Questions) != 3 {
		p.logger.Warn("survey draft off-policy", "questions", len(out.Questions))
	}
	for _, q := range out.Questions {
		if q.Type != schema.QuestionScale1To5 {
			p.logger.Warn("survey draft off-policy question type", "type", q.Type)
		}
	}

	p.logger.Info("survey drafted", "title", out.Title, "questions", len(out.Questions))
	return &out, nil
}

// TriageActions is stage 3: StructuredFeedback + FollowupSurveyDraft → ActionPlan.
func (p *Pipeline) TriageActions(ctx context.Context, structured schema.StructuredFeedback, draft schema.FollowupSurveyDraft) (*schema.ActionPlan, error) {
	user := fmt.Sprintf(triageUserPrompt, mustJSON(structured), mustJSON(draft))

	raw, err := p.llm.CompleteJSON(ctx, triageSystemPrompt, user, "action_plan", actionPlanSchema)
	if err != nil {
		return nil, fmt.Errorf("triage actions: %w", err)
	}

	var out schema.ActionPlan
	if err := json.Unmarshal(raw, &out); err != nil {
		p.logger.Error("failed to parse action plan", "error", err, "raw", string(raw))
		return nil, fmt.Errorf("parse action plan: %w", err)
	}
	if err := out.Validate(); err != nil {
		p.logger.Error("action plan failed validation gate", "error", err, "raw", string(raw))
		return nil, fmt.Errorf("action plan gate: %w", err)
	}

	if len(out.Tickets) > 3 {
		p.logger.Warn("action plan off-policy", "tickets", len(out.Tickets))
	}

	p.logger.Info("actions triaged", "owner", out.Owner, "tickets", len(out.Tickets))
	return &out, nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// All inputs are plain structs; this cannot fail at runtime.
		panic(err)
	}
	return string(b)
}
