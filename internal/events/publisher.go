// Package events announces case activity on NATS for downstream consumers
// (dashboards, CRM sync). Publishing is best-effort and optional: a nil
// Publisher is valid and does nothing.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/mirrorloop/mirrorloop/internal/schema"
)

const (
	SubjectCaseCreated  = "mirrorloop.case.created"
	SubjectVoteRecorded = "mirrorloop.vote.recorded"
)

// CaseCreated is emitted after a complaint has been fully processed and
// stored.
type CaseCreated struct {
	EventID   string `json:"event_id"`
	CaseID    string `json:"case_id"`
	IssueType string `json:"issue_type"`
	Emotion   string `json:"emotion"`
	Severity  int    `json:"severity"`
	SurveyID  string `json:"survey_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// VoteRecorded is emitted after a vote submission attempt, accepted or not.
type VoteRecorded struct {
	EventID     string `json:"event_id"`
	SurveyID    string `json:"survey_id"`
	CollectorID string `json:"collector_id"`
	Score       int    `json:"score"`
	Accepted    bool   `json:"accepted"`
	RecordedAt  string `json:"recorded_at"`
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func Connect(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Publisher{conn: nc, logger: logger}, nil
}

func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}

// CaseCreated publishes the case summary. Failures are logged, never returned.
func (p *Publisher) CaseCreated(result schema.ApiResult) {
	if p == nil {
		return
	}
	p.publish(SubjectCaseCreated, CaseCreated{
		EventID:   uuid.NewString(),
		CaseID:    result.CaseID,
		IssueType: result.Structured.IssueType,
		Emotion:   result.Structured.Emotion,
		Severity:  result.Structured.Severity,
		SurveyID:  surveyID(result),
		CreatedAt: result.CreatedAt,
	})
}

// VoteRecorded publishes the vote outcome. Failures are logged, never returned.
func (p *Publisher) VoteRecorded(vote schema.VoteInput, accepted bool) {
	if p == nil {
		return
	}
	p.publish(SubjectVoteRecorded, VoteRecorded{
		EventID:     uuid.NewString(),
		SurveyID:    vote.SurveyID,
		CollectorID: vote.CollectorID,
		Score:       vote.Score,
		Accepted:    accepted,
		RecordedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

func (p *Publisher) publish(subject string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		p.logger.Error("marshal event payload", "subject", subject, "error", err)
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn("publish event failed", "subject", subject, "error", err)
	}
}

func surveyID(result schema.ApiResult) string {
	if result.SurveyMonkey == nil {
		return ""
	}
	return result.SurveyMonkey.SurveyID
}
