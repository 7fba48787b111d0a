// Package notify posts high-severity cases to a Slack channel so support can
// jump on them before the follow-up survey lands.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mirrorloop/mirrorloop/internal/schema"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// Cases at or above this severity are announced.
const SeverityThreshold = 4

type Poster struct {
	token   string
	channel string
	client  *http.Client
	apiURL  string
	logger  *slog.Logger
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostCase announces a stored case. Callers gate on SeverityThreshold; this
// method posts whatever it is given.
func (p *Poster) PostCase(ctx context.Context, result schema.ApiResult) error {
	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    formatCaseMessage(result),
	})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return fmt.Errorf("slack error: %s", slackResp.Error)
	}

	p.logger.Info("posted case to slack", "case_id", result.CaseID, "severity", result.Structured.Severity)
	return nil
}

func formatCaseMessage(result schema.ApiResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*Case:* %s — severity %d/5 (%s, %s)\n",
		result.CaseID, result.Structured.Severity, result.Structured.IssueType, result.Structured.Emotion)
	fmt.Fprintf(&sb, "*Summary:* %s\n", result.Structured.Summary)
	fmt.Fprintf(&sb, "*Recommended:* %s (owner: %s)\n",
		result.ActionPlan.RecommendedAction, result.ActionPlan.Owner)

	if len(result.ActionPlan.Tickets) > 0 {
		fmt.Fprintf(&sb, "*Tickets:*\n")
		for _, tk := range result.ActionPlan.Tickets {
			fmt.Fprintf(&sb, "• %s [%s] %s — %s\n", tk.TicketID, tk.Priority, tk.Summary, tk.Role)
		}
	}
	if result.SurveyMonkey != nil && result.SurveyMonkey.WeblinkURL != "" {
		fmt.Fprintf(&sb, "*Pulse Check:* %s\n", result.SurveyMonkey.WeblinkURL)
	}
	return sb.String()
}
