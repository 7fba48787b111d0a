// Package surveymonkey bridges the internal survey-draft and vote model onto
// the SurveyMonkey v3 REST API: survey creation from a draft, weblink
// collector provisioning, single-vote submission by choice resolution, and
// flattened answer retrieval.
//
// Every operation degrades to a neutral value (empty id, false, empty list)
// on timeout, non-2xx status or unresolvable lookup — platform faults are
// never surfaced to callers. With no plausible access token configured the
// client reports itself disabled and short-circuits without touching the
// network, which keeps the rest of the system usable as a demo.
package surveymonkey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mirrorloop/mirrorloop/internal/schema"
)

// Tokens at or below this length are treated as absent.
const minTokenLen = 10

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// Enabled reports whether a plausible access token is configured.
func (c *Client) Enabled() bool {
	return len(c.token) > minTokenLen
}

// Answer is one flattened response record: a question heading, the resolved
// answer text, and the response's modification timestamp.
type Answer struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// CreateSurveyFromDraft maps the draft onto a one-page survey titled
// "Feedback" and returns the platform-assigned survey id, or "" on failure.
// The survey title carries the case id for traceability.
func (c *Client) CreateSurveyFromDraft(ctx context.Context, draft schema.FollowupSurveyDraft, caseID string) string {
	if !c.Enabled() {
		return ""
	}

	payload := surveyPayload{
		Title: fmt.Sprintf("%s (Case %s)", draft.Title, caseID),
		Pages: []pagePayload{{Title: "Feedback", Questions: formatQuestions(draft)}},
	}

	var created struct {
		ID string `json:"id"`
	}
	if !c.postJSON(ctx, c.baseURL+"/surveys", payload, &created) {
		return ""
	}
	return created.ID
}

// CreateWeblinkCollector provisions a public weblink collector for the survey
// and returns (collector id, url), or ("", "") on failure.
func (c *Client) CreateWeblinkCollector(ctx context.Context, surveyID string) (string, string) {
	if !c.Enabled() {
		return "", ""
	}

	payload := map[string]string{"type": "weblink", "name": "Web Link 1"}
	var created struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if !c.postJSON(ctx, c.baseURL+"/surveys/"+surveyID+"/collectors", payload, &created) {
		return "", ""
	}
	return created.ID, created.URL
}

// SubmitRatingVote records a single 1–5 score against the questionIndex-th
// choice-family question of the live survey. The target choice is resolved by
// exact text match on the score, falling back to the score as a 1-based
// position. Returns false without submitting when the question or choice
// cannot be resolved.
func (c *Client) SubmitRatingVote(ctx context.Context, surveyID, collectorID string, score, questionIndex int) bool {
	if !c.Enabled() {
		return false
	}

	details, ok := c.fetchDetails(ctx, surveyID)
	if !ok {
		return false
	}

	pageID, target := findChoiceQuestion(details, questionIndex)
	if target == nil {
		c.logger.Warn("vote target question not found", "survey_id", surveyID, "question_index", questionIndex)
		return false
	}

	choiceID := resolveChoiceID(targetChoices(target), score)
	if choiceID == "" {
		c.logger.Warn("vote choice not resolvable", "survey_id", surveyID, "score", score)
		return false
	}

	payload := votePayload{
		Pages: []votePage{{
			ID: pageID,
			Questions: []voteQuestion{{
				ID:      target.ID,
				Answers: []voteAnswer{{ChoiceID: choiceID}},
			}},
		}},
	}
	return c.postJSON(ctx, c.baseURL+"/collectors/"+collectorID+"/responses", payload, nil)
}

// GetSurveyAnswers flattens every answered question across every page of
// every bulk response into Answer records, most recent first. A choice id the
// survey definition no longer knows resolves to "Unknown"; a question with no
// answer payload resolves to "-".
func (c *Client) GetSurveyAnswers(ctx context.Context, surveyID string) []Answer {
	results := []Answer{}
	if !c.Enabled() {
		return results
	}

	details, ok := c.fetchDetails(ctx, surveyID)
	if !ok {
		return results
	}

	questionText := make(map[string]string)
	choiceText := make(map[string]string)
	for _, page := range details.Pages {
		for _, q := range page.Questions {
			if len(q.Headings) > 0 {
				questionText[q.ID] = q.Headings[0].Heading
			}
			if q.Answers != nil {
				for _, ch := range q.Answers.Choices {
					choiceText[ch.ID] = ch.Text
				}
			}
		}
	}

	var bulk bulkResponses
	if !c.getJSON(ctx, c.baseURL+"/surveys/"+surveyID+"/responses/bulk", &bulk) {
		return results
	}

	for _, resp := range bulk.Data {
		for _, page := range resp.Pages {
			for _, q := range page.Questions {
				answer := "-"
				if len(q.Answers) > 0 {
					ans := q.Answers[0]
					switch {
					case ans.ChoiceID != "":
						text, ok := choiceText[ans.ChoiceID]
						if !ok {
							text = "Unknown"
						}
						answer = text
					case ans.Text != "":
						answer = ans.Text
					}
				}
				question, ok := questionText[q.ID]
				if !ok {
					question = "Unknown"
				}
				results = append(results, Answer{
					Question:  question,
					Answer:    answer,
					Timestamp: resp.DateModified,
				})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp > results[j].Timestamp
	})
	return results
}

// formatQuestions maps draft questions onto SurveyMonkey question shapes:
// scale_1_5 becomes a vertical single-choice with choices "1".."5",
// single_choice keeps its provided choices, and everything else (including a
// single_choice with no choices) falls back to an open-ended question.
func formatQuestions(draft schema.FollowupSurveyDraft) []questionPayload {
	out := make([]questionPayload, 0, len(draft.Questions))
	for _, q := range draft.Questions {
		switch {
		case q.Type == schema.QuestionScale1To5:
			choices := make([]choicePayload, 0, 5)
			for i := 1; i <= 5; i++ {
				choices = append(choices, choicePayload{Text: strconv.Itoa(i)})
			}
			out = append(out, questionPayload{
				Headings: []heading{{Heading: q.Prompt}},
				Family:   "single_choice",
				Subtype:  "vertical",
				Answers:  &answersPayload{Choices: choices},
			})
		case q.Type == schema.QuestionSingleChoice && len(q.Choices) > 0:
			choices := make([]choicePayload, 0, len(q.Choices))
			for _, text := range q.Choices {
				choices = append(choices, choicePayload{Text: text})
			}
			out = append(out, questionPayload{
				Headings: []heading{{Heading: q.Prompt}},
				Family:   "single_choice",
				Subtype:  "vertical",
				Answers:  &answersPayload{Choices: choices},
			})
		default:
			out = append(out, questionPayload{
				Headings: []heading{{Heading: q.Prompt}},
				Family:   "open_ended",
				Subtype:  "single",
			})
		}
	}
	return out
}

// findChoiceQuestion walks pages in order counting only single_choice and
// matrix questions, returning the index-th one and its page id.
func findChoiceQuestion(details *surveyDetails, index int) (string, *detailQuestion) {
	count := 0
	for _, page := range details.Pages {
		for i := range page.Questions {
			q := &page.Questions[i]
			if q.Family != "single_choice" && q.Family != "matrix" {
				continue
			}
			if count == index {
				return page.ID, q
			}
			count++
		}
	}
	return "", nil
}

func targetChoices(q *detailQuestion) []detailChoice {
	if q.Answers == nil {
		return nil
	}
	return q.Answers.Choices
}

// resolveChoiceID prefers the choice whose text equals the score, then falls
// back to the score as a 1-based index into the choice list.
func resolveChoiceID(choices []detailChoice, score int) string {
	text := strconv.Itoa(score)
	for _, ch := range choices {
		if ch.Text == text {
			return ch.ID
		}
	}
	if score >= 1 && score <= len(choices) {
		return choices[score-1].ID
	}
	return ""
}

func (c *Client) fetchDetails(ctx context.Context, surveyID string) (*surveyDetails, bool) {
	var details surveyDetails
	if !c.getJSON(ctx, c.baseURL+"/surveys/"+surveyID+"/details", &details) {
		return nil, false
	}
	return &details, true
}

func (c *Client) headers(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
}

// postJSON posts payload and decodes the body into out when non-nil. Returns
// false on any transport fault or non-2xx status.
func (c *Client) postJSON(ctx context.Context, url string, payload, out any) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("marshal surveymonkey payload", "error", err)
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("create surveymonkey request", "error", err)
		return false
	}
	c.headers(req)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("surveymonkey call failed", "url", url, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Warn("surveymonkey non-success status", "url", url, "status", resp.StatusCode)
		return false
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.logger.Warn("decode surveymonkey response", "url", url, "error", err)
			return false
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return true
}

func (c *Client) getJSON(ctx context.Context, url string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("create surveymonkey request", "error", err)
		return false
	}
	c.headers(req)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("surveymonkey call failed", "url", url, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("surveymonkey non-success status", "url", url, "status", resp.StatusCode)
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("decode surveymonkey response", "url", url, "error", err)
		return false
	}
	return true
}
