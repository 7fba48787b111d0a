// Package schema defines the typed records passed between pipeline stages and
// across the API boundary, with the validation applied at ingress and at the
// pipeline output gate.
package schema

// ComplaintInput is the raw ingress record for POST /api/feedback.
type ComplaintInput struct {
	Complaint    string `json:"complaint"`
	Channel      string `json:"channel"`      // web | mobile | in_store | delivery
	JourneyStage string `json:"journeyStage"` // browse | product | checkout | support | returns | other
	Language     string `json:"language"`     // English | French | Arabic | Other
	OrderID      string `json:"orderId,omitempty"`
	EmailOrPhone string `json:"emailOrPhone,omitempty"`
}

// StructuredFeedback is the normalized VoC record produced by pipeline stage 1.
type StructuredFeedback struct {
	JourneyStage   string   `json:"journey_stage"`
	IssueType      string   `json:"issue_type"` // ux | bug | service | pricing | inventory | delivery | other
	Emotion        string   `json:"emotion"`    // neutral | annoyed | frustrated | angry
	Severity       int      `json:"severity"`   // 1..5
	Summary        string   `json:"summary"`
	EvidenceQuotes []string `json:"evidence_quotes"`
	FollowupNeeded bool     `json:"followup_needed"`
	FollowupGoal   string   `json:"followup_goal,omitempty"`
}

// Question types for SurveyQuestion.
const (
	QuestionSingleChoice = "single_choice"
	QuestionScale1To5    = "scale_1_5"
	QuestionShortText    = "short_text"
)

// SurveyQuestion is one question in a drafted survey.
type SurveyQuestion struct {
	Prompt  string   `json:"prompt"`
	Type    string   `json:"type"`
	Choices []string `json:"choices,omitempty"`
}

// FollowupSurveyDraft is the stage-2 output. The exactly-3 / all-scale_1_5
// policy is a generation instruction, not a structural invariant.
type FollowupSurveyDraft struct {
	Title     string           `json:"title"`
	Questions []SurveyQuestion `json:"questions"`
}

// JiraTicket is one backlog ticket in the stage-3 output.
type JiraTicket struct {
	TicketID           string   `json:"ticket_id"` // e.g. TKT-001
	Role               string   `json:"role"`      // Product Manager | Software Engineer | Field Operations
	Summary            string   `json:"summary"`
	Description        string   `json:"description"` // 1 sentence
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	Priority           string   `json:"priority"` // P0..P3
}

// ActionPlan is the stage-3 output. The ≤3-ticket cap is a generation policy.
type ActionPlan struct {
	TopTheme          string       `json:"top_theme"`
	RecommendedAction string       `json:"recommended_action"`
	Owner             string       `json:"owner"`  // Store Ops | Product | Support | Delivery | Unknown
	Impact            string       `json:"impact"` // low | medium | high
	Effort            string       `json:"effort"` // low | medium | high
	Tickets           []JiraTicket `json:"tickets"`
}

// SurveyMonkeyInfo carries the provisioning result. All fields optional —
// absence means the adapter was disabled or provisioning failed.
type SurveyMonkeyInfo struct {
	SurveyID    string `json:"survey_id,omitempty"`
	CollectorID string `json:"collector_id,omitempty"`
	WeblinkURL  string `json:"weblink_url,omitempty"`
}

// ApiResult is the final case record returned by POST /api/feedback and stored
// under the case id.
type ApiResult struct {
	CaseID       string              `json:"caseId"`
	Structured   StructuredFeedback  `json:"structured"`
	SurveyDraft  FollowupSurveyDraft `json:"surveyDraft"`
	ActionPlan   ActionPlan          `json:"actionPlan"`
	CreatedAt    string              `json:"createdAt"`
	SurveyMonkey *SurveyMonkeyInfo   `json:"surveymonkey,omitempty"`
}

// VoteInput is the body of POST /api/vote. QuestionIndex selects among the
// survey's choice-family questions, zero-based.
type VoteInput struct {
	SurveyID      string `json:"survey_id"`
	CollectorID   string `json:"collector_id"`
	Score         int    `json:"score"`
	QuestionIndex int    `json:"question_index"`
}
