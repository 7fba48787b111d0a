package schema

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxComplaintLen = 4000

var (
	channels      = []string{"web", "mobile", "in_store", "delivery"}
	journeyStages = []string{"browse", "product", "checkout", "support", "returns", "other"}
	languages     = []string{"English", "French", "Arabic", "Other"}
	issueTypes    = []string{"ux", "bug", "service", "pricing", "inventory", "delivery", "other"}
	emotions      = []string{"neutral", "annoyed", "frustrated", "angry"}
	ticketRoles   = []string{"Product Manager", "Software Engineer", "Field Operations"}
	priorities    = []string{"P0", "P1", "P2", "P3"}
	owners        = []string{"Store Ops", "Product", "Support", "Delivery", "Unknown"}
	levels        = []string{"low", "medium", "high"}
	questionTypes = []string{QuestionSingleChoice, QuestionScale1To5, QuestionShortText}
)

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// Validate checks the ingress invariants: non-blank complaint within the
// length bound, and every enum field drawn from its closed set.
func (c ComplaintInput) Validate() error {
	if strings.TrimSpace(c.Complaint) == "" {
		return fmt.Errorf("complaint is required")
	}
	if utf8.RuneCountInString(c.Complaint) > maxComplaintLen {
		return fmt.Errorf("complaint exceeds %d characters", maxComplaintLen)
	}
	if !oneOf(c.Channel, channels) {
		return fmt.Errorf("invalid channel %q", c.Channel)
	}
	if !oneOf(c.JourneyStage, journeyStages) {
		return fmt.Errorf("invalid journey stage %q", c.JourneyStage)
	}
	if !oneOf(c.Language, languages) {
		return fmt.Errorf("invalid language %q", c.Language)
	}
	return nil
}

// Validate enforces the stage-1 output gate: severity in range and the closed
// enumerations respected. Model output failing this is a pipeline failure.
func (f StructuredFeedback) Validate() error {
	if f.Severity < 1 || f.Severity > 5 {
		return fmt.Errorf("severity %d outside 1..5", f.Severity)
	}
	if !oneOf(f.IssueType, issueTypes) {
		return fmt.Errorf("invalid issue_type %q", f.IssueType)
	}
	if !oneOf(f.Emotion, emotions) {
		return fmt.Errorf("invalid emotion %q", f.Emotion)
	}
	if strings.TrimSpace(f.Summary) == "" {
		return fmt.Errorf("empty summary")
	}
	return nil
}

// Validate enforces the structural stage-2 gate. Question count and type mix
// are generation policy and deliberately not checked here.
func (d FollowupSurveyDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("empty survey title")
	}
	if len(d.Questions) == 0 {
		return fmt.Errorf("survey draft has no questions")
	}
	for i, q := range d.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("question %d: empty prompt", i)
		}
		if !oneOf(q.Type, questionTypes) {
			return fmt.Errorf("question %d: invalid type %q", i, q.Type)
		}
		if q.Type == QuestionSingleChoice && len(q.Choices) == 0 {
			return fmt.Errorf("question %d: single_choice requires choices", i)
		}
	}
	return nil
}

// Validate enforces the structural stage-3 gate. The ≤3-ticket cap is
// generation policy and not checked here.
func (p ActionPlan) Validate() error {
	if !oneOf(p.Owner, owners) {
		return fmt.Errorf("invalid owner %q", p.Owner)
	}
	if !oneOf(p.Impact, levels) {
		return fmt.Errorf("invalid impact %q", p.Impact)
	}
	if !oneOf(p.Effort, levels) {
		return fmt.Errorf("invalid effort %q", p.Effort)
	}
	for i, t := range p.Tickets {
		if !oneOf(t.Role, ticketRoles) {
			return fmt.Errorf("ticket %d: invalid role %q", i, t.Role)
		}
		if !oneOf(t.Priority, priorities) {
			return fmt.Errorf("ticket %d: invalid priority %q", i, t.Priority)
		}
	}
	return nil
}
