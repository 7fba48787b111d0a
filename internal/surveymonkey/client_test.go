package surveymonkey

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/mirrorloop/mirrorloop/internal/schema"
)

const testToken = "sm-token-0123456789"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, testToken, discardLogger())
}

func TestEnabled(t *testing.T) {
	cases := []struct {
		token string
		want  bool
	}{
		{"", false},
		{"short", false},
		{"0123456789", false}, // exactly 10: still implausible
		{"sm-token-0123456789", true},
		{"  sm-token-0123456789  ", true}, // trimmed
	}
	for _, tc := range cases {
		c := NewClient("http://example.invalid", tc.token, discardLogger())
		if got := c.Enabled(); got != tc.want {
			t.Errorf("Enabled() with token %q = %v, want %v", tc.token, got, tc.want)
		}
	}
}

func TestCreateSurveyFromDraft_Mapping(t *testing.T) {
	var got surveyPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/surveys" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "sv1"})
	}))
	defer server.Close()

	draft := schema.FollowupSurveyDraft{
		Title: "Delivery Pulse Check",
		Questions: []schema.SurveyQuestion{
			{Prompt: "Rate the delivery speed", Type: schema.QuestionScale1To5},
			{Prompt: "Which part failed?", Type: schema.QuestionSingleChoice, Choices: []string{"App", "Driver"}},
			{Prompt: "Pick one", Type: schema.QuestionSingleChoice}, // no choices: must fall back
			{Prompt: "Anything else?", Type: schema.QuestionShortText},
		},
	}

	id := testClient(server.URL).CreateSurveyFromDraft(context.Background(), draft, "CASE-1700000000000")
	if id != "sv1" {
		t.Fatalf("expected survey id sv1, got %q", id)
	}

	if got.Title != "Delivery Pulse Check (Case CASE-1700000000000)" {
		t.Errorf("unexpected title %q", got.Title)
	}
	if len(got.Pages) != 1 || got.Pages[0].Title != "Feedback" {
		t.Fatalf("expected one page titled Feedback, got %+v", got.Pages)
	}
	qs := got.Pages[0].Questions
	if len(qs) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(qs))
	}

	if qs[0].Family != "single_choice" || qs[0].Subtype != "vertical" {
		t.Errorf("scale question mapped to %s/%s", qs[0].Family, qs[0].Subtype)
	}
	var texts []string
	for _, ch := range qs[0].Answers.Choices {
		texts = append(texts, ch.Text)
	}
	if !reflect.DeepEqual(texts, []string{"1", "2", "3", "4", "5"}) {
		t.Errorf("scale choices = %v", texts)
	}

	if qs[1].Family != "single_choice" || len(qs[1].Answers.Choices) != 2 || qs[1].Answers.Choices[0].Text != "App" {
		t.Errorf("single_choice question mapped wrong: %+v", qs[1])
	}

	for i, q := range qs[2:] {
		if q.Family != "open_ended" || q.Subtype != "single" || q.Answers != nil {
			t.Errorf("question %d: expected open_ended fallback, got %+v", i+2, q)
		}
	}
	if qs[2].Headings[0].Heading != "Pick one" {
		t.Errorf("heading lost in fallback: %+v", qs[2].Headings)
	}
}

func TestCreateSurveyFromDraft_NonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	id := testClient(server.URL).CreateSurveyFromDraft(context.Background(), schema.FollowupSurveyDraft{Title: "t"}, "CASE-1")
	if id != "" {
		t.Errorf("expected empty id on failure, got %q", id)
	}
}

func TestCreateWeblinkCollector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/surveys/sv1/collectors" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["type"] != "weblink" || body["name"] != "Web Link 1" {
			t.Errorf("unexpected collector payload %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "col1", "url": "https://www.surveymonkey.com/r/ABC123"})
	}))
	defer server.Close()

	collectorID, url := testClient(server.URL).CreateWeblinkCollector(context.Background(), "sv1")
	if collectorID != "col1" || url != "https://www.surveymonkey.com/r/ABC123" {
		t.Errorf("got (%q, %q)", collectorID, url)
	}
}

func TestCreateWeblinkCollector_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	collectorID, url := testClient(server.URL).CreateWeblinkCollector(context.Background(), "sv1")
	if collectorID != "" || url != "" {
		t.Errorf("expected empty pair on failure, got (%q, %q)", collectorID, url)
	}
}

// detailsJSON builds a one-page survey definition with the given questions.
func detailsJSON(questions ...detailQuestion) surveyDetails {
	return surveyDetails{ID: "sv1", Pages: []detailPage{{ID: "pg1", Questions: questions}}}
}

func choiceQuestion(id string, texts ...string) detailQuestion {
	q := detailQuestion{ID: id, Family: "single_choice", Headings: []heading{{Heading: "Q " + id}}, Answers: &detailAnswers{}}
	for i, text := range texts {
		q.Answers.Choices = append(q.Answers.Choices, detailChoice{ID: id + "-c" + string(rune('1'+i)), Text: text})
	}
	return q
}

// voteServer serves survey details and records any response submission.
func voteServer(t *testing.T, details surveyDetails, submitted *votePayload, submitCount *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/surveys/sv1/details":
			json.NewEncoder(w).Encode(details)
		case "/collectors/col1/responses":
			*submitCount++
			if err := json.NewDecoder(r.Body).Decode(submitted); err != nil {
				t.Fatalf("decode vote payload: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSubmitRatingVote_ExactTextMatch(t *testing.T) {
	var submitted votePayload
	var count int
	server := voteServer(t, detailsJSON(choiceQuestion("q1", "1", "2", "3", "4", "5")), &submitted, &count)
	defer server.Close()

	ok := testClient(server.URL).SubmitRatingVote(context.Background(), "sv1", "col1", 3, 0)
	if !ok {
		t.Fatal("expected vote to succeed")
	}
	if count != 1 {
		t.Fatalf("expected one submission, got %d", count)
	}
	choiceID := submitted.Pages[0].Questions[0].Answers[0].ChoiceID
	if choiceID != "q1-c3" {
		t.Errorf("expected exact-match choice q1-c3, got %q", choiceID)
	}
	if submitted.Pages[0].ID != "pg1" || submitted.Pages[0].Questions[0].ID != "q1" {
		t.Errorf("payload names wrong page/question: %+v", submitted)
	}
}

func TestSubmitRatingVote_PositionalFallback(t *testing.T) {
	var submitted votePayload
	var count int
	server := voteServer(t, detailsJSON(choiceQuestion("q1", "Bad", "Okay", "Great")), &submitted, &count)
	defer server.Close()

	ok := testClient(server.URL).SubmitRatingVote(context.Background(), "sv1", "col1", 2, 0)
	if !ok {
		t.Fatal("expected vote to succeed")
	}
	choiceID := submitted.Pages[0].Questions[0].Answers[0].ChoiceID
	if choiceID != "q1-c2" {
		t.Errorf("expected positional choice q1-c2 (0-based position 1), got %q", choiceID)
	}
}

func TestSubmitRatingVote_SkipsNonChoiceFamilies(t *testing.T) {
	open := detailQuestion{ID: "q0", Family: "open_ended", Headings: []heading{{Heading: "free text"}}}
	var submitted votePayload
	var count int
	server := voteServer(t, detailsJSON(open, choiceQuestion("q1", "1", "2", "3", "4", "5")), &submitted, &count)
	defer server.Close()

	// Index 0 must land on q1: open_ended questions don't count.
	ok := testClient(server.URL).SubmitRatingVote(context.Background(), "sv1", "col1", 5, 0)
	if !ok {
		t.Fatal("expected vote to succeed")
	}
	if submitted.Pages[0].Questions[0].ID != "q1" {
		t.Errorf("expected target q1, got %q", submitted.Pages[0].Questions[0].ID)
	}
}

func TestSubmitRatingVote_IndexOutOfRange(t *testing.T) {
	var submitted votePayload
	var count int
	server := voteServer(t, detailsJSON(choiceQuestion("q1", "1", "2", "3", "4", "5")), &submitted, &count)
	defer server.Close()

	ok := testClient(server.URL).SubmitRatingVote(context.Background(), "sv1", "col1", 3, 4)
	if ok {
		t.Error("expected failure for out-of-range question index")
	}
	if count != 0 {
		t.Errorf("no submission call may be issued, got %d", count)
	}
}

func TestSubmitRatingVote_UnresolvableChoice(t *testing.T) {
	var submitted votePayload
	var count int
	server := voteServer(t, detailsJSON(choiceQuestion("q1", "Bad", "Great")), &submitted, &count)
	defer server.Close()

	// Score 5 has no exact match and exceeds the 2-choice list.
	ok := testClient(server.URL).SubmitRatingVote(context.Background(), "sv1", "col1", 5, 0)
	if ok {
		t.Error("expected failure for unresolvable choice")
	}
	if count != 0 {
		t.Errorf("no submission call may be issued, got %d", count)
	}
}

func TestGetSurveyAnswers_FlattenSortPlaceholders(t *testing.T) {
	details := detailsJSON(
		choiceQuestion("q1", "1", "2", "3", "4", "5"),
		detailQuestion{ID: "q2", Family: "open_ended", Headings: []heading{{Heading: "Q q2"}}},
	)
	bulk := bulkResponses{Data: []bulkEntry{
		{
			ID: "r1", DateModified: "2026-08-01T10:00:00+00:00",
			Pages: []bulkPage{{ID: "pg1", Questions: []bulkQuestion{
				{ID: "q1", Answers: []bulkAnswer{{ChoiceID: "q1-c4"}}},
				{ID: "q2", Answers: []bulkAnswer{{Text: "driver was rude"}}},
			}}},
		},
		{
			ID: "r2", DateModified: "2026-08-02T09:00:00+00:00",
			Pages: []bulkPage{{ID: "pg1", Questions: []bulkQuestion{
				{ID: "q1", Answers: []bulkAnswer{{ChoiceID: "stale-choice"}}},
				{ID: "q2"}, // no answers payload
			}}},
		},
	}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/surveys/sv1/details":
			json.NewEncoder(w).Encode(details)
		case "/surveys/sv1/responses/bulk":
			json.NewEncoder(w).Encode(bulk)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}))
	defer server.Close()

	answers := testClient(server.URL).GetSurveyAnswers(context.Background(), "sv1")
	if len(answers) != 4 {
		t.Fatalf("expected 4 flattened answers, got %d", len(answers))
	}

	// Most recent response (r2) first.
	for _, a := range answers[:2] {
		if a.Timestamp != "2026-08-02T09:00:00+00:00" {
			t.Errorf("expected r2 records first, got timestamp %s", a.Timestamp)
		}
	}
	for _, a := range answers[2:] {
		if a.Timestamp != "2026-08-01T10:00:00+00:00" {
			t.Errorf("expected r1 records last, got timestamp %s", a.Timestamp)
		}
	}

	byKey := make(map[string]string)
	for _, a := range answers {
		byKey[a.Timestamp+"|"+a.Question] = a.Answer
	}
	if got := byKey["2026-08-01T10:00:00+00:00|Q q1"]; got != "4" {
		t.Errorf("choice answer: expected resolved text 4, got %q", got)
	}
	if got := byKey["2026-08-01T10:00:00+00:00|Q q2"]; got != "driver was rude" {
		t.Errorf("text answer: got %q", got)
	}
	if got := byKey["2026-08-02T09:00:00+00:00|Q q1"]; got != "Unknown" {
		t.Errorf("stale choice id: expected Unknown, got %q", got)
	}
	if got := byKey["2026-08-02T09:00:00+00:00|Q q2"]; got != "-" {
		t.Errorf("missing answers payload: expected -, got %q", got)
	}
}

func TestGetSurveyAnswers_DetailsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	answers := testClient(server.URL).GetSurveyAnswers(context.Background(), "sv1")
	if answers == nil || len(answers) != 0 {
		t.Errorf("expected empty non-nil list, got %v", answers)
	}
}

func TestDisabled_NeutralAndIdempotent(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	c := NewClient(server.URL, "short", discardLogger())
	ctx := context.Background()
	draft := schema.FollowupSurveyDraft{Title: "t", Questions: []schema.SurveyQuestion{{Prompt: "p", Type: schema.QuestionScale1To5}}}

	for i := 0; i < 2; i++ {
		if id := c.CreateSurveyFromDraft(ctx, draft, "CASE-1"); id != "" {
			t.Errorf("run %d: expected empty survey id, got %q", i, id)
		}
		if cid, url := c.CreateWeblinkCollector(ctx, "sv1"); cid != "" || url != "" {
			t.Errorf("run %d: expected empty collector pair", i)
		}
		if ok := c.SubmitRatingVote(ctx, "sv1", "col1", 3, 0); ok {
			t.Errorf("run %d: expected vote false", i)
		}
		if answers := c.GetSurveyAnswers(ctx, "sv1"); answers == nil || len(answers) != 0 {
			t.Errorf("run %d: expected empty non-nil answers", i)
		}
	}
	if hits != 0 {
		t.Errorf("disabled client made %d network calls", hits)
	}
}
