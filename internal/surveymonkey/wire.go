package surveymonkey

// Wire shapes for the SurveyMonkey v3 API, split by direction: creation
// payloads, survey detail reads, response submission, and bulk response reads.

type heading struct {
	Heading string `json:"heading"`
}

type choicePayload struct {
	Text string `json:"text"`
}

type answersPayload struct {
	Choices []choicePayload `json:"choices"`
}

type questionPayload struct {
	Headings []heading       `json:"headings"`
	Family   string          `json:"family"`
	Subtype  string          `json:"subtype"`
	Answers  *answersPayload `json:"answers,omitempty"`
}

type pagePayload struct {
	Title     string            `json:"title"`
	Questions []questionPayload `json:"questions"`
}

type surveyPayload struct {
	Title string        `json:"title"`
	Pages []pagePayload `json:"pages"`
}

type detailChoice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type detailAnswers struct {
	Choices []detailChoice `json:"choices"`
}

type detailQuestion struct {
	ID       string         `json:"id"`
	Family   string         `json:"family"`
	Headings []heading      `json:"headings"`
	Answers  *detailAnswers `json:"answers,omitempty"`
}

type detailPage struct {
	ID        string           `json:"id"`
	Questions []detailQuestion `json:"questions"`
}

type surveyDetails struct {
	ID    string       `json:"id"`
	Pages []detailPage `json:"pages"`
}

type voteAnswer struct {
	ChoiceID string `json:"choice_id"`
}

type voteQuestion struct {
	ID      string       `json:"id"`
	Answers []voteAnswer `json:"answers"`
}

type votePage struct {
	ID        string         `json:"id"`
	Questions []voteQuestion `json:"questions"`
}

type votePayload struct {
	Pages []votePage `json:"pages"`
}

type bulkAnswer struct {
	ChoiceID string `json:"choice_id,omitempty"`
	Text     string `json:"text,omitempty"`
}

type bulkQuestion struct {
	ID      string       `json:"id"`
	Answers []bulkAnswer `json:"answers"`
}

type bulkPage struct {
	ID        string         `json:"id"`
	Questions []bulkQuestion `json:"questions"`
}

type bulkEntry struct {
	ID           string     `json:"id"`
	DateModified string     `json:"date_modified"`
	Pages        []bulkPage `json:"pages"`
}

type bulkResponses struct {
	Data []bulkEntry `json:"data"`
}
