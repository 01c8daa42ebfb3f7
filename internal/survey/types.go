package survey

import "encoding/json"

// Response - one completed survey response as returned by the bulk endpoint.
// Raw keeps the provider's full document for storage as pre-screen data.
type Response struct {
	ID             string         `json:"id"`
	ResponseStatus string         `json:"response_status"`
	AnalyzeURL     string         `json:"analyze_url"`
	Pages          []ResponsePage `json:"pages"`

	Raw json.RawMessage `json:"-"`
}

type ResponsePage struct {
	ID        string             `json:"id"`
	Questions []ResponseQuestion `json:"questions"`
}

type ResponseQuestion struct {
	ID      string   `json:"id"`
	Answers []Answer `json:"answers"`
}

type Answer struct {
	Text     string `json:"text,omitempty"`
	ChoiceID string `json:"choice_id,omitempty"`
	RowID    string `json:"row_id,omitempty"`
	OtherID  string `json:"other_id,omitempty"`
}

type responseFields Response

func (r *Response) UnmarshalJSON(data []byte) error {
	var fields responseFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = Response(fields)
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// ParseResponse decodes a stored raw response document
func ParseResponse(raw []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Details - the question catalog of a survey
type Details struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Pages []DetailsPage `json:"pages"`
}

type DetailsPage struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Question struct {
	ID       string    `json:"id"`
	Family   string    `json:"family"`
	Subtype  string    `json:"subtype"`
	Type     string    `json:"type"`
	Heading  string    `json:"heading"`
	Question string    `json:"question"`
	Headings []Heading `json:"headings"`
	Answers  *Choices  `json:"answers,omitempty"`
}

type Heading struct {
	Heading string `json:"heading"`
}

type Choices struct {
	Choices []Choice `json:"choices"`
	Rows    []Choice `json:"rows"`
}

type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QA - one flattened question/answer pair
type QA struct {
	QuestionText string `json:"questionText"`
	AnswerText   string `json:"answerText"`
	QuestionType string `json:"questionType"`
}

type bulkPage struct {
	Data  []Response `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// Document returns the raw provider document, re-encoding when the response was built in code
func (r *Response) Document() (json.RawMessage, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	return json.Marshal((*responseFields)(r))
}
