package survey

import (
	"context"
	"fmt"

	"studyfunnel_backend/internal/logger"
	"studyfunnel_backend/pkg/apperrors"
)

const untitledQuestion = "Untitled Question"

// Formatter flattens raw responses into question/answer pairs using the cached catalog
type Formatter struct {
	catalog *CatalogCache
}

func NewFormatter(source DetailsSource) *Formatter {
	return &Formatter{catalog: NewCatalogCache(source)}
}

// Format fails with an upstream error when the catalog cannot be loaded
func (f *Formatter) Format(ctx context.Context, resp *Response) ([]QA, error) {
	details, err := f.catalog.Get(ctx)
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable(err, "Survey catalog unavailable")
	}
	return FormatWithCatalog(ctx, details, resp), nil
}

// FormatRaw is Format over a stored response document
func (f *Formatter) FormatRaw(ctx context.Context, raw []byte) ([]QA, error) {
	resp, err := ParseResponse(raw)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("stored survey response is malformed: %w", err))
	}
	return f.Format(ctx, resp)
}

func FormatWithCatalog(ctx context.Context, details *Details, resp *Response) []QA {
	questions := make(map[string]*Question)
	for pi := range details.Pages {
		for qi := range details.Pages[pi].Questions {
			q := &details.Pages[pi].Questions[qi]
			questions[q.ID] = q
		}
	}

	out := []QA{}
	for _, page := range resp.Pages {
		for _, rq := range page.Questions {
			q, ok := questions[rq.ID]
			if !ok {
				logger.CtxWarn(ctx, "survey question not in catalog", "question_id", rq.ID, "response_id", resp.ID)
				continue
			}
			for _, a := range rq.Answers {
				text := answerText(q, a)
				if text == "" {
					continue
				}
				out = append(out, QA{
					QuestionText: questionText(q),
					AnswerText:   text,
					QuestionType: questionType(q),
				})
			}
		}
	}
	return out
}

func questionText(q *Question) string {
	if len(q.Headings) > 0 && q.Headings[0].Heading != "" {
		return q.Headings[0].Heading
	}
	if q.Heading != "" {
		return q.Heading
	}
	if q.Question != "" {
		return q.Question
	}
	return untitledQuestion
}

func questionType(q *Question) string {
	switch {
	case q.Family != "" && q.Subtype != "":
		return q.Family + "/" + q.Subtype
	case q.Family != "":
		return q.Family
	default:
		return q.Type
	}
}

func answerText(q *Question, a Answer) string {
	if a.Text != "" {
		return a.Text
	}
	if a.ChoiceID == "" {
		return ""
	}
	if q.Answers != nil {
		for _, c := range q.Answers.Choices {
			if c.ID == a.ChoiceID {
				return c.Text
			}
		}
	}
	return "Choice ID: " + a.ChoiceID
}
