package services

import (
	"regexp"
	"strconv"
	"strings"

	"studyfunnel_backend/internal/survey"
)

var leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

type surveyProfile struct {
	Name *string
	Age  *float64
}

// deriveProfile reads name and age out of the flattened answers. The first two
// "provide your name" answers are first and last name; fallbackName is used when
// neither is present.
func deriveProfile(fallbackName string, answers []survey.QA) surveyProfile {
	var (
		first, last string
		nameCount   int
		profile     surveyProfile
	)

	for _, qa := range answers {
		question := strings.ToLower(qa.QuestionText)
		if strings.Contains(question, "provide your name") {
			nameCount++
			switch nameCount {
			case 1:
				first = qa.AnswerText
			case 2:
				last = qa.AnswerText
			}
		}
		if profile.Age == nil && strings.Contains(question, "age") {
			if age, ok := parseLeadingNumber(qa.AnswerText); ok {
				profile.Age = &age
			}
		}
	}

	name := fallbackName
	if first != "" || last != "" {
		name = strings.TrimSpace(first + " " + last)
	}
	if name != "" {
		profile.Name = &name
	}
	return profile
}

func parseLeadingNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
