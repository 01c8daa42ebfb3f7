package survey

import (
	"strings"

	"studyfunnel_backend/internal/models"
)

// Contact returns the first answer that looks like an email and the first
// non-empty answer that does not
func Contact(resp *Response) (email, name string) {
	for _, page := range resp.Pages {
		for _, q := range page.Questions {
			for _, a := range q.Answers {
				if a.Text == "" {
					continue
				}
				if email == "" && strings.Contains(a.Text, "@") {
					email = models.NormalizeEmail(a.Text)
				}
				if name == "" && !strings.Contains(a.Text, "@") {
					name = a.Text
				}
			}
		}
	}
	return email, name
}
