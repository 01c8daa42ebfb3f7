package email

// Email - one outgoing HTML message
type Email struct {
	From     string
	FromName string
	To       []string
	Subject  string
	HTMLBody string
}

// TemplateData - values available to a mail template
type TemplateData map[string]interface{}
