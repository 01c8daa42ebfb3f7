package email

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"sync"

	"studyfunnel_backend/internal/webhook"
)

// TemplateManager renders the built-in participant mail templates
type TemplateManager struct {
	templates map[string]*template.Template
	subjects  map[string]string
	mutex     sync.RWMutex
}

func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
		subjects:  make(map[string]string),
	}
	for name, t := range builtinTemplates {
		if err := tm.AddTemplate(name, t.subject, t.body); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name, subject, body string) error {
	tpl, err := template.New(name).Option("missingkey=zero").Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.subjects[name] = subject
	tm.mutex.Unlock()
	return nil
}

func (tm *TemplateManager) Has(name string) bool {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	_, ok := tm.templates[name]
	return ok
}

func (tm *TemplateManager) Subject(name string) string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	return tm.subjects[name]
}

// TemplateNames - sorted
func (tm *TemplateManager) TemplateNames() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type builtinTemplate struct {
	subject string
	body    string
}

var builtinTemplates = map[string]builtinTemplate{
	webhook.TemplateInterestedParticipant: {
		subject: "Thanks for your interest in our study",
		body: `<p>Hello,</p>
<p>Thank you for your interest in taking part in our research study.</p>
<p>Please complete the short pre-screening survey so we can check your eligibility.</p>
<p>{{.from_name}}</p>`,
	},
	webhook.TemplateEligibleParticipant: {
		subject: "You are eligible for our study",
		body: `<p>Hello{{with .name}} {{.}}{{end}},</p>
<p>Good news: based on your pre-screening answers you are eligible to take part.</p>
<p>We will follow up shortly with a link to book your session.</p>
<p>{{.from_name}}</p>`,
	},
	webhook.TemplateNonEligibleParticipant: {
		subject: "Update on your study application",
		body: `<p>Hello{{with .name}} {{.}}{{end}},</p>
<p>Thank you for completing the pre-screening survey. Unfortunately you do not meet the criteria for this study.</p>
<p>{{.from_name}}</p>`,
	},
	webhook.TemplateBookingConfirmation: {
		subject: "Your study session is confirmed",
		body: `<p>Hello{{with .name}} {{.}}{{end}},</p>
<p>Your session is confirmed for {{.booking_day}}, {{.booking_date}} at {{.booking_time}}.</p>
{{with .reschedule_link}}<p><a href="{{.}}">Reschedule</a></p>{{end}}
{{with .cancel_link}}<p><a href="{{.}}">Cancel</a></p>{{end}}
<p>{{.from_name}}</p>`,
	},
}
