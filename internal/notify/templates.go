package notify

import (
	"bytes"
	"fmt"
	"text/template"
)

// renderedMail is a subject/body pair ready for the mail API.
type renderedMail struct {
	Subject string
	Body    string
}

var caseReadyTemplate = template.Must(template.New("case_ready").Parse(
	`A new onboarding case is ready for review.

Case:    {{.CaseID}}
Client:  {{.ClientName}}
Verdict: {{.Overall}}
{{if .MissingInfo}}
Missing information:
{{range .MissingInfo}}  - {{.}}
{{end}}{{end}}{{if .RFIs}}
Requests for information:
{{range .RFIs}}  - {{.}}
{{end}}{{end}}
Decide:
{{range $action, $url := .DecisionLinks}}  {{$action}}: {{$url}}
{{end}}
Each link works exactly once.
`))

var decisionTemplates = map[string]*template.Template{
	"approve": template.Must(template.New("approved").Parse(
		`Dear {{.ClientName}},

Your onboarding application (case {{.CaseID}}) has been approved.

You will receive account details separately.
`)),
	"request": template.Must(template.New("info_requested").Parse(
		`Dear {{.ClientName}},

We need further information to continue with your onboarding application (case {{.CaseID}}).
{{if .RFIs}}
Please provide:
{{range .RFIs}}  - {{.}}
{{end}}{{end}}
Reply to this email with the requested details.
`)),
	"reject": template.Must(template.New("rejected").Parse(
		`Dear {{.ClientName}},

We regret to inform you that your onboarding application (case {{.CaseID}}) has not been successful.
`)),
}

var decisionSubjects = map[string]string{
	"approve": "Your application has been approved",
	"request": "Further information required for your application",
	"reject":  "Your application outcome",
}

// renderCaseReady produces the reviewer email for a screened case.
func renderCaseReady(notice CaseNotice) (renderedMail, error) {
	var buf bytes.Buffer
	if err := caseReadyTemplate.Execute(&buf, notice); err != nil {
		return renderedMail{}, fmt.Errorf("render case-ready mail: %w", err)
	}
	return renderedMail{
		Subject: fmt.Sprintf("Case %s ready for review (%s)", notice.CaseID, notice.Overall),
		Body:    buf.String(),
	}, nil
}

// renderDecision produces the client email for a recorded decision.
func renderDecision(notice DecisionNotice) (renderedMail, error) {
	tmpl, ok := decisionTemplates[notice.Action]
	if !ok {
		return renderedMail{}, fmt.Errorf("no mail template for action %q", notice.Action)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, notice); err != nil {
		return renderedMail{}, fmt.Errorf("render decision mail: %w", err)
	}
	return renderedMail{Subject: decisionSubjects[notice.Action], Body: buf.String()}, nil
}
