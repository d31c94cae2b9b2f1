package mailer

import (
	"bytes"
	"fmt"
	texttpl "text/template"
)

// Rendered is a ready-to-send subject and text body.
type Rendered struct {
	Subject string
	Text    string
}

var templates = map[string]struct {
	subject string
	body    *texttpl.Template
}{
	TemplateWelcome: {
		subject: "Welcome to PortfolioPro!",
		body: texttpl.Must(texttpl.New(TemplateWelcome).Parse(
			"Hi {{.Username}},\n\n" +
				"Your portfolio is live at https://{{.Subdomain}}.{{.BaseDomain}}.\n" +
				"Sign in to the admin panel to add your projects, skills and experience.\n\n" +
				"— The PortfolioPro team\n")),
	},
	TemplateSuspended: {
		subject: "Your PortfolioPro account has been suspended",
		body: texttpl.Must(texttpl.New(TemplateSuspended).Parse(
			"Hi {{.Username}},\n\n" +
				"Your account and portfolio have been suspended. If you believe this\n" +
				"is a mistake, please contact support.\n\n" +
				"— The PortfolioPro team\n")),
	},
	TemplateTempPassword: {
		subject: "Your temporary PortfolioPro password",
		body: texttpl.Must(texttpl.New(TemplateTempPassword).Parse(
			"Hi {{.Username}},\n\n" +
				"An administrator reset your password. Sign in with the temporary\n" +
				"password below and change it right away:\n\n" +
				"    {{.TempPassword}}\n\n" +
				"— The PortfolioPro team\n")),
	},
}

// Render fills the named template with the job's data. Jobs with a literal
// Subject/Text body pass through untouched.
func Render(job *EmailJob) (Rendered, error) {
	if job.Template == "" {
		return Rendered{Subject: job.Subject, Text: job.Text}, nil
	}
	t, ok := templates[job.Template]
	if !ok {
		return Rendered{}, fmt.Errorf("unknown email template %q", job.Template)
	}
	var buf bytes.Buffer
	if err := t.body.Execute(&buf, job.Data); err != nil {
		return Rendered{}, err
	}
	subject := job.Subject
	if subject == "" {
		subject = t.subject
	}
	return Rendered{Subject: subject, Text: buf.String()}, nil
}
