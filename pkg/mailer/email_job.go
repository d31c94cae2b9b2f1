package mailer

// Template names understood by the email worker.
const (
	TemplateWelcome      = "welcome"
	TemplateSuspended    = "account_suspended"
	TemplateTempPassword = "temp_password"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either a Template with Data, or a literal Subject/Text/HTML body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
