package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Bodies are rendered by the publisher; the worker only delivers them.
// HTML is optional; Text is the fallback.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}
