package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"
	texttemplate "text/template"
	"voltedge_site_go/config"
	"voltedge_site_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		log.Printf("✅ Email logged successfully (development mode - not actually sent)")
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
		ReplyTo: email.ReplyTo,
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\n📧 EMAIL (Development Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	if email.ReplyTo != "" {
		log.Printf("Reply-To: %s", email.ReplyTo)
	}
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// SendEmailAsync sends an email from a goroutine so handlers don't block on
// the provider.
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		ReplyTo:  email.ReplyTo,
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

var enquiryHTML = template.Must(template.New("enquiry.html").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#111827">
<h2 style="color:#b45309">New website enquiry</h2>
<table cellpadding="6">
<tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
<tr><td><strong>Email</strong></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
{{if .Phone}}<tr><td><strong>Phone</strong></td><td>{{.Phone}}</td></tr>{{end}}
{{if .Subject}}<tr><td><strong>Subject</strong></td><td>{{.Subject}}</td></tr>{{end}}
</table>
<p style="white-space:pre-wrap">{{.Message}}</p>
<p><a href="{{.AdminURL}}">Open the back office</a></p>
</body></html>`))

var enquiryText = texttemplate.Must(texttemplate.New("enquiry.txt").Parse(`New website enquiry

Name: {{.Name}}
Email: {{.Email}}
{{if .Phone}}Phone: {{.Phone}}
{{end}}{{if .Subject}}Subject: {{.Subject}}
{{end}}
{{.Message}}

{{.AdminURL}}
`))

type enquiryEmailData struct {
	*models.Enquiry
	AdminURL string
}

// BuildEnquiryNotificationEmail tells the site owner about a new enquiry.
// Replies go straight to the sender.
func BuildEnquiryNotificationEmail(to string, enquiry *models.Enquiry, appURL string) (*Email, error) {
	data := enquiryEmailData{Enquiry: enquiry, AdminURL: strings.TrimRight(appURL, "/") + "/api/enquiries"}

	var html, text bytes.Buffer
	if err := enquiryHTML.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render enquiry email: %w", err)
	}
	if err := enquiryText.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render enquiry email: %w", err)
	}

	subject := "New enquiry from " + enquiry.Name
	if enquiry.Subject != "" {
		subject += ": " + enquiry.Subject
	}
	return &Email{
		To:       []string{to},
		ReplyTo:  enquiry.Email,
		Subject:  subject,
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}
