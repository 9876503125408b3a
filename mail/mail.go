package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"ringstats-backend/logger"
)

// Mailer sends the transactional mail the API needs.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, verificationURL string) error
	SendNewsTip(ctx context.Context, tip Tip) error
}

// Tip is a reader-submitted news tip forwarded to the editor.
type Tip struct {
	FromEmail string
	Name      string
	Headline  string
	Link      string
	Message   string
}

type SendGridMailer struct {
	client *sendgrid.Client
	from   string
	editor string
}

func NewSendGridMailer(apiKey, from, editor string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		editor: editor,
	}
}

func (m *SendGridMailer) SendVerificationEmail(ctx context.Context, to, verificationURL string) error {
	subject := "Verify Your Email"
	plainTextContent := fmt.Sprintf("Click the link to verify your email: %s", verificationURL)
	htmlContent := fmt.Sprintf(`
        <html>
        <body>
            <h2>Email Verification</h2>
            <p>Thanks for joining RingStats! Please verify your email by clicking the link below:</p>
            <p><a href="%s">Verify Email</a></p>
            <p>If you didn't create this account, you can safely ignore this email.</p>
        </body>
        </html>
    `, html.EscapeString(verificationURL))

	from := sgmail.NewEmail("RingStats", m.from)
	toEmail := sgmail.NewEmail("", to)
	return m.send(ctx, sgmail.NewSingleEmail(from, subject, toEmail, plainTextContent, htmlContent))
}

func (m *SendGridMailer) SendNewsTip(ctx context.Context, tip Tip) error {
	if m.editor == "" {
		return fmt.Errorf("no editor address configured")
	}
	subject := "[RingStats] News tip: " + tip.Headline

	var plain strings.Builder
	fmt.Fprintf(&plain, "From: %s\nEmail: %s\n", tip.Name, tip.FromEmail)
	if tip.Link != "" {
		fmt.Fprintf(&plain, "Link: %s\n", tip.Link)
	}
	plain.WriteString("\n" + tip.Message)

	htmlText := "<strong>From:</strong> " + html.EscapeString(tip.Name) +
		"<br><strong>Email:</strong> " + html.EscapeString(tip.FromEmail)
	if tip.Link != "" {
		htmlText += "<br><strong>Link:</strong> " + html.EscapeString(tip.Link)
	}
	htmlText += "<br><br>" + html.EscapeString(tip.Message)

	sender := sgmail.NewEmail("RingStats Tips", m.from)
	recipient := sgmail.NewEmail("Editor", m.editor)
	return m.send(ctx, sgmail.NewSingleEmail(sender, subject, recipient, plain.String(), htmlText))
}

func (m *SendGridMailer) send(ctx context.Context, message *sgmail.SGMailV3) error {
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: %d - %s", response.StatusCode, response.Body)
	}
	return nil
}

// LogMailer logs mail instead of sending it. Used when no SendGrid key is set.
type LogMailer struct{}

func (LogMailer) SendVerificationEmail(_ context.Context, to, verificationURL string) error {
	logger.Log.WithField("to", to).WithField("url", verificationURL).Info("Verification email not sent: mail disabled")
	return nil
}

func (LogMailer) SendNewsTip(_ context.Context, tip Tip) error {
	logger.Log.WithField("from", tip.FromEmail).WithField("headline", tip.Headline).Info("News tip not sent: mail disabled")
	return nil
}

var (
	_ Mailer = (*SendGridMailer)(nil)
	_ Mailer = LogMailer{}
)
