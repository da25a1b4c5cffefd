package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer is the email-dispatch boundary. Callers log delivery errors and
// never surface them to the end user.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail over authenticated SMTP.
type SMTPMailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

func NewSMTPMailer(host, port, user, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, password: password, from: from}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.host == "" {
		return fmt.Errorf("smtp not configured")
	}

	msg := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
		"\r\n"+
		"%s\r\n", m.from, to, subject, htmlBody)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// ResetEmail builds the subject and HTML body for a password-reset message.
func ResetEmail(resetLink string) (subject, htmlBody string) {
	subject = "Reset your Ghostwriter password"
	htmlBody = fmt.Sprintf(`<p>We received a request to reset your password.</p>
<p><a href="%s">Click here to choose a new one.</a></p>
<p>The link expires in 30 minutes. If you didn't ask for this, you can ignore this email.</p>`, resetLink)
	return subject, htmlBody
}
