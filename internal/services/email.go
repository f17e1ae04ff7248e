package services

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/shatayaglobal/Manpower/internal/config"
)

type EmailService struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg, send: smtp.SendMail}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send is a no-op when SMTP is not configured.
func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		headerValue(s.cfg.From), headerValue(to), headerValue(subject), body)

	return s.send(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

var headerBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// headerValue keeps user-supplied text on a single header line.
func headerValue(v string) string {
	return headerBreaks.Replace(v)
}

func (s *EmailService) SendStaffInvitation(to, businessName, jobTitle, invitationsURL string) error {
	subject := fmt.Sprintf("%s has added you to their staff", businessName)
	role := ""
	if jobTitle != "" {
		role = fmt.Sprintf(" as <strong>%s</strong>", html.EscapeString(jobTitle))
	}
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Staff Invitation</h2>
			<p>Hi,</p>
			<p><strong>%s</strong> has invited you to join their team%s.</p>
			<p>Accept the invitation to start clocking in for your shifts.</p>
			<p><a href="%s">View your invitations</a></p>
		</body>
		</html>
	`, html.EscapeString(businessName), role, invitationsURL)

	return s.Send(to, subject, body)
}
