package authControllers

import (
	"fmt"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers one-time codes. Email transport is an external collaborator,
// kept behind an interface so handlers can be tested without an SMTP server.
type Mailer interface {
	SendOTP(to, code string) error
}

// SMTPMailer sends OTP mail through a plain SMTP relay.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailerFromEnv() (*SMTPMailer, error) {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASSWORD")
	if host == "" || portStr == "" || user == "" || pass == "" {
		return nil, fmt.Errorf("smtp configuration missing")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %v", err)
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}

	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}, nil
}

func (m *SMTPMailer) SendOTP(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Email Verification OTP")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Your verification code is:</p><h1>%s</h1><p>This code expires in 5 minutes. If you didn't request it, ignore this email.</p>",
		code,
	))

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return dialer.DialAndSend(msg)
}
