package services

import (
	"fmt"
	"net/smtp"
	"strings"
	"sudshine/config"

	logger "github.com/Bparsons0904/goLogger"
)

// Mailer is the outbound transactional-message channel. Implementations may
// be swapped for other transports (console in development, SMTP in
// production).
type Mailer interface {
	Send(to, subject, body string) error
}

// ConsoleMailer logs messages instead of delivering them. Used in
// development and whenever SMTP is not configured.
type ConsoleMailer struct {
	log logger.Logger
}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{log: logger.New("ConsoleMailer")}
}

func (m *ConsoleMailer) Send(to, subject, body string) error {
	m.log.Info("mail (console)", "to", to, "subject", subject, "body", body)
	return nil
}

// SMTPMailer delivers via a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
	log  logger.Logger
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from: cfg.SMTPFrom,
		log:  logger.New("SMTPMailer"),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	log := m.log.Function("Send")

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return log.Err("failed to send mail", err, "to", to, "subject", subject)
	}

	return nil
}

// NewMailer picks the transport based on configuration.
func NewMailer(cfg config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return NewConsoleMailer()
	}
	return NewSMTPMailer(cfg)
}
