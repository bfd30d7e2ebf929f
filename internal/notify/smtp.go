package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"rfp-pipeline/internal/common/config"
	"rfp-pipeline/internal/common/logger"
)

// SMTPTransport delivers mail over plain SMTP or STARTTLS.
type SMTPTransport struct {
	cfg    config.MailConfig
	logger logger.Logger
}

func NewSMTPTransport(cfg config.MailConfig, log logger.Logger) *SMTPTransport {
	return &SMTPTransport{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"transport": "smtp"}),
	}
}

func (t *SMTPTransport) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}
	if err := ValidateAddress(to); err != nil {
		return err
	}

	from := t.cfg.From
	if from == "" {
		from = t.cfg.SMTP.Username
	}

	message := buildMessage(from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", t.cfg.SMTP.Host, t.cfg.SMTP.Port)

	var auth smtp.Auth
	if t.cfg.SMTP.Username != "" && t.cfg.SMTP.Password != "" {
		auth = smtp.PlainAuth("", t.cfg.SMTP.Username, t.cfg.SMTP.Password, t.cfg.SMTP.Host)
	}

	if t.cfg.SMTP.UseTLS {
		return t.sendWithTLS(addr, auth, from, to, []byte(message))
	}
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(message))
}

func buildMessage(from, to, subject, body string) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", from))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", to))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(body)

	return builder.String()
}

func (t *SMTPTransport) sendWithTLS(addr string, auth smtp.Auth, from, to string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: t.cfg.SMTP.Host,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
