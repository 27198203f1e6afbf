package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPMailer sends plain-text mail through an SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m.Host == "" || m.Port == "" {
		return fmt.Errorf("incomplete SMTP configuration: host=%q, port=%q", m.Host, m.Port)
	}
	if msg.To.Email == "" {
		return fmt.Errorf("recipient %d has no email address", msg.To.ID)
	}

	addr := net.JoinHostPort(m.Host, m.Port)
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("SMTP dial error: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP handshake error: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.Host}); err != nil {
			return fmt.Errorf("SMTP starttls error: %w", err)
		}
	}
	if m.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", m.Username, m.Password, m.Host)); err != nil {
			return fmt.Errorf("SMTP auth error: %w", err)
		}
	}

	if err := client.Mail(m.From); err != nil {
		return fmt.Errorf("SMTP send error: %w", err)
	}
	if err := client.Rcpt(msg.To.Email); err != nil {
		return fmt.Errorf("SMTP send error: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP send error: %w", err)
	}
	if _, err := w.Write(m.compose(msg)); err != nil {
		w.Close()
		return fmt.Errorf("SMTP send error: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("SMTP send error: %w", err)
	}
	return client.Quit()
}

func (m *SMTPMailer) compose(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.From + "\r\n")
	b.WriteString("To: " + msg.To.Email + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("X-Notification-Kind: " + string(msg.Kind) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}
