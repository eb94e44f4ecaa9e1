// Package mailer delivers the composed digest over authenticated SMTP.
// Each recipient is sent independently; one failed recipient never blocks
// the rest.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/smtp"
	"strings"

	"dailydigest/internal/logger"
	"dailydigest/internal/metrics"
	"dailydigest/internal/retry"
)

// smtpSession is the slice of *smtp.Client the delivery loop needs.
type smtpSession interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Reset() error
	Quit() error
}

type Mailer struct {
	host     string
	port     int
	username string
	password string
	retryCfg retry.Config
}

func New(host string, port int, username, password string, retryCfg retry.Config) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		retryCfg: retryCfg,
	}
}

// Send delivers the HTML document to every recipient over one STARTTLS
// session.
func (m *Mailer) Send(ctx context.Context, subject, htmlBody string, recipients []string) error {
	var client *smtp.Client
	err := retry.Do(ctx, m.retryCfg, func() error {
		var dialErr error
		client, dialErr = m.dial()
		return dialErr
	})
	if err != nil {
		return fmt.Errorf("connect to smtp server: %w", err)
	}
	defer client.Quit()

	return m.deliver(client, subject, htmlBody, recipients)
}

// deliver sends to each recipient independently. Per-recipient failures are
// collected; the joined error reports overall failure without having aborted
// the remaining sends.
func (m *Mailer) deliver(session smtpSession, subject, htmlBody string, recipients []string) error {
	var failures []error
	sent := 0
	for _, rcpt := range recipients {
		if err := m.sendOne(session, rcpt, subject, htmlBody); err != nil {
			logger.Warn("send failed", "recipient", rcpt, "error", err)
			metrics.Global.IncrementEmailFailures()
			failures = append(failures, fmt.Errorf("recipient %s: %w", rcpt, err))
			// Clear the aborted transaction before the next recipient.
			if rerr := session.Reset(); rerr != nil {
				failures = append(failures, fmt.Errorf("reset session: %w", rerr))
				break
			}
			continue
		}
		metrics.Global.IncrementEmailsSent()
		sent++
	}

	logger.Info("digest delivered", "sent", sent, "recipients", len(recipients))
	return errors.Join(failures...)
}

func (m *Mailer) dial() (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, err
	}

	if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
		client.Close()
		return nil, fmt.Errorf("starttls: %w", err)
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return nil, fmt.Errorf("auth: %w", err)
	}
	return client, nil
}

func (m *Mailer) sendOne(session smtpSession, rcpt, subject, htmlBody string) error {
	if err := session.Mail(m.username); err != nil {
		return err
	}
	if err := session.Rcpt(rcpt); err != nil {
		return err
	}

	w, err := session.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(m.username, rcpt, subject, htmlBody)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// buildMessage assembles a single-part HTML MIME message.
func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
