package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"pulsewatch/config"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends plain-text mail through one relay. Every step of the
// SMTP conversation is bounded by the context passed to Send.
type SMTPMailer struct {
	addr string
	host string
	from string
	auth smtp.Auth
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host: cfg.Host,
		from: cfg.From,
		auth: auth,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", m.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// unblock any pending read or write once ctx ends
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if err := m.deliver(conn, to, subject, body); err != nil {
		return fmt.Errorf("send email to %s: %w", to, contextCause(ctx, err))
	}
	return nil
}

// contextCause reports the context error when ctx ended or its deadline
// passed, since the connection deadline can trip a moment before ctx does.
func contextCause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return err
}

func (m *SMTPMailer) deliver(conn net.Conn, to, subject, body string) error {
	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}
	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(m.auth); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.from, to, mime.QEncoding.Encode("utf-8", subject), body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

type emailSender struct {
	cfg    EmailConfig
	mailer Mailer
	logger *zerolog.Logger
}

func (s *emailSender) Type() ChannelType { return ChannelEmail }

// Send mails every address concurrently and succeeds when at least one
// address accepted the message.
func (s *emailSender) Send(ctx context.Context, p Payload) bool {
	if s.mailer == nil {
		s.logger.Error().Msg("no mailer configured")
		return false
	}

	subject := headerSafe(fmt.Sprintf("[%s] %s: %s", p.Outcome, p.AlertName, p.EndpointName))
	body := emailBody(p)

	var (
		g         errgroup.Group
		delivered atomic.Int32
	)
	for _, addr := range s.cfg.Emails {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error().Interface("panic", r).Str("to", addr).Msg("mailer panicked")
				}
			}()
			if err := s.mailer.Send(ctx, addr, subject, body); err != nil {
				s.logger.Warn().Err(err).Str("to", addr).Msg("email delivery failed")
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return delivered.Load() > 0
}

var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// headerSafe folds line breaks so user-supplied names stay on one header line.
func headerSafe(s string) string {
	return headerBreaks.Replace(s)
}

func emailBody(p Payload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Alert: %s\n", p.AlertName)
	fmt.Fprintf(&b, "Condition: %s (threshold %s)\n", p.Condition, formatThreshold(p.Threshold))
	fmt.Fprintf(&b, "Endpoint: %s\n", p.EndpointName)
	fmt.Fprintf(&b, "URL: %s\n", p.EndpointURL)
	fmt.Fprintf(&b, "Status: %s\n", p.Outcome)
	if p.StatusCode != nil {
		fmt.Fprintf(&b, "Status code: %d\n", *p.StatusCode)
	}
	if p.ResponseTimeMs != nil {
		fmt.Fprintf(&b, "Response time: %dms\n", *p.ResponseTimeMs)
	}
	if p.ErrorMessage != "" {
		fmt.Fprintf(&b, "Error: %s\n", p.ErrorMessage)
	}
	fmt.Fprintf(&b, "Time: %s\n", p.Timestamp.UTC().Format("2006-01-02 15:04:05 MST"))
	return b.String()
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
