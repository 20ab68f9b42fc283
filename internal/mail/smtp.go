package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"docintake/internal/shared/failure"
)

const defaultTimeout = 30 * time.Second

// ErrMissingCredentials is returned when no SMTP login is configured.
var ErrMissingCredentials = errors.New("smtp credentials not configured")

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig configures an SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	StartTLS bool
	Timeout  time.Duration
}

// SMTPSender opens a fresh SMTP session for every Send.
type SMTPSender struct {
	cfg       SMTPConfig
	tlsConfig *tls.Config
}

// NewSMTPSender constructs an SMTPSender.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &SMTPSender{
		cfg: cfg,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
	}
}

// From returns the envelope sender, which is the login user.
func (s *SMTPSender) From() string {
	return s.cfg.Username
}

// Send connects, optionally upgrades with STARTTLS, authenticates and
// delivers msg. Errors are returned as *failure.Failure.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return failure.New(failure.AuthFailure, ErrMissingCredentials)
	}
	if msg.From == "" {
		msg.From = s.cfg.Username
	}
	raw, err := Compose(msg)
	if err != nil {
		return failure.New(failure.Unknown, err)
	}
	if err := s.deliver(ctx, msg.From, msg.To, raw); err != nil {
		return classify(err)
	}
	return nil
}

func (s *SMTPSender) deliver(ctx context.Context, from, to string, raw []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := net.Dialer{Timeout: s.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	deadline := time.Now().Add(s.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("set deadline: %w", err)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer c.Close()

	if s.cfg.StartTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return fmt.Errorf("smtp server %s does not support STARTTLS", addr)
		}
		if err := c.StartTLS(s.tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	return c.Quit()
}

func classify(err error) *failure.Failure {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return failure.New(replyKind(protoErr.Code), err)
	}
	kind := failure.Classify(err)
	if kind == failure.Unknown && strings.Contains(err.Error(), "unencrypted connection") {
		kind = failure.AuthFailure
	}
	return failure.New(kind, err)
}

func replyKind(code int) failure.Kind {
	switch {
	case code == 530 || code == 534 || code == 535 || code == 538:
		return failure.AuthFailure
	case code >= 400 && code < 500:
		return failure.DependencyUnavailable
	default:
		return failure.Unknown
	}
}

var _ Sender = (*SMTPSender)(nil)
