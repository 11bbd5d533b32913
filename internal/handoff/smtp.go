package handoff

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// NotConfiguredMessage is returned to the workflow when email delivery is
// requested without SMTP settings; the summary still comes back so the
// workflow can use it another way.
const NotConfiguredMessage = "SMTP not configured (set SMTP_HOST, SMTP_USER, SMTP_PASSWORD). Summary returned for use in workflow."

var errNotConfigured = errors.New("handoff: smtp not configured")

const dialTimeout = 15 * time.Second

// SMTPConfig holds delivery settings. Host, User and Password together
// enable delivery; everything else has workable defaults.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	UseTLS   bool
}

// SMTPSender delivers handoff emails over SMTP with plain auth.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPSender{cfg: cfg}
}

// Configured reports whether delivery can be attempted at all.
func (s *SMTPSender) Configured() bool {
	return s.cfg.Host != "" && s.cfg.User != "" && s.cfg.Password != ""
}

// Send delivers one plain-text message. Callers should check Configured
// first; an unconfigured sender refuses rather than dialing nowhere.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if !s.Configured() {
		return errNotConfigured
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("handoff: smtp from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("handoff: smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	tlsPolicy := gomail.NoTLS
	if s.cfg.UseTLS {
		tlsPolicy = gomail.TLSMandatory
	}
	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.User),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(tlsPolicy),
		gomail.WithTimeout(dialTimeout),
	)
	if err != nil {
		return fmt.Errorf("handoff: smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("handoff: smtp send: %w", err)
	}
	return nil
}
