package handoff

import (
	"context"
	"errors"
	"testing"
)

func TestNewSMTPSender_Defaults(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", User: "agent@example.com", Password: "pw"})
	if s.cfg.Port != 587 {
		t.Fatalf("port = %d, want 587", s.cfg.Port)
	}
	if s.cfg.From != "agent@example.com" {
		t.Fatalf("from should default to user, got %q", s.cfg.From)
	}

	s = NewSMTPSender(SMTPConfig{Port: 2525, From: "noreply@example.com"})
	if s.cfg.Port != 2525 || s.cfg.From != "noreply@example.com" {
		t.Fatalf("explicit values overridden: %+v", s.cfg)
	}
}

func TestSMTPSender_Configured(t *testing.T) {
	cases := []struct {
		name string
		cfg  SMTPConfig
		want bool
	}{
		{"all set", SMTPConfig{Host: "h", User: "u", Password: "p"}, true},
		{"missing host", SMTPConfig{User: "u", Password: "p"}, false},
		{"missing user", SMTPConfig{Host: "h", Password: "p"}, false},
		{"missing password", SMTPConfig{Host: "h", User: "u"}, false},
		{"empty", SMTPConfig{}, false},
	}
	for _, tc := range cases {
		if got := NewSMTPSender(tc.cfg).Configured(); got != tc.want {
			t.Fatalf("%s: Configured() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSMTPSender_SendRefusesUnconfigured(t *testing.T) {
	err := NewSMTPSender(SMTPConfig{}).Send(context.Background(), "ops@example.com", "subj", "body")
	if !errors.Is(err, errNotConfigured) {
		t.Fatalf("err = %v, want errNotConfigured", err)
	}
}
