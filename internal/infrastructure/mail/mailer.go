// Package mail renders notification templates and delivers them over SMTP.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"github.com/knadh/smtppool"

	"github.com/pokebattle/battle-api/internal/core/ports"
)

// Config represents an SMTP server's credentials.
type Config struct {
	Host          string
	Port          int
	AuthProtocol  string
	Username      string
	Password      string
	FromEmail     string
	Timeout       time.Duration
	MaxConns      int
	TLSType       string // STARTTLS, TLS or none
	TLSSkipVerify bool
	ResetURL      string
}

// sender is the part of smtppool.Pool the mailer uses.
type sender interface {
	Send(e smtppool.Email) error
}

// Mailer implements ports.Notifier on top of an SMTP connection pool.
type Mailer struct {
	cfg  Config
	pool sender
}

// New creates a Mailer with its own SMTP connection pool.
func New(cfg Config) (*Mailer, error) {
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.Username
	}

	var auth smtp.Auth
	switch cfg.AuthProtocol {
	case "login":
		auth = &smtppool.LoginAuth{Username: cfg.Username, Password: cfg.Password}
	case "cram":
		auth = smtp.CRAMMD5Auth(cfg.Username, cfg.Password)
	case "plain":
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	case "", "none":
	default:
		return nil, fmt.Errorf("unknown SMTP auth type '%s'", cfg.AuthProtocol)
	}

	opt := smtppool.Opt{
		Host:            cfg.Host,
		Port:            cfg.Port,
		MaxConns:        cfg.MaxConns,
		IdleTimeout:     time.Second * 10,
		PoolWaitTimeout: cfg.Timeout,
		Auth:            auth,
	}

	if cfg.TLSType != "none" {
		opt.TLSConfig = &tls.Config{}
		if cfg.TLSSkipVerify {
			opt.TLSConfig.InsecureSkipVerify = true
		} else {
			opt.TLSConfig.ServerName = cfg.Host
		}
		if cfg.TLSType == "TLS" {
			opt.SSL = true
		}
	}

	pool, err := smtppool.New(opt)
	if err != nil {
		return nil, err
	}
	return newMailer(cfg, pool), nil
}

func newMailer(cfg Config, pool sender) *Mailer {
	return &Mailer{cfg: cfg, pool: pool}
}

// Send renders the template for n.Kind and pushes it to the SMTP server.
func (m *Mailer) Send(ctx context.Context, n ports.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tpl, ok := templates[n.Kind]
	if !ok {
		return fmt.Errorf("mail: no template for %q", n.Kind)
	}

	var body bytes.Buffer
	if err := tpl.body.Execute(&body, m.data(n)); err != nil {
		return fmt.Errorf("mail: render %s: %w", n.Kind, err)
	}

	return m.pool.Send(smtppool.Email{
		From:    m.cfg.FromEmail,
		To:      []string{n.To},
		Subject: tpl.subject,
		HTML:    body.Bytes(),
	})
}

// Close releases pooled SMTP connections.
func (m *Mailer) Close() {
	if p, ok := m.pool.(*smtppool.Pool); ok {
		p.Close()
	}
}

type templateData struct {
	OTP      string
	ResetURL string
	Token    string
	WinnerID int
	LoserID  int
	Rounds   int
}

func (m *Mailer) data(n ports.Notification) templateData {
	d := templateData{OTP: n.OTP, Token: n.Token}
	if n.Kind == ports.NotifyResetPassword {
		d.ResetURL = m.cfg.ResetURL + "?token=" + n.Token
	}
	if n.Log != nil {
		d.WinnerID = n.Log.WinnerID
		d.LoserID = n.Log.LoserID
		d.Rounds = n.Log.TotalRounds
	}
	return d
}
