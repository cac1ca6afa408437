package mailer

import (
	"fmt"
	"log/slog"

	"leadchat/app/config"

	"github.com/samber/do"
	"gopkg.in/gomail.v2"
)

// Client delivers rendered lead reports over SMTP.
type Client struct {
	cfg    config.Mail
	dialer *gomail.Dialer
}

func New(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di).Mail

	return &Client{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

func (c *Client) Send(subject, htmlBody string) error {
	if c.cfg.Disabled {
		slog.Info("Mail delivery disabled, report dropped", "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.cfg.From)
	m.SetHeader("To", c.cfg.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
