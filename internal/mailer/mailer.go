// Package mailer sends plain-text status notifications over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/config"
)

// Mailer delivers status-change notices. When no SMTP host is configured
// every send is a logged no-op so local setups work without a relay.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
	log  *zerolog.Logger
}

func New(cfg config.Config, log *zerolog.Logger) *Mailer {
	return &Mailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
		log:  log,
	}
}

// SendStatusChange mails the member about their application's new status.
func (m *Mailer) SendStatusChange(to, eventTitle, eventDate, newStatus string) error {
	if m.host == "" {
		m.log.Info().Str("to", to).Str("status", newStatus).Msg("smtp not configured, skipping mail")
		return nil
	}

	var subject, body string
	switch newStatus {
	case "confirmed":
		subject = "Your application is confirmed"
		body = fmt.Sprintf("Your application for %q on %s has been confirmed. The venue address is now visible on the event page.", eventTitle, eventDate)
	case "waitlist":
		subject = "You are on the waitlist"
		body = fmt.Sprintf("Your application for %q on %s is on the waitlist. We will let you know if a spot opens up.", eventTitle, eventDate)
	case "cancelled":
		subject = "Your application was cancelled"
		body = fmt.Sprintf("Your application for %q on %s has been cancelled.", eventTitle, eventDate)
	default:
		subject = "Your application was updated"
		body = fmt.Sprintf("Your application for %q on %s is now %s.", eventTitle, eventDate, newStatus)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, to, subject, body)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		m.log.Warn().Err(err).Str("to", to).Msg("send mail failed")
		return fmt.Errorf("send mail: %w", err)
	}
	m.log.Info().Str("to", to).Str("status", newStatus).Msg("status mail sent")
	return nil
}
