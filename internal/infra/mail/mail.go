package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/events"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type MailServer struct {
	cfg  *MailConfig
	auth smtp.Auth
	send sendFunc
}

var _ interfaces.NotificationSink = (*MailServer)(nil)

func NewMailServer(cfg *MailConfig) *MailServer {
	return &MailServer{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost),
		send: smtp.SendMail,
	}
}

func (m *MailServer) SendMail(to []string, subject, body string) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort

	headers := map[string]string{
		"From":         m.cfg.Username,
		"To":           strings.Join(to, ","),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=\"utf-8\"",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msg strings.Builder
	for _, k := range keys {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, headers[k]))
	}

	msg.WriteString("\r\n" + body)
	err := m.send(addr, m.auth, m.cfg.Username, to, []byte(msg.String()))
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// Deliver mails a notification to the configured recipients.
func (m *MailServer) Deliver(_ context.Context, event events.NotificationRequested) error {
	data := NotificationData{
		Namespace:   event.Namespace,
		Title:       event.Title,
		Description: event.Description,
		Type:        string(event.Type),
	}
	return m.SendMail(m.cfg.To, data.GetSubject(), data.Body())
}
