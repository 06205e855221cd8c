package mail

import (
	"os"
	"strings"
)

type MailConfig struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	To       []string
}

func NewMailConfig() *MailConfig {
	return &MailConfig{
		SMTPHost: os.Getenv("MAIL_HOST"),
		SMTPPort: os.Getenv("MAIL_PORT"),
		Username: os.Getenv("MAIL_USERNAME"),
		Password: os.Getenv("MAIL_PASSWORD"),
		To:       splitRecipients(os.Getenv("MAIL_TO")),
	}
}

// Enabled reports whether notifications should be mailed at all.
func (c *MailConfig) Enabled() bool {
	return c.SMTPHost != "" && len(c.To) > 0
}

func splitRecipients(raw string) []string {
	var to []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	return to
}
