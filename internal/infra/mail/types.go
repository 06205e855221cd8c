package mail

import (
	"fmt"
	"strings"
)

type MailType string

const (
	OnboardingNotification MailType = "OnboardingNotification"
)

type MailData interface {
	GetMailType() MailType
	GetSubject() string
}

type NotificationData struct {
	Namespace   string
	Title       string
	Description string
	Type        string
}

func (n NotificationData) GetMailType() MailType {
	return OnboardingNotification
}

func (n NotificationData) GetSubject() string {
	return fmt.Sprintf("[onboarding/%s] %s", n.Type, n.Title)
}

func (n NotificationData) Body() string {
	var b strings.Builder
	b.WriteString(n.Description)
	b.WriteString("\n\nSession: ")
	b.WriteString(n.Namespace)
	b.WriteString("\n")
	return b.String()
}
