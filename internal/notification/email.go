package notification

import (
	"fmt"
	"net/smtp"
)

// EmailSender delivers notifications over plain SMTP.
type EmailSender struct {
	host     string
	port     string
	user     string
	password string
	from     string
	users    Directory
}

func NewEmailSender(host, port, user, password, from string, users Directory) *EmailSender {
	return &EmailSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		users:    users,
	}
}

func (s *EmailSender) Send(msg Message) error {
	if s.host == "" || s.port == "" || s.user == "" || s.password == "" {
		return fmt.Errorf("SMTP credentials not fully configured")
	}

	recipient, err := s.users.GetByID(msg.ClientID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient %d: %w", msg.ClientID, err)
	}

	auth := smtp.PlainAuth("", s.user, s.password, s.host)

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient.Email, msg.Subject, msg.Body))

	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{recipient.Email}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
