package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendDocumentShared(toEmail, documentTitle, documentURL string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

// NewEmailService dials SMTP as the account address; the display name only
// decorates the From header.
func NewEmailService(host string, port int, email, password, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, email, password)

	return &emailService{
		dialer:      d,
		senderEmail: email,
		senderName:  senderName,
	}
}

func (s *emailService) SendDocumentShared(toEmail, documentTitle, documentURL string) error {
	m := s.buildShareMessage(toEmail, documentTitle, documentURL)
	if err := s.dialer.DialAndSend(m); err != nil {
		return err
	}
	return nil
}

func (s *emailService) buildShareMessage(toEmail, documentTitle, documentURL string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("A document was shared with you: %s", documentTitle))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Docolab</h2>
			<p>A document has been shared with you:</p>
			<h3>%s</h3>
			<p><a href="%s" style="color: #1E3A8A;">Open the document</a></p>
			<p>If you weren't expecting this, you can ignore this email.</p>
		</div>
	`, documentTitle, documentURL)

	m.SetBody("text/html", body)
	return m
}
