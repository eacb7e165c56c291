package email

import (
	"context"

	"lucentphoto.com/app/internal/mailer"
)

// MailerAdapter exposes an internal/mailer transport as an email.Sender.
type MailerAdapter struct {
	mailer   mailer.Service
	fromAddr string
	fromName string
}

func NewMailerAdapter(m mailer.Service, fromAddr, fromName string) *MailerAdapter {
	return &MailerAdapter{mailer: m, fromAddr: fromAddr, fromName: fromName}
}

func (a *MailerAdapter) SendEmail(to string, toName string, subject string, htmlBody string, textBody string) error {
	_ = toName
	return a.mailer.Send(context.Background(), mailer.Email{
		From:     a.fromAddr,
		FromName: a.fromName,
		To:       []string{to},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	})
}
