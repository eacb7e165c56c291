package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// MailtrapProvider sends through the Mailtrap HTTP API; used in environments
// without an SMTP relay.
type MailtrapProvider struct {
	apiURL   string
	apiKey   string
	fromAddr string
	fromName string
}

type mailtrapPayload struct {
	From    personInfo   `json:"from"`
	To      []personInfo `json:"to"`
	Subject string       `json:"subject"`
	Text    string       `json:"text,omitempty"`
	HTML    string       `json:"html,omitempty"`
}

type personInfo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func NewMailtrapProvider(fromAddr, fromName string) *MailtrapProvider {
	return &MailtrapProvider{
		apiURL:   os.Getenv("MAILTRAP_API_URL"),   // e.g. "https://sandbox.api.mailtrap.io/api/send/12345"
		apiKey:   os.Getenv("MAILTRAP_API_TOKEN"), // Bearer token
		fromAddr: fromAddr,
		fromName: fromName,
	}
}

func (m *MailtrapProvider) SendEmail(to string, toName string, subject string, htmlBody string, textBody string) error {
	if m.apiURL == "" || m.apiKey == "" {
		return fmt.Errorf("mailtrap credentials not configured")
	}

	payload := mailtrapPayload{
		From:    personInfo{Email: m.fromAddr, Name: m.fromName},
		To:      []personInfo{{Email: to, Name: toName}},
		Subject: subject,
		Text:    textBody,
		HTML:    htmlBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mailtrap send failed: status %d", resp.StatusCode)
	}
	return nil
}
