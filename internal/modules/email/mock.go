package email

import "sync"

type SentEmail struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

// MockSender records sends; set Err to simulate a failing email provider.
type MockSender struct {
	mu   sync.Mutex
	Sent []SentEmail
	Err  error
}

func (m *MockSender) SendEmail(to, toName, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentEmail{To: to, ToName: toName, Subject: subject, HTMLBody: htmlBody, TextBody: textBody})
	return nil
}

func (m *MockSender) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
