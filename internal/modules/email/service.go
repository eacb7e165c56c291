package email

import (
	"fmt"
	"html"
	"strings"
)

type Sender interface {
	SendEmail(to string, toName string, subject string, htmlBody string, textBody string) error
}

// ConfirmationLine is one order line rendered into the confirmation email.
type ConfirmationLine struct {
	ProductName string
	Quantity    int
	Size        string
	EventName   string
	StudentName string
	LineTotal   string // two-decimal amount
}

func (l ConfirmationLine) detail() string {
	var parts []string
	if l.Size != "" {
		parts = append(parts, "Size "+l.Size)
	}
	if l.EventName != "" {
		parts = append(parts, l.EventName)
	}
	if l.StudentName != "" {
		parts = append(parts, "for "+l.StudentName)
	}
	return strings.Join(parts, ", ")
}

// SendOrderConfirmation sends the one confirmation email a customer receives
// for a paid checkout session, covering every line item.
func SendOrderConfirmation(svc Sender, customerEmail, customerName, sessionID string, lines []ConfirmationLine, total string) error {
	subject := "Order Confirmation - Lucent Photo"

	var text strings.Builder
	text.WriteString("Hi " + customerName + ",\n\nThanks for your order! Here is what we received:\n\n")
	var htmlRows strings.Builder
	for _, l := range lines {
		detail := l.detail()
		text.WriteString(fmt.Sprintf("  - %s x%d", l.ProductName, l.Quantity))
		if detail != "" {
			text.WriteString(" (" + detail + ")")
		}
		text.WriteString("  $" + l.LineTotal + "\n")

		htmlRows.WriteString(`<tr><td>` + html.EscapeString(l.ProductName))
		if detail != "" {
			htmlRows.WriteString(` <em>(` + html.EscapeString(detail) + `)</em>`)
		}
		htmlRows.WriteString(fmt.Sprintf(`</td><td>x%d</td><td>$%s</td></tr>`, l.Quantity, html.EscapeString(l.LineTotal)))
	}
	ref := orderReference(sessionID)
	text.WriteString("\nTotal: $" + total + "\nOrder reference: " + ref + "\n\nWe'll be in touch when everything is ready.\n\nLucent Photo\n")

	htmlBody := `
<html>
  <body style="font-family: sans-serif;">
    <h2>Order Confirmation</h2>
    <p>Hi ` + html.EscapeString(customerName) + `,</p>
    <p>Thanks for your order! Here is what we received:</p>
    <table cellpadding="6">
      ` + htmlRows.String() + `
    </table>
    <p><strong>Total:</strong> $` + html.EscapeString(total) + `</p>
    <p><strong>Order reference:</strong> ` + html.EscapeString(ref) + `</p>
    <p>We'll be in touch when everything is ready.</p>
    <p>Lucent Photo</p>
  </body>
</html>
`

	return svc.SendEmail(customerEmail, customerName, subject, htmlBody, text.String())
}

func orderReference(sessionID string) string {
	if n := len(sessionID); n > 8 {
		return strings.ToUpper(sessionID[n-8:])
	}
	return strings.ToUpper(sessionID)
}

// SendContactMessage forwards a contact-form submission to the studio inbox.
func SendContactMessage(svc Sender, studioEmail, fromName, fromEmail, message string) error {
	subject := "Website contact from " + fromName

	textBody := "From: " + fromName + " <" + fromEmail + ">\n\n" + message + "\n"
	htmlBody := `
<html>
  <body style="font-family: sans-serif;">
    <h2>Website Contact</h2>
    <p><strong>From:</strong> ` + html.EscapeString(fromName) + ` &lt;` + html.EscapeString(fromEmail) + `&gt;</p>
    <p>` + html.EscapeString(message) + `</p>
  </body>
</html>
`
	return svc.SendEmail(studioEmail, "", subject, htmlBody, textBody)
}
