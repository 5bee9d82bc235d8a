// Package notify sends booking confirmations to clients.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/outbox"
)

type Sender interface {
	Send(to string, subject string, body string) error
}

// SMTPSender sends email via unauthenticated SMTP (Mailpit-compatible).
type SMTPSender struct {
	addr string
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host string, port string, from string) *SMTPSender {
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@consultbook.local"
	}
	return &SMTPSender{
		addr: strings.TrimSpace(host) + ":" + strings.TrimSpace(port),
		from: from,
		send: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(to string, subject string, body string) error {
	return s.send(s.addr, nil, s.from, []string{to}, []byte(buildMessage(s.from, to, subject, body)))
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}

// Confirmation renders the message for a booked consultation. The client's own reading comes
// first; the business reading is included so both sides agree on the instant.
func Confirmation(evt outbox.ConsultationBooked, businessZone string) (subject string, body string) {
	subject = fmt.Sprintf("Consultation confirmed for %s at %s", evt.ClientDate, evt.ClientTime)
	name := strings.TrimSpace(evt.ClientName)
	if name == "" {
		name = "there"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", name)
	fmt.Fprintf(&b, "Your consultation is booked for %s at %s (%s).\r\n", evt.ClientDate, evt.ClientTime, evt.ClientZone)
	if evt.ClientZone != businessZone {
		fmt.Fprintf(&b, "That is %s at %s in %s.\r\n", evt.BusinessDate, evt.BusinessTime, businessZone)
	}
	fmt.Fprintf(&b, "\r\nReference: %s\r\n", evt.MeetingID)
	return subject, b.String()
}
