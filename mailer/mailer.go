// Package mailer sends transactional mail. Every send is fire-and-forget:
// a failed mail is logged and never blocks the operation that triggered it.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/sipwell/storefront-api/pkg/log"
)

const (
	KindWelcome      = "welcome"
	KindOrderPlaced  = "order_placed"
	KindOrderShipped = "order_shipped"
)

type Mailer interface {
	Send(kind, recipient string, data map[string]any) error
}

// SMTPMailer delivers through an SMTP relay via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// New returns an SMTP mailer, or nil when host is empty (sending disabled).
func New(host string, port int, user, pass, from string) *SMTPMailer {
	if host == "" {
		return nil
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

var subjects = map[string]string{
	KindWelcome:      "Welcome to SipWell",
	KindOrderPlaced:  "Your SipWell order {{.OrderNumber}} is in",
	KindOrderShipped: "Your SipWell order {{.OrderNumber}} is on its way",
}

var bodies = map[string]string{
	KindWelcome: `<h2>Welcome, {{.Name}}!</h2>
<p>Your SipWell account is ready. Fresh juice is one tap away.</p>`,
	KindOrderPlaced: `<h2>Thanks, {{.Name}}!</h2>
<p>We received order <b>{{.OrderNumber}}</b> totalling <b>{{.Total}}</b>.
Payment is collected on delivery.</p>`,
	KindOrderShipped: `<h2>On the way</h2>
<p>Order <b>{{.OrderNumber}}</b> left the store. Keep your phone handy.</p>`,
}

func (m *SMTPMailer) Send(kind, recipient string, data map[string]any) error {
	if m == nil {
		return nil
	}
	subjTmpl, ok := subjects[kind]
	if !ok {
		return fmt.Errorf("unknown mail kind %q", kind)
	}

	subject, err := render(subjTmpl, data)
	if err != nil {
		return err
	}
	body, err := render(bodies[kind], data)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

func render(tmpl string, data map[string]any) (string, error) {
	t, err := template.New("mail").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendAsync fires the mail on its own goroutine and only logs failures.
func SendAsync(m Mailer, kind, recipient string, data map[string]any) {
	if m == nil || recipient == "" {
		return
	}
	go func() {
		if err := m.Send(kind, recipient, data); err != nil {
			log.L.Warn("mail send failed",
				zap.String("kind", kind),
				zap.String("recipient", recipient),
				zap.Error(err))
		}
	}()
}
