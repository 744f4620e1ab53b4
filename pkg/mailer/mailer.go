package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/anonto42/connectin/backend/pkg/logger"
	"github.com/wneessen/go-mail"
)

// Kinds of email the application sends.
const (
	KindComment = "comment"
	KindWelcome = "welcome"
)

// Payload carries the template data for one email.
type Payload struct {
	Kind          string
	RecipientName string
	ActorName     string
	PostURL       string
	Content       string
	ProfileURL    string
}

// SMTPMailer delivers emails through an SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer builds a mailer for host:port using PLAIN auth when a
// username is given.
func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

// NotifyByEmail renders the payload and sends it to a single address.
func (m *SMTPMailer) NotifyByEmail(ctx context.Context, to string, payload Payload) error {
	subject, body, err := Render(payload)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s email: %w", payload.Kind, err)
	}
	return nil
}

// LogMailer is used when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) NotifyByEmail(_ context.Context, to string, payload Payload) error {
	logger.Info("email delivery disabled, dropping message", "to", to, "kind", payload.Kind)
	return nil
}

var templates = map[string]struct {
	subject string
	body    *template.Template
}{
	KindComment: {
		subject: "New comment on your post",
		body: template.Must(template.New(KindComment).Parse(`<p>Hi {{.RecipientName}},</p>
<p><strong>{{.ActorName}}</strong> commented on your post:</p>
<blockquote>{{.Content}}</blockquote>
<p><a href="{{.PostURL}}">View the post</a></p>`)),
	},
	KindWelcome: {
		subject: "Welcome to ConnectIn",
		body: template.Must(template.New(KindWelcome).Parse(`<p>Welcome to ConnectIn, {{.RecipientName}}!</p>
<p>Complete your profile to start connecting:</p>
<p><a href="{{.ProfileURL}}">Go to your profile</a></p>`)),
	},
}

// Render returns the subject and HTML body for a payload.
func Render(payload Payload) (string, string, error) {
	tpl, ok := templates[payload.Kind]
	if !ok {
		return "", "", fmt.Errorf("unknown email kind %q", payload.Kind)
	}
	var buf bytes.Buffer
	if err := tpl.body.Execute(&buf, payload); err != nil {
		return "", "", fmt.Errorf("failed to render %s email: %w", payload.Kind, err)
	}
	return tpl.subject, buf.String(), nil
}
