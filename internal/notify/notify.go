// Package notify sends account emails (welcome, password changed).
// Bodies are written in markdown and rendered to HTML before sending.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Recipient is the minimal view of a user the templates need.
type Recipient struct {
	Name  string
	Email string
	Role  string
}

// Notifier is what the services call after account events.
type Notifier interface {
	Welcome(ctx context.Context, to Recipient) error
	PasswordChanged(ctx context.Context, to Recipient) error
}

// Raw HTML in the markdown is dropped (WithUnsafe is not set), so user
// supplied names cannot inject markup.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`# Welcome to the gym, {{.Name}}!

Your **{{.Role}}** account is ready. Sign in with **{{.Email}}** to get started.
`))

	passwordChangedTmpl = template.Must(template.New("password").Parse(`# Password changed

Hi {{.Name}}, the password for **{{.Email}}** was just reset.
If this wasn't you, contact the front desk right away.
`))
)

// Mailer renders the account templates and hands them to a Sender.
type Mailer struct {
	sender  Sender
	gymName string
}

// NewMailer creates a Notifier on top of sender.
func NewMailer(sender Sender, gymName string) *Mailer {
	if gymName == "" {
		gymName = "Gym"
	}
	return &Mailer{sender: sender, gymName: gymName}
}

func (m *Mailer) Welcome(ctx context.Context, to Recipient) error {
	return m.send(ctx, to, fmt.Sprintf("Welcome to %s", m.gymName), welcomeTmpl)
}

func (m *Mailer) PasswordChanged(ctx context.Context, to Recipient) error {
	return m.send(ctx, to, fmt.Sprintf("%s: your password was changed", m.gymName), passwordChangedTmpl)
}

func (m *Mailer) send(ctx context.Context, to Recipient, subject string, tmpl *template.Template) error {
	html, err := render(tmpl, to)
	if err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return m.sender.Send(ctx, to.Email, subject, html)
}

func render(tmpl *template.Template, data Recipient) (string, error) {
	var md bytes.Buffer
	if err := tmpl.Execute(&md, data); err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := mdRenderer.Convert(md.Bytes(), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}
