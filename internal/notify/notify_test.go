package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, html string
}

type recordingSender struct {
	sent []sentMail
	err  error
}

func (r *recordingSender) Send(_ context.Context, to, subject, html string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMail{to, subject, html})
	return nil
}

func TestMailer(t *testing.T) {
	recipient := Recipient{Name: "Ann", Email: "ann@example.com", Role: "member"}

	tests := []struct {
		name        string
		send        func(*Mailer) error
		wantSubject string
		wantHTML    []string
	}{
		{
			name:        "welcome",
			send:        func(m *Mailer) error { return m.Welcome(context.Background(), recipient) },
			wantSubject: "Welcome to Iron Gym",
			wantHTML:    []string{"<h1>Welcome to the gym, Ann!</h1>", "<strong>member</strong>"},
		},
		{
			name:        "password changed",
			send:        func(m *Mailer) error { return m.PasswordChanged(context.Background(), recipient) },
			wantSubject: "Iron Gym: your password was changed",
			wantHTML:    []string{"<h1>Password changed</h1>", "<strong>ann@example.com</strong>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			require.NoError(t, tt.send(NewMailer(sender, "Iron Gym")))
			require.Len(t, sender.sent, 1)

			mail := sender.sent[0]
			assert.Equal(t, "ann@example.com", mail.to)
			assert.Equal(t, tt.wantSubject, mail.subject)
			for _, fragment := range tt.wantHTML {
				assert.Contains(t, mail.html, fragment)
			}
		})
	}
}

func TestMailer_DropsRawHTMLInNames(t *testing.T) {
	sender := &recordingSender{}
	m := NewMailer(sender, "")
	err := m.Welcome(context.Background(), Recipient{Name: "<script>x</script>", Email: "a@b.c", Role: "member"})
	require.NoError(t, err)
	assert.NotContains(t, sender.sent[0].html, "<script>")
}

func TestMailer_PropagatesSenderError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMailer(&recordingSender{err: boom}, "")
	assert.ErrorIs(t, m.Welcome(context.Background(), Recipient{Email: "a@b.c"}), boom)
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, s.Send(context.Background(), "a@b.c", "Hello", "<p>hi</p>"))
	assert.Contains(t, buf.String(), "email_logged")
	assert.Contains(t, buf.String(), "subject=Hello")
}
