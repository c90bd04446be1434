package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearth/internal/config"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) SendWithContext(_ context.Context, p *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, p)
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func TestRender(t *testing.T) {
	html, err := Render(TemplatePendingApproval, map[string]string{
		"ChildName":     "Mia",
		"RecipientName": "<Leo>",
		"BaseURL":       "https://hearth.example",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Mia sent a message")
	assert.Contains(t, html, "&lt;Leo&gt;")
	assert.Contains(t, html, "https://hearth.example/approvals")

	_, err = Render("missing", nil)
	assert.Error(t, err)
}

func TestClientSends(t *testing.T) {
	fs := &fakeSender{}
	c := &Client{emails: fs, from: "Hearth <no-reply@hearth.example>", baseURL: "https://hearth.example", log: zerolog.Nop()}

	require.NoError(t, c.FriendRequest(context.Background(), "parent@example.com", "Mia", "Leo"))
	require.Len(t, fs.sent, 1)
	assert.Equal(t, []string{"parent@example.com"}, fs.sent[0].To)
	assert.Equal(t, "Hearth <no-reply@hearth.example>", fs.sent[0].From)
	assert.Equal(t, "Mia has a new friend request", fs.sent[0].Subject)
	assert.Contains(t, fs.sent[0].Html, "Leo would like to be friends with Mia")
}

func TestClientSendError(t *testing.T) {
	fs := &fakeSender{err: errors.New("rate limited")}
	c := &Client{emails: fs, log: zerolog.Nop()}

	err := c.Welcome(context.Background(), "a@example.com", "Ana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestNewDisabledIsNop(t *testing.T) {
	var buf bytes.Buffer
	n := New(config.EmailConfig{Enabled: false}, zerolog.New(&buf))
	assert.IsType(t, Nop{}, n)
	assert.NoError(t, n.Welcome(context.Background(), "a@example.com", "Ana"))
	assert.Contains(t, buf.String(), "email_disabled")
}

func TestNewEnabled(t *testing.T) {
	n := New(config.EmailConfig{Enabled: true, APIKey: "re_test", From: "x@example.com"}, zerolog.Nop())
	assert.IsType(t, &Client{}, n)
}
