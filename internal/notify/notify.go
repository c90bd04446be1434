// Package notify sends transactional email to parents and identities.
//
// Bodies are rendered from embedded HTML templates and delivered through
// Resend. When email is disabled a Nop notifier is used instead.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hearth/internal/config"
)

// Template names an embedded email template.
type Template string

const (
	TemplateWelcome         Template = "welcome"
	TemplatePendingApproval Template = "pending_approval"
	TemplateFriendRequest   Template = "friend_request"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Notifier is what the services call; failures are logged by callers, never fatal.
type Notifier interface {
	Welcome(ctx context.Context, to, name string) error
	PendingApproval(ctx context.Context, to, childName, recipientName string) error
	FriendRequest(ctx context.Context, to, childName, requesterName string) error
}

// sender is the subset of the Resend client used here.
type sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client delivers email through Resend.
type Client struct {
	emails  sender
	from    string
	baseURL string
	log     zerolog.Logger
}

// New builds a Resend-backed Client, or a Nop notifier when email is disabled.
func New(cfg config.EmailConfig, log zerolog.Logger) Notifier {
	log = log.With().Str("component", "notify").Logger()
	if !cfg.Enabled {
		log.Info().Str("event", "email_disabled").Msg("email delivery disabled")
		return Nop{}
	}
	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	rc := resend.NewCustomClient(httpClient, cfg.APIKey)
	return &Client{emails: rc.Emails, from: cfg.From, baseURL: cfg.BaseURL, log: log}
}

func (c *Client) Welcome(ctx context.Context, to, name string) error {
	return c.send(ctx, to, "Welcome to Hearth", TemplateWelcome, map[string]string{
		"Name": name,
	})
}

func (c *Client) PendingApproval(ctx context.Context, to, childName, recipientName string) error {
	return c.send(ctx, to, childName+" has a message waiting for approval", TemplatePendingApproval, map[string]string{
		"ChildName":     childName,
		"RecipientName": recipientName,
	})
}

func (c *Client) FriendRequest(ctx context.Context, to, childName, requesterName string) error {
	return c.send(ctx, to, childName+" has a new friend request", TemplateFriendRequest, map[string]string{
		"ChildName":     childName,
		"RequesterName": requesterName,
	})
}

func (c *Client) send(ctx context.Context, to, subject string, name Template, data map[string]string) error {
	data["BaseURL"] = c.baseURL
	html, err := Render(name, data)
	if err != nil {
		return err
	}
	resp, err := c.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("send %s email: %w", name, err)
	}
	c.log.Debug().Str("event", "email_sent").Str("template", string(name)).Str("email_id", resp.Id).Msg("email sent")
	return nil
}

// Render executes an embedded template with data.
func Render(name Template, data map[string]string) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return body.String(), nil
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Welcome(context.Context, string, string) error                 { return nil }
func (Nop) PendingApproval(context.Context, string, string, string) error { return nil }
func (Nop) FriendRequest(context.Context, string, string, string) error   { return nil }
