package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// httpDoer is the minimal interface needed from an HTTP client.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// MailConfig configures the HTTP mail notifier.
type MailConfig struct {
	BaseURL    string
	APIKey     string
	From       string
	Timeout    time.Duration
	HTTPClient httpDoer
}

// MailNotifier sends emails through a transactional mail HTTP API.
type MailNotifier struct {
	baseURL string
	apiKey  string
	from    string
	client  httpDoer
}

// NewMailNotifier creates a notifier over the configured mail API.
func NewMailNotifier(cfg MailConfig) *MailNotifier {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &MailNotifier{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		client:  client,
	}
}

type mailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// SendCaseReady emails the reviewer after screening completes.
func (n *MailNotifier) SendCaseReady(ctx context.Context, notice CaseNotice) error {
	mail, err := renderCaseReady(notice)
	if err != nil {
		return err
	}
	return n.send(ctx, notice.AdminEmail, mail)
}

// SendDecision emails the client after a decision is recorded, with a copy
// to the admin recipient when one is set.
func (n *MailNotifier) SendDecision(ctx context.Context, notice DecisionNotice) error {
	mail, err := renderDecision(notice)
	if err != nil {
		return err
	}
	if err := n.send(ctx, notice.ClientEmail, mail); err != nil {
		return err
	}
	if notice.AdminEmail == "" {
		return nil
	}
	adminMail := renderedMail{
		Subject: fmt.Sprintf("[case %s] %s", notice.CaseID, mail.Subject),
		Body:    mail.Body,
	}
	return n.send(ctx, notice.AdminEmail, adminMail)
}

func (n *MailNotifier) send(ctx context.Context, to string, mail renderedMail) error {
	payload, err := json.Marshal(mailMessage{
		From:    n.from,
		To:      to,
		Subject: mail.Subject,
		Text:    mail.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned %d", resp.StatusCode)
	}
	return nil
}

var _ Notifier = (*MailNotifier)(nil)
