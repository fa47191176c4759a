// Package notify delivers operational messages to the pipeline's developers
// and subscribers.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cesargomez89/ingestq/internal/constants"
	"github.com/cesargomez89/ingestq/internal/httpclient"
	"github.com/cesargomez89/ingestq/internal/logger"
)

// Notifier sends a subject and HTML body to one of two audiences.
type Notifier interface {
	NotifyDevelopers(ctx context.Context, subject, body string) error
	NotifySubscribers(ctx context.Context, subject, body string) error
}

// EmailConfig describes the mail API and its audiences.
type EmailConfig struct {
	URL         string
	APIKey      string
	From        string
	AppName     string
	Developers  []string
	Subscribers []string
}

// EmailNotifier posts messages to the HTTP mail API.
type EmailNotifier struct {
	client *httpclient.Client
	logger *logger.Logger
	cfg    EmailConfig
}

func NewEmailNotifier(cfg EmailConfig, client *httpclient.Client, log *logger.Logger) *EmailNotifier {
	if client == nil {
		client = httpclient.NewClient(nil, 0)
	}
	return &EmailNotifier{
		client: client,
		logger: log.WithComponent("notify"),
		cfg:    cfg,
	}
}

type emailRequest struct {
	UserEmail        string   `json:"userEmail"`
	AppName          string   `json:"appName"`
	AppPage          string   `json:"appPage"`
	Type             string   `json:"type"`
	ToEmailAddress   []string `json:"toEmailAddress"`
	EmailHTMLBody    string   `json:"emailHTMLBody"`
	EmailSubject     string   `json:"emailSubject"`
	FromEmailAddress string   `json:"fromEmailAddress"`
}

func (n *EmailNotifier) NotifyDevelopers(ctx context.Context, subject, body string) error {
	return n.send(ctx, subject, body, n.cfg.Developers)
}

func (n *EmailNotifier) NotifySubscribers(ctx context.Context, subject, body string) error {
	return n.send(ctx, subject, body, n.cfg.Subscribers)
}

func (n *EmailNotifier) send(ctx context.Context, subject, body string, to []string) error {
	if len(to) == 0 {
		n.logger.Debug("No recipients, skipping email", "subject", subject)
		return nil
	}

	payload, err := json.Marshal(emailRequest{
		UserEmail:        n.cfg.From,
		AppName:          n.cfg.AppName,
		AppPage:          constants.EmailAppPage,
		Type:             constants.EmailType,
		ToEmailAddress:   to,
		EmailHTMLBody:    body,
		EmailSubject:     subject,
		FromEmailAddress: n.cfg.From,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", n.cfg.APIKey)

	resp, err := n.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // deferred cleanup

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email api returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	n.logger.Info("Notification sent", "subject", subject, "recipients", len(to))
	return nil
}

// LogNotifier writes notifications to the log. It is used when no mail API is configured.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log.WithComponent("notify")}
}

func (n *LogNotifier) NotifyDevelopers(_ context.Context, subject, body string) error {
	n.logger.Warn("Developer notification", "subject", subject, "body", body)
	return nil
}

func (n *LogNotifier) NotifySubscribers(_ context.Context, subject, body string) error {
	n.logger.Info("Subscriber notification", "subject", subject, "body", body)
	return nil
}
