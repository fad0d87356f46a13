package service

import (
	"context"
	"fmt"
	"time"

	"courtyard/internal/api/config"

	"github.com/go-resty/resty/v2"
	log "log/slog"
)

// EmailService talks to the transactional mail provider over its HTTP API.
// Template ids come from configuration so copy changes never touch code.
type EmailService struct {
	client *resty.Client
}

func NewEmailService() *EmailService {
	return &EmailService{
		client: resty.New().SetTimeout(15 * time.Second),
	}
}

type emailPayload struct {
	From       string                 `json:"from"`
	To         string                 `json:"to"`
	TemplateID string                 `json:"template_id"`
	Data       map[string]interface{} `json:"data"`
}

func (s *EmailService) send(ctx context.Context, to, template string, data map[string]interface{}) error {
	cfg := config.Cfg.Email
	templateID, ok := cfg.Templates[template]
	if !ok {
		return fmt.Errorf("no template configured for %q", template)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(cfg.ApiKey).
		SetBody(&emailPayload{
			From:       cfg.FromEmail,
			To:         to,
			TemplateID: templateID,
			Data:       data,
		}).
		Post(cfg.URL)
	if err != nil {
		return ErrEmailSendFailed
	}
	if resp.IsError() {
		log.ErrorContext(ctx, "email provider rejected send", "template", template, "status", resp.StatusCode())
		return ErrEmailSendFailed
	}
	return nil
}

// SendVerificationEmail delivers the signed verification link.
func (s *EmailService) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	return s.send(ctx, to, "verify_email", map[string]interface{}{
		"name":  name,
		"token": token,
	})
}

// SendPasswordChangedEmail notifies the account that its password rotated.
func (s *EmailService) SendPasswordChangedEmail(ctx context.Context, to, name string) error {
	return s.send(ctx, to, "password_changed", map[string]interface{}{
		"name": name,
	})
}
