// Package sms sends text messages through Africa's Talking or, when no
// credentials are configured, writes them to the log.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindapp/marketplace/internal/core/ports"
)

const (
	DefaultBaseURL = "https://api.africastalking.com"
	messagingPath  = "/version1/messaging"

	// Per-recipient status codes returned by the messaging API.
	statusProcessed = 100
	statusSent      = 101
	statusQueued    = 102
)

// Config holds the credentials for the Africa's Talking messaging API.
type Config struct {
	Username string
	APIKey   string
	SenderID string
	BaseURL  string
	Timeout  time.Duration
}

// AfricasTalking is a ports.SMSGateway backed by the Africa's Talking REST API.
type AfricasTalking struct {
	cfg        Config
	httpClient *http.Client
}

// DeliveryError reports recipients the provider refused.
type DeliveryError struct {
	StatusCode int
	Failed     map[string]string
}

func (e *DeliveryError) Error() string {
	if len(e.Failed) == 0 {
		return fmt.Sprintf("sms delivery failed: http %d", e.StatusCode)
	}
	parts := make([]string, 0, len(e.Failed))
	for number, status := range e.Failed {
		parts = append(parts, number+": "+status)
	}
	return "sms delivery failed: " + strings.Join(parts, ", ")
}

type sendResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

func NewAfricasTalking(cfg Config) *AfricasTalking {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &AfricasTalking{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

var _ ports.SMSGateway = (*AfricasTalking)(nil)

// Send posts one message to every number in to.
func (g *AfricasTalking) Send(ctx context.Context, to []string, message string) error {
	if len(to) == 0 {
		return nil
	}

	form := url.Values{}
	form.Set("username", g.cfg.Username)
	form.Set("to", strings.Join(to, ","))
	form.Set("message", message)
	if g.cfg.SenderID != "" {
		form.Set("from", g.cfg.SenderID)
	}

	endpoint := strings.TrimRight(g.cfg.BaseURL, "/") + messagingPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", g.cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read sms response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DeliveryError{StatusCode: resp.StatusCode, Failed: map[string]string{"*": strings.TrimSpace(string(body))}}
	}

	var out sendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}

	failed := map[string]string{}
	for _, r := range out.SMSMessageData.Recipients {
		switch r.StatusCode {
		case statusProcessed, statusSent, statusQueued:
		default:
			failed[r.Number] = r.Status
		}
	}
	if len(failed) > 0 {
		return &DeliveryError{StatusCode: resp.StatusCode, Failed: failed}
	}
	return nil
}

// LogGateway writes messages to the logger instead of sending them.
type LogGateway struct {
	log zerolog.Logger
}

func NewLogGateway(log zerolog.Logger) *LogGateway {
	return &LogGateway{log: log}
}

func (g *LogGateway) Send(_ context.Context, to []string, message string) error {
	g.log.Info().Strs("to", to).Str("message", message).Msg("sms (not sent, gateway disabled)")
	return nil
}

// New picks the real gateway when an API key is present.
func New(cfg Config, log zerolog.Logger) ports.SMSGateway {
	if cfg.APIKey == "" {
		log.Warn().Msg("SMS_API_KEY not set, SMS notifications will only be logged")
		return NewLogGateway(log)
	}
	return NewAfricasTalking(cfg)
}
