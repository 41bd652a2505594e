package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	Fast2SMSURL = "https://www.fast2sms.com/dev/bulkV2"
	TextBeltURL = "https://textbelt.com/text"
	TwilioURL   = "https://api.twilio.com/2010-04-01"
)

const smsTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: smsTimeout}
}

// Fast2SMS sends through the Fast2SMS bulk API (Indian numbers only).
type Fast2SMS struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewFast2SMS(apiKey, baseURL string) *Fast2SMS {
	if baseURL == "" {
		baseURL = Fast2SMSURL
	}
	return &Fast2SMS{apiKey: apiKey, baseURL: baseURL, client: newHTTPClient()}
}

func (s *Fast2SMS) Name() string {
	return "fast2sms"
}

func (s *Fast2SMS) Notify(ctx context.Context, msg Message) error {
	if msg.Phone == "" || s.apiKey == "" {
		return ErrNotApplicable
	}

	q := url.Values{}
	q.Set("authorization", s.apiKey)
	q.Set("message", msg.Text())
	q.Set("numbers", strings.TrimPrefix(msg.Phone, "+91"))
	q.Set("route", "q")
	q.Set("flash", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	var out struct {
		Return bool `json:"return"`
	}
	if err := doJSON(s.client, req, &out); err != nil {
		return fmt.Errorf("fast2sms: %w", err)
	}
	if !out.Return {
		return fmt.Errorf("fast2sms: rejected")
	}
	return nil
}

// TextBelt sends through textbelt.com. An empty key uses the free tier.
type TextBelt struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewTextBelt(apiKey, baseURL string) *TextBelt {
	if apiKey == "" {
		apiKey = "textbelt"
	}
	if baseURL == "" {
		baseURL = TextBeltURL
	}
	return &TextBelt{apiKey: apiKey, baseURL: baseURL, client: newHTTPClient()}
}

func (s *TextBelt) Name() string {
	return "textbelt"
}

func (s *TextBelt) Notify(ctx context.Context, msg Message) error {
	if msg.Phone == "" {
		return ErrNotApplicable
	}

	body, err := json.Marshal(map[string]string{
		"phone":   msg.Phone,
		"message": msg.Text(),
		"key":     s.apiKey,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := doJSON(s.client, req, &out); err != nil {
		return fmt.Errorf("textbelt: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("textbelt: %s", out.Error)
	}
	return nil
}

type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
	BaseURL     string
}

// Twilio sends through the Twilio Messages REST resource.
type Twilio struct {
	cfg    TwilioConfig
	client *http.Client
}

func NewTwilio(cfg TwilioConfig) *Twilio {
	if cfg.BaseURL == "" {
		cfg.BaseURL = TwilioURL
	}
	return &Twilio{cfg: cfg, client: newHTTPClient()}
}

func (s *Twilio) Name() string {
	return "twilio"
}

func (s *Twilio) configured() bool {
	return s.cfg.AccountSID != "" && s.cfg.AuthToken != "" && s.cfg.PhoneNumber != ""
}

func (s *Twilio) Notify(ctx context.Context, msg Message) error {
	if msg.Phone == "" || !s.configured() {
		return ErrNotApplicable
	}

	form := url.Values{}
	form.Set("To", msg.Phone)
	form.Set("From", s.cfg.PhoneNumber)
	form.Set("Body", msg.Text())

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.cfg.BaseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := doJSON(s.client, req, nil); err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	return nil
}

// doJSON executes req, fails on non-2xx and decodes the body into out when out is non-nil.
func doJSON(client *http.Client, req *http.Request, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
