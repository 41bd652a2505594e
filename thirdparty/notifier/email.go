package notifier

import (
	"bytes"
	"context"
	"errors"
	"html/template"

	"gopkg.in/gomail.v2"
)

const emailSubject = "InternMatch - Verification Code"

var emailTemplate = template.Must(template.New("otp").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">InternMatch Verification</h2>
  <p>Your verification code is:</p>
  <div style="background-color: #f3f4f6; padding: 20px; text-align: center; margin: 20px 0;">
    <h1 style="color: #2563eb; font-size: 32px; margin: 0; letter-spacing: 5px;">{{.Code}}</h1>
  </div>
  <p>This code will expire in {{.Minutes}} minutes.</p>
  <p>If you didn't request this code, please ignore this email.</p>
  <hr style="margin: 20px 0;">
  <p style="color: #6b7280; font-size: 12px;">This is an automated message from InternMatch.</p>
</div>`))

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Sender is satisfied by *gomail.Dialer
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email delivers codes over SMTP.
type Email struct {
	from   string
	sender Sender
}

func NewEmail(cfg EmailConfig) *Email {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &Email{
		from:   from,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// NewEmailWithSender is used by the mailer worker tests and anything that
// needs a custom transport.
func NewEmailWithSender(from string, sender Sender) *Email {
	return &Email{from: from, sender: sender}
}

func (e *Email) Name() string {
	return "email"
}

// Configured reports whether SMTP credentials are present
func (e *Email) Configured() bool {
	return e.from != ""
}

func (e *Email) Notify(ctx context.Context, msg Message) error {
	if msg.Email == "" {
		return ErrNotApplicable
	}
	if !e.Configured() {
		return errors.New("smtp sender not configured")
	}
	m, err := e.BuildMessage(msg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.sender.DialAndSend(m)
}

// BuildMessage renders the verification mail for msg
func (e *Email) BuildMessage(msg Message) (*gomail.Message, error) {
	var body bytes.Buffer
	err := emailTemplate.Execute(&body, struct {
		Code    string
		Minutes int
	}{Code: msg.Code, Minutes: ttlMinutes(msg.TTL)})
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", msg.Email)
	m.SetHeader("Subject", emailSubject)
	m.SetBody("text/plain", msg.Text())
	m.AddAlternative("text/html", body.String())
	return m, nil
}
