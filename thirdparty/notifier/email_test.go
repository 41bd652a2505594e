package notifier

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	sent []*gomail.Message
	err  error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m...)
	return nil
}

func TestEmail_BuildMessage(t *testing.T) {
	e := NewEmailWithSender("bot@internmatch.in", &recordingSender{})

	m, err := e.BuildMessage(Message{Email: "student@example.com", Code: "482913", TTL: 5 * time.Minute})
	require.NoError(t, err)

	assert.Equal(t, []string{"bot@internmatch.in"}, m.GetHeader("From"))
	assert.Equal(t, []string{"student@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"InternMatch - Verification Code"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "482913")
	assert.Contains(t, buf.String(), "text/html")
}

func TestEmail_Notify(t *testing.T) {
	msg := Message{Email: "student@example.com", Code: "482913", TTL: 5 * time.Minute}

	t.Run("sends one message", func(t *testing.T) {
		sender := &recordingSender{}
		require.NoError(t, NewEmailWithSender("bot@internmatch.in", sender).Notify(context.Background(), msg))
		assert.Len(t, sender.sent, 1)
	})

	t.Run("smtp failure surfaces", func(t *testing.T) {
		sender := &recordingSender{err: errors.New("535 auth failed")}
		err := NewEmailWithSender("bot@internmatch.in", sender).Notify(context.Background(), msg)
		assert.EqualError(t, err, "535 auth failed")
	})

	t.Run("unconfigured sender fails", func(t *testing.T) {
		err := NewEmail(EmailConfig{Host: "smtp.example.com", Port: 587}).Notify(context.Background(), msg)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotApplicable)
	})

	t.Run("no address is not applicable", func(t *testing.T) {
		sender := &recordingSender{}
		err := NewEmailWithSender("bot@internmatch.in", sender).Notify(context.Background(), Message{Code: "1"})
		assert.ErrorIs(t, err, ErrNotApplicable)
		assert.Empty(t, sender.sent)
	})
}
