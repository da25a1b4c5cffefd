package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetEmailEmbedsLink(t *testing.T) {
	subject, body := ResetEmail("https://app.example.com/reset-password?token=abc123")

	assert.Contains(t, subject, "Reset")
	assert.Contains(t, body, `href="https://app.example.com/reset-password?token=abc123"`)
	assert.Contains(t, body, "30 minutes")
}

func TestSendRequiresConfiguration(t *testing.T) {
	m := NewSMTPMailer("", "", "", "", "")
	err := m.Send("a@x.com", "hi", "<p>hi</p>")
	assert.Error(t, err)
}
