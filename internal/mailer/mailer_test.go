package mailer

import (
	"errors"
	"net/smtp"
	"testing"

	"decant-store/internal/config"
	"decant-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configuredSMTP() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "shop@example.com",
		Password: "pw",
		To:       "contact@djperfum.ma",
	}
}

func TestSend_NotConfigured(t *testing.T) {
	m := New(config.SMTPConfig{}, zerolog.Nop())

	err := m.Send("Alice", "alice@example.com", "", "Hello")
	assert.ErrorIs(t, err, model.ErrMailNotConfigured)
}

func TestSend(t *testing.T) {
	m := New(configuredSMTP(), zerolog.Nop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := m.Send("Alice", "alice@example.com", "Question about decants", "Do you ship abroad?")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"contact@djperfum.ma"}, gotTo)

	message := string(gotMsg)
	assert.Contains(t, message, "Subject: Question about decants")
	assert.Contains(t, message, "Name: Alice")
	assert.Contains(t, message, "Email: alice@example.com")
	assert.Contains(t, message, "Do you ship abroad?")
}

func TestSend_DefaultSubject(t *testing.T) {
	m := New(configuredSMTP(), zerolog.Nop())

	var gotMsg []byte
	m.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	require.NoError(t, m.Send("Alice", "alice@example.com", "", "Hi"))
	assert.Contains(t, string(gotMsg), "Subject: New message from the shop contact form")
}

func TestSend_TransportError(t *testing.T) {
	m := New(configuredSMTP(), zerolog.Nop())
	m.send = func(_ string, _ smtp.Auth, _ string, _ []string, _ []byte) error {
		return errors.New("connection refused")
	}

	err := m.Send("Alice", "alice@example.com", "", "Hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
