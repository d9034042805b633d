package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer_InvalidPort(t *testing.T) {
	_, err := NewMailer("smtp.example.com", "not-a-port", "user", "pass", "noreply@example.com")
	assert.Error(t, err)

	m, err := NewMailer("smtp.example.com", "587", "user", "pass", "noreply@example.com")
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestBuildPasswordResetMessage(t *testing.T) {
	msg := BuildPasswordResetMessage(
		"noreply@melodia.app",
		"ann@x.com",
		"https://admin.melodia.app/reset-password/abc123",
	)

	assert.Equal(t, []string{"noreply@melodia.app"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"ann@x.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Reset your Melodia password"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	// The body is quoted-printable encoded, so assert on the rendered headers
	// and a plain fragment that survives encoding.
	assert.Contains(t, buf.String(), "Subject: Reset your Melodia password")
	assert.Contains(t, buf.String(), "Content-Type: text/html")
}
