package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareMessageFromHeader(t *testing.T) {
	svc := NewEmailService("smtp.example.com", 587, "noreply@example.com", "secret", "Docolab").(*emailService)

	m := svc.buildShareMessage("alice@example.com", "Roadmap", "http://localhost:5173/editor/abc")

	from := m.GetHeader("From")
	require.Len(t, from, 1)
	// The address is the SMTP account; the configured name is display only.
	assert.Contains(t, from[0], "<noreply@example.com>")
	assert.Contains(t, from[0], "Docolab")

	to := m.GetHeader("To")
	require.Len(t, to, 1)
	assert.Equal(t, "alice@example.com", to[0])

	subject := m.GetHeader("Subject")
	require.Len(t, subject, 1)
	assert.Equal(t, "A document was shared with you: Roadmap", subject[0])
}
