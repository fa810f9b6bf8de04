package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationMessage(t *testing.T) {
	msg, err := VerificationMessage("a@example.com", "http://127.0.0.1:8080/api/verify-email/?token=abc&email=a%40example.com")
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", msg.To)
	assert.Equal(t, "Verify your email", msg.Subject)
	assert.Contains(t, msg.Text, "token=abc&email=a%40example.com")
	assert.Empty(t, msg.HTML)
}

func TestPasswordResetMessage_EscapesHTML(t *testing.T) {
	msg, err := PasswordResetMessage("b@example.com", "<Bob>", "http://localhost:4200/reset-password?token=t&email=b%40example.com")
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "Hello <Bob>")
	assert.Contains(t, msg.HTML, "Hello &lt;Bob&gt;")
	assert.Contains(t, msg.HTML, `href="http://localhost:4200/reset-password?token=t&amp;email=b%40example.com"`)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLog(nil).Send(context.Background(), Message{To: "c@example.com"}))
}
