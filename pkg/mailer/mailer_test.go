package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Comment(t *testing.T) {
	subject, body, err := Render(Payload{
		Kind:          KindComment,
		RecipientName: "Alice",
		ActorName:     "Bob",
		PostURL:       "http://localhost:5173/post/abc",
		Content:       "<b>Nice!</b>",
	})

	require.NoError(t, err)
	assert.Equal(t, "New comment on your post", subject)
	assert.Contains(t, body, "Hi Alice")
	assert.Contains(t, body, "<strong>Bob</strong>")
	assert.Contains(t, body, `href="http://localhost:5173/post/abc"`)
	// user content is escaped
	assert.Contains(t, body, "&lt;b&gt;Nice!&lt;/b&gt;")
}

func TestRender_Welcome(t *testing.T) {
	subject, body, err := Render(Payload{
		Kind:          KindWelcome,
		RecipientName: "Alice",
		ProfileURL:    "http://localhost:5173/profile/alice",
	})

	require.NoError(t, err)
	assert.Equal(t, "Welcome to ConnectIn", subject)
	assert.Contains(t, body, "http://localhost:5173/profile/alice")
}

func TestRender_UnknownKind(t *testing.T) {
	_, _, err := Render(Payload{Kind: "digest"})
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.NotifyByEmail(context.Background(), "a@example.com", Payload{Kind: KindWelcome}))
}
