package acquirer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileURLPattern(t *testing.T) {
	match, err := compileURLPattern("**/Dd8F3m/**")
	require.NoError(t, err)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://alpha.chatflux.ai/Dd8F3m/inbox", true},
		{"https://alpha.chatflux.ai/Dd8F3m/inbox/42?tab=open", true},
		{"https://alpha.chatflux.ai/login", false},
		{"https://alpha.chatflux.ai/Dd8F3m", false},
		{"https://alpha.chatflux.ai/Xy12ab/inbox", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, match(tt.url))
		})
	}
}

func TestCompileURLPatternSingleStarStaysInSegment(t *testing.T) {
	match, err := compileURLPattern("https://alpha.chatflux.ai/*/inbox")
	require.NoError(t, err)

	assert.True(t, match("https://alpha.chatflux.ai/Dd8F3m/inbox"))
	assert.False(t, match("https://alpha.chatflux.ai/a/b/inbox"))
}

func TestCompileURLPatternEmpty(t *testing.T) {
	match, err := compileURLPattern("")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestIsLoginPage(t *testing.T) {
	const login = "https://alpha.chatflux.ai/login"

	tests := []struct {
		name    string
		current string
		login   string
		want    bool
	}{
		{"exact", "https://alpha.chatflux.ai/login", login, true},
		{"trailing slash", "https://alpha.chatflux.ai/login/", login, true},
		{"error query", "https://alpha.chatflux.ai/login?error=1", login, true},
		{"nested step", "https://alpha.chatflux.ai/login/password", login, true},
		{"workspace", "https://alpha.chatflux.ai/Dd8F3m/inbox", login, false},
		{"similar prefix", "https://alpha.chatflux.ai/login-help", login, false},
		{"other host", "https://accounts.example.com/login", login, false},
		{"host case", "https://ALPHA.chatflux.ai/login", login, true},
		{"root login page", "https://alpha.chatflux.ai/", "https://alpha.chatflux.ai", true},
		{"root login left", "https://alpha.chatflux.ai/app", "https://alpha.chatflux.ai/", false},
		{"blank page", "about:blank", login, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLoginPage(tt.current, tt.login))
		})
	}
}

func TestSettle(t *testing.T) {
	assert.NoError(t, settle(context.Background(), 0))
	assert.NoError(t, settle(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, settle(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, settle(ctx, 0), context.Canceled)
}
