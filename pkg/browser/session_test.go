package browser

import (
	"context"
	"testing"
	"time"

	"github.com/entrhq/chatflux-cookie/pkg/cookie"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilliseconds(t *testing.T) {
	assert.Nil(t, milliseconds(0))
	assert.Nil(t, milliseconds(-time.Second))

	ms := milliseconds(15 * time.Second)
	require.NotNil(t, ms)
	assert.Equal(t, 15000.0, *ms)
}

func TestConvertCookie(t *testing.T) {
	lax := playwright.SameSiteAttribute("Lax")

	tests := []struct {
		name string
		in   playwright.Cookie
		want cookie.Cookie
	}{
		{
			name: "session cookie",
			in: playwright.Cookie{
				Name:     "_chatflux_app_session",
				Value:    "abc",
				Domain:   "alpha.chatflux.ai",
				Path:     "/",
				Expires:  -1,
				HttpOnly: true,
				Secure:   true,
				SameSite: &lax,
			},
			want: cookie.Cookie{
				Name:     "_chatflux_app_session",
				Value:    "abc",
				Domain:   "alpha.chatflux.ai",
				Path:     "/",
				HTTPOnly: true,
				Secure:   true,
				SameSite: cookie.SameSiteLax,
			},
		},
		{
			name: "no samesite",
			in:   playwright.Cookie{Name: "a", Value: "1", Expires: -1},
			want: cookie.Cookie{Name: "a", Value: "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertCookie(tt.in))
		})
	}
}

func TestConvertCookieExpiry(t *testing.T) {
	got := convertCookie(playwright.Cookie{Name: "a", Expires: 1767225600.5})
	require.NotNil(t, got.Expires)
	assert.Equal(t, int64(1767225600), got.Expires.Unix())
	assert.Equal(t, 500*time.Millisecond, time.Duration(got.Expires.Nanosecond()))
}

func TestLaunchRequiresInitialize(t *testing.T) {
	manager := NewManager()
	_, err := manager.Launch(context.Background(), Options{Headless: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestLaunchHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewManager().Launch(ctx, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShutdownWithoutInitialize(t *testing.T) {
	assert.NoError(t, NewManager().Shutdown())
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	manager := NewManager()
	session := &Session{manager: manager}
	manager.sessions = append(manager.sessions, session)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())
	assert.Empty(t, manager.sessions)
}
