package acquirer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/entrhq/chatflux-cookie/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSelector(t *testing.T) {
	chain := []string{`input[type="email"]`, `input[name="email"]`, `input[placeholder*="email" i]`, `#email`}

	tests := []struct {
		name        string
		present     []string
		want        string
		wantOK      bool
		wantQueries int
	}{
		{
			name:        "first strategy wins",
			present:     []string{`input[type="email"]`, `#email`},
			want:        `input[type="email"]`,
			wantOK:      true,
			wantQueries: 1,
		},
		{
			name:        "falls through to placeholder",
			present:     []string{`input[placeholder*="email" i]`, `#email`},
			want:        `input[placeholder*="email" i]`,
			wantOK:      true,
			wantQueries: 3,
		},
		{
			name:        "field id as last resort",
			present:     []string{`#email`},
			want:        `#email`,
			wantOK:      true,
			wantQueries: 4,
		},
		{
			name:        "nothing matches",
			wantQueries: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newFakePage()
			for _, s := range tt.present {
				page.present[s] = true
			}

			got, ok, err := resolveSelector(page, chain)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Len(t, page.counted, tt.wantQueries)
		})
	}
}

func TestResolveSelectorPropagatesEngineErrors(t *testing.T) {
	page := newFakePage()
	page.countErr = errors.New("page crashed")

	_, ok, err := resolveSelector(page, []string{"#a", "#b"})
	require.Error(t, err)
	assert.False(t, ok)
	assert.Len(t, page.counted, 1)
}

func TestAnyOf(t *testing.T) {
	assert.Equal(t, `#a, input[name="b"]`, anyOf([]string{"#a", `input[name="b"]`}))
	assert.Equal(t, "", anyOf(nil))
}

func TestFillFieldAbsentIsNoop(t *testing.T) {
	var logs bytes.Buffer
	a := &Acquirer{log: logging.NewLogger(logging.LevelNormal, &logs)}
	page := newFakePage()

	require.NoError(t, a.fillField(page, "email", []string{"#email"}, "bot@example.com"))
	assert.Empty(t, page.filled)
	assert.Contains(t, logs.String(), "no email field matched")
}

func TestFillFieldErrors(t *testing.T) {
	a := &Acquirer{log: logging.NewLogger(logging.LevelQuiet, &bytes.Buffer{})}
	page := newFakePage()
	page.present["#email"] = true
	page.fillErr = errors.New("element is not editable")

	err := a.fillField(page, "email", []string{"#email"}, "bot@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fill email field")
}

func TestClickControlAbsentIsNoop(t *testing.T) {
	var logs bytes.Buffer
	a := &Acquirer{log: logging.NewLogger(logging.LevelNormal, &logs)}
	page := newFakePage()

	require.NoError(t, a.clickControl(page, "submit", []string{`button:has-text("Entrar")`}))
	assert.Empty(t, page.clicked)
	assert.Contains(t, logs.String(), "no submit control matched")
}
