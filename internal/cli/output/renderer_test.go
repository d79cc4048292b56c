package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{" markdown ", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"yaml", ModeYAML, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on tty", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"explicit text piped", ModeText, false, ModeText},
		{"explicit json on tty", ModeJSON, true, ModeJSON},
		{"empty mode", "", false, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_Header(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Header(1, "Sync Report")
	r.Header(2, "Stage")
	assert.Contains(t, out.String(), "# Sync Report\n")
	assert.Contains(t, out.String(), "## Stage\n")

	r, out, _ = newTestRenderer(ModeText, false)
	r.Header(1, "Sync Report")
	assert.Equal(t, "Sync Report\n", out.String())
}

func TestRenderer_KeyValue(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.KeyValue("Namespace", "process/lineagesync")
	assert.Equal(t, "- **Namespace**: process/lineagesync\n", out.String())
}

func TestRenderer_WarningGoesToStderr(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)
	r.Warning("no tables")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "no tables")
}

func TestRenderer_Structured(t *testing.T) {
	payload := map[string]any{"created": 3, "kind": "TABLE"}

	t.Run("json", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeJSON, false)
		done, err := r.Structured(payload)
		require.NoError(t, err)
		assert.True(t, done)

		var got map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "TABLE", got["kind"])
	})

	t.Run("yaml", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeYAML, false)
		done, err := r.Structured(payload)
		require.NoError(t, err)
		assert.True(t, done)

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, 3, got["created"])
	})

	t.Run("markdown falls through", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		done, err := r.Structured(payload)
		require.NoError(t, err)
		assert.False(t, done)
		assert.Empty(t, out.String())
	})
}

func TestRenderer_Table(t *testing.T) {
	header := []string{"Source", "Target", "Score"}
	rows := [][]any{{"customers", "CUSTOMERS", Percent(100)}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table(header, rows)
		s := out.String()
		assert.Contains(t, s, "| Source | Target | Score |")
		assert.Contains(t, s, "| customers | CUSTOMERS | 100% |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table(header, rows)
		s := out.String()
		assert.Contains(t, s, "customers")
		assert.Contains(t, s, "CUSTOMERS")
		assert.False(t, strings.Contains(s, "| --- |"))
	})

	t.Run("empty", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table(header, nil)
		assert.Equal(t, "(0 rows)\n", out.String())
	})
}

func TestNewStyles_PlainWithoutTTY(t *testing.T) {
	s := NewStyles(false)
	assert.Equal(t, "hello", s.Header1.Render("hello"))
	assert.Equal(t, "hello", s.Error.Render("hello"))
}

func TestNewRenderer_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, true, ModeText)

	assert.True(t, r.IsTTY())
	assert.False(t, r.Styles().Header1.GetBold())

	t.Setenv("NO_COLOR", "")
	r = NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, true, ModeText)
	assert.True(t, r.Styles().Header1.GetBold())
}
