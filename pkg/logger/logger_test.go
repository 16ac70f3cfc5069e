package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":  zerolog.DebugLevel,
		" WARN ": zerolog.WarnLevel,
		"error":  zerolog.ErrorLevel,
		"":       zerolog.InfoLevel,
		"verbo":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "nivel %q", in)
	}
}

func TestComponent_CamposDelServicio(t *testing.T) {
	var buf bytes.Buffer
	root := build(Config{Service: "erp-ledger", Env: "production", Level: "info"}, &buf)

	cl := Component(root, "approval")
	cl.Info().Str("doc_no", "DO-20260101-0001").Msg("documento aprobado")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "erp-ledger", ev["service"])
	assert.Equal(t, "production", ev["env"])
	assert.Equal(t, "approval", ev["component"])
	assert.Equal(t, "DO-20260101-0001", ev["doc_no"])
	assert.Equal(t, "documento aprobado", ev["message"])
}

func TestBuild_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := build(Config{Level: "warn"}, &buf)
	l.Info().Msg("silenciado")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), `"service"`)
}
