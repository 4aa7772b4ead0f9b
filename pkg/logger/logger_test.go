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
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNew_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "panaderia-api", Output: &buf})

	c := l.Component("inventory")
	c.Debug().Msg("descartado")
	c.Info().Str("item_id", "p1").Msg("inventario ajustado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "panaderia-api", entry["service"])
	assert.Equal(t, "inventory", entry["component"])
	assert.Equal(t, "p1", entry["item_id"])
	assert.Equal(t, "inventario ajustado", entry["message"])
}
