package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, logger.ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("desconocido"))
}

func TestComponent_AgregaCampos(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Level: "info", Service: "kardex-api"})

	c := l.Component("consumo")
	c.Info().Int64("supply_id", 7).Msg("consumo registrado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kardex-api", line["service"])
	assert.Equal(t, "consumo", line["component"])
	assert.Equal(t, "consumo registrado", line["message"])
	assert.EqualValues(t, 7, line["supply_id"])
}

func TestNivelFiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Level: "warn"})

	l.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("sí")
	assert.NotZero(t, buf.Len())
}
