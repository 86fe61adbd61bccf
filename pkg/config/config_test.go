package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Chdir(t.TempDir()) // sin .env en el directorio
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Almacén Principal", cfg.Kardex.DefaultLocation)
	assert.Equal(t, 30, cfg.Kardex.ExpiryWarningDays)
	assert.Equal(t, "America/La_Paz", cfg.Kardex.Timezone)
	assert.Equal(t, "Clínica Odontológica", cfg.Kardex.Institution)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, 15*time.Second, cfg.DB.StatementTimeout)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KARDEX_EXPIRY_WARNING_DAYS", "15")
	t.Setenv("KARDEX_DEFAULT_LOCATION", "Farmacia")
	t.Setenv("DB_MAX_CONNS", "10")
	t.Setenv("DB_LOCK_TIMEOUT_MS", "1500")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 15, cfg.Kardex.ExpiryWarningDays)
	assert.Equal(t, "Farmacia", cfg.Kardex.DefaultLocation)
	assert.Equal(t, int32(10), cfg.DB.MaxConns)
}

func TestLoad_MinConnsMayorQueMax_RetornaError(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "5")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestKardexConfig_Location(t *testing.T) {
	loc, err := config.KardexConfig{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = config.KardexConfig{Timezone: "Marte/Olympus"}.Location()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "kardex", Password: "p@ss:word", DBName: "kardex", SSLMode: "disable"}
	assert.Equal(t, "postgres://kardex:p%40ss%3Aword@db:5432/kardex?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())
}
