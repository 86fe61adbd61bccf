package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/pkg/config"
)

func TestNewPoolConfig_ParametrosDeSesion(t *testing.T) {
	cfg := config.DBConfig{
		Host: "127.0.0.1", Port: 5432, User: "kardex", Password: "secreto", DBName: "kardex", SSLMode: "disable",
		MaxConns: 8, MinConns: 1,
		StatementTimeout: 15 * time.Second,
		LockTimeout:      1500 * time.Millisecond,
	}

	pc, err := newPoolConfig(cfg)
	require.NoError(t, err)

	params := pc.ConnConfig.RuntimeParams
	assert.Equal(t, "kardex-api", params["application_name"])
	assert.Equal(t, "15000", params["statement_timeout"])
	assert.Equal(t, "1500", params["lock_timeout"])
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, "127.0.0.1", pc.ConnConfig.Host)
	assert.NotNil(t, pc.AfterConnect)
}

func TestNewPoolConfig_SinTimeoutsNoFijaParametros(t *testing.T) {
	pc, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://kardex@127.0.0.1:5433/kardex?sslmode=disable"})
	require.NoError(t, err)

	_, ok := pc.ConnConfig.RuntimeParams["lock_timeout"]
	assert.False(t, ok)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
}

func TestResolveIPv4_RechazaIPv6Literal(t *testing.T) {
	ip, err := resolveIPv4("10.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", ip)

	_, err = resolveIPv4("::1")
	assert.Error(t, err)
}

func TestMapTxError_LockTimeoutEsConflicto(t *testing.T) {
	lockErr := fmt.Errorf("lock insumo 3: %w", &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"})
	assert.ErrorIs(t, mapTxError(lockErr), domain.ErrConflict)

	other := errors.New("otro error")
	assert.Same(t, other, mapTxError(other))
	assert.ErrorIs(t, mapTxError(domain.ErrNoStock), domain.ErrNoStock)
}
