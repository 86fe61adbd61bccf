package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"

	"github.com/jhoicas/kardex-api/pkg/config"
)

// applicationName aparece en pg_stat_activity para identificar las sesiones del kardex.
const applicationName = "kardex-api"

// NewPool crea el pool PostgreSQL del kardex y verifica la conexión con un Ping.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := newPoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// newPoolConfig arma la configuración sin conectar: DSN con host IPv4, tamaño del pool,
// parámetros de sesión y codec NUMERIC -> decimal.Decimal.
func newPoolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsnFor(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	// Docker suele no tener IPv6 y algunos proveedores resuelven solo AAAA.
	poolConfig.ConnConfig.DialFunc = dialTCP4

	// Un consumo bloquea la fila del insumo y sus lotes; una espera más larga que
	// LockTimeout termina en 55P03 y TxRunner la devuelve como conflicto.
	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = applicationName
	if cfg.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
	if cfg.LockTimeout > 0 {
		params["lock_timeout"] = strconv.FormatInt(cfg.LockTimeout.Milliseconds(), 10)
	}
	params["idle_in_transaction_session_timeout"] = "60000"

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolConfig, nil
}

// dsnFor usa DATABASE_URL si está definido; si no construye el DSN desde DB_HOST, DB_PORT, etc.
// En ambos casos reemplaza el host por su IPv4 cuando se puede resolver.
func dsnFor(cfg config.DBConfig) string {
	if cfg.DatabaseURL == "" {
		if ipv4, err := resolveIPv4(cfg.Host); err == nil {
			cfg.Host = ipv4
		}
		return cfg.DSN()
	}
	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return cfg.DatabaseURL
	}
	ipv4, err := resolveIPv4(u.Hostname())
	if err != nil {
		return cfg.DatabaseURL
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	u.Host = net.JoinHostPort(ipv4, port)
	return u.String()
}

func dialTCP4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ipv4, err := resolveIPv4(host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ipv4, port))
}

// publicResolver consulta 8.8.8.8 cuando el DNS del contenedor solo devuelve IPv6.
var publicResolver = &net.Resolver{
	PreferGo: true,
	Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "udp", "8.8.8.8:53")
	},
}

// resolveIPv4 devuelve la primera IPv4 de host, probando el resolver del sistema y luego el público.
func resolveIPv4(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", fmt.Errorf("%s es IPv6", host)
		}
		return host, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, r := range []*net.Resolver{net.DefaultResolver, publicResolver} {
		ips, err := r.LookupIP(ctx, "ip4", host)
		if err != nil {
			continue
		}
		for _, ip := range ips {
			if v4 := ip.To4(); v4 != nil {
				return v4.String(), nil
			}
		}
	}
	return "", fmt.Errorf("sin IPv4 para %s", host)
}
