package config_test

import (
	"testing"
	"time"

	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.True(t, cfg.Sales.DefaultTaxRate.IsZero())
	assert.True(t, cfg.Sales.AllowCancelCompleted)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ReportCacheTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DB_LOCK_TIMEOUT", "750")
	t.Setenv("DB_STATEMENT_TIMEOUT", "2s")
	t.Setenv("SALES_DEFAULT_TAX_RATE", "8")
	t.Setenv("SALES_ALLOW_CANCEL_COMPLETED", "false")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, 2*time.Second, cfg.DB.StatementTimeout)
	assert.Equal(t, "8", cfg.Sales.DefaultTaxRate.String())
	assert.False(t, cfg.Sales.AllowCancelCompleted)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_Rechazos(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "mysql")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("SALES_DEFAULT_TAX_RATE", "-1")
	_, err = config.Load()
	assert.Error(t, err)

	t.Setenv("SALES_DEFAULT_TAX_RATE", "0")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_MIN_CONNS", "8")
	_, err = config.Load()
	assert.Error(t, err, "min_conns mayor que max_conns")
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "ventas", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/ventas?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
