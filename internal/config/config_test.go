package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("LOTTERY_JWT_SECRET", "s3cret")
		t.Setenv("LOTTERY_ADMIN_ADDRESSES", "0xa1, 0xa2")

		cfg, err := config.LoadConfig(t.TempDir())
		require.NoError(t, err)
		require.Equal(t, "4000", cfg.Server.Port)
		require.Equal(t, config.StorageBadger, cfg.Storage.Type)
		require.Equal(t, config.OracleLocal, cfg.Oracle.Type)
		require.Equal(t, config.PayoutLedger, cfg.Payout.Type)
		require.Equal(t, 2*time.Second, cfg.Oracle.Delay)
		require.Equal(t, []string{"0xa1", "0xa2"}, cfg.Admin.Addresses)
		require.True(t, cfg.Scheduler.AutoDraw)
	})

	t.Run("env file", func(t *testing.T) {
		dir := t.TempDir()
		content := "LOTTERY_JWT_SECRET=from-file\nLOTTERY_STORAGE_TYPE=sqlite\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0600))
		t.Cleanup(func() {
			os.Unsetenv("LOTTERY_JWT_SECRET")
			os.Unsetenv("LOTTERY_STORAGE_TYPE")
		})

		cfg, err := config.LoadConfig(dir)
		require.NoError(t, err)
		require.Equal(t, "from-file", cfg.JWT.Secret)
		require.Equal(t, config.StorageSQLite, cfg.Storage.Type)
	})

	t.Run("invalid", func(t *testing.T) {
		fixtures := []struct {
			name string
			env  map[string]string
		}{
			{
				name: "missing jwt secret",
				env:  map[string]string{},
			},
			{
				name: "unknown storage",
				env:  map[string]string{"LOTTERY_JWT_SECRET": "x", "LOTTERY_STORAGE_TYPE": "postgres"},
			},
			{
				name: "http oracle without callback key",
				env: map[string]string{
					"LOTTERY_JWT_SECRET":     "x",
					"LOTTERY_ORACLE_TYPE":    "http",
					"LOTTERY_ORACLE_BASEURL": "http://oracle",
				},
			},
			{
				name: "http payout without url",
				env:  map[string]string{"LOTTERY_JWT_SECRET": "x", "LOTTERY_PAYOUT_TYPE": "http"},
			},
		}
		for _, f := range fixtures {
			t.Run(f.name, func(t *testing.T) {
				for k, v := range f.env {
					t.Setenv(k, v)
				}
				cfg, err := config.LoadConfig(t.TempDir())
				require.Error(t, err)
				require.Nil(t, cfg)
			})
		}
	})
}
