package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"SILK_APP_NAME":                os.Getenv("SILK_APP_NAME"),
		"SILK_APP_ENV":                 os.Getenv("SILK_APP_ENV"),
		"SILK_APP_PORT":                os.Getenv("SILK_APP_PORT"),
		"SILK_DATABASE_DRIVER":         os.Getenv("SILK_DATABASE_DRIVER"),
		"SILK_DATABASE_HOST":           os.Getenv("SILK_DATABASE_HOST"),
		"SILK_DATABASE_PORT":           os.Getenv("SILK_DATABASE_PORT"),
		"SILK_DATABASE_USER":           os.Getenv("SILK_DATABASE_USER"),
		"SILK_DATABASE_PASSWORD":       os.Getenv("SILK_DATABASE_PASSWORD"),
		"SILK_DATABASE_DBNAME":         os.Getenv("SILK_DATABASE_DBNAME"),
		"SILK_DATABASE_SSLMODE":        os.Getenv("SILK_DATABASE_SSLMODE"),
		"SILK_DATABASE_MAX_OPEN_CONNS": os.Getenv("SILK_DATABASE_MAX_OPEN_CONNS"),
		"SILK_DATABASE_MAX_IDLE_CONNS": os.Getenv("SILK_DATABASE_MAX_IDLE_CONNS"),
		"SILK_SEED_FIXTURE_PATH":       os.Getenv("SILK_SEED_FIXTURE_PATH"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "silkshop-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "silkshop", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "configs/silk-shop.toml", cfg.Seed.FixturePath)
		assert.Equal(t, []string{"Default Sales Channel"}, cfg.Seed.ProtectedChannels)
	})

	t.Run("loads values from environment variables with SILK prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SILK_APP_NAME", "test-app")
		os.Setenv("SILK_APP_ENV", "testing")
		os.Setenv("SILK_APP_PORT", "9000")
		os.Setenv("SILK_DATABASE_HOST", "testdb.local")
		os.Setenv("SILK_DATABASE_PORT", "5433")
		os.Setenv("SILK_DATABASE_USER", "testuser")
		os.Setenv("SILK_DATABASE_PASSWORD", "testpass")
		os.Setenv("SILK_DATABASE_DBNAME", "testdb")
		os.Setenv("SILK_DATABASE_SSLMODE", "require")
		os.Setenv("SILK_SEED_FIXTURE_PATH", "/data/fixture.toml")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, "/data/fixture.toml", cfg.Seed.FixturePath)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("SILK_DATABASE_DRIVER", "oracle")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SILK_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("SILK_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("SILK_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"SILK_APP_ENV":           os.Getenv("SILK_APP_ENV"),
		"SILK_DATABASE_DRIVER":   os.Getenv("SILK_DATABASE_DRIVER"),
		"SILK_DATABASE_PASSWORD": os.Getenv("SILK_DATABASE_PASSWORD"),
		"SILK_DATABASE_SSLMODE":  os.Getenv("SILK_DATABASE_SSLMODE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SILK_APP_ENV", "production")
		os.Setenv("SILK_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SILK_APP_ENV", "production")
		os.Setenv("SILK_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SILK_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects sqlite in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SILK_APP_ENV", "production")
		os.Setenv("SILK_DATABASE_DRIVER", "sqlite")
		os.Setenv("SILK_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SILK_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sqlite is not supported in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("SILK_APP_ENV", "production")
		os.Setenv("SILK_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SILK_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid postgres DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("sqlite DSN is the file path", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "/tmp/silkshop.db",
		}

		assert.Equal(t, "/tmp/silkshop.db", cfg.DSN())
	})
}
