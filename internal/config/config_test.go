package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "data/users.json", cfg.Storage.FilePath)
	assert.Equal(t, "data/catalogue_parfums.csv", cfg.Catalog.Path)
	assert.False(t, cfg.Catalog.S3Enabled)
	assert.Equal(t, "data/parfums_composition.txt", cfg.Composition.Path)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("USERS_FILE", "/var/lib/decants/users.json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("CHATBOT_URL", "https://chat.example.com/widget")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "/var/lib/decants/users.json", cfg.Storage.FilePath)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "https://chat.example.com/widget", cfg.Chatbot.URL)
}

func TestLoad_InvalidNumericEnvFallsBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Server = ServerConfig{Host: "0.0.0.0", Port: 8080}
		cfg.Storage = StorageConfig{Backend: "file", FilePath: "users.json"}
		cfg.SMTP = SMTPConfig{Port: 587}
		cfg.Logger = LoggerConfig{Level: "info", Format: "json"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid file backend",
			mutate: func(cfg *Config) {},
		},
		{
			name: "valid postgres backend",
			mutate: func(cfg *Config) {
				cfg.Storage.Backend = "postgres"
				cfg.Database = DatabaseConfig{
					Host:           "localhost",
					Port:           5432,
					User:           "postgres",
					Database:       "decantstore",
					MaxConnections: 10,
					MinConnections: 2,
				}
			},
		},
		{
			name:    "invalid server port",
			mutate:  func(cfg *Config) { cfg.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(cfg *Config) { cfg.Storage.Backend = "redis" },
			wantErr: "invalid storage backend",
		},
		{
			name: "file backend without a path",
			mutate: func(cfg *Config) {
				cfg.Storage.FilePath = ""
			},
			wantErr: "users file path is required",
		},
		{
			name: "postgres backend without a host",
			mutate: func(cfg *Config) {
				cfg.Storage.Backend = "postgres"
				cfg.Database = DatabaseConfig{Port: 5432, User: "postgres", Database: "d", MaxConnections: 5, MinConnections: 1}
			},
			wantErr: "database host is required",
		},
		{
			name: "postgres min connections above max",
			mutate: func(cfg *Config) {
				cfg.Storage.Backend = "postgres"
				cfg.Database = DatabaseConfig{
					Host:           "localhost",
					Port:           5432,
					User:           "postgres",
					Database:       "d",
					MaxConnections: 2,
					MinConnections: 10,
				}
			},
			wantErr: "min connections cannot exceed max",
		},
		{
			name: "S3 catalogue without a bucket",
			mutate: func(cfg *Config) {
				cfg.Catalog.S3Enabled = true
				cfg.Catalog.S3Region = "eu-west-1"
			},
			wantErr: "S3 bucket is required",
		},
		{
			name:    "invalid SMTP port",
			mutate:  func(cfg *Config) { cfg.SMTP.Port = -1 },
			wantErr: "invalid SMTP port",
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *Config) { cfg.Logger.Level = "trace" },
			wantErr: "invalid log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(cfg *Config) { cfg.Logger.Format = "xml" },
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "shop",
		Password: "pw",
		Database: "decantstore",
	}

	assert.Equal(t,
		"postgres://shop:pw@localhost:5432/decantstore?sslmode=disable",
		cfg.ConnectionString())
}

func TestSMTPConfig_Configured(t *testing.T) {
	assert.False(t, (&SMTPConfig{}).Configured())
	assert.False(t, (&SMTPConfig{Host: "smtp.example.com"}).Configured())

	full := &SMTPConfig{Host: "smtp.example.com", Username: "shop", Password: "pw"}
	assert.True(t, full.Configured())
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 9000}
	assert.Equal(t, "127.0.0.1:9000", cfg.Address())
}
