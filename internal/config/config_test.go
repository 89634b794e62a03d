package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid development config",
			cfg: Config{
				Port:      "8080",
				SecretKey: "dev-secret-change-in-production",
				Env:       "development",
			},
		},
		{
			name:    "missing port",
			cfg:     Config{SecretKey: "s"},
			wantErr: "PORT is required",
		},
		{
			name:    "missing secret",
			cfg:     Config{Port: "8080"},
			wantErr: "SECRET_KEY is required",
		},
		{
			name: "default secret rejected in production",
			cfg: Config{
				Port:      "8080",
				SecretKey: "dev-secret-change-in-production",
				Env:       "production",
			},
			wantErr: "SECRET_KEY must be changed from the default value in production",
		},
		{
			name: "short secret rejected in production",
			cfg: Config{
				Port:      "8080",
				SecretKey: "short",
				Env:       "production",
			},
			wantErr: "SECRET_KEY must be at least 32 characters in production",
		},
		{
			name: "weak db password rejected in production",
			cfg: Config{
				Port:      "8080",
				SecretKey: "0123456789abcdef0123456789abcdef",
				Env:       "production",
			},
			wantErr: "a strong DB_PASSWORD is required in production",
		},
		{
			name: "database url bypasses db password check",
			cfg: Config{
				Port:        "8080",
				SecretKey:   "0123456789abcdef0123456789abcdef",
				DatabaseURL: "postgresql://u:p@db/chronicle",
				Env:         "production",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "user",
		DBPassword: "password",
		DBName:     "chronicle",
		DBSSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=user password=password dbname=chronicle sslmode=disable",
		cfg.DSN())

	cfg.DatabaseURL = "postgresql://u:p@db:5432/blog"
	assert.Equal(t, "postgresql://u:p@db:5432/blog", cfg.DSN())
}

func TestDSNRewritesLegacyScheme(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://u:p@db:5432/blog"}
	assert.Equal(t, "postgresql://u:p@db:5432/blog", cfg.DSN())
}
