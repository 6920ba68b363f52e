package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "SQLite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, 3, cfg.MaxToppingAmount)
	assert.Equal(t, 2, cfg.OrderNumberAttempts)
}

func TestLoad_RandomSecretWhenUnset(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Len(t, cfg.JWTSecret, 64)
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"ttl not a duration", "JWT_TTL", "one day"},
		{"negative ttl", "JWT_TTL", "-1h"},
		{"port not a number", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"unknown driver", "DB_DRIVER", "mysql"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DRIVER", "sqlite")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}
