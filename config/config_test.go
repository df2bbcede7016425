package config

import (
	"testing"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func validConfig(t *testing.T) {
	t.Helper()
	t.Cleanup(v.Reset)

	setDefaults()
	v.Set("jwt.secret", "secret")
	v.Set("mail.host", "smtp.example.com")
	v.Set("mail.sender", "tickets@example.com")
}

func TestValidate(t *testing.T) {
	validConfig(t)
	assert.NoError(t, Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"log level", "app.log_level", "loud"},
		{"port", "host.port", 0},
		{"driver", "db.driver", "mysql"},
		{"dsn", "db.dsn", ""},
		{"jwt ttl", "jwt.ttl", "-1h"},
		{"mail host", "mail.host", ""},
		{"timezone", "mail.timezone", "Mars/Olympus"},
		{"sweeper", "sweeper.schedule", "every minute"},
		{"cleanup", "cleanup.schedule", "* * *"},
		{"upload size", "upload.max_size", 0},
		{"rate limit", "security.rate_limit", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validConfig(t)
			v.Set(tt.key, tt.value)

			assert.Error(t, Validate())
		})
	}

	t.Run("missing jwt secret", func(t *testing.T) {
		validConfig(t)
		v.Set("jwt.secret", "")

		assert.ErrorIs(t, Validate(), ErrNoJWTSecret)
	})

	t.Run("storage without credentials", func(t *testing.T) {
		validConfig(t)
		v.Set("storage.enabled", true)
		v.Set("storage.bucket", "banners")

		assert.Error(t, Validate())
	})

	t.Run("ssl without certificate", func(t *testing.T) {
		validConfig(t)
		v.Set("host.ssl.enabled", true)

		assert.Error(t, Validate())
	})
}
