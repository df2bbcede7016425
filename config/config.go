// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	_               = pflag.String("config", "", "Path to a config.toml file")
	_               = pflag.Int("port", 0, "Port to listen on, overrides host.port")
	validLogLevels  = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers  = []string{"sqlite", "postgres"}
	cronSpecParser  = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	errConfigNotSet = errors.New("config.toml file is missing")
)

var ErrNoJWTSecret = errors.New("jwt.secret is not set")

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	if p := v.GetString("config"); p != "" {
		v.SetConfigFile(p)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	bindEnvs()
	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		// Everything can come from the environment
		fmt.Println("[WARNING]: " + errConfigNotSet.Error() + ", using environment and defaults")
	}

	if port := v.GetInt("port"); port > 0 {
		v.Set("host.port", port)
	}

	err := Validate()
	if errors.Is(err, ErrNoJWTSecret) {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	return err
}

func bindEnvs() {
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.cors", "host_cors")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")
	v.BindEnv("host.ssl.certificate_path", "host_ssl_certificate_path")
	v.BindEnv("host.ssl.certificate_key_path", "host_ssl_certificate_key_path")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn", "database_url")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("jwt.ttl", "jwt_ttl")

	v.BindEnv("mail.host", "mail_host", "smtp_host")
	v.BindEnv("mail.port", "mail_port", "smtp_port")
	v.BindEnv("mail.user", "mail_user", "smtp_user")
	v.BindEnv("mail.password", "mail_password", "smtp_pass")
	v.BindEnv("mail.sender", "mail_sender_address")
	v.BindEnv("mail.timezone", "mail_timezone")

	v.BindEnv("sweeper.schedule", "sweeper_schedule")
	v.BindEnv("cleanup.schedule", "cleanup_schedule")

	v.BindEnv("storage.enabled", "storage_enabled")
	v.BindEnv("storage.endpoint", "storage_endpoint")
	v.BindEnv("storage.region", "storage_region")
	v.BindEnv("storage.bucket", "storage_bucket")
	v.BindEnv("storage.access_key_id", "storage_access_key_id")
	v.BindEnv("storage.secret_access_key", "storage_secret_access_key")
	v.BindEnv("storage.public_url", "storage_public_url")

	v.BindEnv("cache.redis.addr", "cache_redis_addr", "redis_addr")
	v.BindEnv("cache.redis.password", "cache_redis_password", "redis_password")
	v.BindEnv("cache.redis.db", "cache_redis_db")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("security.rate_limit", "security_rate_limit")

	v.BindEnv("cloudflare.turnstile.enabled", "cloudflare_turnstile_enabled")
	v.BindEnv("cloudflare.turnstile.secret_token", "cloudflare_turnstile_secret_token")
}

func setDefaults() {
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors", "http://localhost:5173")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "events.db")

	v.SetDefault("jwt.ttl", "720h")

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.timezone", "UTC")

	v.SetDefault("sweeper.schedule", "@every 1m")
	v.SetDefault("cleanup.schedule", "@daily")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.region", "auto")

	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("upload.max_size", 5)

	v.SetDefault("security.rate_limit", 5)

	v.SetDefault("cloudflare.turnstile.enabled", false)
}

// Validate checks the loaded values. It's split from Setup so tests can fill
// viper by hand
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("db.dsn can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		return ErrNoJWTSecret
	}

	if v.GetDuration("jwt.ttl") <= 0 {
		return errors.New("jwt.ttl must be a positive duration")
	}

	if v.GetString("mail.host") == "" {
		return errors.New("mail.host can't be empty")
	}

	if v.GetString("mail.sender") == "" {
		return errors.New("mail.sender can't be empty")
	}

	if _, err := time.LoadLocation(v.GetString("mail.timezone")); err != nil {
		return fmt.Errorf("invalid mail.timezone, %w", err)
	}

	for _, key := range []string{"sweeper.schedule", "cleanup.schedule"} {
		if _, err := cronSpecParser.Parse(v.GetString(key)); err != nil {
			return fmt.Errorf("invalid %s, %w", key, err)
		}
	}

	if v.GetBool("storage.enabled") {
		if v.GetString("storage.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
		if v.GetString("storage.access_key_id") == "" {
			return errors.New("storage access key id can't be empty")
		}
		if v.GetString("storage.secret_access_key") == "" {
			return errors.New("storage secret access key can't be empty")
		}
	} else {
		fmt.Println("[WARNING]: Storage is disabled. Event banners can't be uploaded")
	}

	if v.GetInt("cache.redis.db") < 0 {
		return errors.New("cache.redis.db can't be negative")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if !v.GetBool("cloudflare.turnstile.enabled") {
		fmt.Println("[WARNING]: Cloudflare's turnstile is disabled. Event registration won't be guarded against bots")
	} else if v.GetString("cloudflare.turnstile.secret_token") == "" {
		return errors.New("turnstile secret token is missing")
	}

	return nil
}
