package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvFile is loaded before the environment is read. A missing file is
// not an error; variables already set in the process win.
var DotEnvFile = ".env"

// parseEnv overlays values from the process environment.
//
// Recognised keys:
//
//	HTTP_ADDR, DATABASE_URL, SECRET_KEY, ALGORITHM,
//	ACCESS_TOKEN_EXPIRE_MINUTES, PASSWORD_HASHER, BCRYPT_COST,
//	PUBLIC_BASE_URL, MAIL_SERVER, MAIL_PORT, MAIL_USERNAME, MAIL_PASSWORD,
//	MAIL_FROM, MAIL_FROM_NAME, MAIL_STARTTLS, MAIL_SSL, MAIL_ENABLED,
//	NOTIFY_WORKERS, NOTIFY_QUEUE_SIZE, LOG_BACKEND, LOG_FORMAT, LOG_LEVEL,
//	CORS_ALLOWED_ORIGINS (comma separated)
func parseEnv(c *Config) error {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", DotEnvFile, err)
	}

	c.EndpointAddrHTTP = getEnv("HTTP_ADDR", c.EndpointAddrHTTP)
	c.DatabaseDSN = getEnv("DATABASE_URL", c.DatabaseDSN)
	c.SecretKey = getEnv("SECRET_KEY", c.SecretKey)
	c.SigningAlgorithm = getEnv("ALGORITHM", c.SigningAlgorithm)
	c.PasswordHasher = getEnv("PASSWORD_HASHER", c.PasswordHasher)
	c.PublicBaseURL = getEnv("PUBLIC_BASE_URL", c.PublicBaseURL)
	c.Mail.Host = getEnv("MAIL_SERVER", c.Mail.Host)
	c.Mail.Username = getEnv("MAIL_USERNAME", c.Mail.Username)
	c.Mail.Password = getEnv("MAIL_PASSWORD", c.Mail.Password)
	c.Mail.From = getEnv("MAIL_FROM", c.Mail.From)
	c.Mail.FromName = getEnv("MAIL_FROM_NAME", c.Mail.FromName)
	c.LogBackend = getEnv("LOG_BACKEND", c.LogBackend)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORSAllowedOrigins = splitList(v)
	}

	var err error
	var minutes int
	if minutes, err = getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", int(c.AccessTokenValidityDuration/time.Minute)); err != nil {
		return err
	}
	c.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute

	if c.BcryptCost, err = getEnvInt("BCRYPT_COST", c.BcryptCost); err != nil {
		return err
	}
	if c.Mail.Port, err = getEnvInt("MAIL_PORT", c.Mail.Port); err != nil {
		return err
	}
	if c.NotifyWorkers, err = getEnvInt("NOTIFY_WORKERS", c.NotifyWorkers); err != nil {
		return err
	}
	if c.NotifyQueueSize, err = getEnvInt("NOTIFY_QUEUE_SIZE", c.NotifyQueueSize); err != nil {
		return err
	}
	if c.Mail.StartTLS, err = getEnvBool("MAIL_STARTTLS", c.Mail.StartTLS); err != nil {
		return err
	}
	if c.Mail.SSL, err = getEnvBool("MAIL_SSL", c.Mail.SSL); err != nil {
		return err
	}
	if c.Mail.Enabled, err = getEnvBool("MAIL_ENABLED", c.Mail.Enabled); err != nil {
		return err
	}
	return nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return n, nil
}

func getEnvBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", k, err)
	}
	return b, nil
}
