package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/profilely/internal/flagx"
	"github.com/dmitrijs2005/profilely/internal/timex"
)

// JsonMailConfig is the JSON shape of MailConfig. Booleans are pointers so
// that an absent key leaves the current value alone.
type JsonMailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	FromName string `json:"from_name"`
	StartTLS *bool  `json:"starttls"`
	SSL      *bool  `json:"ssl"`
	Enabled  *bool  `json:"enabled"`
}

// JsonConfig is the DTO read from the JSON config file. Durations use
// timex.Duration so both "90m" and integer nanoseconds are accepted.
// Zero values are treated as "not set" when merged into Config.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	SigningAlgorithm            string         `json:"signing_algorithm"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	PasswordHasher              string         `json:"password_hasher"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	PublicBaseURL               string         `json:"public_base_url"`
	Mail                        JsonMailConfig `json:"mail"`
	NotifyWorkers               int            `json:"notify_workers"`
	NotifyQueueSize             int            `json:"notify_queue_size"`
	LogBackend                  string         `json:"log_backend"`
	LogFormat                   string         `json:"log_format"`
	LogLevel                    string         `json:"log_level"`
	CORSAllowedOrigins          []string       `json:"cors_allowed_origins"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config (or CONFIG) and merges its
// non-zero values into config. No file means nothing to do.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	c.mergeInto(config)
	return nil
}

func (c *JsonConfig) mergeInto(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SigningAlgorithm, c.SigningAlgorithm)
	setString(&config.PasswordHasher, c.PasswordHasher)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	setInt(&config.BcryptCost, c.BcryptCost)
	setInt(&config.NotifyWorkers, c.NotifyWorkers)
	setInt(&config.NotifyQueueSize, c.NotifyQueueSize)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}

	setString(&config.Mail.Host, c.Mail.Host)
	setInt(&config.Mail.Port, c.Mail.Port)
	setString(&config.Mail.Username, c.Mail.Username)
	setString(&config.Mail.Password, c.Mail.Password)
	setString(&config.Mail.From, c.Mail.From)
	setString(&config.Mail.FromName, c.Mail.FromName)
	if c.Mail.StartTLS != nil {
		config.Mail.StartTLS = *c.Mail.StartTLS
	}
	if c.Mail.SSL != nil {
		config.Mail.SSL = *c.Mail.SSL
	}
	if c.Mail.Enabled != nil {
		config.Mail.Enabled = *c.Mail.Enabled
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
