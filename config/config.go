// Package config loads the core's configuration from environment variables: which
// content-store backend to use, how to reach it, and how the compression pipeline's
// transport is wired. Loading follows the prefix-plus-key environment convention used
// across the platform's services, with a small validator for fail-fast startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/systeminit/si-sub002/common"
)

// EnvConfig provides utilities for loading configuration from environment variables.
type EnvConfig struct {
	prefix string // Optional prefix for all environment variables
}

// NewEnvConfig creates a new environment configuration loader.
func NewEnvConfig(prefix string) *EnvConfig {
	return &EnvConfig{
		prefix: prefix,
	}
}

// GetString retrieves a string value from environment with optional default.
func (ec *EnvConfig) GetString(key, defaultValue string) string {
	fullKey := ec.buildKey(key)
	if value := os.Getenv(fullKey); value != "" {
		return value
	}
	return defaultValue
}

// MustGetString retrieves a required string value from environment or panics.
func (ec *EnvConfig) MustGetString(key string) string {
	fullKey := ec.buildKey(key)
	value := os.Getenv(fullKey)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s not set", fullKey))
	}
	return value
}

// GetInt retrieves an integer value from environment with optional default.
func (ec *EnvConfig) GetInt(key string, defaultValue int) int {
	fullKey := ec.buildKey(key)
	if value := os.Getenv(fullKey); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean value from environment with optional default.
func (ec *EnvConfig) GetBool(key string, defaultValue bool) bool {
	fullKey := ec.buildKey(key)
	if value := os.Getenv(fullKey); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetDuration retrieves a duration value from environment with optional default.
func (ec *EnvConfig) GetDuration(key string, defaultValue time.Duration) time.Duration {
	fullKey := ec.buildKey(key)
	if value := os.Getenv(fullKey); value != "" {
		duration, err := time.ParseDuration(value)
		if err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetStringSlice retrieves a comma-separated string slice from environment.
func (ec *EnvConfig) GetStringSlice(key string, defaultValue []string) []string {
	fullKey := ec.buildKey(key)
	if value := os.Getenv(fullKey); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultValue
}

// buildKey builds the full environment variable key with optional prefix.
func (ec *EnvConfig) buildKey(key string) string {
	if ec.prefix != "" {
		return ec.prefix + "_" + key
	}
	return key
}

// ServiceConfig contains common service configuration.
type ServiceConfig struct {
	Name        string
	Environment string
	LogLevel    string
	LogFormat   string
}

// LoadServiceConfig loads service configuration from environment.
func LoadServiceConfig(prefix string) ServiceConfig {
	env := NewEnvConfig(prefix)
	return ServiceConfig{
		Name:        env.GetString("NAME", ""),
		Environment: env.GetString("ENVIRONMENT", "development"),
		LogLevel:    env.GetString("LOG_LEVEL", "info"),
		LogFormat:   env.GetString("LOG_FORMAT", "text"),
	}
}

// PgPoolConfig configures the Postgres pool backing the content store. The pool
// itself is a standard construct owned by the caller; this config only knows how to
// produce a pgxpool.Config from it.
type PgPoolConfig struct {
	User                   string
	Password               string
	DBName                 string
	ApplicationName        string
	Hostname               string
	Port                   int
	PoolMaxSize            int
	PoolTimeoutWaitSecs    int
	PoolTimeoutCreateSecs  int
	PoolTimeoutRecycleSecs int
}

// LoadPgPoolConfig loads Postgres pool configuration from environment.
func LoadPgPoolConfig(prefix string) PgPoolConfig {
	env := NewEnvConfig(prefix)
	return PgPoolConfig{
		User:                   env.GetString("USER", "si"),
		Password:               env.GetString("PASSWORD", ""),
		DBName:                 env.GetString("DBNAME", "si_content"),
		ApplicationName:        env.GetString("APPLICATION_NAME", "si-core"),
		Hostname:               env.GetString("HOSTNAME", "localhost"),
		Port:                   env.GetInt("PORT", 5432),
		PoolMaxSize:            env.GetInt("POOL_MAX_SIZE", 10),
		PoolTimeoutWaitSecs:    env.GetInt("POOL_TIMEOUT_WAIT_SECS", 10),
		PoolTimeoutCreateSecs:  env.GetInt("POOL_TIMEOUT_CREATE_SECS", 10),
		PoolTimeoutRecycleSecs: env.GetInt("POOL_TIMEOUT_RECYCLE_SECS", 3600),
	}
}

// DSN renders the pool's connection string, suitable for pgxpool.ParseConfig.
func (pc PgPoolConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s application_name=%s connect_timeout=%d",
		pc.Hostname, pc.Port, pc.User, pc.Password, pc.DBName, pc.ApplicationName,
		pc.PoolTimeoutCreateSecs,
	)
}

// PoolConfig builds a pgxpool.Config with the pool sizing and timeout fields applied.
func (pc PgPoolConfig) PoolConfig() (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(pc.DSN())
	if err != nil {
		return nil, fmt.Errorf("config: parse postgres dsn: %w", err)
	}
	cfg.MaxConns = int32(pc.PoolMaxSize)
	cfg.MaxConnLifetime = time.Duration(pc.PoolTimeoutRecycleSecs) * time.Second
	cfg.ConnConfig.ConnectTimeout = time.Duration(pc.PoolTimeoutCreateSecs) * time.Second
	return cfg, nil
}

// LogFields returns the pool configuration as structured log fields with the
// password masked.
func (pc PgPoolConfig) LogFields() map[string]interface{} {
	return map[string]interface{}{
		"pg_host":     pc.Hostname,
		"pg_port":     pc.Port,
		"pg_user":     pc.User,
		"pg_password": common.MaskSecret(pc.Password),
		"pg_dbname":   pc.DBName,
		"pg_app":      pc.ApplicationName,
		"pg_pool_max": pc.PoolMaxSize,
	}
}

// Content store backend names accepted by ContentStoreConfig.Backend.
const (
	StoreBackendBolt     = "bolt"
	StoreBackendPostgres = "postgres"
)

// ContentStoreConfig selects and configures a content.Store backend.
type ContentStoreConfig struct {
	Backend  string
	BoltPath string
	Postgres PgPoolConfig
}

// LoadContentStoreConfig loads content store configuration from environment.
func LoadContentStoreConfig(prefix string) ContentStoreConfig {
	env := NewEnvConfig(prefix)
	return ContentStoreConfig{
		Backend:  env.GetString("STORE_BACKEND", StoreBackendBolt),
		BoltPath: env.GetString("STORE_BOLT_PATH", "content.db"),
		Postgres: LoadPgPoolConfig(prefix + "_STORE_PG"),
	}
}

// StreamConfig configures the compression pipeline's transport: where the per-change-
// set request streams live and which consumer group drains them.
type StreamConfig struct {
	RedisURL      string
	StreamPrefix  string
	ConsumerGroup string
	ConsumerName  string

	// ReadWindowCeiling caps the read window regardless of what the transport's
	// pending count reports, bounding worst-case batch size per compression.
	ReadWindowCeiling int
}

// LoadStreamConfig loads stream transport configuration from environment.
func LoadStreamConfig(prefix string) StreamConfig {
	env := NewEnvConfig(prefix)
	return StreamConfig{
		RedisURL:          env.GetString("STREAM_REDIS_URL", "redis://localhost:6379/0"),
		StreamPrefix:      env.GetString("STREAM_PREFIX", "edda.requests"),
		ConsumerGroup:     env.GetString("STREAM_GROUP", "edda"),
		ConsumerName:      env.GetString("STREAM_CONSUMER", "edda-0"),
		ReadWindowCeiling: env.GetInt("STREAM_READ_WINDOW_CEILING", 250),
	}
}

// StreamKey returns the stream name for one change set under this config's prefix.
func (sc StreamConfig) StreamKey(changeSetID string) string {
	return sc.StreamPrefix + "." + changeSetID
}

// Validator provides configuration validation utilities.
type Validator struct {
	errors []string
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make([]string, 0),
	}
}

// RequireString validates that a string field is not empty.
func (v *Validator) RequireString(field, value string) {
	if value == "" {
		v.errors = append(v.errors, fmt.Sprintf("%s is required", field))
	}
}

// RequirePositiveInt validates that an integer field is positive.
func (v *Validator) RequirePositiveInt(field string, value int) {
	if value <= 0 {
		v.errors = append(v.errors, fmt.Sprintf("%s must be positive", field))
	}
}

// RequireOneOf validates that a value is one of the allowed options.
func (v *Validator) RequireOneOf(field, value string, allowed []string) {
	if value == "" {
		v.errors = append(v.errors, fmt.Sprintf("%s is required", field))
		return
	}
	for _, option := range allowed {
		if value == option {
			return
		}
	}
	v.errors = append(v.errors, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
}

// IsValid returns true if there are no validation errors.
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []string {
	return v.errors
}

// ErrorString returns all validation errors as a single string.
func (v *Validator) ErrorString() string {
	if len(v.errors) == 0 {
		return ""
	}
	return strings.Join(v.errors, "; ")
}

// Validate runs validation and returns error if invalid.
func (v *Validator) Validate() error {
	if !v.IsValid() {
		return fmt.Errorf("configuration validation failed: %s", v.ErrorString())
	}
	return nil
}

// AllConfig contains every configuration section the core consumes.
type AllConfig struct {
	Service      ServiceConfig
	ContentStore ContentStoreConfig
	Stream       StreamConfig
}

// LoadAll loads and validates all configuration sections under one prefix.
func LoadAll(prefix string) (*AllConfig, error) {
	config := &AllConfig{
		Service:      LoadServiceConfig(prefix),
		ContentStore: LoadContentStoreConfig(prefix),
		Stream:       LoadStreamConfig(prefix),
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validate(config *AllConfig) error {
	validator := NewValidator()

	validator.RequireOneOf("Service.Environment", config.Service.Environment,
		[]string{"development", "staging", "production"})
	validator.RequireOneOf("Service.LogLevel", config.Service.LogLevel,
		[]string{"debug", "info", "warn", "error"})

	validator.RequireOneOf("ContentStore.Backend", config.ContentStore.Backend,
		[]string{StoreBackendBolt, StoreBackendPostgres})
	switch config.ContentStore.Backend {
	case StoreBackendBolt:
		validator.RequireString("ContentStore.BoltPath", config.ContentStore.BoltPath)
	case StoreBackendPostgres:
		validator.RequireString("ContentStore.Postgres.Hostname", config.ContentStore.Postgres.Hostname)
		validator.RequirePositiveInt("ContentStore.Postgres.Port", config.ContentStore.Postgres.Port)
		validator.RequirePositiveInt("ContentStore.Postgres.PoolMaxSize", config.ContentStore.Postgres.PoolMaxSize)
	}

	validator.RequireString("Stream.RedisURL", config.Stream.RedisURL)
	validator.RequireString("Stream.ConsumerGroup", config.Stream.ConsumerGroup)
	validator.RequirePositiveInt("Stream.ReadWindowCeiling", config.Stream.ReadWindowCeiling)

	return validator.Validate()
}
