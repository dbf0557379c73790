package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type (
	// APIServerConfig is the root configuration of the apiserver
	APIServerConfig struct {
		Server     ServerConfig     `yaml:"server"`
		Storage    StorageConfig    `yaml:"storage"`
		Logger     LoggerConfig     `yaml:"logger"`
		Authz      AuthzConfig      `yaml:"authz"`
		SuperAdmin SuperAdminConfig `yaml:"super_admin"`
		I18n       I18nConfig       `yaml:"i18n"`
		Metrics    MetricsConfig    `yaml:"metrics"`
		Tracing    TracingConfig    `yaml:"tracing"`
	}

	// ServerConfig controls the HTTP listener
	ServerConfig struct {
		Port        int      `yaml:"port"`
		Mode        string   `yaml:"mode"` // debug, release, test
		CORSOrigins []string `yaml:"cors_origins"`
	}

	// AuthzConfig toggles server side permission checks. When Enforce is
	// false the server trusts the client to gate mutations.
	AuthzConfig struct {
		Enforce *bool `yaml:"enforce"`
	}

	// SuperAdminConfig describes the permanent top level account
	SuperAdminConfig struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		DefaultLanguage string `yaml:"default_language"`
	}

	// MetricsConfig configures the prometheus registry
	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	// TracingConfig represents OpenTelemetry tracing configuration
	TracingConfig struct {
		Enabled     bool              `yaml:"enabled"`
		ServiceName string            `yaml:"service_name"`
		Endpoint    string            `yaml:"endpoint"`     // e.g. localhost:4317 or localhost:4318
		Protocol    string            `yaml:"protocol"`     // grpc or http
		Insecure    bool              `yaml:"insecure"`     // allow insecure connection
		SamplerRate float64           `yaml:"sampler_rate"` // 0.0~1.0
		Environment string            `yaml:"environment"`
		Headers     map[string]string `yaml:"headers"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, stderr, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`    // whether to compress backup files
		Color      bool   `yaml:"color"`       // whether to use color in console output
		Stacktrace bool   `yaml:"stacktrace"`  // whether to include stacktrace in error logs
		TimeZone   string `yaml:"time_zone"`   // time zone for log timestamps, e.g., "UTC", default is local
		TimeFormat string `yaml:"time_format"` // time format for log timestamps, default is "2006-01-02 15:04:05"
	}
)

// EnforceAuthz reports whether server side permission checks are on.
// Unset means on.
func (c AuthzConfig) EnforceAuthz() bool {
	return c.Enforce == nil || *c.Enforce
}

// SetDefaults fills zero values with the values the server runs with
func (c *APIServerConfig) SetDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5235
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "memory"
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "sdctrack:"
	}
	if c.SuperAdmin.Username == "" {
		c.SuperAdmin.Username = "MLS"
	}
	if c.SuperAdmin.Password == "" {
		c.SuperAdmin.Password = "2008"
	}
	if c.I18n.DefaultLanguage == "" {
		c.I18n.DefaultLanguage = "en"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "sdctrack"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "sdctrack-apiserver"
	}
}

// Validate checks combinations YAML cannot express
func (c *APIServerConfig) Validate() error {
	switch c.Storage.Type {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for redis storage")
		}
	case StorageTypeDB:
		switch c.Storage.Database.Type {
		case "sqlite", "mysql", "postgres":
		default:
			return fmt.Errorf("unsupported database type: %q", c.Storage.Database.Type)
		}
	default:
		return fmt.Errorf("unsupported storage type: %q", c.Storage.Type)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DatabaseConfig describes a relational database used as a key-value backend
type DatabaseConfig struct {
	Type     string `yaml:"type"`     // mysql, postgres, sqlite
	Host     string `yaml:"host"`     // localhost
	Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
	User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
	Password string `yaml:"password"` // password
	DBName   string `yaml:"dbname"`   // database name, or file path for sqlite
	SSLMode  string `yaml:"sslmode"`  // disable (for postgres)

	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return c.getPostgresDSN()
	case "mysql":
		return c.getMySQLDSN()
	case "sqlite":
		if c.DBName != ":memory:" && !isSQLiteURI(c.DBName) {
			// Ensure the directory for the SQLite database exists.
			// If the directory cannot be created, it's a fatal error.
			if err := os.MkdirAll(filepath.Dir(c.DBName), 0755); err != nil {
				panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
			}
		}
		return c.DBName // For SQLite, DBName is the file path
	default:
		return ""
	}
}

func isSQLiteURI(name string) bool {
	return len(name) > 5 && name[:5] == "file:"
}

// getPostgresDSN returns PostgreSQL connection string
func (c *DatabaseConfig) getPostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getMySQLDSN returns MySQL connection string
func (c *DatabaseConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
