// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Companion CompanionConfig `mapstructure:"companion"`
	Receipt   ReceiptConfig   `mapstructure:"receipt"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	BodyLimitMB    int      `mapstructure:"body_limit_mb"`
}

type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
}

type MySQLConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
}

// GetDSN returns the MySQL connection string
func (m MySQLConfig) GetDSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		m.User, m.Password, m.Host, m.Port, m.Database,
	)
}

// CompanionConfig points at the frontend deployment used as the last-resort
// origin when fetching receipt images.
type CompanionConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// ReceiptConfig holds the paths and timeouts of the receipt renderer.
type ReceiptConfig struct {
	AssetsDir    string `mapstructure:"assets_dir"`
	StaticDir    string `mapstructure:"static_dir"`
	UploadsDir   string `mapstructure:"uploads_dir"`
	AssetTimeout int    `mapstructure:"asset_timeout"` // milliseconds, per fallback step
}

// AuthConfig holds settings for login/session handling.
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
