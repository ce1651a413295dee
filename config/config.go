package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"time"

	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/configparser"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	"github.com/Temutjin2k/bus-tracker/pkg/validator"
	ws "github.com/Temutjin2k/bus-tracker/pkg/wsHub"
)

// Flags
var (
	modeFlag = flag.String("mode", string(types.TrackingService), "application mode: tracking-service, migrate or seed")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Server    ServerConfig
		Database  DatabaseConfig
		WebSocket WebSocketConfig
		Log       LogConfig
		Retention RetentionConfig
		RabbitMQ  RabbitMQConfig
		NATS      NATSConfig
		Redis     RedisConfig
	}

	ServerConfig struct {
		Name              string        `env:"SERVER_NAME" default:"bus-tracker" validate:"required"`
		Host              string        `env:"SERVER_HOST" default:"0.0.0.0"`
		Port              string        `env:"SERVER_PORT" default:"8000" validate:"required,numeric"`
		ReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" default:"10s"`
		ShutdownTimeout   time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost" validate:"required"`
		Port     string `env:"DATABASE_PORT" default:"5432" validate:"required,numeric"`
		User     string `env:"DATABASE_USER" default:"bus_user" validate:"required"`
		Password string `env:"DATABASE_PASSWORD" default:"bus_pass"`
		Database string `env:"DATABASE_DATABASE" default:"bus_tracking" validate:"required"`
		SSLMode  string `env:"DATABASE_SSLMODE" default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20" validate:"gte=1"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2" validate:"gte=0"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`

		// AutoMigrate applies pending migrations when the tracking service starts.
		AutoMigrate bool `env:"DATABASE_AUTO_MIGRATE" default:"true"`
	}

	WebSocketConfig struct {
		SendQueueSize  int           `env:"WEBSOCKET_SEND_QUEUE_SIZE" default:"64" validate:"gte=1"`
		MaxOverflows   int           `env:"WEBSOCKET_MAX_OVERFLOWS" default:"3" validate:"gte=1"`
		PingPeriod     time.Duration `env:"WEBSOCKET_PING_PERIOD" default:"54s"`
		PongWait       time.Duration `env:"WEBSOCKET_PONG_WAIT" default:"60s"`
		WriteWait      time.Duration `env:"WEBSOCKET_WRITE_WAIT" default:"10s"`
		MaxMessageSize int64         `env:"WEBSOCKET_MAX_MESSAGE_SIZE" default:"4096" validate:"gte=64"`
	}

	LogConfig struct {
		Level      string `env:"LOG_LEVEL" default:"INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
		FilePath   string `env:"LOG_FILE_PATH"`
		MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" default:"100" validate:"gte=1"`
		MaxBackups int    `env:"LOG_MAX_BACKUPS" default:"3" validate:"gte=0"`
		MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" default:"28" validate:"gte=0"`
	}

	// RetentionConfig controls pruning of old location reports. Zero days keeps everything.
	RetentionConfig struct {
		Days     int    `env:"RETENTION_DAYS" default:"0" validate:"gte=0"`
		Schedule string `env:"RETENTION_SCHEDULE" default:"@daily"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	NATSConfig struct {
		Enabled bool   `env:"NATS_ENABLED" default:"false"`
		URL     string `env:"NATS_URL" default:"nats://localhost:4222"`
	}

	RedisConfig struct {
		Enabled  bool   `env:"REDIS_ENABLED" default:"false"`
		Addr     string `env:"REDIS_ADDR" default:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" default:"0" validate:"gte=0"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

func (c DatabaseConfig) PoolLimits() (maxConns, minConns int32, maxLifetime, maxIdle time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c WebSocketConfig) ConnConfig() ws.Config {
	return ws.Config{
		SendQueueSize:  c.SendQueueSize,
		MaxOverflows:   c.MaxOverflows,
		PingPeriod:     c.PingPeriod,
		PongWait:       c.PongWait,
		WriteWait:      c.WriteWait,
		MaxMessageSize: c.MaxMessageSize,
	}
}

func (c LogConfig) FileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       c.FilePath,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}

func (c RetentionConfig) Window() time.Duration {
	return time.Duration(c.Days) * 24 * time.Hour
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks tag rules and the cross-field constraints tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	v.Struct(c)

	v.Check(c.Mode.Valid(), "mode", "must be one of tracking-service migrate seed")
	v.Check(c.WebSocket.PongWait > 0, "WEBSOCKET_PONG_WAIT", "must be positive")
	v.Check(c.WebSocket.PingPeriod > 0 && c.WebSocket.PingPeriod < c.WebSocket.PongWait,
		"WEBSOCKET_PING_PERIOD", "must be positive and shorter than WEBSOCKET_PONG_WAIT")
	v.Check(c.Database.MinConns <= c.Database.MaxConns, "DATABASE_MINCONNS", "must not exceed DATABASE_MAXCONNS")

	if !v.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, types.NewValidationError(v.Errors))
	}
	return nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	cfg.Mode = types.ServiceMode(*modeFlag)

	return nil
}
