package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/itvlab/lab-scheduler/internal/bookingwindow"
	"github.com/itvlab/lab-scheduler/internal/domain"
)

var (
	// ErrLoadConfig ошибка чтения файла конфигурации
	ErrLoadConfig = errors.New("config: failed to load")

	// ErrInvalidConfig некорректное значение в конфигурации
	ErrInvalidConfig = errors.New("config: invalid value")
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// EnvPrefix префикс переменных окружения, переопределяющих конфигурацию
	EnvPrefix = "LAB"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Rooms    RoomsConfig    `toml:"rooms"`
	SMTP     SMTPConfig     `toml:"smtp"`
	EventBus EventBusConfig `toml:"eventbus"`
	Admin    AdminConfig    `toml:"admin"`
	CORS     CORSConfig     `toml:"cors"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`  // секунды
	WriteTimeout    int `toml:"write_timeout"` // секунды
	IdleTimeout     int `toml:"idle_timeout"`  // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | sqlite
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл SQLite
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для выбранного драйвера.
// Для SQLite включает внешние ключи, ожидание блокировки и немедленный захват записи транзакцией.
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", c.Path)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"` // text | json
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig правила окна бронирования
type BookingConfig struct {
	CutoffWeekday    string `toml:"cutoff_weekday"`
	CutoffTime       string `toml:"cutoff_time"` // HH:MM UTC
	ReleaseWeekday   string `toml:"release_weekday"`
	ReleaseTime      string `toml:"release_time"` // HH:MM UTC
	LocalOffsetHours int    `toml:"local_offset_hours"`
	AllowPastDates   bool   `toml:"allow_past_dates"`
}

// WindowRules преобразует конфигурацию в правила калькулятора окна
func (c BookingConfig) WindowRules() (bookingwindow.Rules, error) {
	cutoffDay, err := bookingwindow.ParseWeekday(c.CutoffWeekday)
	if err != nil {
		return bookingwindow.Rules{}, err
	}
	cutoffTime, err := bookingwindow.ParseClock(c.CutoffTime)
	if err != nil {
		return bookingwindow.Rules{}, err
	}
	releaseDay, err := bookingwindow.ParseWeekday(c.ReleaseWeekday)
	if err != nil {
		return bookingwindow.Rules{}, err
	}
	releaseTime, err := bookingwindow.ParseClock(c.ReleaseTime)
	if err != nil {
		return bookingwindow.Rules{}, err
	}

	rules := bookingwindow.Rules{
		CutoffWeekday:  cutoffDay,
		CutoffTime:     cutoffTime,
		ReleaseWeekday: releaseDay,
		ReleaseTime:    releaseTime,
		LocalOffset:    time.Duration(c.LocalOffsetHours) * time.Hour,
		AllowPastDates: c.AllowPastDates,
	}
	return rules, rules.Validate()
}

type RoomsConfig struct {
	Names []string `toml:"names"`
}

type SMTPConfig struct {
	Host     string `toml:"host"` // пустой host отключает отправку писем
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	Timeout  int    `toml:"timeout"` // секунды
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type EventBusConfig struct {
	URL        string `toml:"url"` // пустой url отключает публикацию событий
	Exchange   string `toml:"exchange"`
	RoutingKey string `toml:"routing_key"`
}

func (c EventBusConfig) Enabled() bool {
	return c.URL != ""
}

type AdminConfig struct {
	Secret     string  `toml:"secret"`
	SecretHash string  `toml:"secret_hash"` // bcrypt, имеет приоритет над secret
	RateLimit  float64 `toml:"rate_limit"`  // запросов в секунду с одного IP
	RateBurst  int     `toml:"rate_burst"`
}

func (c AdminConfig) Enabled() bool {
	return c.Secret != "" || c.SecretHash != ""
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// envOverrides переменные окружения LAB_*, перекрывающие значения из файла
type envOverrides struct {
	HTTPPort     int    `envconfig:"HTTP_PORT"`
	DBDriver     string `envconfig:"DB_DRIVER"`
	DBHost       string `envconfig:"DB_HOST"`
	DBPassword   string `envconfig:"DB_PASSWORD"`
	SQLitePath   string `envconfig:"SQLITE_PATH"`
	LogLevel     string `envconfig:"LOG_LEVEL"`
	AdminSecret  string `envconfig:"ADMIN_SECRET"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	AMQPURL      string `envconfig:"AMQP_URL"`
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			Path:            "lab_scheduler.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "lab-scheduler",
		},
		Booking: BookingConfig{
			CutoffWeekday:    "wednesday",
			CutoffTime:       "21:00",
			ReleaseWeekday:   "friday",
			ReleaseTime:      "02:59",
			LocalOffsetHours: -3,
		},
		Rooms: RoomsConfig{
			Names: append([]string(nil), domain.DefaultRoomNames...),
		},
		SMTP: SMTPConfig{
			Port:    587,
			From:    "noreply@example.com",
			Timeout: 10,
		},
		EventBus: EventBusConfig{
			Exchange:   "lab.bookings",
			RoutingKey: "booking.confirmed",
		},
		Admin: AdminConfig{
			RateLimit: 0.2,
			RateBurst: 5,
		},
	}
}

// Load читает TOML-файл поверх значений по умолчанию, затем .env и переменные окружения LAB_*.
// envFiles по умолчанию ".env"; отсутствие .env не является ошибкой.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, f, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("%w: environment: %v", ErrLoadConfig, err)
	}

	if env.HTTPPort != 0 {
		c.Server.HTTPPort = env.HTTPPort
	}
	setIfNotEmpty(&c.Database.Driver, env.DBDriver)
	setIfNotEmpty(&c.Database.Host, env.DBHost)
	setIfNotEmpty(&c.Database.Password, env.DBPassword)
	setIfNotEmpty(&c.Database.Path, env.SQLitePath)
	setIfNotEmpty(&c.Logs.Level, env.LogLevel)
	setIfNotEmpty(&c.Admin.Secret, env.AdminSecret)
	setIfNotEmpty(&c.SMTP.Password, env.SMTPPassword)
	setIfNotEmpty(&c.EventBus.URL, env.AMQPURL)

	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: database.driver=%q (expected postgres or sqlite)", ErrInvalidConfig, c.Database.Driver)
	}

	switch strings.ToLower(c.Logs.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: logs.format=%q", ErrInvalidConfig, c.Logs.Format)
	}

	if _, err := c.Booking.WindowRules(); err != nil {
		return fmt.Errorf("%w: booking: %v", ErrInvalidConfig, err)
	}

	if len(c.Rooms.Names) == 0 {
		return fmt.Errorf("%w: rooms.names must not be empty", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Rooms.Names))
	for _, name := range c.Rooms.Names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: rooms.names contains an empty name", ErrInvalidConfig)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: duplicate room name %q", ErrInvalidConfig, name)
		}
		seen[name] = struct{}{}
	}

	if c.SMTP.Enabled() && c.SMTP.Port <= 0 {
		return fmt.Errorf("%w: smtp.port=%d", ErrInvalidConfig, c.SMTP.Port)
	}

	if c.EventBus.Enabled() && c.EventBus.Exchange == "" {
		return fmt.Errorf("%w: eventbus.exchange is required when eventbus.url is set", ErrInvalidConfig)
	}

	if c.Admin.Enabled() && c.Admin.RateLimit <= 0 {
		return fmt.Errorf("%w: admin.rate_limit must be positive", ErrInvalidConfig)
	}

	return nil
}
