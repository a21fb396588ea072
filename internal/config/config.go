package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	ServerAddress  string        `envconfig:"SERVER_ADDRESS" default:":9090"`
	ContextTimeout time.Duration `envconfig:"CONTEXT_TIMEOUT" default:"30s"`

	DBDriver string `envconfig:"DB_DRIVER" default:"mysql"`
	DBHost   string `envconfig:"DATABASE_HOST" default:"127.0.0.1"`
	DBPort   string `envconfig:"DATABASE_PORT" default:"3306"`
	DBUser   string `envconfig:"DATABASE_USER" default:"root"`
	DBPass   string `envconfig:"DATABASE_PASS"`
	DBName   string `envconfig:"DATABASE_NAME" default:"blog"`
	DBTZ     string `envconfig:"DATABASE_TZ" default:"UTC"`

	CacheHost string `envconfig:"CACHE_HOST" default:"127.0.0.1"`
	CachePort string `envconfig:"CACHE_PORT" default:"6379"`
	CachePass string `envconfig:"CACHE_PASS"`
	CacheDB   int    `envconfig:"CACHE_DB" default:"0"`

	BloomBitSize uint64 `envconfig:"BLOOM_FILTER_SIZE" default:"10000000"`
	BloomHashes  int    `envconfig:"BLOOM_FILTER_HASHES" default:"3"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	CommentPageSize    int           `envconfig:"COMMENT_PAGE_SIZE" default:"15"`
	CommentMaxPageSize int           `envconfig:"COMMENT_MAX_PAGE_SIZE" default:"100"`
	CascadeTimeout     time.Duration `envconfig:"CASCADE_TIMEOUT" default:"30s"`

	// 写接口限流，每个调用方每秒请求数
	WriteRPS   float64 `envconfig:"WRITE_RATE_LIMIT" default:"5"`
	WriteBurst int     `envconfig:"WRITE_RATE_BURST" default:"10"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using process environment")
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.CommentPageSize < 1 || c.CommentMaxPageSize < c.CommentPageSize {
		return fmt.Errorf("invalid comment page sizes %d/%d", c.CommentPageSize, c.CommentMaxPageSize)
	}
	if c.CascadeTimeout <= 0 {
		return fmt.Errorf("CASCADE_TIMEOUT must be positive")
	}
	if c.BloomBitSize == 0 {
		return fmt.Errorf("BLOOM_FILTER_SIZE must be positive")
	}
	return nil
}

// DSN builds the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName, c.DBTZ)
	}
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", c.DBTZ)
	val.Add("charset", "utf8mb4")
	// RowsAffected counts matched rows, not changed ones
	val.Add("clientFoundRows", "true")
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName, val.Encode())
}

func (c Config) CacheAddr() string {
	return c.CacheHost + ":" + c.CachePort
}

// SetupLogger applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger.
func (c Config) SetupLogger() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
