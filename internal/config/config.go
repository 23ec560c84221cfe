package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	DBDSN       string
	LogFile     string
	TemplateDir string

	MySQLHost     string
	MySQLPort     string
	MySQLUser     string
	MySQLPassword string
	MySQLDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ElasticsearchURL  string
	ElasticsearchUser string
	ElasticsearchPass string
	ReviewIndex       string

	JWTSecret       string
	TokenTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
	CronStats       string
	CronReindex     string
}

// IsDevelopment selects the embedded SQLite database instead of MySQL.
func (c Config) IsDevelopment() bool { return c.Environment == "development" }

// Driver is the database/sql driver name for the configured environment.
func (c Config) Driver() string {
	if c.IsDevelopment() {
		return "sqlite"
	}
	return "mysql"
}

// DSN returns DB_DSN when set, otherwise a DSN built from the MYSQL_* settings
// (production) or the default SQLite file (development).
func (c Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	if c.IsDevelopment() {
		return "commerce.db"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDB)
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}

func Load() Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := Config{
		Port:        env("PORT", "8000"),
		Environment: env("ENVIRONMENT", "development"),
		DBDSN:       os.Getenv("DB_DSN"),
		LogFile:     os.Getenv("LOG_FILE"),
		TemplateDir: env("TEMPLATE_DIR", "./web/templates"),

		MySQLHost:     env("MYSQL_SERVER", "localhost"),
		MySQLPort:     env("MYSQL_PORT", "3306"),
		MySQLUser:     env("MYSQL_USER", "root"),
		MySQLPassword: env("MYSQL_PASSWORD", "password"),
		MySQLDB:       env("MYSQL_DB", "commerce_recommendation"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		ElasticsearchURL:  os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchUser: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPass: os.Getenv("ELASTICSEARCH_PASSWORD"),
		ReviewIndex:       env("ELASTICSEARCH_REVIEW_INDEX", "reviews"),

		JWTSecret:       env("SECRET_KEY", "your-secret-key-here-change-in-production"),
		TokenTTL:        time.Duration(envInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		DefaultPageSize: 20,
		MaxPageSize:     100,
		CronStats:       env("CRON_STATS", "0 * * * *"),
		CronReindex:     env("CRON_REINDEX", "30 3 * * *"),
	}
	log.Printf("[config] PORT=%s ENVIRONMENT=%s DB=%s REDIS=%t ELASTICSEARCH=%t LOG_FILE=%s",
		cfg.Port, cfg.Environment, cfg.Driver(), cfg.RedisAddr != "", cfg.ElasticsearchURL != "", cfg.LogFile)
	return cfg
}
