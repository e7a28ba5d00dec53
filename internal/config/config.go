// Package config reads settings from the environment, after loading a .env
// file when one is present.
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Database struct {
	Driver   string
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
	// Path is the SQLite file, or ":memory:".
	Path  string
	Debug bool
}

// DSN builds the lib/pq connection URL.
func (d Database) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Logs holds the append-only audit log paths written by the jobs.
type Logs struct {
	Heartbeat     string
	LowStock      string
	OrderReminder string
}

type Schedule struct {
	Heartbeat     time.Duration
	LowStock      time.Duration
	OrderReminder time.Duration
}

type Config struct {
	Database        Database
	HTTPAddr        string
	APIURL          string
	AMQPURL         string
	ReminderQueue   string
	Logs            Logs
	Schedule        Schedule
	ShutdownTimeout time.Duration
}

// Load reads .env (if any) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Database: Database{
			Driver:   getenv("DB_DRIVER", DriverPostgres),
			User:     getenv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			Name:     getenv("DB_NAME", "crm"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
			Path:     getenv("DB_PATH", "crm.db"),
			Debug:    os.Getenv("DB_DEBUG") == "true",
		},
		HTTPAddr:      getenv("HTTP_ADDR", ":8000"),
		APIURL:        getenv("API_URL", "http://localhost:8000/api"),
		AMQPURL:       os.Getenv("AMQP_URL"),
		ReminderQueue: getenv("REMINDER_QUEUE", "order_reminders"),
		Logs: Logs{
			Heartbeat:     getenv("HEARTBEAT_LOG", "/tmp/crm_heartbeat_log.txt"),
			LowStock:      getenv("LOW_STOCK_LOG", "/tmp/low_stock_updates_log.txt"),
			OrderReminder: getenv("ORDER_REMINDER_LOG", "/tmp/order_reminders_log.txt"),
		},
	}

	var err error
	if cfg.Schedule.Heartbeat, err = duration("HEARTBEAT_INTERVAL", 5*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.Schedule.LowStock, err = duration("LOW_STOCK_INTERVAL", 12*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.Schedule.OrderReminder, err = duration("ORDER_REMINDER_INTERVAL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.ShutdownTimeout, err = duration("SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return cfg, err
	}

	switch cfg.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return cfg, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.Database.Driver)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// duration accepts Go durations ("90s") or a bare number of seconds.
func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return time.Duration(secs) * time.Second, nil
}
