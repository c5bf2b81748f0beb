package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMinIO    = "minio"
)

// StorageConfig selects where the contract array is persisted.
type StorageConfig struct {
	Driver   string
	DataFile string
}

// DatabaseConfig is only read when Storage.Driver is DriverPostgres.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MinIOConfig is only read when Storage.Driver is DriverMinIO. The whole
// contract array lives in a single object named ObjectKey.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	ObjectKey string
	UseSSL    bool
}

// AppConfig is the process configuration, read once at startup.
type AppConfig struct {
	AppHost    string
	Port       string
	LogLevel   string
	TZLocation string
	Storage    StorageConfig
	Database   DatabaseConfig
	MinIO      MinIOConfig
}

// Load reads the configuration from the environment. Values from a .env file
// are visible here when the caller imports godotenv/autoload; variables that
// are already set win over the file.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:    getEnv("APP_HOST", "localhost:8080"),
		Port:       getEnv("PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		TZLocation: getEnv("TZ_LOCATION", "UTC"),
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", DriverFile),
			DataFile: getEnv("DATA_FILE", "contracts.json"),
		},
		Database: DatabaseConfig{
			Host:            os.Getenv("DB_HOST"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            os.Getenv("DB_USER"),
			Password:        os.Getenv("DB_PASSWORD"),
			Name:            os.Getenv("DB_NAME"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvSeconds("DB_CONN_MAX_LIFETIME_SEC", 5*time.Minute),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    os.Getenv("MINIO_BUCKET"),
			ObjectKey: getEnv("MINIO_OBJECT_KEY", "contracts.json"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// Validate reports settings that would keep the server from starting.
// Backend connection details are checked by the backends themselves.
func (c *AppConfig) Validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.DataFile == "" {
			return errors.New("DATA_FILE must not be empty")
		}
	case DriverPostgres, DriverMinIO:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}

// Location resolves TZLocation, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TZLocation)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}

func getEnvInt(key string, def int) int {
	if i, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return i
	}
	return def
}

func getEnvSeconds(key string, def time.Duration) time.Duration {
	if n := getEnvInt(key, -1); n >= 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
