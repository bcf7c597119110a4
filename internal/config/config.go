package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverFTP   = "ftp"
	StorageDriverMinIO = "minio"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type Config struct {
	DB      DBConfig
	Storage StorageConfig
	FTP     FTPConfig
	MinIO   MinIOConfig
	Upload  UploadConfig
	Server  ServerConfig
}

type DBConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type StorageConfig struct {
	Driver string
}

type FTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	UploadPath string
	PublicPath string
	Timeouts   FTPTimeouts
}

// FTPTimeouts bounds each phase of an FTP session.
type FTPTimeouts struct {
	Connect     time.Duration
	Read        time.Duration
	DataConnect time.Duration
	DataRead    time.Duration
}

type MinIOConfig struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
	UploadPath     string
}

type UploadConfig struct {
	MaxBytes int64
}

type ServerConfig struct {
	Port        string
	AllowOrigin string
	BodyLimitMB int
}

const defaultTimeout = 60 * time.Second

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	loadDotEnv(".env")

	return &Config{
		DB: DBConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DBDriverSQLite)),
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "catalog"),
			Password: getEnv("DB_PASSWORD", "catalog_secret"),
			Name:     getEnv("DB_NAME", "catalog"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverFTP)),
		},
		FTP: FTPConfig{
			Host:       getEnv("FTP_HOST", "localhost"),
			Port:       getEnvAsInt("FTP_PORT", 21),
			Username:   getEnv("FTP_USERNAME", "anonymous"),
			Password:   getEnv("FTP_PASSWORD", ""),
			UploadPath: strings.TrimRight(getEnv("FTP_UPLOAD_PATH", "/uploads"), "/"),
			PublicPath: strings.Trim(getEnv("FTP_PUBLIC_PATH", "uploads"), "/"),
			Timeouts: FTPTimeouts{
				Connect:     getEnvAsDuration("FTP_CONNECT_TIMEOUT", defaultTimeout),
				Read:        getEnvAsDuration("FTP_READ_TIMEOUT", defaultTimeout),
				DataConnect: getEnvAsDuration("FTP_DATA_CONNECT_TIMEOUT", defaultTimeout),
				DataRead:    getEnvAsDuration("FTP_DATA_READ_TIMEOUT", defaultTimeout),
			},
		},
		MinIO: MinIOConfig{
			Endpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
			PublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
			AccessKey:      getEnv("MINIO_ACCESS_KEY", "catalog"),
			SecretKey:      getEnv("MINIO_SECRET_KEY", "catalog_secret"),
			Bucket:         getEnv("MINIO_BUCKET", "catalog"),
			Region:         getEnv("MINIO_REGION", ""),
			UseSSL:         getEnvAsBool("MINIO_USE_SSL", false),
			UploadPath:     strings.Trim(getEnv("MINIO_UPLOAD_PATH", "uploads"), "/"),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 5*1024*1024)),
		},
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			AllowOrigin: getEnv("CORS_ALLOW_ORIGINS", "*"),
			BodyLimitMB: getEnvAsInt("BODY_LIMIT_MB", 10),
		},
	}
}

func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "config: ignoring %s: %v\n", path, err)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
