package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	DataDir       string
	ExportDir     string
	PayrollPath   string
	ExportWorkers int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "inmo"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "inmo123"),
		PostgresDB:       getEnv("POSTGRES_DB", "inmo_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		DataDir:       getEnv("DATA_DIR", "./datos"),
		ExportDir:     getEnv("EXPORT_DIR", "./output"),
		PayrollPath:   getEnv("PAYROLL_XLSX_PATH", "./output/hoja_pago.xlsx"),
		ExportWorkers: getEnvInt("EXPORT_WORKERS", 3),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
