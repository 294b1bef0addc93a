package focuslog

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the logger's environment settings.
type Config struct {
	Port string
	Baud int
	CSV  string
}

// LoadConfig reads FOCUSLOG_PORT, FOCUSLOG_BAUD and FOCUSLOG_CSV, loading a
// .env file from the working directory first when there is one.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("FOCUSLOG_PORT", "/dev/ttyACM0"),
		Baud: getEnvInt("FOCUSLOG_BAUD", 115200),
		CSV:  getEnv("FOCUSLOG_CSV", "focus_metrics.csv"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return n
}
