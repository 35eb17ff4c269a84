package appconf

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files. Missing files are
// skipped; variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return err
	}
	return nil
}

func GetEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func GetEnvAsInt(key string, defaultVal int) int {
	if value, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

func GetEnvAsFloat(key string, defaultVal float64) float64 {
	if value, err := strconv.ParseFloat(GetEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultVal
}

func GetEnvAsBool(key string, defaultVal bool) bool {
	if value, err := strconv.ParseBool(GetEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value, err := time.ParseDuration(GetEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

// SplitList splits a comma separated list and trims each entry.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
