package config

import (
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	AddrEnv     = "SERVER_ADDR"
	OriginsEnv  = "ALLOWED_ORIGINS"
	LogLevelEnv = "LOG_LEVEL"
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	LogLevel       zapcore.Level
}

func Load() (Config, error) {
	level, err := zapcore.ParseLevel(getOrDefault(LogLevelEnv, "info"))
	if err != nil {
		return Config{}, err
	}

	var origins []string
	if raw := os.Getenv(OriginsEnv); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			origins = append(origins, strings.TrimSpace(origin))
		}
	}

	return Config{
		Addr:           getOrDefault(AddrEnv, ":3000"),
		AllowedOrigins: origins,
		LogLevel:       level,
	}, nil
}

func getOrDefault(key, defaultVal string) string {
	if val, found := os.LookupEnv(key); found {
		return val
	}
	return defaultVal
}
