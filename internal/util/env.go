// Package util holds small shared helpers with no domain knowledge.
package util

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GetEnv returns the environment variable value or defaultVal if unset.
func GetEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// GetEnvAsInt returns the environment variable parsed as int or defaultVal if
// unset or unparsable.
func GetEnvAsInt(key string, defaultVal int) int {
	strVal, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}

	val, err := strconv.Atoi(strVal)
	if err != nil {
		log.Warn().Str("key", key).Str("value", strVal).Msg("Failed to parse env var as int, using default")
		return defaultVal
	}
	return val
}

// GetEnvAsBool returns the environment variable parsed as bool
// (strconv.ParseBool syntax) or defaultVal if unset or unparsable.
func GetEnvAsBool(key string, defaultVal bool) bool {
	strVal, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}

	val, err := strconv.ParseBool(strVal)
	if err != nil {
		log.Warn().Str("key", key).Str("value", strVal).Msg("Failed to parse env var as bool, using default")
		return defaultVal
	}
	return val
}

// LogLevelFromString parses a zerolog level, falling back to info.
func LogLevelFromString(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		log.Warn().Str("level", s).Msg("Unknown log level, using info")
		return zerolog.InfoLevel
	}
	return level
}
