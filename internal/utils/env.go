package utils

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/yungbote/herbolario-backend/internal/logger"
)

// LoadDotEnv reads an optional .env file. A missing file is fine; real
// deployments set variables through the environment.
func LoadDotEnv(path string, log *logger.Logger) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if log != nil {
			log.Debug("No dotenv file loaded", "path", path)
		}
		return
	}
	if log != nil {
		log.Info("Loaded environment from dotenv file", "path", path)
	}
}

func GetEnv(key, defaultVal string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	if log != nil {
		log.Debug("Environment variable found, using environment", "environment", val)
	}
	return val
}

func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	if log != nil {
		log = log.With("env_var", key)
	}
	valStr, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	i, err := strconv.Atoi(valStr)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as int, using default", "providedVal", valStr, "defaultVal", defaultVal, "error", err)
		}
		return defaultVal
	}
	return i
}
