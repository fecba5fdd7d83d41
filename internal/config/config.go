package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	WarehouseHost     string
	WarehousePort     string
	WarehouseUser     string
	WarehousePassword string
	WarehouseDB       string
	WarehouseSchema   string
	WarehouseRole     string
	ServerPort        string
	CacheTTL          time.Duration
}

// requiredKeys — ключи подключения к хранилищу, без которых сервис не стартует.
var requiredKeys = []string{
	"WAREHOUSE_HOST",
	"WAREHOUSE_USER",
	"WAREHOUSE_PASSWORD",
	"WAREHOUSE_DB",
}

func LoadConfig() (Config, error) {

	// .env опционален: в проде значения приходят из окружения
	_ = godotenv.Load()

	var missing []string
	for _, key := range requiredKeys {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required config keys: %s", strings.Join(missing, ", "))
	}

	return Config{
		WarehouseHost:     os.Getenv("WAREHOUSE_HOST"),
		WarehousePort:     getEnv("WAREHOUSE_PORT", "5432"),
		WarehouseUser:     os.Getenv("WAREHOUSE_USER"),
		WarehousePassword: os.Getenv("WAREHOUSE_PASSWORD"),
		WarehouseDB:       os.Getenv("WAREHOUSE_DB"),
		WarehouseSchema:   getEnv("WAREHOUSE_SCHEMA", "analytics"),
		WarehouseRole:     getEnv("WAREHOUSE_ROLE", ""),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		CacheTTL:          time.Duration(getEnvInt("CACHE_TTL_SECONDS", 600)) * time.Second,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
