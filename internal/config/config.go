package config

import (
	"os"
	"strconv"
)

type KronosConfig struct {
	Port          string
	SimServiceCfg SimServiceConfig
	ChatCfg       ChatServiceConfig
	RedisCfg      RedisConfig
	RabbitMQCfg   RabbitMQConfig
	RefreshCfg    RefreshConfig
}

// SimServiceConfig points at the remote scheduler/simulation service and the
// bundled snapshot used when it is unreachable.
type SimServiceConfig struct {
	BaseURL        string
	StaticLogPath  string
	TimeoutSeconds int
}

// ChatServiceConfig holds the two independent chat collaborators: the Q&A
// service (/ask) and the co-pilot service (/chat).
type ChatServiceConfig struct {
	AskServiceURL  string
	ChatServiceURL string
	TimeoutSeconds int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// RefreshConfig controls the optional scheduled re-fetch of the simulation
// log. An empty schedule disables the job.
type RefreshConfig struct {
	Schedule string
}

func New() *KronosConfig {
	return &KronosConfig{
		Port: getEnvOrDefault("PORT", "8090"),
		SimServiceCfg: SimServiceConfig{
			BaseURL:        getEnvOrDefault("SIM_SERVICE_URL", "http://localhost:5001"),
			StaticLogPath:  getEnvOrDefault("STATIC_LOG_PATH", "data/simulation_log.json"),
			TimeoutSeconds: getEnvIntOrDefault("SIM_SERVICE_TIMEOUT", 30),
		},
		ChatCfg: ChatServiceConfig{
			AskServiceURL:  getEnvOrDefault("CHAT_ASK_URL", "http://localhost:5002"),
			ChatServiceURL: getEnvOrDefault("CHAT_ASSIST_URL", "http://localhost:5001"),
			TimeoutSeconds: getEnvIntOrDefault("CHAT_TIMEOUT", 60),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", ""),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getEnvIntOrDefault("REDIS_DB", 0),
		},
		RabbitMQCfg: RabbitMQConfig{
			Host:     getEnvOrDefault("RABBITMQ_HOST", ""),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
		},
		RefreshCfg: RefreshConfig{
			Schedule: getEnvOrDefault("LOG_REFRESH_SCHEDULE", ""),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
