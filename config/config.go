package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// In-code defaults, overridable through the environment. There is no remote
// config plane here; a single gateway node plus one persist worker do not
// need one.

type Config struct {
	// Gateway
	WSAddr    string // HTTP listen address for the WebSocket endpoint
	GatewayID string

	// Event log
	KafkaBrokers []string
	KafkaGroupID string
	ChatTopic    string

	// Presence cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PresenceTTL   time.Duration

	// Durable storage
	MongoURI      string
	MongoDatabase string

	// Persist worker
	FlushWindow time.Duration
}

func Load() *Config {
	return &Config{
		WSAddr:        envOr("CHAT_WS_ADDR", ":8080"),
		GatewayID:     envOr("CHAT_GATEWAY_ID", "chat_gw-1"),
		KafkaBrokers:  strings.Split(envOr("KAFKA_BROKERS", "127.0.0.1:9092"), ","),
		KafkaGroupID:  envOr("KAFKA_GROUP_ID", "chat-persist-1"),
		ChatTopic:     envOr("CHAT_TOPIC", "chat.messages"),
		RedisAddr:     envOr("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: envOr("REDIS_PASSWORD", ""),
		RedisDB:       envOrInt("REDIS_DB", 0),
		PresenceTTL:   envOrDuration("PRESENCE_TTL", 300*time.Second),
		MongoURI:      envOr("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: envOr("MONGO_DATABASE", "unimart_chat"),
		FlushWindow:   envOrDuration("FLUSH_WINDOW", 3000*time.Millisecond),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
