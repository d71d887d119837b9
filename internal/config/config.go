package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	commoncfg "seedbreed/common/config"
)

// 记录集合的存储后端
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config seedbreed-data 配置
type Config struct {
	HTTP struct {
		Addr string
	}
	// API_TOKEN 为空时不校验 /api/v1/ 的 Bearer
	APIToken     string
	StoreBackend string
	Database     commoncfg.DatabaseConfig
	Redis        commoncfg.RedisConfig
	Log          struct {
		Level  string
		Format string
	}
	MQTT    MQTTConfig
	Lineage LineageConfig
	AI      AIConfig
	OCR     OCRConfig
}

// MQTTConfig 血缘事件的 MQTT 通知（默认关闭）
type MQTTConfig struct {
	Enabled bool
	Topic   string
	commoncfg.MQTTConfig
}

type LineageConfig struct {
	Stream       string
	StreamMaxLen int64
}

// AIConfig OpenAI 兼容的对话服务
type AIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type OCRConfig struct {
	TesseractPath string
	Lang          string
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.APIToken = getEnv("API_TOKEN", "")
	cfg.StoreBackend = NormalizeBackend(getEnv("STORE_BACKEND", BackendMemory))

	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "seedbreed",
		SSLMode:  "disable",
		MaxConns: 10,
		MaxIdle:  5,

		ConnMaxLifetime: 30 * time.Minute,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis = commoncfg.RedisConfig{
		Addr:         "localhost:6379",
		DialTimeout:  3 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "seedbreed/lineage")
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "seedbreed-data"
	cfg.MQTT.QoS = 1
	cfg.MQTT.MQTTConfig.LoadFromEnv("MQTT")

	cfg.Lineage.Stream = getEnv("LINEAGE_STREAM", "seedbreed:lineage")
	cfg.Lineage.StreamMaxLen = int64(parseInt(getEnv("LINEAGE_STREAM_MAXLEN", "10000"), 10000))

	cfg.AI.BaseURL = getEnv("AI_BASE_URL", "https://api.deepseek.com/v1")
	cfg.AI.APIKey = getEnv("AI_API_KEY", "")
	cfg.AI.Model = getEnv("AI_MODEL", "deepseek-chat")
	cfg.AI.Temperature = parseFloat(getEnv("AI_TEMPERATURE", "0.7"), 0.7)
	cfg.AI.MaxTokens = parseInt(getEnv("AI_MAX_TOKENS", "1024"), 1024)
	cfg.AI.Timeout = time.Duration(parseInt(getEnv("AI_TIMEOUT_SECONDS", "60"), 60)) * time.Second

	cfg.OCR.TesseractPath = getEnv("OCR_TESSERACT_PATH", "tesseract")
	cfg.OCR.Lang = getEnv("OCR_LANG", "chi_sim+eng")

	return cfg
}

// NormalizeBackend 未知值按 memory 处理
func NormalizeBackend(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case BackendRedis:
		return BackendRedis
	case BackendPostgres, "postgresql", "pg":
		return BackendPostgres
	default:
		return BackendMemory
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}
