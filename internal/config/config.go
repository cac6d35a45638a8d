package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort        string
	DbHost         string
	DbPort         string
	DbUser         string
	DbPassword     string
	DbName         string
	DbParams       string
	TrustedProxies []string
	AttachmentDir  string
	JWTSecret      string
	SeedFile       string
}

// ClientConfig configures the editor CLI and its HTTP gateway client.
type ClientConfig struct {
	BaseURL  string
	Token    string
	Language string
	Timeout  time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		DbHost:         getEnv("MYSQL_HOST", "db"),
		DbPort:         getEnv("MYSQL_PORT", "3306"),
		DbUser:         getEnv("MYSQL_USER", "todoapp"),
		DbPassword:     getEnv("MYSQL_PASSWORD", "todoapp"),
		DbName:         getEnv("MYSQL_DATABASE", "todoapp"),
		DbParams:       getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
		TrustedProxies: parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
		AttachmentDir:  getEnv("ATTACHMENT_DIR", "var/attachments"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		SeedFile:       os.Getenv("SEED_FILE"),
	}
}

func LoadClientConfig() *ClientConfig {
	_ = godotenv.Load(".env")

	return &ClientConfig{
		BaseURL:  getEnv("PANEL_API_URL", "http://localhost:8080"),
		Token:    os.Getenv("PANEL_TOKEN"),
		Language: getEnv("PANEL_LANG", "en"),
		Timeout:  time.Duration(getEnvInt("PANEL_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
