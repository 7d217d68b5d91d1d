package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DatabaseURL string
	RedisAddr   string

	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	PlacesAPIKey   string
	PlacesBaseURL  string
	PlacesProxyURL string

	MailHost     string
	MailPort     int
	MailUser     string
	MailPass     string
	NotifyEmail  string
	MailDisabled bool

	AllowedOrigins []string
}

// Load lê o .env (se existir) e monta a configuração a partir do ambiente.
// A chave da API de lugares fica só aqui, no servidor, nunca no client.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   getEnv("REDIS_ADDRESS", "localhost:6379"),

		RabbitUser: getEnv("RABBITMQ_USER", "guest"),
		RabbitPass: getEnv("RABBITMQ_PASS", "guest"),
		RabbitHost: getEnv("RABBITMQ_HOST", "localhost"),
		RabbitPort: getEnv("RABBITMQ_PORT", "5672"),

		PlacesAPIKey:   os.Getenv("PLACES_API_KEY"),
		PlacesBaseURL:  getEnv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesProxyURL: os.Getenv("PLACES_PROXY_URL"),

		MailHost:    os.Getenv("MAIL_HOST"),
		MailUser:    os.Getenv("MAIL_USER"),
		MailPass:    os.Getenv("MAIL_PASS"),
		NotifyEmail: os.Getenv("NOTIFY_EMAIL"),
	}

	cfg.MailPort = 587
	if v := os.Getenv("MAIL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("MAIL_PORT inválido: " + v)
		}
		cfg.MailPort = port
	}
	cfg.MailDisabled = cfg.MailHost == "" || cfg.NotifyEmail == ""

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL não configurado")
	}
	if cfg.PlacesAPIKey == "" {
		return nil, errors.New("PLACES_API_KEY não configurado")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
