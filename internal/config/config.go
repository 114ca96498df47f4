// Package config arma la configuración inmutable del servicio desde el
// entorno. Los componentes la reciben en su construcción: no hay globals.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string

	// Webhook de Facebook.
	VerifyToken string
	AppSecret   string

	// Tokens del Graph API: PageToken para leads, MarketingToken para los
	// nombres de campaña/adset/anuncio (opcional).
	PageToken      string
	MarketingToken string
	GraphBaseURL   string // vacío = producción
	PageID         string

	// SMTP para el correo de confirmación (opcional).
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// Load lee .env si existe y después el entorno.
func Load() Config {
	godotenv.Load()

	return Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           getEnv("PORT", "8080"),
		VerifyToken:    getEnv("WEBHOOK_VERIFY_TOKEN", "mi_token_verificacion_123"),
		AppSecret:      os.Getenv("FB_APP_SECRET"),
		PageToken:      os.Getenv("FB_PAGE_ACCESS_TOKEN"),
		MarketingToken: os.Getenv("MKT_TOKEN"),
		GraphBaseURL:   os.Getenv("GRAPH_BASE_URL"),
		PageID:         os.Getenv("PAGE_ID"),
		SMTPHost:       os.Getenv("MAIL_HOST"),
		SMTPPort:       getEnvInt("MAIL_PORT", 587),
		SMTPUser:       os.Getenv("MAIL_USER"),
		SMTPPassword:   os.Getenv("MAIL_PASS"),
		MailFrom:       getEnv("MAIL_FROM", "no-responder@kossodo.com"),
	}
}

// RequireDatabase falla al arranque si no hay credenciales de base de
// datos. Las herramientas batch lo chequean antes de hacer nada.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL no configurado")
	}
	return nil
}

func (c Config) RequirePageToken() error {
	if c.PageToken == "" {
		return errors.New("FB_PAGE_ACCESS_TOKEN no configurado")
	}
	return nil
}

// MailEnabled indica si hay SMTP configurado.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
