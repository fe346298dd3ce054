package config

import (
	"fmt"
	"os"
	"strings"
)

// MercadoLivre holds the credentials for the marketplace OAuth app.
type MercadoLivre struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Google holds the credentials for the Google OAuth app.
type Google struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Config contains the application configuration loaded from the environment.
type Config struct {
	RedisURL       string
	JWTSecret      string
	AdminPassword  string
	CronSecret     string
	AllowedOrigins []string
	SiteURL        string
	RapidAPIKey    string
	AmazonTag      string

	ML     MercadoLivre
	Google Google
}

// Load reads the configuration from environment variables. Credentials that
// every deployment needs (Redis, JWT secret) are required; the OAuth apps and
// the admin/cron secrets are validated lazily by the handlers that use them.
func Load() (*Config, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL não configurado")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET não configurado")
	}

	cfg := &Config{
		RedisURL:      redisURL,
		JWTSecret:     jwtSecret,
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		CronSecret:    os.Getenv("CRON_SECRET"),
		SiteURL:       os.Getenv("SITE_URL"),
		RapidAPIKey:   os.Getenv("RAPIDAPI_KEY"),
		AmazonTag:     os.Getenv("AMAZON_AFFILIATE_TAG"),
		ML: MercadoLivre{
			ClientID:     os.Getenv("ML_CLIENT_ID"),
			ClientSecret: os.Getenv("ML_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("ML_REDIRECT_URI"),
		},
		Google: Google{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),
		},
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}
