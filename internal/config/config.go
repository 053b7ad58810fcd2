package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server  ServerConfig
	Google  GoogleConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	MinIO   MinIOConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// GoogleConfig describes the external identity provider. IssuerURL drives
// OIDC discovery; AuthorizeURL/TokenURL are only consulted when discovery
// is disabled (tests, air-gapped deployments).
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	IssuerURL    string
	AuthorizeURL string
	TokenURL     string
	RedirectURL  string
}

type JWTConfig struct {
	Secret          string
	Algorithm       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// CookieConfig controls the auth cookie attributes. Both flags default to
// true; browsers must not expose tokens to scripts or plain HTTP.
type CookieConfig struct {
	Secure            bool
	HTTPOnly          bool
	PostLoginRedirect string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("GOOGLE_ISSUER_URL", "https://accounts.google.com")
	viper.SetDefault("JWT_ALGORITHM", "HS256")
	viper.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	viper.SetDefault("JWT_REFRESH_TOKEN_TTL", 1440)
	viper.SetDefault("COOKIE_SECURE", true)
	viper.SetDefault("COOKIE_HTTPONLY", true)
	viper.SetDefault("POST_LOGIN_REDIRECT", "/")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("MINIO_BUCKET", "avatars")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Google: GoogleConfig{
			ClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			IssuerURL:    viper.GetString("GOOGLE_ISSUER_URL"),
			AuthorizeURL: viper.GetString("GOOGLE_AUTHORIZE_URL"),
			TokenURL:     viper.GetString("GOOGLE_TOKEN_URL"),
			RedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		},
		JWT: JWTConfig{
			Secret:          os.Getenv("JWT_SECRET"),
			Algorithm:       viper.GetString("JWT_ALGORITHM"),
			AccessTokenTTL:  time.Duration(viper.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			RefreshTokenTTL: time.Duration(viper.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
		},
		Cookie: CookieConfig{
			Secure:            viper.GetBool("COOKIE_SECURE"),
			HTTPOnly:          viper.GetBool("COOKIE_HTTPONLY"),
			PostLoginRedirect: viper.GetString("POST_LOGIN_REDIRECT"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWT.Algorithm != "HS256" {
		return nil, fmt.Errorf("unsupported JWT algorithm %q", cfg.JWT.Algorithm)
	}

	return cfg, nil
}
