package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper). Loaded once at startup
// and passed by reference into the router and services; nothing reads env vars
// after this point.
type Config struct {
	Env                      string
	Port                     string
	DatabaseURL              string
	RedisURL                 string
	SecretKey                string
	AccessTokenExpireMinutes int
	UploadDir                string // where uploaded attachment files land on disk
	StaticDir                string // root directory served at /static
	PublicBasePath           string // URL prefix stored for uploaded files
	FrontendURLEndsWith      string
	DevPassword              string
	SeedKey                  string // X-Seed-Key header value required by POST /api/v1/seed
	HealthAdminKey           string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	expireMinutes := viper.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")
	if expireMinutes <= 0 {
		expireMinutes = 60 * 24 * 8
	}

	uploadDir := viper.GetString("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "static/uploads"
	}
	staticDir := viper.GetString("STATIC_DIR")
	if staticDir == "" {
		staticDir = "static"
	}
	publicBasePath := viper.GetString("PUBLIC_BASE_PATH")
	if publicBasePath == "" {
		publicBasePath = "/static/uploads"
	}

	return &Config{
		Env:                      env,
		Port:                     port,
		DatabaseURL:              dbURL,
		RedisURL:                 viper.GetString("REDIS_URL"),
		SecretKey:                viper.GetString("SECRET_KEY"),
		AccessTokenExpireMinutes: expireMinutes,
		UploadDir:                uploadDir,
		StaticDir:                staticDir,
		PublicBasePath:           publicBasePath,
		FrontendURLEndsWith:      viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:              viper.GetString("DEV_PASSWORD"),
		SeedKey:                  viper.GetString("SEED_KEY"),
		HealthAdminKey:           viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}
