package config

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string `mapstructure:"PORT"`
	DatabaseURL                   string `mapstructure:"DATABASE_URL"`
	SecretKey                     string `mapstructure:"SECRET_KEY"`
	UploadDir                     string `mapstructure:"UPLOAD_DIR"`
	S3Bucket                      string `mapstructure:"S3_BUCKET"`
	RedisURL                      string `mapstructure:"REDIS_URL"`
	AdminUsername                 string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword                 string `mapstructure:"ADMIN_PASSWORD"`
	EnforceCapacity               bool   `mapstructure:"ENFORCE_CAPACITY"`
	SecureCookies                 bool   `mapstructure:"SECURE_COOKIES"`
	LoginRatePerMinute            int    `mapstructure:"LOGIN_RATE_PER_MINUTE"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

const legacyPostgresScheme = "postgres://"

// NormalizeDatabaseURL rewrites the legacy postgres:// scheme to postgresql://.
func NormalizeDatabaseURL(url string) string {
	if strings.HasPrefix(url, legacyPostgresScheme) {
		return "postgresql://" + strings.TrimPrefix(url, legacyPostgresScheme)
	}
	return url
}

// loadEnvFile applies a .env file if one exists. A missing file is not an error.
func loadEnvFile(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func LoadConfig() *Config {
	if err := loadEnvFile(); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	viper.SetDefault("PORT", "5000")
	viper.SetDefault("DATABASE_URL", "sqlite:///travel_agency.db")
	viper.SetDefault("SECRET_KEY", "travel-agency-dev-secret-key")
	viper.SetDefault("UPLOAD_DIR", "static/uploads")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "admin123")
	viper.SetDefault("ENFORCE_CAPACITY", false)
	viper.SetDefault("SECURE_COOKIES", false)
	viper.SetDefault("LOGIN_RATE_PER_MINUTE", 30)

	viper.BindEnv("S3_BUCKET")
	viper.BindEnv("REDIS_URL")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	config.DatabaseURL = NormalizeDatabaseURL(config.DatabaseURL)

	return &config
}
