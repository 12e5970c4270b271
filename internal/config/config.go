package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"GO_ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	// Session / auth
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	SessionTTL  time.Duration `mapstructure:"SESSION_TTL"`
	RememberTTL time.Duration `mapstructure:"REMEMBER_TTL"`
	BcryptCost  int           `mapstructure:"BCRYPT_COST"`

	// Redis backs the shared revocation store when set
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// RabbitMQ receives message.created events when set
	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	RabbitMQExchange string `mapstructure:"RABBITMQ_EXCHANGE"`

	DefaultAvatarURL string `mapstructure:"DEFAULT_AVATAR_URL"`
}

var AppConfig *Config

// Default returns a config with every optional key filled in.
func Default() *Config {
	return &Config{
		Port:             "5000",
		Env:              "development",
		LogLevel:         "info",
		DBDriver:         "postgres",
		JWTSecret:        "secret",
		SessionTTL:       30 * time.Minute,
		RememberTTL:      24 * time.Hour,
		BcryptCost:       10,
		FrontendURL:      "http://localhost:5173",
		RabbitMQExchange: "realestate.events",
		DefaultAvatarURL: "https://res.cloudinary.com/dlkwv0qaq/image/upload/v1761876296/default-avatar-profile_bse2jk.webp",
	}
}

func LoadConfig() {
	def := Default()
	viper.SetDefault("PORT", def.Port)
	viper.SetDefault("GO_ENV", def.Env)
	viper.SetDefault("LOG_LEVEL", def.LogLevel)
	viper.SetDefault("DB_DRIVER", def.DBDriver)
	viper.SetDefault("JWT_SECRET", def.JWTSecret)
	viper.SetDefault("SESSION_TTL", def.SessionTTL)
	viper.SetDefault("REMEMBER_TTL", def.RememberTTL)
	viper.SetDefault("BCRYPT_COST", def.BcryptCost)
	viper.SetDefault("FRONTEND_URL", def.FrontendURL)
	viper.SetDefault("RABBITMQ_EXCHANGE", def.RabbitMQExchange)
	viper.SetDefault("DEFAULT_AVATAR_URL", def.DefaultAvatarURL)

	// AutomaticEnv only resolves keys viper already knows about
	for _, key := range []string{"DATABASE_URL", "CORS_ORIGINS", "REDIS_ADDR", "REDIS_PASSWORD", "RABBITMQ_URL"} {
		viper.SetDefault(key, "")
	}

	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}
