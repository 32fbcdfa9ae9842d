package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Mail     MailConfig
	AI       AIConfig
}

type ServerConfig struct {
	Port               string
	JWTSecret          string
	JWTExpirationHours int
	AllowRegistration  bool
	CORSOrigin         string
}

type DatabaseConfig struct {
	DSN string
}

type MailConfig struct {
	SMTPHost string
	SMTPPort string
	From     string
	Password string
	AlertTo  string
}

type AIConfig struct {
	GeminiAPIKey string
}

var AppConfig *Config

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 24)
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("CORS_ORIGIN", "http://localhost:5173")

	AppConfig = &Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			JWTSecret:          viper.GetString("JWT_SECRET"),
			JWTExpirationHours: viper.GetInt("JWT_EXPIRATION_HOURS"),
			AllowRegistration:  viper.GetBool("ALLOW_REGISTRATION"),
			CORSOrigin:         viper.GetString("CORS_ORIGIN"),
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("DB_DSN"),
		},
		Mail: MailConfig{
			SMTPHost: viper.GetString("SMTP_HOST"),
			SMTPPort: viper.GetString("SMTP_PORT"),
			From:     viper.GetString("MAIL_FROM"),
			Password: viper.GetString("MAIL_PASSWORD"),
			AlertTo:  viper.GetString("MAIL_ALERT_TO"),
		},
		AI: AIConfig{
			GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
		},
	}

	if AppConfig.Server.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET is not set")
	}
}
