package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}
	JWT struct {
		Secret string
		TTL    time.Duration
	}
	OpenAI struct {
		APIKey       string
		VisionModel  string
		InsightModel string
		Timeout      time.Duration
	}
	S3 struct {
		Region        string
		Bucket        string
		PublicBaseURL string
	}
	Redis struct {
		Addr     string
		Password string
		TTL      time.Duration
	}
	Server struct {
		Port string
	}
}

// Load reads config.yaml (if present) and environment variables, env wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("DB.Host", "localhost")
	v.SetDefault("DB.Port", "5432")
	v.SetDefault("DB.User", "postgres")
	v.SetDefault("DB.Password", "postgres")
	v.SetDefault("DB.Name", "carbculator")
	v.SetDefault("DB.SSLMode", "disable")
	v.SetDefault("JWT.TTL", 72*time.Hour)
	v.SetDefault("OpenAI.VisionModel", "gpt-4o")
	v.SetDefault("OpenAI.InsightModel", "gpt-4o-mini")
	v.SetDefault("OpenAI.Timeout", 30*time.Second)
	v.SetDefault("Redis.Addr", "localhost:6379")
	v.SetDefault("Redis.TTL", 5*time.Minute)
	v.SetDefault("Server.Port", "8080")

	v.AutomaticEnv()
	_ = v.BindEnv("DB.Host", "DB_HOST")
	_ = v.BindEnv("DB.Port", "DB_PORT")
	_ = v.BindEnv("DB.User", "DB_USER")
	_ = v.BindEnv("DB.Password", "DB_PASSWORD")
	_ = v.BindEnv("DB.Name", "DB_NAME")
	_ = v.BindEnv("DB.SSLMode", "DB_SSL_MODE")
	_ = v.BindEnv("JWT.Secret", "JWT_SECRET")
	_ = v.BindEnv("OpenAI.APIKey", "OPENAI_API_KEY")
	_ = v.BindEnv("S3.Region", "S3_REGION")
	_ = v.BindEnv("S3.Bucket", "S3_BUCKET")
	_ = v.BindEnv("S3.PublicBaseURL", "S3_PUBLIC_BASE_URL")
	_ = v.BindEnv("Redis.Addr", "REDIS_ADDR")
	_ = v.BindEnv("Redis.Password", "REDIS_PASSWORD")
	_ = v.BindEnv("Server.Port", "SERVER_PORT")

	// Config file is optional; env-only deployments are fine.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port, c.DB.SSLMode)
}
