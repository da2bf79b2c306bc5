package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	S3     S3Config
	App    AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

type AppConfig struct {
	OutputDir     string
	SkinPrefix    string
	ProcessedKey  string
	MaxUploadSize int64
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "localhost")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("S3_ENDPOINT", "localhost:9000")
	viper.SetDefault("S3_ACCESS_KEY_ID", "minioadmin")
	viper.SetDefault("S3_SECRET_ACCESS_KEY", "minioadmin")
	viper.SetDefault("S3_USE_SSL", false)
	viper.SetDefault("S3_BUCKET_NAME", "skins")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("APP_OUTPUT_DIR", "./skins/processed")
	viper.SetDefault("APP_SKIN_PREFIX", "skins/")
	viper.SetDefault("APP_PROCESSED_KEY", "processed/")
	viper.SetDefault("APP_MAX_UPLOAD_SIZE", 2*1024*1024) // skins are tiny

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		S3: S3Config{
			Endpoint:        viper.GetString("S3_ENDPOINT"),
			AccessKeyID:     viper.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("S3_SECRET_ACCESS_KEY"),
			UseSSL:          viper.GetBool("S3_USE_SSL"),
			BucketName:      viper.GetString("S3_BUCKET_NAME"),
			Region:          viper.GetString("S3_REGION"),
		},
		App: AppConfig{
			OutputDir:     viper.GetString("APP_OUTPUT_DIR"),
			SkinPrefix:    viper.GetString("APP_SKIN_PREFIX"),
			ProcessedKey:  viper.GetString("APP_PROCESSED_KEY"),
			MaxUploadSize: viper.GetInt64("APP_MAX_UPLOAD_SIZE"),
		},
	}

	if err := os.MkdirAll(cfg.App.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.App.OutputDir, err)
	}

	return cfg, nil
}
