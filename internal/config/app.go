package config

import (
	"log"
	"os"
	"sync"
)

type AppConfig struct {
	Name                string
	Env                 string
	Port                string
	BaseURL             string
	LogLevel            string
	ImageDir            string
	BrandGuidelinesPath string
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		appConfig = &AppConfig{
			Name:                getEnv("APP_NAME", "social-media-generator"),
			Env:                 env,
			Port:                getEnv("APP_PORT", ":8080"),
			BaseURL:             os.Getenv("APP_URL"),
			LogLevel:            getEnv("LOG_LEVEL", "info"),
			ImageDir:            getEnv("IMAGE_DIR", "generated_images"),
			BrandGuidelinesPath: getEnv("BRAND_GUIDELINES_PATH", "config/brand_guidelines.yaml"),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
