package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		DebugHost                 string
		AllowedOrigins            []string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		Name          string
		DisableTLS    bool
	}

	// MediaConfig selects where uploaded files (avatars) go: "disk" or "minio".
	MediaConfig struct {
		Backend       string
		Dir           string
		BaseURL       string
		MaxUploadSize int64

		MinIOEndpoint  string
		MinIOAccessKey string
		MinIOSecretKey string
		MinIOBucket    string
		MinIOUseSSL    bool
	}

	Config struct {
		Env             string
		Build           string
		Debug           bool
		TestMode        bool
		AppName         string
		SecretKey       string
		FromEmail       string
		FrontendBaseURL string
		SendgridApiKey  string
		RollbarToken    string

		Server   ServerConfig
		Database DatabaseConfig
		Media    MediaConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.FromEmail}
}

// NewConfig loads the configuration for the current ENV (DEV, TEST, QA, PROD).
// Values come from defaults, then config/.env.<env> (if present), then <ENV>_* environment variables.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "GES")
	v.SetDefault("secretKey", "h3y!g5s_0q%x+kr9@7a=dev-only-secret-zz1$")
	v.SetDefault("fromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("serverHost", "0.0.0.0:8000")
	v.SetDefault("serverDebugHost", "0.0.0.0:4000")
	v.SetDefault("serverAllowedOrigins", "http://localhost:3000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 24*time.Hour)

	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbUser", "ges")
	v.SetDefault("dbPassword", "ges")
	v.SetDefault("dbAdminUser", "postgres")
	v.SetDefault("dbAdminPassword", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbName", "ges")
	v.SetDefault("dbDisableTLS", true)

	v.SetDefault("mediaBackend", "disk")
	v.SetDefault("mediaDir", "media")
	v.SetDefault("mediaBaseURL", "/media/")
	v.SetDefault("mediaMaxUploadSize", 2*1024*1024)
	v.SetDefault("minioEndpoint", "localhost:9000")
	v.SetDefault("minioAccessKey", "")
	v.SetDefault("minioSecretKey", "")
	v.SetDefault("minioBucket", "ges-media")
	v.SetDefault("minioUseSSL", false)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		AppName:         v.GetString("appName"),
		SecretKey:       v.GetString("secretKey"),
		FromEmail:       v.GetString("fromEmail"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			DebugHost:                 v.GetString("serverDebugHost"),
			AllowedOrigins:            splitList(v.GetString("serverAllowedOrigins")),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			Name:          v.GetString("dbName"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Media: MediaConfig{
			Backend:        v.GetString("mediaBackend"),
			Dir:            v.GetString("mediaDir"),
			BaseURL:        v.GetString("mediaBaseURL"),
			MaxUploadSize:  v.GetInt64("mediaMaxUploadSize"),
			MinIOEndpoint:  v.GetString("minioEndpoint"),
			MinIOAccessKey: v.GetString("minioAccessKey"),
			MinIOSecretKey: v.GetString("minioSecretKey"),
			MinIOBucket:    v.GetString("minioBucket"),
			MinIOUseSSL:    v.GetBool("minioUseSSL"),
		},
	}
}

// NewTestConfig returns a config suitable for unit tests: no I/O, no env lookups.
func NewTestConfig() *Config {
	return &Config{
		Env:       "TEST",
		Build:     "test",
		TestMode:  true,
		AppName:   "GES",
		SecretKey: "test-secret",
		FromEmail: "noreply@test.test",
		Server: ServerConfig{
			Host:                      "localhost:8000",
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
		},
		Media: MediaConfig{Backend: "disk", BaseURL: "/media/", MaxUploadSize: 2 * 1024 * 1024},
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) String() string {
	return fmt.Sprintf("%s(%s) env=%s debug=%t", c.AppName, c.Build, c.Env, c.Debug)
}
