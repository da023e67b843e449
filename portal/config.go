// Package portal holds the settings shared by portal front-ends.
package portal

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	APIURL      string
	SessionFile string
	SessionKey  string
}

// NewConfig reads GES_API_URL, GES_SESSION_FILE and GES_SESSION_KEY, after loading
// config/.env.portal when it exists.
func NewConfig() (*Config, error) {
	dotEnvPath := filepath.Join("config", ".env.portal")
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v := viper.New()
	v.SetEnvPrefix("GES")
	v.AutomaticEnv()

	v.SetDefault("api_url", "http://localhost:8000")
	v.SetDefault("session_key", "")
	if dir, err := os.UserConfigDir(); err == nil {
		v.SetDefault("session_file", filepath.Join(dir, "ges", "session"))
	} else {
		v.SetDefault("session_file", ".ges-session")
	}

	conf := &Config{
		APIURL:      v.GetString("api_url"),
		SessionFile: v.GetString("session_file"),
		SessionKey:  v.GetString("session_key"),
	}
	if conf.SessionKey == "" {
		return nil, errors.New("GES_SESSION_KEY is required")
	}
	return conf, nil
}
