package b64upload

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of the environment variables read by ConfigFromEnv
const EnvPrefix = "B64UPLOAD"

// Config holds the defaults of a Client. Every field can be set from the
// environment, e.g. B64UPLOAD_URL or B64UPLOAD_TIMEOUT=30s.
type Config struct {
	URL       string        // default destination when Options.URL is empty
	FileKey   string        `envconfig:"FILE_KEY" default:"file"`
	Timeout   time.Duration `default:"60s"`
	UserAgent string        `envconfig:"USER_AGENT" default:"b64upload"`
}

// ConfigFromEnv reads a Config from the environment
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, badOptions("failed to read config from env: %v", err)
	}
	return cfg, nil
}

// NewClientFromEnv creates a Client configured from the environment
func NewClientFromEnv() (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg), nil
}
