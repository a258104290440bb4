package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port                   int      `yaml:"port"`
	ReadTimeoutSeconds     int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int      `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds     int      `yaml:"idle_timeout_seconds"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
	AcceptedOrigins        []string `yaml:"accepted_origins"`
	MaxPageLimit           int      `yaml:"max_page_limit"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	S3     struct {
		Bucket   string `yaml:"bucket"`
		Key      string `yaml:"key"`
		Region   string `yaml:"region"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"s3"`
	SQLitePath  string `yaml:"sqlite_path"`
	DatabaseURL string `yaml:"database_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FileConfig is the layout of the optional YAML config file.
type FileConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// LoadFile parses the YAML file at path. It returns nil, nil when the file
// does not exist.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// ToMap flattens the file into the same keys the environment uses. Unset
// fields are left out so defaults still apply.
func (c *FileConfig) ToMap() map[string]string {
	m := map[string]string{}
	putInt := func(key string, v int) {
		if v != 0 {
			m[key] = strconv.Itoa(v)
		}
	}
	putString := func(key, v string) {
		if v != "" {
			m[key] = v
		}
	}

	putInt("PORT", c.Server.Port)
	putInt("READ_TIMEOUT_SECONDS", c.Server.ReadTimeoutSeconds)
	putInt("WRITE_TIMEOUT_SECONDS", c.Server.WriteTimeoutSeconds)
	putInt("IDLE_TIMEOUT_SECONDS", c.Server.IdleTimeoutSeconds)
	putInt("SHUTDOWN_TIMEOUT_SECONDS", c.Server.ShutdownTimeoutSeconds)
	putInt("MAX_PAGE_LIMIT", c.Server.MaxPageLimit)
	putString("ACCEPTED_ORIGINS", strings.Join(c.Server.AcceptedOrigins, ","))

	putString("STORE_DRIVER", c.Storage.Driver)
	putString("DB_PATH", c.Storage.Path)
	putString("S3_BUCKET", c.Storage.S3.Bucket)
	putString("S3_KEY", c.Storage.S3.Key)
	putString("S3_REGION", c.Storage.S3.Region)
	putString("S3_ENDPOINT", c.Storage.S3.Endpoint)
	putString("SQLITE_PATH", c.Storage.SQLitePath)
	putString("DATABASE_URL", c.Storage.DatabaseURL)

	putString("LOG_LEVEL", c.Log.Level)
	putString("LOG_FORMAT", c.Log.Format)
	return m
}
