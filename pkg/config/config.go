package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const defaultEnvFile = "./configs/.env"

var (
	once     sync.Once
	instance *Config
)

// Config reads settings from the process environment. Values from the dotenv
// file never override variables that are already set.
type Config struct {
	source string
}

func New() *Config {
	once.Do(func() {
		path := os.Getenv("CONFIG_FILE")
		if path == "" {
			path = defaultEnvFile
		}
		instance = load(path)
	})
	return instance
}

func load(path string) *Config {
	err := godotenv.Load(path)
	switch {
	case err == nil:
		return &Config{source: path}
	case errors.Is(err, fs.ErrNotExist):
		return &Config{}
	}
	log.Fatal("loading envs error: ", err)
	return nil
}

// Source is the dotenv file the config was loaded from, empty when only the
// environment was used.
func (c *Config) Source() string {
	return c.source
}

func (c *Config) GetString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func (c *Config) GetStringOr(key, def string) string {
	if v := c.GetString(key); v != "" {
		return v
	}
	return def
}

func (c *Config) GetInt(key string, def int) int {
	v, err := strconv.Atoi(c.GetString(key))
	if err != nil {
		return def
	}
	return v
}

func (c *Config) GetFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(c.GetString(key), 64)
	if err != nil {
		return def
	}
	return v
}

func (c *Config) GetBool(key string, def bool) bool {
	v, err := strconv.ParseBool(c.GetString(key))
	if err != nil {
		return def
	}
	return v
}

// GetDuration accepts Go duration strings ("90s", "168h").
func (c *Config) GetDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(c.GetString(key))
	if err != nil {
		return def
	}
	return v
}
