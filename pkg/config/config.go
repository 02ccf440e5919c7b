// Package config loads the browser service settings from the environment,
// an optional .env file and an optional browser.yaml.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/matst80/slask-browser/pkg/catalog"
	"github.com/matst80/slask-browser/pkg/common"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	DefaultConfigName = "browser"
	DefaultEnvFile    = ".env"
)

var validate = validator.New()

type Config struct {
	CatalogUrl      string        `mapstructure:"catalog_url" validate:"required,url"`
	ListenAddress   string        `mapstructure:"listen_address" validate:"required"`
	DebugAddress    string        `mapstructure:"debug_address"`
	EnableProfiling bool          `mapstructure:"enable_profiling"`
	PageSize        int           `mapstructure:"page_size" validate:"min=1,max=1000"`
	Debounce        time.Duration `mapstructure:"debounce" validate:"gt=0"`
	Locale          string        `mapstructure:"locale" validate:"required,bcp47_language_tag"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
	SessionTTL      time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	PruneInterval   time.Duration `mapstructure:"prune_interval" validate:"gt=0"`
	RedisUrl        string        `mapstructure:"redis_url"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDb         int           `mapstructure:"redis_db" validate:"min=0"`
	RabbitUrl       string        `mapstructure:"rabbit_url" validate:"omitempty,url"`
	Country         string        `mapstructure:"country"`

	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" validate:"gte=0"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
	HookTimeout       time.Duration `mapstructure:"hook_timeout" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog_url", catalog.DefaultUrl)
	v.SetDefault("listen_address", ":8080")
	v.SetDefault("debug_address", ":8081")
	v.SetDefault("enable_profiling", false)
	v.SetDefault("page_size", 10)
	v.SetDefault("debounce", 300*time.Millisecond)
	v.SetDefault("locale", "en")
	v.SetDefault("fetch_timeout", 30*time.Second)
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("prune_interval", 5*time.Minute)
	v.SetDefault("redis_url", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("rabbit_url", "")
	v.SetDefault("country", "se")
	v.SetDefault("read_header_timeout", 5*time.Second)
	v.SetDefault("read_timeout", 15*time.Second)
	// The stream endpoint keeps responses open, no write timeout by default.
	v.SetDefault("write_timeout", time.Duration(0))
	v.SetDefault("idle_timeout", 60*time.Second)
	v.SetDefault("shutdown_timeout", 15*time.Second)
	v.SetDefault("hook_timeout", 5*time.Second)
}

// secondsHook accepts plain integers as seconds, the way the server
// timeouts have always been given.
func secondsHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	s := strings.TrimSpace(reflect.ValueOf(data).String())
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return s, nil
}

// Load reads .env (when present) into the process environment, then
// browser.yaml from path or the working directory, then the environment.
// Later sources win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read %s: %v", DefaultEnvFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsHook,
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Language falls back to English for tags that only pass validation
// syntactically.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func (c *Config) Timeouts() common.TimeoutConfig {
	return common.TimeoutConfig{
		ReadHeader: c.ReadHeaderTimeout,
		Read:       c.ReadTimeout,
		Write:      c.WriteTimeout,
		Idle:       c.IdleTimeout,
		Shutdown:   c.ShutdownTimeout,
		Hook:       c.HookTimeout,
	}
}
