package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SecurityConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
	CookieName    string
	CookieSecure  bool
}

type DirectoryConfig struct {
	CacheTTL     time.Duration
	WarmSchedule string
}

type AppConfig struct {
	Environment string
	HTTP        HTTPConfig
	Redis       RedisConfig
	Backend     BackendConfig
	Security    SecurityConfig
	Directory   DirectoryConfig
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("HEALTHBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Environment == "production" && cfg.Security.SessionSecret == "dev-only-secret" {
		return nil, fmt.Errorf("security.sessionsecret must be set in production")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("backend.baseurl", "http://localhost:8081")
	v.SetDefault("backend.timeout", "10s")

	v.SetDefault("security.sessionsecret", "dev-only-secret")
	v.SetDefault("security.sessionttl", "720h") // 30 days
	v.SetDefault("security.cookiename", "healthbook_session")
	v.SetDefault("security.cookiesecure", false)

	v.SetDefault("directory.cachettl", "5m")
	v.SetDefault("directory.warmschedule", "0 */5 * * * *")
}
