package commands

import (
	"os"
	"time"
	"ytcomments/internal/configutil"
	"ytcomments/internal/telemetry"
)

const defaultConfigName = "ytcomments.json5"

type Config struct {
	UserAgent         string           `json:"user_agent"`
	CookiesFile       string           `json:"cookies_file"`
	Language          string           `json:"language"`
	Retries           int              `json:"retries"`
	RetryDelay        string           `json:"retry_delay"`
	RequestTimeout    string           `json:"request_timeout"`
	PageDelay         string           `json:"page_delay"`
	RequestsPerSecond float64          `json:"requests_per_second"`
	PageCacheTTL      string           `json:"page_cache_ttl"`
	CloudflareBypass  bool             `json:"cloudflare_bypass"`
	Telemetry         telemetry.Config `json:"telemetry"`
}

type durations struct {
	retryDelay     time.Duration
	requestTimeout time.Duration
	pageDelay      time.Duration
	pageCacheTTL   time.Duration
}

func (c Config) durations() (durations, error) {
	var out durations
	var err error
	out.retryDelay, err = configutil.DurationOr(c.RetryDelay, 0)
	if err != nil {
		return out, err
	}
	out.requestTimeout, err = configutil.DurationOr(c.RequestTimeout, 0)
	if err != nil {
		return out, err
	}
	out.pageDelay, err = configutil.DurationOr(c.PageDelay, 0)
	if err != nil {
		return out, err
	}
	out.pageCacheTTL, err = configutil.DurationOr(c.PageCacheTTL, 0)
	if err != nil {
		return out, err
	}
	return out, nil
}

// loadConfig reads the file named by --config, or the nearest
// ytcomments.json5. Without any config file every setting keeps its default.
func loadConfig(path string) (Config, error) {
	if path != "" {
		return configutil.ReadConfig[Config](path)
	}
	cfg, err := configutil.ReadRecursively[Config](defaultConfigName)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	return cfg, err
}
