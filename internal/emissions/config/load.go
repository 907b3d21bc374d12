package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/emission-report/internal/emissions/upstream"
)

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Duration = time.Duration(n)
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or int nanoseconds: %w", err)
	}
	d.Duration = dd
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   1 << 20,
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
		},
		Upstream: UpstreamConfig{
			Timeout: Duration{Duration: 30 * time.Second},
			EmptyBody: EmptyBodyConfig{
				All:      upstream.EmptyAsNoRecords,
				Country:  upstream.EmptyAsNoRecords,
				Material: upstream.EmptyAsNotFound,
			},
		},
		Export: ExportConfig{
			WriteOnOutliers: true,
		},
		Tracing: TracingConfig{
			ServiceName: "emission-report",
			SampleRatio: 0.1,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("ER_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LOG_MODE")); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("ER_HTTP_ADDR")); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("ER_UPSTREAM_BASE_URL")); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ER_UPSTREAM_API_KEY")); v != "" {
		cfg.Upstream.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("ER_EXPORT_DIR")); v != "" {
		cfg.Export.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("ER_TRACING_ENABLED")); v != "" {
		cfg.Tracing.Enabled = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); v != "" {
		cfg.Tracing.Endpoint = v
	}
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 1 << 20
	}
	if cfg.HTTP.ShutdownTimeout.Duration <= 0 {
		cfg.HTTP.ShutdownTimeout = Duration{Duration: 15 * time.Second}
	}

	cfg.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Upstream.BaseURL), "/")
	if cfg.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required (or set ER_UPSTREAM_BASE_URL)")
	}
	if cfg.Upstream.Timeout.Duration < 0 {
		return errors.New("upstream.timeout must not be negative")
	}

	eb := &cfg.Upstream.EmptyBody
	for _, p := range []struct {
		name string
		v    *upstream.EmptyBodyPolicy
		def  upstream.EmptyBodyPolicy
	}{
		{"all", &eb.All, upstream.EmptyAsNoRecords},
		{"country", &eb.Country, upstream.EmptyAsNoRecords},
		{"material", &eb.Material, upstream.EmptyAsNotFound},
	} {
		if strings.TrimSpace(string(*p.v)) == "" {
			*p.v = p.def
			continue
		}
		parsed, err := upstream.ParseEmptyBodyPolicy(string(*p.v))
		if err != nil {
			return fmt.Errorf("upstream.empty_body.%s: %w", p.name, err)
		}
		*p.v = parsed
	}

	cfg.Export.Dir = strings.TrimSpace(cfg.Export.Dir)
	if cfg.Export.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve export dir: %w", err)
		}
		cfg.Export.Dir = wd
	}

	if strings.TrimSpace(cfg.Tracing.ServiceName) == "" {
		cfg.Tracing.ServiceName = "emission-report"
	}
	if cfg.Tracing.SampleRatio < 0 {
		cfg.Tracing.SampleRatio = 0
	}
	if cfg.Tracing.SampleRatio > 1 {
		cfg.Tracing.SampleRatio = 1
	}
	return nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}
