package config

import (
	"time"

	"github.com/yungbote/emission-report/internal/emissions/upstream"
)

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes"`

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string `yaml:"cors_origins"`
}

type EmptyBodyConfig struct {
	All      upstream.EmptyBodyPolicy `yaml:"all"`
	Country  upstream.EmptyBodyPolicy `yaml:"country"`
	Material upstream.EmptyBodyPolicy `yaml:"material"`
}

type UpstreamConfig struct {
	// BaseURL of the emission data record service, e.g. http://emission-data:8080.
	BaseURL string `yaml:"base_url"`

	// APIKey is optional; when set it is sent as a bearer token.
	APIKey string `yaml:"api_key"`

	Timeout   Duration        `yaml:"timeout"`
	EmptyBody EmptyBodyConfig `yaml:"empty_body"`
}

func (u UpstreamConfig) Policies() upstream.Policies {
	return upstream.Policies{
		All:      u.EmptyBody.All,
		Country:  u.EmptyBody.Country,
		Material: u.EmptyBody.Material,
	}
}

type ExportConfig struct {
	// Dir receives AllEmissionRecords.csv. Defaults to the working directory.
	Dir string `yaml:"dir"`

	// WriteOnOutliers mirrors every outliers request to the on-disk export.
	WriteOnOutliers bool `yaml:"write_on_outliers"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type Config struct {
	Env      string         `yaml:"env"`
	Version  string         `yaml:"version"`
	HTTP     HTTPConfig     `yaml:"http"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Export   ExportConfig   `yaml:"export"`
	Tracing  TracingConfig  `yaml:"tracing"`
}
