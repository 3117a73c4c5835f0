package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL     = "http://localhost:8080"
	DefaultCollection  = "meetings"
	DefaultAction      = "transcode"
	DefaultConcurrency = 5
	DefaultTimeout     = 300 * time.Second
	DefaultIDsField    = "id"
)

type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	Credential  string        `mapstructure:"credential"`
	Collection  string        `mapstructure:"collection"`
	Action      string        `mapstructure:"action"`
	IDs         []string      `mapstructure:"ids"`
	IDsFile     string        `mapstructure:"ids_file"`
	IDsField    string        `mapstructure:"ids_field"`
	Concurrency int           `mapstructure:"concurrency"`
	Repeat      int           `mapstructure:"repeat"`
	Rate        int           `mapstructure:"rate"`
	Timeout     time.Duration `mapstructure:"timeout"`
	JSONOutput  bool          `mapstructure:"json_output"`
	YAMLOutput  bool          `mapstructure:"yaml_output"`
	LogErrors   bool          `mapstructure:"log_errors"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
	Progress    bool          `mapstructure:"progress"`
	HistoryFile string        `mapstructure:"history_file"`
	Thresholds  []string      `mapstructure:"thresholds"`
	Tracing     TracingConfig `mapstructure:"tracing"`
	ConfigFile  string        `mapstructure:"-"`
}

// TracingConfig configures OpenTelemetry export of per-request spans.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`     // OTLP collector address; empty disables tracing
	Protocol    string  `mapstructure:"protocol"`     // "grpc" (default) or "http"
	Insecure    bool    `mapstructure:"insecure"`     // plaintext connection to the collector
	SampleRate  float64 `mapstructure:"sample_rate"`  // 0.0-1.0
	ServiceName string  `mapstructure:"service_name"` // defaults to OTEL_SERVICE_NAME, then "volley"
	Propagate   bool    `mapstructure:"propagate"`    // inject W3C trace headers into requests
}

// Enabled reports whether spans should be exported.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// ShouldPropagate reports whether trace headers should be sent to the target.
func (t TracingConfig) ShouldPropagate() bool {
	return t.Enabled() && t.Propagate
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (c Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.BaseURL) == "" {
		issues = append(issues, "base-url is required (use --help for usage information)")
	} else if err := validateBaseURL(c.BaseURL); err != nil {
		issues = append(issues, err.Error())
	}
	if strings.TrimSpace(c.Credential) == "" {
		issues = append(issues, "credential is required (--credential or VOLLEY_CREDENTIAL)")
	}
	if len(c.IDs) == 0 && strings.TrimSpace(c.IDsFile) == "" {
		issues = append(issues, "at least one identifier is required (--ids or --ids-file)")
	}
	issues = append(issues, validatePathSegment("collection", c.Collection)...)
	issues = append(issues, validatePathSegment("action", c.Action)...)

	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be >= 1")
	}
	if c.Repeat < 1 {
		issues = append(issues, "repeat must be >= 1")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	if c.JSONOutput && c.YAMLOutput {
		issues = append(issues, "json-output and yaml-output are mutually exclusive")
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			issues = append(issues, fmt.Sprintf("log-level: %v", err))
		}
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		issues = append(issues, fmt.Sprintf("log-format must be 'text' or 'json', got %q", c.LogFormat))
	}

	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

// Warnings returns non-fatal notices about the configuration.
func (c Config) Warnings() []string {
	var warnings []string
	if c.Rate > 1000 {
		warnings = append(warnings, fmt.Sprintf("High rate limit configured (%d RPS). Ensure you have authorization to test the target system.", c.Rate))
	}
	if c.Concurrency > 500 {
		warnings = append(warnings, fmt.Sprintf("High concurrency configured (%d in flight). Ensure you have authorization to test the target system.", c.Concurrency))
	}
	if c.Timeout == 0 {
		warnings = append(warnings, "Per-request timeout disabled; a target that never answers will stall the run.")
	}
	return warnings
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("base-url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base-url must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base-url must include a host, got %q", raw)
	}
	return nil
}

func validatePathSegment(name, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{fmt.Sprintf("%s is required", name)}
	}
	if strings.Contains(value, "/") {
		return []string{fmt.Sprintf("%s must be a single path segment, got %q", name, value)}
	}
	return nil
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(t.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing: protocol must be 'grpc' or 'http', got %q", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing: sample_rate must be between 0.0 and 1.0, got %g", t.SampleRate))
	}
	return issues
}
