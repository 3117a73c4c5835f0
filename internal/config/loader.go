package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the loader reads, e.g.
// VOLLEY_CREDENTIAL or VOLLEY_TRACING_ENDPOINT.
const EnvPrefix = "VOLLEY"

// Loader handles loading configuration from files, the environment and
// command-line arguments. Flags win over the environment, which wins over
// the file.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// envKeys lists the settings that may come from the environment.
var envKeys = []string{
	"base_url", "credential", "collection", "action",
	"ids", "ids_file", "ids_field",
	"concurrency", "repeat", "rate", "timeout",
	"json_output", "yaml_output", "progress", "log_errors", "log_level", "log_format",
	"history_file", "thresholds",
	"tracing.endpoint", "tracing.protocol", "tracing.insecure",
	"tracing.sample_rate", "tracing.service_name", "tracing.propagate",
}

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments, the environment and an optional
// configuration file to produce a Config.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	cfgViper.SetEnvPrefix(EnvPrefix)
	cfgViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for _, key := range envKeys {
		if err := cfgViper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	settings := cfgViper.AllSettings()

	cfg := &Config{
		BaseURL:     DefaultBaseURL,
		Collection:  DefaultCollection,
		Action:      DefaultAction,
		IDsField:    DefaultIDsField,
		Concurrency: DefaultConcurrency,
		Repeat:      1,
		Timeout:     DefaultTimeout,
		LogLevel:    "info",
		LogFormat:   "text",
		ConfigFile:  configPath,
		Tracing: TracingConfig{
			Protocol:   "grpc",
			SampleRate: 1.0,
			Propagate:  true,
		},
	}

	if err := applyConfigSettings(cfg, settings); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Credential = strings.TrimSpace(cfg.Credential)
	cfg.IDsFile = strings.TrimSpace(cfg.IDsFile)
	cfg.IDs = normalizeIDs(cfg.IDs)

	return cfg, nil
}

// applyConfigSettings applies settings from a config file or the environment
// to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "baseurl", "base_url", "base-url"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
		cfg.BaseURL = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "credential", "jwt"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("credential: %w", err)
		}
		cfg.Credential = val
	}

	if raw, ok := lookupSetting(settings, "collection"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("collection: %w", err)
		}
		if val = strings.TrimSpace(val); val != "" {
			cfg.Collection = val
		}
	}

	if raw, ok := lookupSetting(settings, "action"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("action: %w", err)
		}
		if val = strings.TrimSpace(val); val != "" {
			cfg.Action = val
		}
	}

	if raw, ok := lookupSetting(settings, "ids"); ok {
		ids, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("ids: %w", err)
		}
		cfg.IDs = ids
	}

	if raw, ok := lookupSetting(settings, "idsfile", "ids_file", "ids-file"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("ids_file: %w", err)
		}
		cfg.IDsFile = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "idsfield", "ids_field", "ids-field"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("ids_field: %w", err)
		}
		if val = strings.TrimSpace(val); val != "" {
			cfg.IDsField = val
		}
	}

	if raw, ok := lookupSetting(settings, "concurrency"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("concurrency: %w", err)
		}
		cfg.Concurrency = val
	}

	if raw, ok := lookupSetting(settings, "repeat"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("repeat: %w", err)
		}
		cfg.Repeat = val
	}

	if raw, ok := lookupSetting(settings, "rate"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("rate: %w", err)
		}
		cfg.Rate = val
	}

	if raw, ok := lookupSetting(settings, "timeout"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = dur
	}

	if raw, ok := lookupSetting(settings, "jsonoutput", "json_output", "json-output"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("json_output: %w", err)
		}
		cfg.JSONOutput = val
	}

	if raw, ok := lookupSetting(settings, "yamloutput", "yaml_output", "yaml-output"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("yaml_output: %w", err)
		}
		cfg.YAMLOutput = val
	}

	if raw, ok := lookupSetting(settings, "progress"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("progress: %w", err)
		}
		cfg.Progress = val
	}

	if raw, ok := lookupSetting(settings, "logerrors", "log_errors", "log-errors"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("log_errors: %w", err)
		}
		cfg.LogErrors = val
	}

	if raw, ok := lookupSetting(settings, "loglevel", "log_level", "log-level"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
		cfg.LogLevel = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "logformat", "log_format", "log-format"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("log_format: %w", err)
		}
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(val))
	}

	if raw, ok := lookupSetting(settings, "historyfile", "history_file", "history-file"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("history_file: %w", err)
		}
		cfg.HistoryFile = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "thresholds"); ok {
		thresholds, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
		cfg.Thresholds = thresholds
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		if err := applyTracingSettings(&cfg.Tracing, raw); err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}

	return nil
}

func applyTracingSettings(tc *TracingConfig, value interface{}) error {
	if value == nil {
		return nil
	}
	settings, err := asSettings(value)
	if err != nil {
		return err
	}
	if raw, ok := lookupSetting(settings, "endpoint"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
		tc.Endpoint = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "protocol"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("protocol: %w", err)
		}
		tc.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if raw, ok := lookupSetting(settings, "insecure"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("insecure: %w", err)
		}
		tc.Insecure = val
	}
	if raw, ok := lookupSetting(settings, "samplerate", "sample_rate", "sample-rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return fmt.Errorf("sample_rate: %w", err)
		}
		tc.SampleRate = val
	}
	if raw, ok := lookupSetting(settings, "servicename", "service_name", "service-name"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("service_name: %w", err)
		}
		tc.ServiceName = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "propagate"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("propagate: %w", err)
		}
		tc.Propagate = val
	}
	return nil
}

// normalizeIDs splits comma-joined entries, trims whitespace and drops blanks.
// Duplicates are kept: each occurrence is its own work item.
func normalizeIDs(raw []string) []string {
	var ids []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			if id := strings.TrimSpace(part); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
