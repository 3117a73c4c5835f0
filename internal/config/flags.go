package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "volley",
		Short:         "Fire concurrent POST requests at a work-item endpoint and report latency statistics",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Target flags
	flags.String("base-url", DefaultBaseURL, "Base URL of the service under test")
	flags.String("credential", "", "Bearer credential sent with every request")
	flags.String("jwt", "", "Alias for --credential")
	_ = flags.MarkHidden("jwt")
	flags.String("collection", DefaultCollection, "Collection path segment of the request URL")
	flags.String("action", DefaultAction, "Action path segment of the request URL")

	// Work item flags
	flags.StringSlice("ids", nil, "Comma-separated work item identifiers")
	flags.String("ids-file", "", "Path to a CSV or JSON file of work item identifiers")
	flags.String("ids-field", DefaultIDsField, "Column or field holding the identifier in --ids-file")

	// Load control flags
	flags.IntP("concurrency", "c", DefaultConcurrency, "Maximum number of in-flight requests")
	flags.Int("repeat", 1, "Number of times the identifier list is repeated")
	flags.IntP("rate", "r", 0, "Admissions per second limit (0 means unlimited)")
	flags.Duration("timeout", DefaultTimeout, "Per-request timeout (0 disables it)")

	// Output flags
	flags.Bool("json-output", false, "Emit JSON formatted output")
	flags.Bool("yaml-output", false, "Emit YAML formatted output")
	flags.Bool("progress", false, "Print a live progress line to stderr")
	flags.Bool("log-errors", false, "Log each failed request to stderr")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "Log format: 'text' or 'json'")
	flags.String("history-file", "", "Append a JSON line per run to this file")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Threshold flags
	flags.StringSlice("threshold", nil, "Performance thresholds (repeatable, e.g., 'latency:p95 < 2')")

	// Tracing flags
	flags.String("otel-endpoint", "", "OTLP collector endpoint (enables tracing)")
	flags.String("otel-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.Bool("otel-insecure", false, "Use a plaintext connection to the collector")
	flags.Float64("otel-sample-rate", 1.0, "Fraction of requests to trace (0.0-1.0)")
	flags.String("otel-service-name", "", "Service name reported to the collector")
	flags.Bool("otel-propagate", true, "Inject W3C trace headers into requests")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\nUsage: %s\n\nFlags:\n", cmd.Short, cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file and environment.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("base-url") {
		val, err := fs.GetString("base-url")
		if err != nil {
			return err
		}
		cfg.BaseURL = strings.TrimSpace(val)
	}
	if fs.Changed("jwt") {
		val, err := fs.GetString("jwt")
		if err != nil {
			return err
		}
		cfg.Credential = val
	}
	if fs.Changed("credential") {
		val, err := fs.GetString("credential")
		if err != nil {
			return err
		}
		cfg.Credential = val
	}
	if fs.Changed("collection") {
		val, err := fs.GetString("collection")
		if err != nil {
			return err
		}
		cfg.Collection = strings.TrimSpace(val)
	}
	if fs.Changed("action") {
		val, err := fs.GetString("action")
		if err != nil {
			return err
		}
		cfg.Action = strings.TrimSpace(val)
	}
	if fs.Changed("ids") {
		val, err := fs.GetStringSlice("ids")
		if err != nil {
			return err
		}
		cfg.IDs = val
	}
	if fs.Changed("ids-file") {
		val, err := fs.GetString("ids-file")
		if err != nil {
			return err
		}
		cfg.IDsFile = strings.TrimSpace(val)
	}
	if fs.Changed("ids-field") {
		val, err := fs.GetString("ids-field")
		if err != nil {
			return err
		}
		cfg.IDsField = strings.TrimSpace(val)
	}
	if fs.Changed("concurrency") {
		val, err := fs.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if fs.Changed("repeat") {
		val, err := fs.GetInt("repeat")
		if err != nil {
			return err
		}
		cfg.Repeat = val
	}
	if fs.Changed("rate") {
		val, err := fs.GetInt("rate")
		if err != nil {
			return err
		}
		cfg.Rate = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("yaml-output") {
		val, err := fs.GetBool("yaml-output")
		if err != nil {
			return err
		}
		cfg.YAMLOutput = val
	}
	if fs.Changed("progress") {
		val, err := fs.GetBool("progress")
		if err != nil {
			return err
		}
		cfg.Progress = val
	}
	if fs.Changed("log-errors") {
		val, err := fs.GetBool("log-errors")
		if err != nil {
			return err
		}
		cfg.LogErrors = val
	}
	if fs.Changed("log-level") {
		val, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = strings.TrimSpace(val)
	}
	if fs.Changed("log-format") {
		val, err := fs.GetString("log-format")
		if err != nil {
			return err
		}
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("history-file") {
		val, err := fs.GetString("history-file")
		if err != nil {
			return err
		}
		cfg.HistoryFile = strings.TrimSpace(val)
	}
	if fs.Changed("threshold") {
		val, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}

	if fs.Changed("otel-endpoint") {
		val, err := fs.GetString("otel-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("otel-protocol") {
		val, err := fs.GetString("otel-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("otel-insecure") {
		val, err := fs.GetBool("otel-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	if fs.Changed("otel-sample-rate") {
		val, err := fs.GetFloat64("otel-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	if fs.Changed("otel-service-name") {
		val, err := fs.GetString("otel-service-name")
		if err != nil {
			return err
		}
		cfg.Tracing.ServiceName = strings.TrimSpace(val)
	}
	if fs.Changed("otel-propagate") {
		val, err := fs.GetBool("otel-propagate")
		if err != nil {
			return err
		}
		cfg.Tracing.Propagate = val
	}

	return nil
}
