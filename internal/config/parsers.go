// Package config loads volley settings from flags, the environment and an
// optional JSON or YAML file.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// The helpers below coerce the loosely typed values viper hands back. A YAML
// file yields ints, a JSON file float64s and the environment strings, so each
// setting accepts all three.

// lookupSetting returns the first of keys present in settings. viper lowercases
// keys, so candidates are compared in lower case.
func lookupSetting(settings map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if val, ok := settings[strings.ToLower(key)]; ok {
			return val, true
		}
	}
	return nil, false
}

func asString(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// asInt accepts integers, whole floats and numeric strings.
func asInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return int(v), nil
	case string:
		if v = strings.TrimSpace(v); v == "" {
			return 0, nil
		}
		return strconv.Atoi(v)
	}
	n, err := strconv.Atoi(fmt.Sprint(value))
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
	return n, nil
}

func asFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case string:
		if v = strings.TrimSpace(v); v == "" {
			return 0, nil
		}
		return strconv.ParseFloat(v, 64)
	}
	n, err := asInt(value)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
	return float64(n), nil
}

func asBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		if v = strings.TrimSpace(v); v == "" {
			return false, nil
		}
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("expected true or false, got %T", value)
	}
}

// asDuration reads a Go duration string ("90s", "5m") or a number of seconds,
// which may be fractional and may itself be a string ("300", "0.5").
func asDuration(value interface{}) (time.Duration, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return v, nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, nil
		}
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			return secondsToDuration(secs), nil
		}
		return time.ParseDuration(v)
	}
	secs, err := asFloat64(value)
	if err != nil {
		return 0, fmt.Errorf("expected a duration, got %T", value)
	}
	return secondsToDuration(secs), nil
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

// asStringSlice reads a list, or a comma-separated string as set through
// VOLLEY_IDS or VOLLEY_THRESHOLDS.
func asStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, _ := asString(item)
			out = append(out, s)
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return strings.Split(v, ","), nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", value)
	}
}

// asSettings reads a nested section such as tracing, lowercasing its keys.
func asSettings(value interface{}) (map[string]interface{}, error) {
	section, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a section, got %T", value)
	}
	out := make(map[string]interface{}, len(section))
	for key, val := range section {
		out[strings.ToLower(strings.TrimSpace(key))] = val
	}
	return out, nil
}
