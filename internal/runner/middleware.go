package runner

import "github.com/torosent/volley/internal/outcome"

// FailureLogger logs failed requests.
type FailureLogger interface {
	LogFailure(o outcome.Outcome)
}

// WithLogging wraps an observer so every non-success outcome is also logged.
func WithLogging(next Observer, logger FailureLogger) Observer {
	if logger == nil {
		return next
	}
	return func(o outcome.Outcome) {
		if o.Kind != outcome.Success {
			logger.LogFailure(o)
		}
		if next != nil {
			next(o)
		}
	}
}

// Observers fans each outcome out to every non-nil observer in order.
func Observers(observers ...Observer) Observer {
	var active []Observer
	for _, obs := range observers {
		if obs != nil {
			active = append(active, obs)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(o outcome.Outcome) {
		for _, obs := range active {
			obs(o)
		}
	}
}
