package llm

import "errors"

// Callers branch on these to decide between 4xx and 5xx style failures;
// everything else from this package wraps one of them.
var (
	// ErrModelUnavailable: the Ollama endpoint refused or dropped the
	// connection.
	ErrModelUnavailable = errors.New("model server unavailable")

	// ErrTimeout: the call exceeded the task's configured deadline.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput: the model answered, but not with parseable JSON.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted: every configured attempt failed.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrDisabled: the subsystem is switched off in configuration.
	ErrDisabled = errors.New("llm subsystem disabled")
)
