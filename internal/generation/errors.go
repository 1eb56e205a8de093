package generation

import "errors"

// Common errors returned by Suggester implementations
var (
	// ErrGenerationFailed is returned when generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate suggestion")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrDisabled is returned by the suggester used when no model is configured
	ErrDisabled = errors.New("text generation is not configured")
)

// IsUpstreamError reports whether err came from the text-completion backend.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrGenerationFailed) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrContentBlocked) ||
		errors.Is(err, ErrTransientFailure) ||
		errors.Is(err, ErrDisabled)
}
