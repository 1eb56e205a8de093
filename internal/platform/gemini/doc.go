// Package gemini implements generation.Suggester on top of Google's Gemini
// API (google.golang.org/genai).
//
// Prompts are text/template files embedded from prompts/. Calls are retried
// with exponential backoff and jitter when the failure looks transient
// (network errors, HTTP 429 and 5xx). Safety blocks and unparseable responses
// fail immediately.
//
// When no API key is configured, NewSuggester returns a DisabledSuggester so
// the server can still start; its methods fail with generation.ErrDisabled.
package gemini
