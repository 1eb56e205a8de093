package gemini

import (
	"fmt"

	"github.com/phrazzld/taskr-api/internal/domain"
)

// Error definitions for the gemini package.
var (
	// ErrEmptyInput is returned when the prompt inputs are blank. It is a
	// caller input error, not an upstream failure.
	ErrEmptyInput = fmt.Errorf("%w: prompt input cannot be empty", domain.ErrValidation)
)
