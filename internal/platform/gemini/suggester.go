package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/generation"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"google.golang.org/genai"
)

const (
	defaultMaxRetries        = 3
	defaultRetryDelaySeconds = 2

	recommendMaxTokens = 64
	suggestMaxTokens   = 120
)

// contentGenerator is the part of the genai client the suggester calls.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Suggester implements generation.Suggester using the Gemini API.
type Suggester struct {
	logger    *slog.Logger
	config    config.LLMConfig
	models    contentGenerator
	templates *template.Template

	// sleep waits between retries; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ generation.Suggester = (*Suggester)(nil)

// NewSuggester returns a Gemini-backed suggester, or a DisabledSuggester when
// no API key is configured.
func NewSuggester(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (generation.Suggester, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if !cfg.Enabled() {
		logger.WarnContext(ctx, "no Gemini API key configured, suggestion endpoints are disabled")
		return DisabledSuggester{}, nil
	}

	return NewGeminiSuggester(ctx, logger, cfg)
}

// NewGeminiSuggester creates a Suggester backed by a new genai client.
func NewGeminiSuggester(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Suggester, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newSuggester(logger, cfg, client.Models)
}

func newSuggester(logger *slog.Logger, cfg config.LLMConfig, models contentGenerator) (*Suggester, error) {
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
	}

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelaySeconds < 1 {
		cfg.RetryDelaySeconds = defaultRetryDelaySeconds
	}

	return &Suggester{
		logger:    logger.With(slog.String("component", "gemini_suggester")),
		config:    cfg,
		models:    models,
		templates: templates,
		sleep:     sleepContext,
	}, nil
}

// RecommendFields asks the model for a severity and priority, in JSON mode.
func (s *Suggester) RecommendFields(
	ctx context.Context,
	title, description string,
) (*generation.FieldRecommendation, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return nil, ErrEmptyInput
	}

	prompt, err := renderPrompt(s.templates, recommendFieldsTemplate, recommendData{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	text, err := s.generateWithRetry(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		MaxOutputTokens:  recommendMaxTokens,
		Temperature:      genai.Ptr[float32](0.2),
	})
	if err != nil {
		return nil, err
	}

	return parseRecommendation(text)
}

// SuggestNextTask asks the model for a new task description.
func (s *Suggester) SuggestNextTask(ctx context.Context, recent []*domain.Task) (string, error) {
	prompt, err := renderPrompt(s.templates, suggestTaskTemplate, suggestData{Tasks: recent})
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	return s.generateWithRetry(ctx, prompt, &genai.GenerateContentConfig{
		MaxOutputTokens: suggestMaxTokens,
		Temperature:     genai.Ptr[float32](0.7),
	})
}

// parseRecommendation decodes the model's JSON and normalizes the level names.
func parseRecommendation(text string) (*generation.FieldRecommendation, error) {
	var rec generation.FieldRecommendation
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &rec); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: severity and priority are required", err)
	}

	severity, err := domain.ParseLevel(rec.Severity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	priority, err := domain.ParseLevel(rec.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	return &generation.FieldRecommendation{
		Severity: domain.Severity(severity).String(),
		Priority: domain.Priority(priority).String(),
	}, nil
}

// stripCodeFence removes a ```json fence some models wrap around JSON output.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// generateWithRetry calls the model, retrying transient failures with
// exponential backoff and jitter: delay = base * 2^attempt * [0.5, 1.0).
func (s *Suggester) generateWithRetry(
	ctx context.Context,
	prompt string,
	genConfig *genai.GenerateContentConfig,
) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	maxRetries := s.config.MaxRetries

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		log.Debug("making Gemini API call",
			slog.Int("attempt", attemptNum),
			slog.Int("max_attempts", maxRetries+1))

		text, transient, err := s.generateOnce(ctx, prompt, genConfig)
		if err == nil {
			return text, nil
		}

		log.Warn("Gemini API call failed",
			slog.Int("attempt", attemptNum),
			slog.String("error", err.Error()),
			slog.Bool("transient", transient))

		if !transient {
			return "", err
		}
		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		backoff := float64(s.config.RetryDelaySeconds) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rand.Float64()*0.5
		delay := time.Duration(backoff * jitter * float64(time.Second))

		log.Debug("retrying after delay",
			slog.Int("attempt", attemptNum),
			slog.Duration("delay", delay))

		if err := s.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
	}
}

// generateOnce makes a single call and classifies the outcome.
func (s *Suggester) generateOnce(
	ctx context.Context,
	prompt string,
	genConfig *genai.GenerateContentConfig,
) (string, bool, error) {
	resp, err := s.models.GenerateContent(ctx, s.config.ModelName, genai.Text(prompt), genConfig)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctxErr)
		}
		if isTransientAPIError(err) {
			return "", true, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
		return "", false, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	switch {
	case resp == nil:
		return "", false, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "":
		return "", false, fmt.Errorf("%w: prompt blocked (%s)",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	case len(resp.Candidates) == 0:
		return "", false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", false, fmt.Errorf("%w: response blocked by safety filters", generation.ErrContentBlocked)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", false, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return text, false, nil
}

// isTransientAPIError reports whether err is worth retrying. API errors are
// transient for 429 and 5xx only; anything else (network failures) is
// assumed transient.
func isTransientAPIError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
