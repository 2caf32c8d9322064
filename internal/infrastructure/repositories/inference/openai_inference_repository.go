package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

const (
	retryWaitMin    = 1 * time.Second
	retryWaitMax    = 10 * time.Second
	maxErrorBodyLen = 512
)

var errEmptyCompletion = errors.New("completion has no choices")

// OpenAIInferenceRepository talks to an OpenAI-compatible chat completions
// endpoint. Rate limiting (429) and server errors are retried with
// exponential backoff up to the configured number of attempts.
type OpenAIInferenceRepository struct {
	endpoint  string
	model     string
	token     string
	maxTokens int
	timeout   time.Duration
	client    *retryablehttp.Client
}

var _ repositories.InferenceRepository = (*OpenAIInferenceRepository)(nil)

// NewOpenAIInferenceRepository creates a client from the inference settings.
func NewOpenAIInferenceRepository(settings entities.InferenceSettings) *OpenAIInferenceRepository {
	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultPooledClient()
	client.RetryMax = settings.MaxRetries
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.Logger = leveledLogger{}

	return &OpenAIInferenceRepository{
		endpoint:  settings.Endpoint,
		model:     settings.Model,
		token:     settings.Token,
		maxTokens: settings.MaxTokens,
		timeout:   settings.Timeout,
		client:    client,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message and returns the trimmed
// content of the first choice.
func (it *OpenAIInferenceRepository) Complete(ctx context.Context, prompt string) (string, error) {
	if it.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, it.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(chatRequest{
		Model:     it.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: it.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, it.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+it.token)

	resp, err := it.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call inference endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference endpoint answered %d: %s", resp.StatusCode, truncate(string(body)))
	}

	var completion chatResponse
	if err = json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrMalformedResponse, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: %w", entities.ErrMalformedResponse, errEmptyCompletion)
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func truncate(s string) string {
	if len(s) > maxErrorBodyLen {
		return s[:maxErrorBodyLen] + "..."
	}
	return s
}

// leveledLogger routes retryablehttp's logs through logrus, one level down
// so request tracing only shows up with DEBUG enabled.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Warn("[inference] " + msg)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Info("[inference] " + msg)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Debug("[inference] " + msg)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Trace("[inference] " + msg)
}

func fields(keysAndValues []interface{}) logger.Fields {
	result := make(logger.Fields, len(keysAndValues)/2) //nolint:mnd // key/value pairs
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		result[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return result
}
