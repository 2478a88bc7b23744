package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"amora_go_backend/internal/models"

	"github.com/rs/zerolog"
)

// FailureKind classifies a completion failure. All kinds are terminal to
// the caller; the engine never retries across Complete calls.
type FailureKind string

const (
	FailureRateLimited   FailureKind = "rate_limited"
	FailureProviderError FailureKind = "provider_error"
	FailureTimeout       FailureKind = "timeout"
	FailureUnknown       FailureKind = "unknown"
)

// CompletionFailure carries a failure kind and a message safe to relay to
// the user as-is.
type CompletionFailure struct {
	Kind    FailureKind
	Message string
}

func (f *CompletionFailure) Error() string {
	return fmt.Sprintf("completion failed: %s", f.Kind)
}

// CompletionClient talks to an OpenRouter-compatible chat-completions
// endpoint. Rate limits are retried with exponential backoff, timeouts are
// retried within the same attempt budget, hard provider errors fail
// immediately.
type CompletionClient struct {
	httpClient  *http.Client
	url         string
	apiKey      string
	model       string
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
	log         zerolog.Logger
}

func NewCompletionClient(url, apiKey, model string, timeout time.Duration, maxAttempts int, baseDelay time.Duration, log zerolog.Logger) *CompletionClient {
	return &CompletionClient{
		httpClient:  &http.Client{Timeout: timeout},
		url:         url,
		apiKey:      apiKey,
		model:       model,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       time.Sleep,
		log:         log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the system instruction plus ordered turns and returns the
// reply text, or a *CompletionFailure. It never mutates session state.
func (c *CompletionClient) Complete(ctx context.Context, system string, turns []models.ChatTurn, maxTokens int, temperature float64) (string, error) {
	messages := make([]chatMessage, 0, len(turns)+1)
	messages = append(messages, chatMessage{Role: "system", Content: system})
	for _, turn := range turns {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Text})
	}

	payload, err := json.Marshal(completionRequest{
		Model:            c.model,
		Messages:         messages,
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		TopP:             0.9,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.4,
	})
	if err != nil {
		return "", &CompletionFailure{Kind: FailureUnknown, Message: pickReply(unknownFailureReplies)}
	}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		reply, failure := c.doRequest(ctx, payload)
		if failure == nil {
			return reply, nil
		}

		switch failure.Kind {
		case FailureRateLimited:
			if attempt < c.maxAttempts-1 {
				wait := c.baseDelay * (1 << attempt)
				c.log.Warn().
					Dur("wait", wait).
					Int("attempt", attempt+1).
					Int("maxAttempts", c.maxAttempts).
					Msg("Rate limited, backing off")
				c.sleep(wait)
				continue
			}
			return "", failure
		case FailureTimeout:
			if attempt < c.maxAttempts-1 {
				c.log.Warn().Int("attempt", attempt+1).Msg("Request timed out, retrying")
				continue
			}
			return "", failure
		default:
			// Hard provider errors and transport faults are not retried.
			return "", failure
		}
	}

	return "", &CompletionFailure{Kind: FailureRateLimited, Message: pickReply(rateLimitedReplies)}
}

func (c *CompletionClient) doRequest(ctx context.Context, payload []byte) (string, *CompletionFailure) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", &CompletionFailure{Kind: FailureUnknown, Message: pickReply(unknownFailureReplies)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &CompletionFailure{Kind: FailureTimeout, Message: pickReply(timeoutReplies)}
		}
		return "", &CompletionFailure{Kind: FailureUnknown, Message: pickReply(unknownFailureReplies)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var decoded completionResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil || len(decoded.Choices) == 0 {
			return "", &CompletionFailure{Kind: FailureUnknown, Message: pickReply(unknownFailureReplies)}
		}
		return decoded.Choices[0].Message.Content, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &CompletionFailure{Kind: FailureRateLimited, Message: pickReply(rateLimitedReplies)}
	default:
		c.log.Error().Int("status", resp.StatusCode).Msg("Completion provider error")
		return "", &CompletionFailure{Kind: FailureProviderError, Message: pickReply(providerErrorReplies)}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
