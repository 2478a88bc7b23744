package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const imageNegativePrompt = "ugly, deformed, extra limbs, low quality, blurry, cartoon, anime, distorted"

// ImageClient wraps a text-to-image provider. It composes the stored
// profile with the user's prompt and returns the first output URL, or ""
// when the provider produced nothing.
type ImageClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
	log        zerolog.Logger
}

func NewImageClient(url, apiKey string, timeout time.Duration, log zerolog.Logger) *ImageClient {
	return &ImageClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		apiKey:     apiKey,
		log:        log,
	}
}

type imageRequest struct {
	Key            string  `json:"key"`
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Samples        int     `json:"samples"`
	GuidanceScale  float64 `json:"guidance_scale"`
	SafetyChecker  bool    `json:"safety_checker"`
}

type imageResponse struct {
	Output []string `json:"output"`
}

func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(imageRequest{
		Key:            c.apiKey,
		Prompt:         prompt,
		NegativePrompt: imageNegativePrompt,
		Width:          512,
		Height:         512,
		Samples:        1,
		GuidanceScale:  7.5,
		SafetyChecker:  false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image provider returned status %d", resp.StatusCode)
	}

	var decoded imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if len(decoded.Output) == 0 {
		c.log.Warn().Msg("Image provider returned no output")
		return "", nil
	}
	return decoded.Output[0], nil
}
