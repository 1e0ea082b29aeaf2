package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/framelab/framelab/pkg/imageio"
)

// LlamaCppClassifier labels images through a llama.cpp server speaking the
// OpenAI-compatible chat completion API.
type LlamaCppClassifier struct {
	baseURL     string
	model       string
	httpClient  *http.Client
	sendMaxDim  int
	sendQuality int
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content interface{} `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewLlamaCppClassifier creates a classifier backed by the llama.cpp server
// at serverURL.
func NewLlamaCppClassifier(serverURL, model string) (*LlamaCppClassifier, error) {
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}
	return &LlamaCppClassifier{
		baseURL:     strings.TrimSuffix(serverURL, "/"),
		model:       model,
		httpClient:  &http.Client{Timeout: 5 * time.Minute},
		sendMaxDim:  1536,
		sendQuality: 85,
	}, nil
}

// SetSendLimits overrides the downscale bound and JPEG quality used when
// shipping images to the model.
func (c *LlamaCppClassifier) SetSendLimits(maxDim, quality int) {
	c.sendMaxDim = maxDim
	c.sendQuality = quality
}

// Classify sends the image to the vision model and returns its ranked
// content labels.
func (c *LlamaCppClassifier) Classify(ctx context.Context, img image.Image) ([]Label, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}

	imgB64, err := imageio.PrepareForModel(img, "jpg", c.sendMaxDim, c.sendQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %v", err)
	}

	req := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: DefaultPrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + imgB64}},
				},
			},
		},
		Temperature: 0.7,
		MaxTokens:   2048,
		Stream:      false,
	}

	respBody, err := c.sendRequest(ctx, "/v1/chat/completions", req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	// Extract text content (the server may answer with a string or parts)
	var responseText string
	switch content := resp.Choices[0].Message.Content.(type) {
	case string:
		responseText = content
	case []interface{}:
		for _, item := range content {
			if partMap, ok := item.(map[string]interface{}); ok {
				if text, ok := partMap["text"].(string); ok && text != "" {
					responseText = text
					break
				}
			}
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("empty response from llama.cpp server")
	}

	return parseLabels(responseText), nil
}

func (c *LlamaCppClassifier) sendRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
