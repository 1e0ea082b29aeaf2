package vision

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"time"

	"github.com/jmorganca/ollama/api"

	"github.com/framelab/framelab/pkg/imageio"
)

// OllamaClassifier labels images through an Ollama server.
type OllamaClassifier struct {
	client      *api.Client
	model       string
	sendMaxDim  int
	sendQuality int
}

// NewOllamaClassifier creates a classifier backed by the Ollama server at
// serverURL, using the given vision model.
func NewOllamaClassifier(serverURL, model string) (*OllamaClassifier, error) {
	parsedURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	// Base URL only; paths like /api/chat come from the SDK
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	return &OllamaClassifier{
		client:      api.NewClient(baseURL, http.DefaultClient),
		model:       model,
		sendMaxDim:  1536,
		sendQuality: 85,
	}, nil
}

// SetSendLimits overrides the downscale bound and JPEG quality used when
// shipping images to the model.
func (c *OllamaClassifier) SetSendLimits(maxDim, quality int) {
	c.sendMaxDim = maxDim
	c.sendQuality = quality
}

// Classify sends the image to the vision model and returns its ranked
// content labels.
func (c *OllamaClassifier) Classify(ctx context.Context, img image.Image) ([]Label, error) {
	// Vision models on CPU can be slow; cap the wait if the caller didn't
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}

	imgBytes, err := imageio.EncodeForModel(img, "jpg", c.sendMaxDim, c.sendQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %v", err)
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: DefaultPrompt,
				Images:  []api.ImageData{api.ImageData(imgBytes)},
			},
		},
		Stream: &streamFalse,
	}

	var responseContent string
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat error: %v", err)
	}
	if responseContent == "" {
		return nil, fmt.Errorf("empty response from ollama")
	}

	return parseLabels(responseContent), nil
}
