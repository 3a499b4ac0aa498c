package scene

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const imageSeedRange = 1000000

// HTTPRenderer asks an OpenRouter-compatible chat-completions endpoint for
// the panel narration and composes a pollinations-style image URL.
type HTTPRenderer struct {
	url          string
	apiKey       string
	model        string
	imageBaseURL string
	rng          IntN
	client       *http.Client
}

func NewHTTPRenderer(cfg Config) *HTTPRenderer {
	return &HTTPRenderer{
		url:          strings.TrimSpace(cfg.URL),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		model:        cfg.Model,
		imageBaseURL: strings.TrimRight(strings.TrimSpace(cfg.ImageBaseURL), "/"),
		rng:          cfg.Rand,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type completionRequest struct {
	Model       string  `json:"model"`
	Messages    []Line  `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (r *HTTPRenderer) Render(ctx context.Context, req Request) (Panel, error) {
	messages := make([]Line, 0, len(req.Transcript)+1)
	messages = append(messages, Line{
		Role: "system",
		Content: fmt.Sprintf(
			"You are Kyle, the Exiled Archivist. Create a vivid, visual story scene that would work perfectly as a comic panel. Focus on %s elements. Make it cinematic and %s. Include specific visual details, character expressions, and atmospheric elements.",
			req.SceneType, req.Emotion,
		),
	})
	messages = append(messages, req.Transcript...)

	// Chaotic scenes get a hotter sampling temperature, everything else stays
	// measured.
	temperature := 0.7
	if req.Emotion == "chaotic" {
		temperature = 0.9
	}

	payload, err := json.Marshal(completionRequest{
		Model:       r.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   200,
	})
	if err != nil {
		return Panel{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return Panel{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)

	res, err := r.client.Do(httpReq)
	if err != nil {
		return Panel{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Panel{}, fmt.Errorf("scene backend status %d: %s", res.StatusCode, string(body))
	}

	var completion completionResponse
	if err := json.NewDecoder(res.Body).Decode(&completion); err != nil {
		return Panel{}, fmt.Errorf("decode response: %w", err)
	}
	if completion.Error != nil {
		return Panel{}, fmt.Errorf("scene backend error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return Panel{}, fmt.Errorf("scene backend returned no choices")
	}

	narration := strings.TrimSpace(completion.Choices[0].Message.Content)
	seed := r.rng.Intn(imageSeedRange)

	return Panel{
		Text:     panelText(narration),
		ImageURL: r.imageURL(req, seed),
		Seed:     seed,
	}, nil
}

func (r *HTTPRenderer) imageURL(req Request, seed int) string {
	if r.imageBaseURL == "" {
		return ""
	}
	prompt := fmt.Sprintf(
		"Kyle the Exiled Archivist, %s scene, %s style, comic book art, detailed character expressions, dramatic lighting, fantasy setting, high quality digital art",
		req.SceneType, req.VisualStyle,
	)
	return fmt.Sprintf("%s/prompt/%s?width=512&height=512&seed=%d&model=flux",
		r.imageBaseURL, url.PathEscape(prompt), seed)
}

func panelText(narration string) string {
	return "\U0001F3A8 Scene Comic Panel\n\n" + narration + "\n"
}
