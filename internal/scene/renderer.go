// Package scene generates comic-panel elaborations of story turns. The
// renderer is an external collaborator: failures degrade to no panel, they
// never fail the turn being processed.
package scene

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Line is one transcript entry sent to the renderer.
type Line struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes the panel to render.
type Request struct {
	Transcript  []Line
	SceneType   string
	Emotion     string
	VisualStyle string
}

// Panel is a rendered comic panel. ImageURL may be empty when the image
// backend is unavailable.
type Panel struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
	Seed     int    `json:"seed,omitempty"`
}

// Renderer produces comic panels from story transcripts.
type Renderer interface {
	Render(ctx context.Context, req Request) (Panel, error)
}

// IntN supplies image seeds; injectable for deterministic tests.
type IntN interface {
	Intn(n int) int
}

// Config controls renderer construction.
type Config struct {
	Mode         string
	URL          string
	APIKey       string
	Model        string
	ImageBaseURL string
	Rand         IntN
}

// New selects a renderer by mode. Auto picks HTTP when an API key is
// configured and falls back to the mock otherwise.
func New(cfg Config) (Renderer, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewHTTPRenderer(cfg), nil
		}
		return NewMockRenderer(cfg.Rand), nil
	case "http":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("scene renderer API key is required for http mode")
		}
		return NewHTTPRenderer(cfg), nil
	case "mock":
		return NewMockRenderer(cfg.Rand), nil
	default:
		return nil, fmt.Errorf("unsupported scene renderer mode %q", cfg.Mode)
	}
}
