package scene

import (
	"context"
	"fmt"
	"strings"
)

// MockRenderer produces deterministic panels when no scene backend is
// configured. Used in development and tests.
type MockRenderer struct {
	rng IntN
}

func NewMockRenderer(rng IntN) *MockRenderer {
	return &MockRenderer{rng: rng}
}

func (r *MockRenderer) Render(ctx context.Context, req Request) (Panel, error) {
	select {
	case <-ctx.Done():
		return Panel{}, ctx.Err()
	default:
	}

	last := ""
	for i := len(req.Transcript) - 1; i >= 0; i-- {
		if text := strings.TrimSpace(req.Transcript[i].Content); text != "" {
			last = text
			break
		}
	}

	narration := fmt.Sprintf("The archive sketches a %s panel in %s hues", req.SceneType, req.Emotion)
	if last != "" {
		narration += fmt.Sprintf(": %q", last)
	}

	seed := 0
	if r.rng != nil {
		seed = r.rng.Intn(imageSeedRange)
	}

	return Panel{Text: panelText(narration), Seed: seed}, nil
}
