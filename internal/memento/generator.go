package memento

import (
	"context"
	"fmt"
	"time"
)

// snippetLimit bounds the story excerpt carried on each memento.
const snippetLimit = 100

// IntN is the random source the generator draws memento types from.
// Injectable so tests can pin the selection.
type IntN interface {
	Intn(n int) int
}

// Generator mints mementos into a ledger.
type Generator struct {
	ledger Ledger
	rng    IntN
	now    func() time.Time
}

func NewGenerator(ledger Ledger, rng IntN) *Generator {
	return &Generator{ledger: ledger, rng: rng, now: time.Now}
}

// SetClock overrides the timestamp source. Test hook.
func (g *Generator) SetClock(now func() time.Time) { g.now = now }

// Mint creates a memento for a conversation from the source text and the
// dominant emotion, picking the type uniformly from the catalog. The id is
// derived from the conversation id plus a nanosecond suffix, unique within a
// conversation.
func (g *Generator) Mint(ctx context.Context, conversationID, sourceText, emotion string) (Memento, error) {
	info := Catalog[g.rng.Intn(len(Catalog))]
	now := g.now().UTC()

	m := Memento{
		ID:           fmt.Sprintf("memento_%s_%d", conversationID, now.UnixNano()),
		Type:         info.Name,
		Rarity:       info.Rarity,
		Value:        info.Value,
		Emotion:      emotion,
		StorySnippet: snippet(sourceText),
		Timestamp:    now,
	}

	if err := g.ledger.Put(ctx, m); err != nil {
		return Memento{}, fmt.Errorf("mint memento: %w", err)
	}
	return m, nil
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) > snippetLimit {
		runes = runes[:snippetLimit]
	}
	return string(runes) + "..."
}
