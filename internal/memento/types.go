// Package memento stores the collectible records minted when scene comics
// are generated.
package memento

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("memento not found")

// Memento is one collectible story object. Conversations reference mementos
// by id; the ledger is the process-wide owner of the records themselves.
type Memento struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Rarity       string    `json:"rarity"`
	Value        float64   `json:"value"`
	Emotion      string    `json:"emotion"`
	StorySnippet string    `json:"storySnippet"`
	Timestamp    time.Time `json:"timestamp"`
}

// TypeInfo is the static rarity/value catalog entry for one memento type.
type TypeInfo struct {
	Name   string
	Rarity string
	Value  float64
}

// Catalog lists every mintable memento type. Selection is uniform.
var Catalog = []TypeInfo{
	{Name: "artifact", Rarity: "rare", Value: 0.05},
	{Name: "memory_crystal", Rarity: "uncommon", Value: 0.03},
	{Name: "story_scroll", Rarity: "common", Value: 0.01},
	{Name: "legendary_tome", Rarity: "legendary", Value: 0.2},
}

// Ledger persists minted mementos.
type Ledger interface {
	Put(ctx context.Context, m Memento) error
	Get(ctx context.Context, id string) (Memento, error)
	Close() error
}
