// Package story implements the conversation state and classification engine
// behind the chat webhook: bounded per-conversation memory, emotion and scene
// classification, reward-tier progression, memento issuance and confusion
// injection.
package story

import "time"

// MemoryLimit caps how many turns a conversation retains. The character
// cannot remember everything; older turns are silently discarded.
const MemoryLimit = 15

const (
	// MinTurnsForScene is the turn-count floor before any scene comic fires.
	MinTurnsForScene = 3
	// MinTurnsBetweenScenes is the minimum turn spacing between two comics.
	MinTurnsBetweenScenes = 2
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one message recorded into a conversation's memory. Immutable once
// appended.
type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState tracks everything the engine knows about one room.
// Owned exclusively by Store; callers only ever see copies.
type ConversationState struct {
	Turns           []Turn   `json:"turns"`
	TurnCount       int      `json:"count"`
	LastRewardTier  string   `json:"lastRewardTierAnnounced,omitempty"`
	LastSceneAtTurn int      `json:"lastSceneGenerated"`
	MementoIDs      []string `json:"mementos"`
}

// ConversationGoals are the static goal prompts surfaced in progress
// summaries. Goal completion tracking lives upstream; the engine only
// advertises them.
var ConversationGoals = []string{
	"exploration",
	"character_development",
	"mystery_solving",
	"friendship",
	"world_building",
}
