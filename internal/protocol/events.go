// Package protocol defines the webhook wire types exchanged with the chat
// platform and the event summaries pushed to live observers.
package protocol

import (
	"errors"
	"strings"
	"time"
)

// EventType identifies what stage of a chat turn an inbound event describes.
type EventType string

const (
	// EventRequest carries the user's message before the agent responds.
	EventRequest EventType = "request"
	// EventResponse carries the agent's reply, which this service may rewrite.
	EventResponse EventType = "response"
)

var (
	ErrMissingRoomID = errors.New("missing roomId")
	ErrMissingText   = errors.New("missing text")
)

// WebhookEvent is the inbound payload posted by the chat platform.
type WebhookEvent struct {
	RoomID              string    `json:"roomId"`
	Text                string    `json:"text"`
	EventType           EventType `json:"eventType"`
	AgentID             string    `json:"agentId,omitempty"`
	UserID              string    `json:"userId,omitempty"`
	OriginalUserMessage string    `json:"originalUserMessage,omitempty"`
	ImageURL            string    `json:"imageUrl,omitempty"`
}

// Validate checks the required fields. Events failing validation must be
// rejected before any conversation state is touched.
func (e WebhookEvent) Validate() error {
	if strings.TrimSpace(e.RoomID) == "" {
		return ErrMissingRoomID
	}
	if e.Text == "" {
		return ErrMissingText
	}
	return nil
}

// EmotionReading is the classifier output echoed back to the platform.
type EmotionReading struct {
	Dominant  string         `json:"dominant"`
	Scores    map[string]int `json:"scores"`
	Intensity int            `json:"intensity"`
	Color     string         `json:"color"`
}

// StoryProgress summarizes a conversation's tracked state.
type StoryProgress struct {
	TurnCount       int      `json:"count"`
	LastRewardTier  string   `json:"lastRewardTierAnnounced,omitempty"`
	LastSceneAtTurn int      `json:"lastSceneGenerated"`
	StoredTurns     int      `json:"storedTurns"`
	MementoIDs      []string `json:"mementos"`
	Goals           []string `json:"goals,omitempty"`
}

// WebhookResponse echoes the inbound event plus any rewritten content.
// SaveModified tells the platform whether Text should replace the turn it
// recorded upstream.
type WebhookResponse struct {
	WebhookEvent
	SaveModified  bool            `json:"saveModified"`
	Emotion       *EmotionReading `json:"emotion,omitempty"`
	SceneType     string          `json:"sceneType,omitempty"`
	StoryProgress *StoryProgress  `json:"storyProgress,omitempty"`
	MementoID     string          `json:"mementoId,omitempty"`
}

// TurnFeedEvent is broadcast to websocket observers after each processed
// response event.
type TurnFeedEvent struct {
	RoomID         string    `json:"roomId"`
	TurnCount      int       `json:"turnCount"`
	Emotion        string    `json:"emotion"`
	Intensity      int       `json:"intensity"`
	SceneType      string    `json:"sceneType"`
	SceneGenerated bool      `json:"sceneGenerated"`
	MementoID      string    `json:"mementoId,omitempty"`
	RewardTier     string    `json:"rewardTier,omitempty"`
	ConfusionFired bool      `json:"confusionFired"`
	ProcessedAt    time.Time `json:"processedAt"`
}
