package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mkelsen/archivist/internal/memento"
	"github.com/mkelsen/archivist/internal/observability"
	"github.com/mkelsen/archivist/internal/protocol"
	"github.com/mkelsen/archivist/internal/scene"
)

type processorFixture struct {
	processor *Processor
	store     *Store
	ledger    *memento.InMemoryLedger
	feed      []protocol.TurnFeedEvent
}

func newProcessorFixture(t *testing.T, renderer scene.Renderer) *processorFixture {
	t.Helper()
	ns := fmt.Sprintf("test_story_%d", time.Now().UnixNano())

	f := &processorFixture{
		store:  NewStore(),
		ledger: memento.NewInMemoryLedger(),
	}
	rng := NewRand(1)
	if renderer == nil {
		renderer = scene.NewMockRenderer(rng)
	}
	f.processor = NewProcessor(ProcessorDeps{
		Store:    f.store,
		Mementos: memento.NewGenerator(f.ledger, rng),
		Renderer: renderer,
		Rand:     rng,
		Metrics:  observability.NewMetrics(ns),
		Window:   observability.NewTurnWindow(64),
		Publish:  func(ev protocol.TurnFeedEvent) { f.feed = append(f.feed, ev) },
	})
	return f
}

func (f *processorFixture) respond(t *testing.T, room, text string) protocol.WebhookResponse {
	t.Helper()
	resp, err := f.processor.Process(context.Background(), protocol.WebhookEvent{
		RoomID:    room,
		Text:      text,
		EventType: protocol.EventResponse,
	})
	if err != nil {
		t.Fatalf("Process(response) error = %v", err)
	}
	return resp
}

func TestRequestEventStoresTurnOnly(t *testing.T) {
	f := newProcessorFixture(t, nil)

	resp, err := f.processor.Process(context.Background(), protocol.WebhookEvent{
		RoomID:    "room-1",
		Text:      "Where does the archive begin?",
		EventType: protocol.EventRequest,
	})
	if err != nil {
		t.Fatalf("Process(request) error = %v", err)
	}
	if resp.SaveModified {
		t.Fatalf("SaveModified = true for request event")
	}
	if resp.Emotion != nil {
		t.Fatalf("request event ran classification: %+v", resp.Emotion)
	}

	st, _ := f.store.Snapshot("room-1")
	if len(st.Turns) != 1 || st.Turns[0].Speaker != SpeakerUser {
		t.Fatalf("stored turns = %+v, want one user turn", st.Turns)
	}
	if st.TurnCount != 0 {
		t.Fatalf("TurnCount = %d after request event, want 0", st.TurnCount)
	}
}

func TestResponseEventClassifies(t *testing.T) {
	f := newProcessorFixture(t, nil)

	resp := f.respond(t, "room-1", "A whisper drifts from the hidden door.")
	if !resp.SaveModified {
		t.Fatalf("SaveModified = false for response event")
	}
	if resp.Text != "A whisper drifts from the hidden door." {
		t.Fatalf("text rewritten without any trigger: %q", resp.Text)
	}
	if resp.Emotion == nil || resp.Emotion.Dominant != "mysterious" || resp.Emotion.Intensity != 2 {
		t.Fatalf("Emotion = %+v, want mysterious intensity 2", resp.Emotion)
	}
	if resp.SceneType != "dialogue" {
		t.Fatalf("SceneType = %q, want dialogue default", resp.SceneType)
	}
	if resp.StoryProgress == nil || resp.StoryProgress.TurnCount != 1 {
		t.Fatalf("StoryProgress = %+v, want turn count 1", resp.StoryProgress)
	}
}

func TestResponseAppendsPairedUserMessage(t *testing.T) {
	f := newProcessorFixture(t, nil)

	_, err := f.processor.Process(context.Background(), protocol.WebhookEvent{
		RoomID:              "room-1",
		Text:                "The archive listens.",
		EventType:           protocol.EventResponse,
		OriginalUserMessage: "Tell me a story.",
	})
	if err != nil {
		t.Fatalf("Process error = %v", err)
	}

	st, _ := f.store.Snapshot("room-1")
	if len(st.Turns) != 2 {
		t.Fatalf("stored turns = %d, want 2", len(st.Turns))
	}
	if st.Turns[0].Speaker != SpeakerUser || st.Turns[1].Speaker != SpeakerAssistant {
		t.Fatalf("turn order = %v/%v, want user then assistant", st.Turns[0].Speaker, st.Turns[1].Speaker)
	}
}

func TestRewardTransitionOverridesSceneText(t *testing.T) {
	f := newProcessorFixture(t, nil)

	f.respond(t, "room-1", "The ink dries slowly.")
	f.respond(t, "room-1", "Another page settles.")
	// Turn 3: setting keyword triggers the scene, but bronze fires on the
	// same turn and owns the final text.
	resp := f.respond(t, "room-1", "The castle rises beyond the mist.")

	if !strings.HasPrefix(resp.Text, "\U0001F3C6") {
		t.Fatalf("text = %q, want reward announcement", resp.Text)
	}
	if !strings.Contains(resp.Text, "Chronicle Keeper") {
		t.Fatalf("text missing bronze title: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Reach 7 interactions") {
		t.Fatalf("text missing next-tier threshold: %q", resp.Text)
	}

	// The scene still happened under the reward text: slot consumed, memento
	// minted.
	if resp.MementoID == "" {
		t.Fatalf("MementoID empty, want minted memento")
	}
	if resp.StoryProgress.LastSceneAtTurn != 3 {
		t.Fatalf("LastSceneAtTurn = %d, want 3", resp.StoryProgress.LastSceneAtTurn)
	}
	if _, err := f.ledger.Get(context.Background(), resp.MementoID); err != nil {
		t.Fatalf("minted memento not in ledger: %v", err)
	}
}

func TestSceneGenerationAndSpacing(t *testing.T) {
	f := newProcessorFixture(t, nil)

	f.respond(t, "room-1", "The ink dries slowly.")
	f.respond(t, "room-1", "Another page settles.")
	f.respond(t, "room-1", "A third page settles.") // bronze announcement, no scene keywords

	// Turn 4: setting keyword, spacing satisfied (no scene yet).
	resp := f.respond(t, "room-1", "The forest path winds toward the temple.")
	if !strings.HasPrefix(resp.Text, "\U0001F3AD") {
		t.Fatalf("turn 4 text = %q, want scene header", resp.Text)
	}
	if !strings.Contains(resp.Text, "Scene Comic Panel") {
		t.Fatalf("turn 4 text missing panel: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Story Memento Created") {
		t.Fatalf("turn 4 text missing memento line: %q", resp.Text)
	}
	if resp.MementoID == "" {
		t.Fatalf("turn 4 MementoID empty")
	}

	// Turn 5: another setting keyword, but only 1 turn since the last scene.
	resp = f.respond(t, "room-1", "The mountain waits in silence.")
	if resp.Text != "The mountain waits in silence." {
		t.Fatalf("turn 5 text = %q, want untouched (scene spacing)", resp.Text)
	}
	if resp.MementoID != "" {
		t.Fatalf("turn 5 minted a memento despite spacing")
	}

	// Turn 6: spacing satisfied again.
	resp = f.respond(t, "room-1", "The ocean crashes against the city walls.")
	if !strings.HasPrefix(resp.Text, "\U0001F3AD") {
		t.Fatalf("turn 6 text = %q, want scene header", resp.Text)
	}
}

func TestSceneRequiresMinimumTurns(t *testing.T) {
	f := newProcessorFixture(t, nil)

	resp := f.respond(t, "room-1", "The castle looms, the forest whispers, the dungeon waits.")
	if resp.MementoID != "" || strings.HasPrefix(resp.Text, "\U0001F3AD") {
		t.Fatalf("scene generated on turn 1: %q", resp.Text)
	}
	resp = f.respond(t, "room-1", "Still inside the castle.")
	if resp.MementoID != "" {
		t.Fatalf("scene generated on turn 2")
	}
}

func TestConfusionOverridesEverything(t *testing.T) {
	f := newProcessorFixture(t, nil)

	for i := 0; i < 11; i++ {
		_, err := f.processor.Process(context.Background(), protocol.WebhookEvent{
			RoomID:    "room-1",
			Text:      fmt.Sprintf("note %d", i),
			EventType: protocol.EventRequest,
		})
		if err != nil {
			t.Fatalf("request %d error = %v", i, err)
		}
	}

	resp, err := f.processor.Process(context.Background(), protocol.WebhookEvent{
		RoomID:              "room-1",
		Text:                "Of course, the castle gates stand open.",
		EventType:           protocol.EventResponse,
		OriginalUserMessage: "you told me about the gates",
		ImageURL:            "https://example.com/pending.png",
	})
	if err != nil {
		t.Fatalf("Process error = %v", err)
	}

	confused := false
	for _, marker := range []string{"archives shift", "memory crystals", "story threads"} {
		if strings.Contains(resp.Text, marker) {
			confused = true
		}
	}
	if !confused {
		t.Fatalf("text = %q, want confusion template", resp.Text)
	}
	if resp.ImageURL != "" {
		t.Fatalf("ImageURL = %q, want cleared", resp.ImageURL)
	}
}

func TestConfusionRespectsDepthThreshold(t *testing.T) {
	f := newProcessorFixture(t, nil)

	// Shallow conversation: trigger phrase alone must not confuse.
	resp, err := f.processor.Process(context.Background(), protocol.WebhookEvent{
		RoomID:              "room-1",
		Text:                "The gates stand open.",
		EventType:           protocol.EventResponse,
		OriginalUserMessage: "remember when we arrived?",
	})
	if err != nil {
		t.Fatalf("Process error = %v", err)
	}
	if resp.Text != "The gates stand open." {
		t.Fatalf("text = %q, want untouched at shallow depth", resp.Text)
	}
}

func TestRewardAnnouncedOncePerTier(t *testing.T) {
	f := newProcessorFixture(t, nil)

	var announcements []int
	for i := 1; i <= 8; i++ {
		resp := f.respond(t, "room-1", fmt.Sprintf("Page %d settles into place.", i))
		if strings.HasPrefix(resp.Text, "\U0001F3C6") {
			announcements = append(announcements, i)
			if i == 7 && !strings.Contains(resp.Text, "Reach 15 interactions") {
				t.Fatalf("silver announcement missing gold threshold: %q", resp.Text)
			}
		}
	}

	if len(announcements) != 2 || announcements[0] != 3 || announcements[1] != 7 {
		t.Fatalf("announcements at turns %v, want [3 7]", announcements)
	}
}

func TestUnknownEventTypePassesThrough(t *testing.T) {
	f := newProcessorFixture(t, nil)

	resp, err := f.processor.Process(context.Background(), protocol.WebhookEvent{
		RoomID:    "room-1",
		Text:      "ping",
		EventType: "heartbeat",
	})
	if err != nil {
		t.Fatalf("Process error = %v", err)
	}
	if resp.SaveModified || resp.Text != "ping" {
		t.Fatalf("passthrough modified the event: %+v", resp)
	}
	if _, ok := f.store.Snapshot("room-1"); ok {
		t.Fatalf("passthrough event touched conversation state")
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, scene.Request) (scene.Panel, error) {
	return scene.Panel{}, errors.New("backend unavailable")
}

func TestSceneRenderFailureDegrades(t *testing.T) {
	f := newProcessorFixture(t, failingRenderer{})

	f.respond(t, "room-1", "The ink dries slowly.")
	f.respond(t, "room-1", "Another page settles.")
	f.respond(t, "room-1", "A third page settles.")

	resp := f.respond(t, "room-1", "The dungeon door grinds open.")
	if !strings.Contains(resp.Text, "flickers and fades") {
		t.Fatalf("text = %q, want fallback panel", resp.Text)
	}
	if resp.ImageURL != "" {
		t.Fatalf("ImageURL = %q, want none after render failure", resp.ImageURL)
	}
	// The memento is still minted; only the elaboration degrades.
	if resp.MementoID == "" {
		t.Fatalf("MementoID empty after render failure")
	}
}

func TestFeedPublishesProcessedTurns(t *testing.T) {
	f := newProcessorFixture(t, nil)

	f.respond(t, "room-1", "A secret whisper in the dark.")
	if len(f.feed) != 1 {
		t.Fatalf("feed events = %d, want 1", len(f.feed))
	}
	ev := f.feed[0]
	if ev.RoomID != "room-1" || ev.TurnCount != 1 {
		t.Fatalf("feed event = %+v", ev)
	}
	if ev.Emotion != "mysterious" || ev.Intensity != 3 {
		t.Fatalf("feed emotion = %s/%d, want mysterious/3", ev.Emotion, ev.Intensity)
	}
	if ev.SceneGenerated {
		t.Fatalf("feed reports scene on turn 1")
	}
}
