package story

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mkelsen/archivist/internal/memento"
	"github.com/mkelsen/archivist/internal/observability"
	"github.com/mkelsen/archivist/internal/protocol"
	"github.com/mkelsen/archivist/internal/scene"
)

const (
	sceneHeader = "\U0001F3AD **Kyle's Archive Manifests a Visual Memory...** \U0001F3AD\n\n"

	// Shown when the renderer fails; the scene slot is still consumed and the
	// memento still minted, only the elaboration degrades.
	sceneFallbackText = "*(The comic panel flickers and fades... Kyle's mystical energies need a moment to recharge)*"
)

// Processor orchestrates the engine per inbound webhook event: memory
// updates, classification, scene generation, reward progression and
// confusion injection.
type Processor struct {
	store     *Store
	mementos  *memento.Generator
	renderer  scene.Renderer
	confusion *ConfusionInjector
	metrics   *observability.Metrics
	window    *observability.TurnWindow
	publish   func(protocol.TurnFeedEvent)
	now       func() time.Time
}

// ProcessorDeps wires the processor's collaborators.
type ProcessorDeps struct {
	Store    *Store
	Mementos *memento.Generator
	Renderer scene.Renderer
	Rand     *Rand
	Metrics  *observability.Metrics
	Window   *observability.TurnWindow
	// Publish receives a summary of every processed response event. May be
	// nil.
	Publish func(protocol.TurnFeedEvent)
}

func NewProcessor(deps ProcessorDeps) *Processor {
	return &Processor{
		store:     deps.Store,
		mementos:  deps.Mementos,
		renderer:  deps.Renderer,
		confusion: NewConfusionInjector(deps.Rand),
		metrics:   deps.Metrics,
		window:    deps.Window,
		publish:   deps.Publish,
		now:       time.Now,
	}
}

// SetClock overrides the timestamp source. Test hook.
func (p *Processor) SetClock(now func() time.Time) { p.now = now }

// Process handles one validated webhook event and returns the response
// payload. Classification, reward and memory logic never fail; the only
// fallible collaborator is the scene renderer, whose failures degrade.
func (p *Processor) Process(ctx context.Context, ev protocol.WebhookEvent) (protocol.WebhookResponse, error) {
	started := p.now()
	defer func() {
		elapsed := p.now().Sub(started)
		p.metrics.ObserveTurnLatency(elapsed)
		p.window.Observe("turn_total", float64(elapsed.Microseconds())/1000)
	}()

	switch ev.EventType {
	case protocol.EventRequest:
		return p.processRequest(ev), nil
	case protocol.EventResponse:
		return p.processResponse(ctx, ev), nil
	default:
		// Unknown event types pass through untouched.
		p.metrics.WebhookEvents.WithLabelValues(string(ev.EventType), "passthrough").Inc()
		return protocol.WebhookResponse{WebhookEvent: ev, SaveModified: false}, nil
	}
}

// processRequest records the user's message. No classification, rewards or
// scene generation happen on the request leg.
func (p *Processor) processRequest(ev protocol.WebhookEvent) protocol.WebhookResponse {
	text := ev.Text
	if text == "" {
		text = ev.OriginalUserMessage
	}
	p.store.AppendTurn(ev.RoomID, Turn{
		Speaker:   SpeakerUser,
		Text:      text,
		Timestamp: p.now().UTC(),
	})

	p.metrics.WebhookEvents.WithLabelValues(string(protocol.EventRequest), "stored").Inc()
	p.metrics.ActiveConversations.Set(float64(p.store.Count()))

	return protocol.WebhookResponse{WebhookEvent: ev, SaveModified: false}
}

// turnDecision collects everything decided under the store lock so the
// blocking collaborator calls can happen outside it.
type turnDecision struct {
	analysis      EmotionAnalysis
	sceneType     string
	generateScene bool
	transcript    []scene.Line
	rewardFired   bool
	rewardTier    RewardTier
	nextTier      RewardTier
	hasNextTier   bool
	confused      bool
	turnCount     int
}

func (p *Processor) processResponse(ctx context.Context, ev protocol.WebhookEvent) protocol.WebhookResponse {
	classifyStart := p.now()
	var d turnDecision

	p.store.Apply(ev.RoomID, func(st *ConversationState) {
		if ev.OriginalUserMessage != "" {
			st.appendTurn(Turn{Speaker: SpeakerUser, Text: ev.OriginalUserMessage, Timestamp: p.now().UTC()})
		}
		st.appendTurn(Turn{Speaker: SpeakerAssistant, Text: ev.Text, Timestamp: p.now().UTC()})
		st.TurnCount++
		d.turnCount = st.TurnCount

		d.analysis = ClassifyEmotion(ev.Text)
		d.sceneType = ClassifySceneType(ev.Text)

		if st.TurnCount >= MinTurnsForScene {
			sinceLast := st.TurnCount - st.LastSceneAtTurn
			if (SceneTriggersComic(d.sceneType) || d.analysis.Intensity >= 2) && sinceLast >= MinTurnsBetweenScenes {
				d.generateScene = true
				st.LastSceneAtTurn = st.TurnCount
				d.transcript = transcriptOf(st.Turns)
			}
		}

		if tier, ok := CurrentTier(st.TurnCount); ok && tier.Name != st.LastRewardTier {
			d.rewardFired = true
			d.rewardTier = tier
			d.nextTier, d.hasNextTier = NextTier(tier.Name)
			st.LastRewardTier = tier.Name
		}

		trigger := ev.OriginalUserMessage
		if trigger == "" {
			trigger = ev.Text
		}
		d.confused = p.confusion.ShouldConfuse(trigger, len(st.Turns))
	})
	p.window.Observe("classify", float64(p.now().Sub(classifyStart).Microseconds())/1000)

	finalText := ev.Text
	imageURL := ev.ImageURL
	var mementoID string

	if d.generateScene {
		panel := p.renderScene(ctx, d)
		finalText = sceneHeader + panel.Text
		imageURL = panel.ImageURL
		p.metrics.ScenesGenerated.Inc()

		m, err := p.mementos.Mint(ctx, ev.RoomID, ev.Text, d.analysis.Dominant)
		if err != nil {
			log.Printf("memento mint failed for %s: %v", ev.RoomID, err)
		} else {
			mementoID = m.ID
			p.store.Apply(ev.RoomID, func(st *ConversationState) {
				st.MementoIDs = append(st.MementoIDs, m.ID)
			})
			p.metrics.MementosMinted.WithLabelValues(m.Type).Inc()
			finalText += fmt.Sprintf("\n\n\U0001F3FA **Story Memento Created**: *%s* (%s) - Value: %g SOL",
				m.Type, m.Rarity, m.Value)
		}
	}

	// Reward transitions take priority over scene text in the final
	// composition; the scene slot and memento stand regardless.
	if d.rewardFired {
		finalText = composeRewardAnnouncement(d.rewardTier, d.nextTier, d.hasNextTier, d.analysis)
		p.metrics.RewardAnnouncements.WithLabelValues(d.rewardTier.Name).Inc()
	}

	// Confusion overrides everything composed above for this turn.
	if d.confused {
		finalText = p.confusion.Response(d.analysis)
		imageURL = ""
		p.metrics.ConfusionInjections.Inc()
	}

	p.metrics.WebhookEvents.WithLabelValues(string(protocol.EventResponse), "processed").Inc()
	p.metrics.ActiveConversations.Set(float64(p.store.Count()))

	resp := protocol.WebhookResponse{WebhookEvent: ev, SaveModified: true}
	resp.Text = finalText
	resp.ImageURL = imageURL
	resp.Emotion = &protocol.EmotionReading{
		Dominant:  d.analysis.Dominant,
		Scores:    d.analysis.Scores,
		Intensity: d.analysis.Intensity,
		Color:     d.analysis.Color,
	}
	resp.SceneType = d.sceneType
	resp.StoryProgress = p.ProgressSummary(ev.RoomID)
	resp.MementoID = mementoID

	if p.publish != nil {
		p.publish(protocol.TurnFeedEvent{
			RoomID:         ev.RoomID,
			TurnCount:      d.turnCount,
			Emotion:        d.analysis.Dominant,
			Intensity:      d.analysis.Intensity,
			SceneType:      d.sceneType,
			SceneGenerated: d.generateScene,
			MementoID:      mementoID,
			RewardTier:     rewardTierName(d),
			ConfusionFired: d.confused,
			ProcessedAt:    p.now().UTC(),
		})
	}

	return resp
}

func (p *Processor) renderScene(ctx context.Context, d turnDecision) scene.Panel {
	renderStart := p.now()
	panel, err := p.renderer.Render(ctx, scene.Request{
		Transcript:  d.transcript,
		SceneType:   d.sceneType,
		Emotion:     d.analysis.Dominant,
		VisualStyle: EmotionProfileFor(d.analysis.Dominant).VisualStyle,
	})
	p.window.Observe("scene_render", float64(p.now().Sub(renderStart).Microseconds())/1000)
	if err != nil {
		log.Printf("scene render failed (%s/%s): %v", d.sceneType, d.analysis.Dominant, err)
		p.metrics.SceneRenderFailures.Inc()
		return scene.Panel{Text: sceneFallbackText}
	}
	return panel
}

// ProgressSummary returns the story-progress block echoed in responses and
// served by the debug endpoint.
func (p *Processor) ProgressSummary(roomID string) *protocol.StoryProgress {
	st, ok := p.store.Snapshot(roomID)
	if !ok {
		return &protocol.StoryProgress{Goals: ConversationGoals}
	}
	return &protocol.StoryProgress{
		TurnCount:       st.TurnCount,
		LastRewardTier:  st.LastRewardTier,
		LastSceneAtTurn: st.LastSceneAtTurn,
		StoredTurns:     len(st.Turns),
		MementoIDs:      st.MementoIDs,
		Goals:           ConversationGoals,
	}
}

func composeRewardAnnouncement(tier, next RewardTier, hasNext bool, emotion EmotionAnalysis) string {
	text := fmt.Sprintf("\U0001F3C6 **%s Achieved!** %s\n\n", tier.Title, tier.Emoji)
	text += fmt.Sprintf("*Kyle's %s eyes gleam with pride* \"You've earned %g SOL, brave chronicler! The archives honor your dedication.\"",
		emotion.Dominant, tier.Reward)
	if hasNext {
		text += fmt.Sprintf("\n\n\U0001F3AF **Next Goal**: Reach %d interactions to become a **%s**",
			next.Threshold, next.Title)
	}
	return text
}

func transcriptOf(turns []Turn) []scene.Line {
	lines := make([]scene.Line, 0, len(turns))
	for _, t := range turns {
		role := "assistant"
		if t.Speaker == SpeakerUser {
			role = "user"
		}
		lines = append(lines, scene.Line{Role: role, Content: t.Text})
	}
	return lines
}

func rewardTierName(d turnDecision) string {
	if !d.rewardFired {
		return ""
	}
	return d.rewardTier.Name
}
