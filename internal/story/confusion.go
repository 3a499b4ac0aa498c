package story

import (
	"fmt"
	"strings"
)

// confusionDepthThreshold is how many stored turns a conversation needs
// before the character is allowed to "forget". Note this is lower than
// MemoryLimit, so confusion can fire while the referenced turn is still in
// memory. The character is unreliable on purpose; keep it that way.
const confusionDepthThreshold = 10

// confusionTriggers are retrospective phrases that make the character doubt
// his own archives.
var confusionTriggers = []string{
	"remember when",
	"you said before",
	"earlier you mentioned",
	"like last time",
	"from before",
	"you told me",
}

// confusionTemplates take one formatting argument each; see Response.
var confusionTemplates = []string{
	"*Kyle's %s gaze grows distant* The archives shift and blur... what thread of our tale were we following?",
	"*The Exiled Archivist touches his temple, %s energy flickering* My memory crystals have grown clouded... remind me, friend?",
	"*Kyle's form wavers like %s mist* The story threads have tangled in the cosmic winds... help me find our path again?",
}

// ConfusionInjector decides when to replace the outbound text with a
// forgotten-context response.
type ConfusionInjector struct {
	rng *Rand
}

func NewConfusionInjector(rng *Rand) *ConfusionInjector {
	return &ConfusionInjector{rng: rng}
}

// ShouldConfuse reports whether userText contains a retrospective trigger
// phrase while the conversation holds more than the depth threshold of
// stored turns.
func (c *ConfusionInjector) ShouldConfuse(userText string, storedTurns int) bool {
	if storedTurns <= confusionDepthThreshold {
		return false
	}
	lower := strings.ToLower(userText)
	for _, trigger := range confusionTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// Response picks one confusion template pseudo-randomly and fills in the
// current emotion. The second template uses the emotion color, the others
// the dominant emotion name.
func (c *ConfusionInjector) Response(emotion EmotionAnalysis) string {
	i := c.rng.Intn(len(confusionTemplates))
	arg := emotion.Dominant
	if i == 1 {
		arg = emotion.Color
	}
	return fmt.Sprintf(confusionTemplates[i], arg)
}
