package story

import "strings"

// DefaultEmotion is reported when no keyword matches at all.
const DefaultEmotion = "mysterious"

// EmotionProfile describes one emotion's keywords and presentation. Color
// feeds the frontend, soundtrack and visual style feed the scene renderer.
type EmotionProfile struct {
	Name        string
	Keywords    []string
	Color       string
	Soundtrack  string
	VisualStyle string
}

// emotionTable is ordered; ties between equal scores resolve to the earlier
// entry, so the order is part of the classifier contract.
var emotionTable = []EmotionProfile{
	{
		Name:        "mysterious",
		Keywords:    []string{"whisper", "shadow", "secret", "hidden", "unknown", "dark", "enigma"},
		Color:       "#4A0E4E",
		Soundtrack:  "ethereal whispers and distant chimes",
		VisualStyle: "misty, shadowy, ethereal",
	},
	{
		Name:        "excited",
		Keywords:    []string{"amazing", "incredible", "wow", "fantastic", "awesome", "brilliant", "thrilled", "energetic", "vibrant"},
		Color:       "#FF6B35",
		Soundtrack:  "triumphant orchestral swells",
		VisualStyle: "bright, dynamic, energetic",
	},
	{
		Name:        "melancholy",
		Keywords:    []string{"sad", "lonely", "lost", "melancholy", "sorrow", "tears", "grief"},
		Color:       "#2E4057",
		Soundtrack:  "haunting violin melodies",
		VisualStyle: "soft, muted, contemplative",
	},
	{
		Name:        "chaotic",
		Keywords:    []string{"chaos", "wild", "crazy", "insane", "mad", "frantic", "explosion", "unpredictable", "disorder"},
		Color:       "#E74C3C",
		Soundtrack:  "discordant drums and wild harmonies",
		VisualStyle: "explosive, fractured, intense",
	},
	{
		Name:        "adventurous",
		Keywords:    []string{"adventure", "explore", "journey", "quest", "brave", "bold", "discover"},
		Color:       "#27AE60",
		Soundtrack:  "epic adventure themes",
		VisualStyle: "heroic, sweeping, grand",
	},
}

// EmotionAnalysis is the classifier result for one text.
type EmotionAnalysis struct {
	Dominant  string
	Scores    map[string]int
	Intensity int
	Color     string
}

// ClassifyEmotion scores text against every emotion's keyword set using
// case-insensitive substring matching. Each distinct keyword present counts
// one point; emotions with zero matches are left out of the score map. The
// dominant emotion is the highest scorer, earlier table entries winning ties.
// With no matches anywhere the result is the default emotion at intensity 0.
func ClassifyEmotion(text string) EmotionAnalysis {
	lower := strings.ToLower(text)

	scores := make(map[string]int)
	dominant := DefaultEmotion
	max := 0
	for _, profile := range emotionTable {
		score := 0
		for _, kw := range profile.Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score == 0 {
			continue
		}
		scores[profile.Name] = score
		if score > max {
			max = score
			dominant = profile.Name
		}
	}

	return EmotionAnalysis{
		Dominant:  dominant,
		Scores:    scores,
		Intensity: max,
		Color:     EmotionProfileFor(dominant).Color,
	}
}

// EmotionProfileFor returns the profile for name, falling back to the
// default emotion for unknown names.
func EmotionProfileFor(name string) EmotionProfile {
	for _, profile := range emotionTable {
		if profile.Name == name {
			return profile
		}
	}
	return emotionTable[0]
}
