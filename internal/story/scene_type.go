package story

import "strings"

// DefaultSceneType is reported when no scene keyword matches.
const DefaultSceneType = "dialogue"

type sceneCategory struct {
	Name     string
	Keywords []string
}

// sceneTable is ordered for deterministic tie-breaking, same as the emotion
// table.
var sceneTable = []sceneCategory{
	{Name: "action", Keywords: []string{"fight", "battle", "run", "chase", "attack", "defend", "jump", "climb"}},
	{Name: "dialogue", Keywords: []string{"said", "whispered", "shouted", "asked", "replied", "spoke", "declared"}},
	{Name: "emotion", Keywords: []string{"angry", "happy", "sad", "surprised", "afraid", "confused", "determined"}},
	{Name: "setting", Keywords: []string{"castle", "forest", "mountain", "ocean", "city", "dungeon", "temple", "palace"}},
}

// ClassifySceneType picks the dominant scene category for text by the same
// substring-scoring rule as ClassifyEmotion, defaulting to "dialogue".
func ClassifySceneType(text string) string {
	lower := strings.ToLower(text)

	dominant := DefaultSceneType
	max := 0
	for _, cat := range sceneTable {
		score := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > max {
			max = score
			dominant = cat.Name
		}
	}
	return dominant
}

// SceneTriggersComic reports whether a scene category is visual enough to
// justify generating a comic panel on its own. Dialogue scenes only qualify
// through emotion intensity.
func SceneTriggersComic(sceneType string) bool {
	switch sceneType {
	case "action", "emotion", "setting":
		return true
	default:
		return false
	}
}
