package story

import (
	"fmt"
	"time"
)

// Environmental flavor tables for the world-context snapshot.
var (
	worldTimesOfDay = []string{"dawn", "morning", "midday", "afternoon", "dusk", "night", "midnight"}
	worldWeather    = []string{"sunny", "cloudy", "rainy", "stormy", "foggy", "snowy", "windy"}
	worldLocations  = []string{"Archive Hall", "Mystic Library", "Crystal Garden", "Shadow Realm", "Starlight Tower"}
	worldAmbience   = []string{"peaceful", "tense", "magical", "mysterious", "chaotic", "serene"}
)

// WorldState is a derived environmental snapshot for one conversation.
type WorldState struct {
	TimeOfDay     string `json:"timeOfDay"`
	Weather       string `json:"weather"`
	Location      string `json:"location"`
	Ambience      string `json:"ambience"`
	StoryProgress int    `json:"storyProgress"`
}

// WorldSnapshot derives a world state: time of day from the wall clock,
// location advancing with story progress, weather and ambience rolled from
// the injected source.
func WorldSnapshot(turnCount int, now time.Time, rng *Rand) WorldState {
	tod := now.Hour() / 3
	if tod >= len(worldTimesOfDay) {
		tod = len(worldTimesOfDay) - 1
	}
	loc := turnCount / 5
	if loc >= len(worldLocations) {
		loc = len(worldLocations) - 1
	}
	return WorldState{
		TimeOfDay:     worldTimesOfDay[tod],
		Weather:       worldWeather[rng.Intn(len(worldWeather))],
		Location:      worldLocations[loc],
		Ambience:      worldAmbience[rng.Intn(len(worldAmbience))],
		StoryProgress: turnCount,
	}
}

// Describe renders the world state as one sentence for the chat surface.
func (w WorldState) Describe() string {
	return fmt.Sprintf("It is %s in the %s. The weather is %s and the atmosphere feels %s.",
		w.TimeOfDay, w.Location, w.Weather, w.Ambience)
}
