package story

import (
	"strings"
	"testing"
	"time"
)

func TestWorldSnapshotTimeOfDay(t *testing.T) {
	rng := NewRand(1)
	cases := []struct {
		hour int
		want string
	}{
		{0, "dawn"},
		{4, "morning"},
		{12, "dusk"},
		{17, "night"},
		{18, "midnight"},
		{23, "midnight"}, // hour/3 overruns the table; clamped to the last entry
	}
	for _, tc := range cases {
		now := time.Date(2024, 6, 1, tc.hour, 0, 0, 0, time.UTC)
		got := WorldSnapshot(0, now, rng)
		if got.TimeOfDay != tc.want {
			t.Fatalf("hour %d TimeOfDay = %q, want %q", tc.hour, got.TimeOfDay, tc.want)
		}
	}
}

func TestWorldSnapshotLocationAdvances(t *testing.T) {
	rng := NewRand(1)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		turnCount int
		want      string
	}{
		{0, "Archive Hall"},
		{4, "Archive Hall"},
		{5, "Mystic Library"},
		{12, "Crystal Garden"},
		{20, "Starlight Tower"},
		{500, "Starlight Tower"},
	}
	for _, tc := range cases {
		got := WorldSnapshot(tc.turnCount, now, rng)
		if got.Location != tc.want {
			t.Fatalf("turnCount %d Location = %q, want %q", tc.turnCount, got.Location, tc.want)
		}
		if got.StoryProgress != tc.turnCount {
			t.Fatalf("StoryProgress = %d, want %d", got.StoryProgress, tc.turnCount)
		}
	}
}

func TestWorldSnapshotPicksFromTables(t *testing.T) {
	rng := NewRand(3)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		got := WorldSnapshot(i, now, rng)
		if !contains(worldWeather, got.Weather) {
			t.Fatalf("Weather = %q not in table", got.Weather)
		}
		if !contains(worldAmbience, got.Ambience) {
			t.Fatalf("Ambience = %q not in table", got.Ambience)
		}
	}
}

func TestWorldStateDescribe(t *testing.T) {
	w := WorldState{TimeOfDay: "dusk", Weather: "foggy", Location: "Shadow Realm", Ambience: "tense"}
	desc := w.Describe()
	for _, part := range []string{"dusk", "foggy", "Shadow Realm", "tense"} {
		if !strings.Contains(desc, part) {
			t.Fatalf("Describe() = %q, missing %q", desc, part)
		}
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
