package story

import "testing"

func TestClassifyEmotionDominant(t *testing.T) {
	cases := []struct {
		name          string
		text          string
		wantDominant  string
		wantIntensity int
	}{
		{
			name:          "two excited one melancholy",
			text:          "What an amazing and incredible day, though a little sad.",
			wantDominant:  "excited",
			wantIntensity: 2,
		},
		{
			name:          "no keywords",
			text:          "The quick brown fox.",
			wantDominant:  DefaultEmotion,
			wantIntensity: 0,
		},
		{
			name:          "case insensitive",
			text:          "WHISPER of the SHADOW realm",
			wantDominant:  "mysterious",
			wantIntensity: 2,
		},
		{
			name:          "substring match without word boundary",
			text:          "the shadowy figure",
			wantDominant:  "mysterious",
			wantIntensity: 1,
		},
		{
			name:          "chaotic outweighs",
			text:          "wild chaos and a frantic explosion, simply amazing",
			wantDominant:  "chaotic",
			wantIntensity: 4,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyEmotion(tc.text)
			if got.Dominant != tc.wantDominant {
				t.Fatalf("Dominant = %q, want %q (scores %v)", got.Dominant, tc.wantDominant, got.Scores)
			}
			if got.Intensity != tc.wantIntensity {
				t.Fatalf("Intensity = %d, want %d", got.Intensity, tc.wantIntensity)
			}
		})
	}
}

func TestClassifyEmotionTieResolvesToTableOrder(t *testing.T) {
	// One keyword each from mysterious (earlier) and excited (later).
	got := ClassifyEmotion("a secret and something amazing")
	if got.Dominant != "mysterious" {
		t.Fatalf("Dominant = %q, want %q on tie", got.Dominant, "mysterious")
	}
	if got.Intensity != 1 {
		t.Fatalf("Intensity = %d, want 1", got.Intensity)
	}
	if got.Scores["mysterious"] != 1 || got.Scores["excited"] != 1 {
		t.Fatalf("Scores = %v, want 1/1", got.Scores)
	}
}

func TestClassifyEmotionExcludesZeroScores(t *testing.T) {
	got := ClassifyEmotion("an amazing quest")
	if _, ok := got.Scores["melancholy"]; ok {
		t.Fatalf("Scores contains zero-match emotion: %v", got.Scores)
	}
	if len(got.Scores) != 2 {
		t.Fatalf("Scores = %v, want exactly excited and adventurous", got.Scores)
	}
}

func TestClassifyEmotionColor(t *testing.T) {
	if got := ClassifyEmotion("pure chaos").Color; got != "#E74C3C" {
		t.Fatalf("chaotic color = %q", got)
	}
	if got := ClassifyEmotion("nothing matches here").Color; got != "#4A0E4E" {
		t.Fatalf("default color = %q", got)
	}
}

func TestClassifyEmotionDeterministic(t *testing.T) {
	text := "a wild journey through the hidden forest, amazing and dark"
	first := ClassifyEmotion(text)
	for i := 0; i < 10; i++ {
		again := ClassifyEmotion(text)
		if again.Dominant != first.Dominant || again.Intensity != first.Intensity {
			t.Fatalf("classification varies across runs: %+v vs %+v", first, again)
		}
	}
}

func TestEmotionProfileFor(t *testing.T) {
	if got := EmotionProfileFor("adventurous").VisualStyle; got != "heroic, sweeping, grand" {
		t.Fatalf("VisualStyle = %q", got)
	}
	if got := EmotionProfileFor("nonsense").Name; got != DefaultEmotion {
		t.Fatalf("unknown name profile = %q, want default", got)
	}
}
