package mood

import "testing"

func TestMap(t *testing.T) {
	tests := []struct {
		label string
		want  Descriptor
	}{
		{"happy", Descriptor{Valence: 0.9, Energy: 0.8, GenreSeed: "pop"}},
		{"sad", Descriptor{Valence: 0.2, Energy: 0.3, GenreSeed: "acoustic"}},
		{"angry", Descriptor{Valence: 0.3, Energy: 0.9, GenreSeed: "rock"}},
		{"fear", Descriptor{Valence: 0.3, Energy: 0.5, GenreSeed: "classical"}},
		{"surprise", Descriptor{Valence: 0.8, Energy: 0.7, GenreSeed: "edm"}},
		{"neutral", Descriptor{Valence: 0.5, Energy: 0.5, GenreSeed: "chill"}},
		{"disgust", Descriptor{Valence: 0.4, Energy: 0.6, GenreSeed: "metal"}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := Map(tt.label); got != tt.want {
				t.Errorf("Map(%q) = %+v, want %+v", tt.label, got, tt.want)
			}
		})
	}
}

func TestMapUnknownFallsBackToNeutral(t *testing.T) {
	neutral := Descriptor{Valence: 0.5, Energy: 0.5, GenreSeed: "chill"}

	for _, label := range []string{"", "contempt", "joy", "   ", "HAPPYISH"} {
		t.Run(label, func(t *testing.T) {
			if got := Map(label); got != neutral {
				t.Errorf("Map(%q) = %+v, want neutral %+v", label, got, neutral)
			}
		})
	}
}

func TestMapNormalizesCase(t *testing.T) {
	if got := Map("  Happy "); got.GenreSeed != "pop" {
		t.Errorf("Map(\"  Happy \").GenreSeed = %q, want %q", got.GenreSeed, "pop")
	}
}

func TestParseEmotion(t *testing.T) {
	e, ok := ParseEmotion("SURPRISE")
	if !ok || e != Surprise {
		t.Errorf("ParseEmotion(SURPRISE) = (%q, %v), want (%q, true)", e, ok, Surprise)
	}

	e, ok = ParseEmotion("bored")
	if ok || e != Neutral {
		t.Errorf("ParseEmotion(bored) = (%q, %v), want (%q, false)", e, ok, Neutral)
	}
}

func TestEmoji(t *testing.T) {
	if got := Emoji("sad"); got != "😢" {
		t.Errorf("Emoji(sad) = %q", got)
	}
	if got := Emoji("unknown"); got != unknownEmoji {
		t.Errorf("Emoji(unknown) = %q, want %q", got, unknownEmoji)
	}
}

func TestDescriptorSeedsAreAllowed(t *testing.T) {
	for _, e := range Emotions {
		d := Map(string(e))
		if !ValidSeed(d.GenreSeed) {
			t.Errorf("seed %q for %s is not in AllowedSeeds", d.GenreSeed, e)
		}
	}
}

func TestSafeSeed(t *testing.T) {
	tests := []struct {
		seed string
		want string
	}{
		{"pop", "pop"},
		{" Rock ", "rock"},
		{"polka", "chill"},
		{"", "chill"},
	}
	for _, tt := range tests {
		if got := SafeSeed(tt.seed); got != tt.want {
			t.Errorf("SafeSeed(%q) = %q, want %q", tt.seed, got, tt.want)
		}
	}
}

func TestGenreLabel(t *testing.T) {
	tests := map[string]string{
		"pop":       "Pop Music",
		"classical": "Classical Music",
		"edm":       "Edm Music",
	}
	for in, want := range tests {
		if got := GenreLabel(in); got != want {
			t.Errorf("GenreLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
