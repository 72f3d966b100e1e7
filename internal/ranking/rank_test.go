package ranking

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/justestif/go-mood-mirror/internal/mood"
	"github.com/justestif/go-mood-mirror/internal/spotify"
)

func makeTracks(n int) []spotify.Track {
	tracks := make([]spotify.Track, n)
	for i := range tracks {
		id := fmt.Sprintf("t%02d", i)
		tracks[i] = spotify.Track{ID: id, Title: "Song " + id, Artist: "Artist"}
	}
	return tracks
}

func descriptor(id string, valence, energy float64) spotify.AudioDescriptor {
	return spotify.AudioDescriptor{TrackID: id, Valence: valence, Energy: energy}
}

func ids(res Result) []string {
	out := make([]string, len(res.Items))
	for i, item := range res.Items {
		out[i] = item.Track.ID
	}
	return out
}

func TestDistance(t *testing.T) {
	target := mood.Map("happy") // 0.9, 0.8
	got := Distance(descriptor("x", 0.7, 0.6), target)
	if math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Distance() = %v, want 0.4", got)
	}
}

func TestRank_PartialDescriptors(t *testing.T) {
	// 12 candidates, 8 with descriptors, limit 5.
	candidates := makeTracks(12)
	target := mood.Map("happy")
	descriptors := map[string]spotify.AudioDescriptor{}
	distances := []float64{0.9, 0.1, 0.5, 0.3, 0.7, 0.2, 0.6, 0.4}
	for i, d := range distances {
		id := candidates[i].ID
		// Put the whole distance on valence, below the target.
		descriptors[id] = descriptor(id, target.Valence-d, target.Energy)
	}

	res := Rank(candidates, descriptors, target, 5)

	if !res.Ranked {
		t.Fatal("Ranked = false, want true")
	}
	want := []string{"t01", "t05", "t03", "t07", "t02"}
	if strings.Join(ids(res), ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", ids(res), want)
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].Distance < res.Items[i-1].Distance {
			t.Errorf("distances not ascending at %d: %v < %v", i, res.Items[i].Distance, res.Items[i-1].Distance)
		}
	}
	for _, item := range res.Items {
		if !item.Scored {
			t.Errorf("item %s not scored", item.Track.ID)
		}
	}
}

func TestRank_OnlyScoredReturned(t *testing.T) {
	candidates := makeTracks(12)
	descriptors := map[string]spotify.AudioDescriptor{
		"t04": descriptor("t04", 0.5, 0.5),
		"t09": descriptor("t09", 0.4, 0.5),
	}

	res := Rank(candidates, descriptors, mood.Map("neutral"), 5)

	if len(res.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2 (unscored candidates dropped)", len(res.Items))
	}
	if ids(res)[0] != "t04" {
		t.Errorf("first = %s, want t04", ids(res)[0])
	}
}

func TestRank_StableTies(t *testing.T) {
	candidates := makeTracks(4)
	descriptors := map[string]spotify.AudioDescriptor{}
	for _, c := range candidates {
		descriptors[c.ID] = descriptor(c.ID, 0.5, 0.5)
	}

	res := Rank(candidates, descriptors, mood.Map("neutral"), 10)

	want := []string{"t00", "t01", "t02", "t03"}
	if strings.Join(ids(res), ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want input order %v", ids(res), want)
	}
}

func TestRank_NoDescriptors(t *testing.T) {
	candidates := makeTracks(12)

	res := Rank(candidates, nil, mood.Map("sad"), 5)

	if res.Ranked {
		t.Error("Ranked = true, want false")
	}
	if res.Vibe != nil {
		t.Errorf("Vibe = %+v, want nil", res.Vibe)
	}
	want := []string{"t00", "t01", "t02", "t03", "t04"}
	if strings.Join(ids(res), ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", ids(res), want)
	}
}

func TestRank_DuplicateIDs(t *testing.T) {
	a := spotify.Track{ID: "a", Title: "First"}
	b := spotify.Track{ID: "b", Title: "Second"}
	candidates := []spotify.Track{a, {ID: "a", Title: "Repeat"}, b}
	descriptors := map[string]spotify.AudioDescriptor{
		"a": descriptor("a", 0.5, 0.5),
		"b": descriptor("b", 0.1, 0.1),
	}

	scored := Rank(candidates, descriptors, mood.Map("neutral"), 5)
	if got := strings.Join(ids(scored), ","); got != "a,b" {
		t.Errorf("scored order = %v, want a,b", got)
	}
	if scored.Items[0].Track.Title != "First" {
		t.Errorf("kept %q, want the first occurrence", scored.Items[0].Track.Title)
	}

	unscored := Rank(candidates, nil, mood.Map("neutral"), 5)
	if got := strings.Join(ids(unscored), ","); got != "a,b" {
		t.Errorf("unscored order = %v, want a,b", got)
	}
}

func TestRank_Limit(t *testing.T) {
	tests := []struct {
		name       string
		candidates int
		limit      int
		want       int
	}{
		{"default limit", 20, 0, DefaultLimit},
		{"negative limit", 20, -3, DefaultLimit},
		{"fewer candidates than limit", 3, 5, 3},
		{"explicit limit", 20, 8, 8},
		{"no candidates", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := makeTracks(tt.candidates)

			unranked := Rank(candidates, nil, mood.Map("happy"), tt.limit)
			if len(unranked.Items) != tt.want {
				t.Errorf("unranked len = %d, want %d", len(unranked.Items), tt.want)
			}

			descriptors := map[string]spotify.AudioDescriptor{}
			for _, c := range candidates {
				descriptors[c.ID] = descriptor(c.ID, 0.1, 0.1)
			}
			ranked := Rank(candidates, descriptors, mood.Map("happy"), tt.limit)
			if len(ranked.Items) != tt.want {
				t.Errorf("ranked len = %d, want %d", len(ranked.Items), tt.want)
			}
		})
	}
}

func TestRank_Vibe(t *testing.T) {
	candidates := makeTracks(2)
	descriptors := map[string]spotify.AudioDescriptor{
		"t00": descriptor("t00", 0.8, 0.9),
		"t01": descriptor("t01", 0.6, 0.7),
	}

	res := Rank(candidates, descriptors, mood.Map("happy"), 5)

	if res.Vibe == nil {
		t.Fatal("Vibe = nil")
	}
	if math.Abs(res.Vibe.Valence-0.7) > 1e-9 || math.Abs(res.Vibe.Energy-0.8) > 1e-9 {
		t.Errorf("Vibe = %+v, want centroid (0.7, 0.8)", res.Vibe)
	}
	if res.Vibe.Name != "Upbeat Party" {
		t.Errorf("Vibe.Name = %q, want Upbeat Party", res.Vibe.Name)
	}
}

func TestResultTracks(t *testing.T) {
	res := Rank(makeTracks(3), nil, mood.Map("happy"), 5)
	tracks := res.Tracks()
	if len(tracks) != 3 || tracks[2].ID != "t02" {
		t.Errorf("Tracks() = %+v", tracks)
	}
}
