// Package ranking orders catalog candidates by closeness to a target mood.
package ranking

import (
	"cmp"
	"math"
	"slices"

	"github.com/justestif/go-mood-mirror/internal/mood"
	"github.com/justestif/go-mood-mirror/internal/spotify"
)

// DefaultLimit is used when Rank is called with a non-positive limit.
const DefaultLimit = 5

// Ranked is a candidate with its distance to the target mood.
// Distance is only meaningful when Scored is true.
type Ranked struct {
	Track    spotify.Track
	Distance float64
	Scored   bool
}

// Result is the outcome of ranking.
type Result struct {
	Ranked bool     // False when no candidate had audio descriptors
	Items  []Ranked // At most limit entries
	Vibe   *Vibe    // Centroid of the returned descriptors; nil when unranked
}

// Tracks returns the tracks in result order.
func (r Result) Tracks() []spotify.Track {
	tracks := make([]spotify.Track, len(r.Items))
	for i, item := range r.Items {
		tracks[i] = item.Track
	}
	return tracks
}

// Distance is the L1 distance between a track's descriptor and the target.
func Distance(d spotify.AudioDescriptor, target mood.Descriptor) float64 {
	return math.Abs(d.Valence-target.Valence) + math.Abs(d.Energy-target.Energy)
}

// Rank scores every candidate that has a descriptor and returns the closest
// limit of them, ties kept in input order. Repeated track IDs keep their first
// occurrence. Candidates without a descriptor are dropped once any candidate
// is scored. With no descriptors at all the first limit candidates are
// returned unscored.
func Rank(candidates []spotify.Track, descriptors map[string]spotify.AudioDescriptor, target mood.Descriptor, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}
	candidates = uniqueTracks(candidates)

	scored := make([]Ranked, 0, len(candidates))
	for _, t := range candidates {
		d, ok := descriptors[t.ID]
		if !ok {
			continue
		}
		scored = append(scored, Ranked{
			Track:    t,
			Distance: Distance(d, target),
			Scored:   true,
		})
	}

	if len(scored) == 0 {
		n := min(limit, len(candidates))
		items := make([]Ranked, n)
		for i := 0; i < n; i++ {
			items[i] = Ranked{Track: candidates[i]}
		}
		return Result{Items: items}
	}

	slices.SortStableFunc(scored, func(a, b Ranked) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	scored = scored[:min(limit, len(scored))]

	return Result{
		Ranked: true,
		Items:  scored,
		Vibe:   vibeOf(scored, descriptors),
	}
}

func uniqueTracks(tracks []spotify.Track) []spotify.Track {
	seen := make(map[string]struct{}, len(tracks))
	out := make([]spotify.Track, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
