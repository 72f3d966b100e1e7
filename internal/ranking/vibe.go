package ranking

import (
	"github.com/muesli/clusters"

	"github.com/justestif/go-mood-mirror/internal/spotify"
)

// Vibe describes where a set of tracks sits on the valence/energy plane.
type Vibe struct {
	Valence     float64
	Energy      float64
	Name        string
	Description string
}

// descriptorObservation adapts an audio descriptor to clusters.Observation.
type descriptorObservation struct {
	coords clusters.Coordinates
}

func (o descriptorObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o descriptorObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// vibeOf returns the centroid of the ranked tracks' descriptors, or nil if none are scored.
func vibeOf(items []Ranked, descriptors map[string]spotify.AudioDescriptor) *Vibe {
	var obs clusters.Observations
	for _, item := range items {
		d, ok := descriptors[item.Track.ID]
		if !ok || !item.Scored {
			continue
		}
		obs = append(obs, descriptorObservation{coords: clusters.Coordinates{d.Valence, d.Energy}})
	}

	center, err := obs.Center()
	if err != nil {
		return nil
	}

	v := NewVibe(center[0], center[1])
	return &v
}

// NewVibe names a valence/energy point.
func NewVibe(valence, energy float64) Vibe {
	return Vibe{
		Valence:     valence,
		Energy:      energy,
		Name:        VibeName(valence, energy),
		Description: vibeDescription(valence, energy),
	}
}

// VibeName names a point using a 2x2 energy/valence quadrant system.
//
// Quadrants:
//   - High Energy + High Valence = "Upbeat Party"
//   - High Energy + Low Valence  = "Intense & Dark"
//   - Low Energy  + High Valence = "Chill & Happy"
//   - Low Energy  + Low Valence  = "Reflective & Melancholy"
func VibeName(valence, energy float64) string {
	highEnergy := energy > 0.6
	highValence := valence > 0.5

	switch {
	case highEnergy && highValence:
		return "Upbeat Party"
	case highEnergy && !highValence:
		return "Intense & Dark"
	case !highEnergy && highValence:
		return "Chill & Happy"
	default:
		return "Reflective & Melancholy"
	}
}

func vibeDescription(valence, energy float64) string {
	switch {
	case energy > 0.6 && valence > 0.5:
		return "High-energy, positive vibes"
	case energy > 0.6:
		return "Intense, driving energy with darker emotional tones"
	case valence > 0.5:
		return "Relaxed and uplifting"
	default:
		return "Contemplative and introspective"
	}
}
