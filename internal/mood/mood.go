// Package mood maps facial emotions to target musical moods.
package mood

import "strings"

// Emotion is a facial emotion label produced by the face-analysis model.
type Emotion string

// The closed set of emotions the detector can report.
const (
	Happy    Emotion = "happy"
	Sad      Emotion = "sad"
	Angry    Emotion = "angry"
	Fear     Emotion = "fear"
	Surprise Emotion = "surprise"
	Neutral  Emotion = "neutral"
	Disgust  Emotion = "disgust"
)

// Emotions lists every known emotion in display order.
var Emotions = []Emotion{Happy, Sad, Angry, Fear, Surprise, Neutral, Disgust}

// Descriptor is the target mood for a catalog search.
// Valence and Energy are in [0, 1]; GenreSeed is a catalog genre keyword.
type Descriptor struct {
	Valence   float64
	Energy    float64
	GenreSeed string
}

// descriptors holds one target mood per emotion.
var descriptors = map[Emotion]Descriptor{
	Happy:    {Valence: 0.9, Energy: 0.8, GenreSeed: "pop"},
	Sad:      {Valence: 0.2, Energy: 0.3, GenreSeed: "acoustic"},
	Angry:    {Valence: 0.3, Energy: 0.9, GenreSeed: "rock"},
	Fear:     {Valence: 0.3, Energy: 0.5, GenreSeed: "classical"},
	Surprise: {Valence: 0.8, Energy: 0.7, GenreSeed: "edm"},
	Neutral:  {Valence: 0.5, Energy: 0.5, GenreSeed: "chill"},
	Disgust:  {Valence: 0.4, Energy: 0.6, GenreSeed: "metal"},
}

var emojis = map[Emotion]string{
	Happy:    "😊",
	Sad:      "😢",
	Angry:    "😠",
	Fear:     "😨",
	Surprise: "😲",
	Neutral:  "😐",
	Disgust:  "🤢",
}

const unknownEmoji = "🎭"

// ParseEmotion normalizes a raw label into a known Emotion.
// The second return value is false when the label is not recognized,
// in which case Neutral is returned.
func ParseEmotion(label string) (Emotion, bool) {
	e := Emotion(strings.ToLower(strings.TrimSpace(label)))
	if _, ok := descriptors[e]; ok {
		return e, true
	}
	return Neutral, false
}

// Map returns the target mood for an emotion label.
// Unknown or empty labels map to the neutral descriptor.
func Map(label string) Descriptor {
	e, _ := ParseEmotion(label)
	return descriptors[e]
}

// Emoji returns the display emoji for an emotion label.
func Emoji(label string) string {
	e, ok := ParseEmotion(label)
	if !ok {
		return unknownEmoji
	}
	return emojis[e]
}

// String implements fmt.Stringer.
func (e Emotion) String() string {
	return string(e)
}
