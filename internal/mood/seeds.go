package mood

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AllowedSeeds is the subset of catalog genre seeds the mood table may use.
// Every GenreSeed in the descriptor table must appear here.
var AllowedSeeds = map[string]struct{}{
	"acoustic":  {},
	"chill":     {},
	"classical": {},
	"edm":       {},
	"metal":     {},
	"pop":       {},
	"rock":      {},
}

// ValidSeed reports whether seed belongs to the allowed vocabulary.
func ValidSeed(seed string) bool {
	_, ok := AllowedSeeds[strings.ToLower(strings.TrimSpace(seed))]
	return ok
}

// SafeSeed returns seed normalized to lower case when it is allowed,
// otherwise the neutral descriptor's seed.
func SafeSeed(seed string) string {
	s := strings.ToLower(strings.TrimSpace(seed))
	if _, ok := AllowedSeeds[s]; ok {
		return s
	}
	return descriptors[Neutral].GenreSeed
}

// GenreLabel formats a genre seed for display: "edm" becomes "Edm Music".
// Casers are stateful, so one is built per call.
func GenreLabel(seed string) string {
	return cases.Title(language.English).String(strings.TrimSpace(seed)) + " Music"
}
