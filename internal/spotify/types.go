package spotify

// Track is a catalog search result as shown to the user.
type Track struct {
	ID          string
	Title       string
	Artist      string // Primary artist name
	Album       string
	AlbumArtURL string // Empty when the album has no images
	PreviewURL  string // Empty when no 30s preview is offered
	ExternalURL string // Link to the track on Spotify
}

// AudioDescriptor holds the mood-relevant audio features of a track.
type AudioDescriptor struct {
	TrackID string
	Valence float64
	Energy  float64
}
