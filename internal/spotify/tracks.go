package spotify

import (
	"github.com/zmb3/spotify/v2"
)

// convertTracks converts a search page into Tracks, preserving catalog order.
func convertTracks(page *spotify.FullTrackPage) []Track {
	if page == nil || len(page.Tracks) == 0 {
		return nil
	}
	tracks := make([]Track, 0, len(page.Tracks))
	for _, ft := range page.Tracks {
		tracks = append(tracks, convertTrack(ft))
	}
	return tracks
}

// convertTrack converts a Spotify FullTrack to a Track.
// Only the first artist is kept; the first (largest) album image is used as art.
func convertTrack(ft spotify.FullTrack) Track {
	var artist string
	if len(ft.Artists) > 0 {
		artist = ft.Artists[0].Name
	}

	var art string
	if len(ft.Album.Images) > 0 {
		art = ft.Album.Images[0].URL
	}

	return Track{
		ID:          ft.ID.String(),
		Title:       ft.Name,
		Artist:      artist,
		Album:       ft.Album.Name,
		AlbumArtURL: art,
		PreviewURL:  ft.PreviewURL,
		ExternalURL: ft.ExternalURLs["spotify"],
	}
}
