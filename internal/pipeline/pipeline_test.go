package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zspotify "github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-mirror/internal/emotion"
	"github.com/justestif/go-mood-mirror/internal/spotify"
)

type stubAnalyzer struct {
	analysis emotion.Analysis
	err      error
}

func (s stubAnalyzer) Analyze(context.Context, string) (emotion.Analysis, error) {
	return s.analysis, s.err
}

// fakeWebAPI serves a fixed search page and audio features.
type fakeWebAPI struct {
	tracks      []zspotify.FullTrack
	features    map[zspotify.ID]*zspotify.AudioFeatures
	featuresErr error
	onSearch    func()

	searches     int
	featureCalls int
}

func (f *fakeWebAPI) Search(ctx context.Context, _ string, _ zspotify.SearchType, _ ...zspotify.RequestOption) (*zspotify.SearchResult, error) {
	f.searches++
	if f.onSearch != nil {
		f.onSearch()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return &zspotify.SearchResult{Tracks: &zspotify.FullTrackPage{Tracks: f.tracks}}, nil
}

func (f *fakeWebAPI) GetAudioFeatures(_ context.Context, ids ...zspotify.ID) ([]*zspotify.AudioFeatures, error) {
	f.featureCalls++
	if f.featuresErr != nil {
		return nil, f.featuresErr
	}
	out := make([]*zspotify.AudioFeatures, len(ids))
	for i, id := range ids {
		out[i] = f.features[id]
	}
	return out, nil
}

// stubReporter records captured errors.
type stubReporter struct {
	captured []error
}

func (s *stubReporter) Capture(err error, _ map[string]string) {
	s.captured = append(s.captured, err)
}

func testImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func happyAnalyzer() stubAnalyzer {
	return stubAnalyzer{analysis: emotion.Analysis{
		DominantEmotion: "happy",
		FaceConfidence:  0.97,
		Emotion:         map[string]float64{"happy": 95, "neutral": 5},
	}}
}

func catalogTracks(n int) []zspotify.FullTrack {
	tracks := make([]zspotify.FullTrack, n)
	for i := range tracks {
		tracks[i] = zspotify.FullTrack{SimpleTrack: zspotify.SimpleTrack{
			ID:      zspotify.ID(fmt.Sprintf("t%02d", i)),
			Name:    fmt.Sprintf("Track %d", i),
			Artists: []zspotify.SimpleArtist{{Name: "Someone"}},
		}}
	}
	return tracks
}

func newDetector(t *testing.T, a emotion.Analyzer) (*emotion.Detector, string) {
	t.Helper()
	dir := t.TempDir()
	return emotion.NewDetector(a, emotion.Options{TempDir: dir}), dir
}

func TestRun_EndToEnd(t *testing.T) {
	api := &fakeWebAPI{
		tracks:   catalogTracks(12),
		features: map[zspotify.ID]*zspotify.AudioFeatures{},
	}
	// 8 of 12 tracks have features; rank[i] is track i's distance step from
	// happy (0.9, 0.8), so catalog order differs from distance order.
	rank := []int{3, 0, 6, 1, 7, 2, 5, 4}
	for i, step := range rank {
		id := zspotify.ID(fmt.Sprintf("t%02d", i))
		api.features[id] = &zspotify.AudioFeatures{
			ID:      id,
			Valence: 0.9 - float32(step)*0.05,
			Energy:  0.8,
		}
	}
	detector, _ := newDetector(t, happyAnalyzer())

	var events []Progress
	p := New(detector, spotify.New(api), WithLimit(5))
	res, err := p.Run(context.Background(), testImage(t), func(ev Progress) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "happy", res.Emotion.Dominant)
	assert.Equal(t, "😊", res.Emoji)
	assert.Equal(t, "pop", res.Genre)
	assert.Empty(t, res.Notice)
	assert.True(t, res.Ranking.Ranked)

	tracks := res.Tracks()
	require.Len(t, tracks, 5)
	got := make([]string, len(tracks))
	for i, tr := range tracks {
		got[i] = tr.ID
	}
	assert.Equal(t, []string{"t01", "t03", "t05", "t00", "t07"}, got, "closest first")
	for _, item := range res.Ranking.Items {
		assert.True(t, item.Scored, "track %s should come from the enriched set", item.Track.ID)
	}

	percents := make([]int, len(events))
	for i, ev := range events {
		percents[i] = ev.Percent
	}
	assert.Equal(t, []int{20, 50, 70, 85, 100}, percents)
	assert.Equal(t, "🎵 Searching for perfect pop tracks...", events[3].Message)
}

func TestRun_DetectionFault(t *testing.T) {
	cause := errors.New("tensorflow exploded")
	detector, dir := newDetector(t, stubAnalyzer{err: cause})
	api := &fakeWebAPI{tracks: catalogTracks(3)}
	reporter := &stubReporter{}

	p := New(detector, spotify.New(api), WithReporter(reporter))
	res, err := p.Run(context.Background(), testImage(t), nil)

	assert.Nil(t, res)
	var detErr *DetectionError
	require.ErrorAs(t, err, &detErr)
	assert.Equal(t, DetectionMessage, detErr.Message())
	assert.Contains(t, detErr.Detail(), "tensorflow exploded")
	assert.ErrorIs(t, err, cause)
	assert.NotEmpty(t, detErr.RunID)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "transient image should be removed")

	assert.Zero(t, api.searches, "no search after a failed detection")
	assert.Len(t, reporter.captured, 1)
}

func TestRun_UndecodableImage(t *testing.T) {
	detector, _ := newDetector(t, happyAnalyzer())
	reporter := &stubReporter{}
	p := New(detector, spotify.New(&fakeWebAPI{}), WithReporter(reporter))

	_, err := p.Run(context.Background(), []byte("GIF89a?"), nil)

	var detErr *DetectionError
	require.ErrorAs(t, err, &detErr)
	assert.ErrorIs(t, err, emotion.ErrUndecodableImage)
	assert.Empty(t, reporter.captured, "bad input is not reported")
}

func TestRun_NoTracks(t *testing.T) {
	api := &fakeWebAPI{}
	detector, _ := newDetector(t, happyAnalyzer())

	var last Progress
	p := New(detector, spotify.New(api))
	res, err := p.Run(context.Background(), testImage(t), func(ev Progress) { last = ev })

	require.ErrorIs(t, err, ErrNoTracks)
	require.NotNil(t, res)
	assert.Equal(t, "happy", res.Emotion.Dominant)
	assert.Empty(t, res.Ranking.Items)
	assert.Equal(t, 4, api.searches, "every formulation is tried")
	assert.Zero(t, api.featureCalls, "no enrichment without candidates")
	assert.Equal(t, StageSearching, last.Stage)
}

func TestRun_EnrichmentUnavailable(t *testing.T) {
	api := &fakeWebAPI{
		tracks:      catalogTracks(12),
		featuresErr: errors.New("403 forbidden"),
	}
	detector, _ := newDetector(t, happyAnalyzer())

	p := New(detector, spotify.New(api), WithLimit(5))
	res, err := p.Run(context.Background(), testImage(t), nil)
	require.NoError(t, err)

	assert.Equal(t, NoticeUnranked, res.Notice)
	assert.False(t, res.Ranking.Ranked)
	require.Len(t, res.Tracks(), 5)
	for i, tr := range res.Tracks() {
		assert.Equal(t, fmt.Sprintf("t%02d", i), tr.ID, "catalog order is kept")
	}
}

func TestRun_UnknownEmotionUsesNeutral(t *testing.T) {
	api := &fakeWebAPI{tracks: catalogTracks(2)}
	detector, _ := newDetector(t, stubAnalyzer{analysis: emotion.Analysis{DominantEmotion: "contempt"}})

	res, err := New(detector, spotify.New(api)).Run(context.Background(), testImage(t), nil)
	require.NoError(t, err)

	assert.Equal(t, "neutral", res.Emotion.Dominant)
	assert.Equal(t, "chill", res.Genre)
	assert.Equal(t, "😐", res.Emoji)
}

func TestRun_CancelledSearchNotReported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	api := &fakeWebAPI{tracks: catalogTracks(3), onSearch: cancel}
	detector, _ := newDetector(t, happyAnalyzer())
	reporter := &stubReporter{}

	res, err := New(detector, spotify.New(api), WithReporter(reporter)).Run(ctx, testImage(t), nil)

	assert.Nil(t, res)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reporter.captured, "a client that went away is not a fault")
}

func TestRun_IndependentRunIDs(t *testing.T) {
	api := &fakeWebAPI{tracks: catalogTracks(1)}
	detector, _ := newDetector(t, happyAnalyzer())
	p := New(detector, spotify.New(api))

	first, err := p.Run(context.Background(), testImage(t), nil)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), testImage(t), nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
}
