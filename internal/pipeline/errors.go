package pipeline

import (
	"errors"
)

// ErrNoTracks is returned when every search formulation came back empty.
var ErrNoTracks = errors.New("no tracks found")

// NoTracksMessage is shown to the user for ErrNoTracks.
const NoTracksMessage = "Could not find tracks. Please try again or check your internet connection."

// DetectionMessage introduces the remediation steps for a failed detection.
const DetectionMessage = "I couldn't analyze your face clearly. Try:"

// Remediation lists what the user can do after a failed detection.
var Remediation = []string{
	"Moving closer to the camera",
	"Ensuring good lighting",
	"Looking directly at the camera",
	"Taking another photo",
}

// DetectionError reports that no emotion could be read from the image.
// Err carries the technical cause.
type DetectionError struct {
	RunID string
	Err   error
}

func (e *DetectionError) Error() string {
	return "detecting emotion: " + e.Err.Error()
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing explanation.
func (e *DetectionError) Message() string {
	return DetectionMessage
}

// Detail returns the technical cause for the collapsible details panel.
func (e *DetectionError) Detail() string {
	return e.Err.Error()
}
