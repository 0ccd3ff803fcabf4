// Package speech is the streaming text-to-speech pipeline. Text is
// segmented into bounded units, each unit is fetched from the TTS server
// one at a time, and the resulting clips play back strictly in the order
// the text was submitted -- fetching of the next unit overlaps with
// playback of the previous one.
package speech

import (
	"context"

	"github.com/voxpipe/voxpipe/internal/audio"
)

// Synthesizer converts one unit of text into encoded WAV bytes.
// Implementations must honor context cancellation.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Voice() string
}

// Device plays decoded clips. Play blocks until the clip finishes, Stop
// is called, or ctx is cancelled.
type Device interface {
	Play(ctx context.Context, clip *audio.Clip) error
	Stop()
	IsPlaying() bool
}

// slot carries one text unit through the pipeline: submitted by the
// speaker, filled by the fetch loop, consumed by the play loop exactly
// once. last marks the utterance's final unit for event delivery.
type slot struct {
	text string
	clip *audio.Clip // nil for blank or failed units
	utt  *Utterance
	last bool
}

// truncate shortens a string for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
