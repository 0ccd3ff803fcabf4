package audio

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/voxpipe/voxpipe/internal/logger"
)

// pollInterval is how often Play checks for completion or cancellation.
const pollInterval = 10 * time.Millisecond

// Player plays decoded clips through the system audio device via oto.
// The underlying device context is created once with a fixed format;
// clips with a different format still play, but a warning is logged
// because pitch and speed will be off.
type Player struct {
	ctx        *oto.Context
	sampleRate int
	channels   int
	log        *logger.Logger

	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
}

// NewPlayer initializes the system audio device for the given format.
// Returns an error if the device is unavailable.
func NewPlayer(sampleRate, channels int, log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("audio player initialized (rate=%d, channels=%d)", sampleRate, channels)
	return &Player{ctx: ctx, sampleRate: sampleRate, channels: channels, log: log}, nil
}

// Play plays a clip synchronously. It returns when playback finishes,
// Stop is called, or ctx is cancelled, whichever comes first.
func (p *Player) Play(ctx context.Context, clip *Clip) error {
	if clip.SampleRate != p.sampleRate || clip.Channels != p.channels {
		p.log.Warn("audio player: clip format %dHz/%dch differs from device %dHz/%dch",
			clip.SampleRate, clip.Channels, p.sampleRate, p.channels)
	}

	player := p.ctx.NewPlayer(bytes.NewReader(clip.PCM))

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()

	player.Play()
	p.log.Debug("audio player: playing %s of PCM (%d bytes)", clip.Duration().Round(time.Millisecond), len(clip.PCM))

	var err error
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			err = ctx.Err()
		case <-time.After(pollInterval):
		}
		if err != nil {
			break
		}
	}

	p.mu.Lock()
	p.active = nil
	p.mu.Unlock()

	if cerr := player.Close(); err == nil {
		err = cerr
	}
	return err
}

// Stop interrupts the currently playing clip, if any. Safe to call
// concurrently and when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("audio player: interrupted")
	}
}

// IsPlaying reports whether a clip is currently being played.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != nil && p.active.IsPlaying()
}
