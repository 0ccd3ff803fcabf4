package speech

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/voxpipe/voxpipe/internal/logger"
	"github.com/voxpipe/voxpipe/internal/segment"
)

// Option configures the Speaker.
type Option func(*Speaker)

// WithMaxUnitLen sets the maximum character count per TTS request. Text
// longer than this is split at sentence and word boundaries.
func WithMaxUnitLen(n int) Option {
	return func(s *Speaker) {
		s.maxUnitLen = n
	}
}

// WithQueueSize sets the capacity of the fetch and playback queues.
// Submitting past a full fetch queue blocks until the pipeline catches
// up or is interrupted.
func WithQueueSize(n int) Option {
	return func(s *Speaker) {
		s.queueSize = n
	}
}

// WithFetchTimeout bounds each synthesis request. A request that
// overruns is treated like any other fetch failure: logged, and its unit
// skipped. Zero disables the bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Speaker) {
		s.fetchTimeout = d
	}
}

// Speaker is the pipeline's public entry point. It segments utterances,
// feeds the fetch loop, and guarantees the resulting audio plays in
// submission order. Speak interrupts everything in flight; SpeakQueued
// appends. All methods are safe for concurrent use.
type Speaker struct {
	synth  Synthesizer
	device Device
	log    *logger.Logger
	cache  *ClipCache

	maxUnitLen   int
	queueSize    int
	fetchTimeout time.Duration

	baseCtx context.Context
	loading atomic.Bool

	mu   sync.Mutex
	sess *session
}

// NewSpeaker creates a speaker over the given synthesizer and device.
func NewSpeaker(synth Synthesizer, device Device, log *logger.Logger, opts ...Option) *Speaker {
	s := &Speaker{
		synth:        synth,
		device:       device,
		log:          log,
		maxUnitLen:   segment.DefaultMaxUnitLen,
		queueSize:    64,
		fetchTimeout: 60 * time.Second,
		baseCtx:      context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = NewClipCache(synth.Voice(), log)
	return s
}

// Start binds the speaker's lifetime to ctx: cancelling it tears down
// any running pipeline. Calling Start is optional.
func (s *Speaker) Start(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
}

// Speak cancels everything queued or in flight, fires Finished on every
// cancelled utterance, waits for the interrupted fetch to settle, then
// queues text. Use Utterance.Wait to block until it has been spoken.
func (s *Speaker) Speak(text string) *Utterance {
	if ss := s.detach(); ss != nil {
		s.teardown(ss)
		// Let the old loops exit so two fetches can never overlap.
		ss.wg.Wait()
	}
	return s.SpeakQueued(text)
}

// SpeakQueued appends text after all current work. The returned
// utterance finishes when its last unit has played, was skipped, or was
// cancelled -- a failed unit in the middle never stalls it.
func (s *Speaker) SpeakQueued(text string) *Utterance {
	utt := newUtterance(text)

	units := segment.Split(text, s.maxUnitLen)
	if len(units) == 0 {
		s.log.Debug("speech: %s is empty, nothing to speak", utt.ID()[:8])
		utt.finish()
		return utt
	}

	ss := s.ensureSession()
	s.log.Info("speech: queued %s (%d units, %d chars)", utt.ID()[:8], len(units), len(text))

	last := len(units) - 1
	for i, unit := range units {
		sl := &slot{text: unit, utt: utt, last: i == last}
		ss.addPending(sl)
		select {
		case ss.fetchCh <- sl:
		case <-ss.ctx.Done():
			utt.finish()
			return utt
		}
	}

	// The session may have been torn down while we were submitting; its
	// drain only covers slots it saw, so settle the utterance here too.
	if ss.ctx.Err() != nil {
		utt.finish()
	}
	return utt
}

// Stop cancels all queued and in-flight work: the queue is drained, the
// device stopped, and Finished fired for every cancelled utterance. It
// does not wait for an interrupted fetch's network call to unwind.
func (s *Speaker) Stop() {
	if ss := s.detach(); ss != nil {
		s.teardown(ss)
	}
}

// IsPlaying reports whether the device is currently playing audio.
func (s *Speaker) IsPlaying() bool {
	return s.device.IsPlaying()
}

// IsLoading reports whether a fetch is in flight or units are waiting to
// be fetched.
func (s *Speaker) IsLoading() bool {
	if s.loading.Load() {
		return true
	}
	s.mu.Lock()
	ss := s.sess
	s.mu.Unlock()
	return ss != nil && len(ss.fetchCh) > 0
}

// Cache returns the clip cache. Useful for stats logging.
func (s *Speaker) Cache() *ClipCache { return s.cache }

// ensureSession returns the live session, starting one if needed.
func (s *Speaker) ensureSession() *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess != nil {
		return s.sess
	}

	ss := newSession(s.baseCtx, s.queueSize)
	ss.wg.Add(2)
	go s.fetchLoop(ss)
	go s.playLoop(ss)
	s.sess = ss
	return ss
}

// detach removes and returns the live session, if any.
func (s *Speaker) detach() *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	ss := s.sess
	s.sess = nil
	return ss
}

// teardown cancels a detached session and synchronously settles every
// slot it still held.
func (s *Speaker) teardown(ss *session) {
	ss.cancel()
	s.device.Stop()

	cancelled := ss.takePending()
	for _, sl := range cancelled {
		sl.utt.finish()
	}
	if len(cancelled) > 0 {
		s.log.Debug("speech: cancelled %d queued units", len(cancelled))
	}
}
