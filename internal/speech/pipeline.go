package speech

import (
	"context"
	"strings"
	"sync"

	"github.com/voxpipe/voxpipe/internal/audio"
)

// session is one run of the pipeline between interruptions. The fetch
// loop is the sole producer on playCh and the play loop its sole
// consumer, so queue access needs no locking; pending is bookkeeping for
// cancellation and is guarded by its own mutex.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc

	fetchCh chan *slot
	playCh  chan *slot
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending []*slot // submitted but not yet fully played
}

func newSession(parent context.Context, queueSize int) *session {
	ctx, cancel := context.WithCancel(parent)
	return &session{
		ctx:     ctx,
		cancel:  cancel,
		fetchCh: make(chan *slot, queueSize),
		playCh:  make(chan *slot, queueSize),
	}
}

func (ss *session) addPending(sl *slot) {
	ss.mu.Lock()
	ss.pending = append(ss.pending, sl)
	ss.mu.Unlock()
}

func (ss *session) removePending(sl *slot) {
	ss.mu.Lock()
	for i, p := range ss.pending {
		if p == sl {
			ss.pending = append(ss.pending[:i], ss.pending[i+1:]...)
			break
		}
	}
	ss.mu.Unlock()
}

// takePending removes and returns everything still in flight.
func (ss *session) takePending() []*slot {
	ss.mu.Lock()
	taken := ss.pending
	ss.pending = nil
	ss.mu.Unlock()
	return taken
}

// fetchLoop converts queued units into clips, one at a time, in
// submission order. A unit is handed to the play loop once its fetch has
// settled, successfully or not, so playback order can never depend on
// fetch timing.
func (s *Speaker) fetchLoop(ss *session) {
	defer ss.wg.Done()

	for {
		select {
		case <-ss.ctx.Done():
			return
		case sl := <-ss.fetchCh:
			// A select can pick a ready receive over a closed Done;
			// never start work for a torn-down session.
			if ss.ctx.Err() != nil {
				return
			}
			s.fill(ss.ctx, sl)
			select {
			case ss.playCh <- sl:
			case <-ss.ctx.Done():
				return
			}
		}
	}
}

// fill resolves a slot's clip: blank units pass through untouched, cached
// text skips the network, and fetch or decode failures leave the clip nil
// so the unit is skipped silently during playback.
func (s *Speaker) fill(ctx context.Context, sl *slot) {
	if strings.TrimSpace(sl.text) == "" {
		s.log.Debug("speech: blank unit, no fetch")
		return
	}

	if clip, ok := s.cache.Get(sl.text); ok {
		sl.clip = clip
		return
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	fctx := ctx
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	wav, err := s.synth.Synthesize(fctx, sl.text)
	if err != nil {
		if ctx.Err() != nil {
			s.log.Debug("speech: fetch aborted for %q", truncate(sl.text, 60))
		} else {
			s.log.Error("speech: fetch failed for %q: %v", truncate(sl.text, 60), err)
		}
		return
	}

	clip, err := audio.Decode(wav)
	if err != nil {
		s.log.Error("speech: decode failed for %q: %v", truncate(sl.text, 60), err)
		return
	}

	sl.clip = clip
	s.cache.Put(sl.text, clip)
}

// playLoop drains filled slots strictly FIFO, driving the device and
// firing utterance events.
func (s *Speaker) playLoop(ss *session) {
	defer ss.wg.Done()

	for {
		select {
		case <-ss.ctx.Done():
			return
		case sl := <-ss.playCh:
			if ss.ctx.Err() != nil {
				return
			}
			if sl.clip != nil {
				// Idempotent; marks the utterance audible on its first
				// playable unit even if earlier units were skipped.
				sl.utt.start()
				if err := s.device.Play(ss.ctx, sl.clip); err != nil && ss.ctx.Err() == nil {
					s.log.Error("speech: playback failed for %q: %v", truncate(sl.text, 60), err)
				}
			}
			if sl.last {
				sl.utt.finish()
			}
			ss.removePending(sl)
		}
	}
}
