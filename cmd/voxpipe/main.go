// voxpipe — speak text through a remote Zonos TTS server.
//
// Usage:
//
//	voxpipe [-verbose] [-quiet] [text ...]
//
// With arguments, voxpipe speaks them as one utterance and exits.
// Without arguments it reads lines from stdin: each line is queued
// behind whatever is already playing, a line starting with "!now "
// interrupts everything and speaks immediately, and "!stop" cuts
// playback without queueing anything new.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voxpipe/voxpipe/internal/audio"
	"github.com/voxpipe/voxpipe/internal/config"
	"github.com/voxpipe/voxpipe/internal/logger"
	"github.com/voxpipe/voxpipe/internal/speech"
	"github.com/voxpipe/voxpipe/internal/zonos"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "stderr", "file to write logs to (use \"stderr\" to log to console)")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Third-party libs log through the default log package; keep their
	// output on the same writer.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "voxpipe: %v\n", err)
		os.Exit(1)
	}

	// Stop cleanly on Ctrl-C.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Wire dependencies.
	client := zonos.NewClient(cfg.URL, log,
		zonos.WithVoice(cfg.Voice),
		zonos.WithEmotion(cfg.Emotion()),
		zonos.WithHTTPTimeout(cfg.FetchTimeout),
	)
	player, err := audio.NewPlayer(cfg.SampleRate, cfg.Channels, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voxpipe: audio device: %v\n", err)
		os.Exit(1)
	}
	speaker := speech.NewSpeaker(client, player, log,
		speech.WithMaxUnitLen(cfg.MaxUnitLen),
		speech.WithFetchTimeout(cfg.FetchTimeout),
	)
	speaker.Start(ctx)
	defer speaker.Stop()

	if args := flag.Args(); len(args) > 0 {
		speakOnce(ctx, speaker, strings.Join(args, " "))
		return
	}

	runREPL(ctx, speaker, log)

	hits, misses := speaker.Cache().Stats()
	log.Debug("session done, cache hits=%d misses=%d", hits, misses)
}

// speakOnce speaks a single utterance and blocks until playback ends
// or the context is cancelled.
func speakOnce(ctx context.Context, speaker *speech.Speaker, text string) {
	utt := speaker.SpeakQueued(text)
	if _, err := utt.Wait(ctx); err != nil {
		speaker.Stop()
		os.Exit(130)
	}
}

// runREPL reads lines from stdin until EOF or cancellation. Plain
// lines queue in order; "!now <text>" interrupts; "!stop" silences.
func runREPL(ctx context.Context, speaker *speech.Speaker, log *logger.Logger) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			log.Error("stdin: %v", err)
		}
	}()

	var last *speech.Utterance
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				// EOF: let whatever is queued finish. Utterances play
				// in order, so waiting on the last drains them all.
				if last != nil {
					waitCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
					last.Wait(waitCtx)
					cancel()
				}
				return
			}
			line = strings.TrimSpace(line)
			switch {
			case line == "":
			case line == "!stop":
				speaker.Stop()
				last = nil
			case strings.HasPrefix(line, "!now "):
				last = speaker.Speak(strings.TrimPrefix(line, "!now "))
			default:
				last = speaker.SpeakQueued(line)
			}
		}
	}
}
