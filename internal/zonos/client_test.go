package zonos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voxpipe/voxpipe/internal/logger"
)

func TestRequestURL(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	t.Run("defaults", func(t *testing.T) {
		c := NewClient("http://host/api/generate-audio/", log)
		got := c.requestURL("Hello world")
		want := "http://host/api/generate-audio/" +
			"?text=Hello+world&sample_name=default" +
			"&happiness=0&sadness=0&disgust=0&fear=0&surprise=0&anger=0&other=0&neutral=1" +
			"&vq_score=0.78&fmax=24000&pitch_std=45&speaking_rate=15&dnsmos_ovrl=4&speaker_noised=false"
		if got != want {
			t.Errorf("requestURL:\n got %s\nwant %s", got, want)
		}
	})

	t.Run("escapes text and voice", func(t *testing.T) {
		c := NewClient("http://host/", log,
			WithVoice("my voice"),
			WithEmotion(Emotion{Happiness: 0.5, Neutral: 0.5}),
		)
		got := c.requestURL("Q&A time?")
		if !strings.Contains(got, "text=Q%26A+time%3F") {
			t.Errorf("text not escaped: %s", got)
		}
		if !strings.Contains(got, "sample_name=my+voice") {
			t.Errorf("voice not escaped: %s", got)
		}
		if !strings.Contains(got, "happiness=0.5") || !strings.Contains(got, "neutral=0.5") {
			t.Errorf("emotion weights missing: %s", got)
		}
	})
}

func TestSynthesize(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	t.Run("returns audio bytes", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "audio/wav")
			w.Write([]byte("RIFFfake"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL+"/api/generate-audio/", log, WithVoice("ava"))
		audio, err := c.Synthesize(context.Background(), "Hi there")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(audio) != "RIFFfake" {
			t.Errorf("got audio %q", audio)
		}
		if !strings.Contains(gotQuery, "text=Hi+there") || !strings.Contains(gotQuery, "sample_name=ava") {
			t.Errorf("unexpected query: %s", gotQuery)
		}
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"Sample not found"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, log)
		_, err := c.Synthesize(context.Background(), "Hi")
		if err == nil {
			t.Fatal("expected error for 404")
		}
		if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "Sample not found") {
			t.Errorf("error lacks detail: %v", err)
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-block
		}))
		defer srv.Close()
		defer close(block)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewClient(srv.URL, log)
		if _, err := c.Synthesize(ctx, "Hi"); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}
