package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.URL != "http://localhost:6004/api/generate-audio/" {
		t.Errorf("URL = %q", c.URL)
	}
	if c.Voice != "default" {
		t.Errorf("Voice = %q", c.Voice)
	}
	if c.MaxUnitLen != 300 {
		t.Errorf("MaxUnitLen = %d, want 300", c.MaxUnitLen)
	}
	if c.FetchTimeout != 60*time.Second {
		t.Errorf("FetchTimeout = %s, want 60s", c.FetchTimeout)
	}
	if c.SampleRate != 44100 || c.Channels != 1 {
		t.Errorf("device format = %d/%d, want 44100/1", c.SampleRate, c.Channels)
	}
	if c.Neutral != 1 || c.Happiness != 0 {
		t.Errorf("default emotion not neutral: %+v", c)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TTS_URL", "http://tts.internal:6004/api/generate-audio/")
	t.Setenv("TTS_VOICE", "ava")
	t.Setenv("TTS_MAX_LEN", "120")
	t.Setenv("TTS_HAPPINESS", "0.7")
	t.Setenv("TTS_NEUTRAL", "0.3")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Voice != "ava" || c.MaxUnitLen != 120 {
		t.Errorf("overrides not applied: %+v", c)
	}

	e := c.Emotion()
	if e.Happiness != 0.7 || e.Neutral != 0.3 {
		t.Errorf("emotion mapping wrong: %+v", e)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty url", func(c *Config) { c.URL = "" }, "TTS_URL"},
		{"zero max len", func(c *Config) { c.MaxUnitLen = 0 }, "TTS_MAX_LEN"},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }, "TTS_SAMPLE_RATE"},
		{"zero channels", func(c *Config) { c.Channels = 0 }, "TTS_CHANNELS"},
		{"negative weight", func(c *Config) { c.Sadness = -0.1 }, "TTS_SADNESS"},
		{"weight above one", func(c *Config) { c.Anger = 1.5 }, "TTS_ANGER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(&c)
			err = c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}
