// Package config loads and validates pipeline configuration from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/voxpipe/voxpipe/internal/zonos"
)

// Config holds everything the pipeline needs. Values come from the
// environment (a .env file is loaded by main first); each field falls
// back to a sensible default for a local Zonos server.
type Config struct {
	URL          string        `env:"TTS_URL" envDefault:"http://localhost:6004/api/generate-audio/"`
	Voice        string        `env:"TTS_VOICE" envDefault:"default"`
	MaxUnitLen   int           `env:"TTS_MAX_LEN" envDefault:"300"`
	FetchTimeout time.Duration `env:"TTS_FETCH_TIMEOUT" envDefault:"60s"`

	// Audio device format. Must match what the server renders.
	SampleRate int `env:"TTS_SAMPLE_RATE" envDefault:"44100"`
	Channels   int `env:"TTS_CHANNELS" envDefault:"1"`

	// Emotion weights, each in [0,1]. Fully neutral by default.
	Happiness float64 `env:"TTS_HAPPINESS" envDefault:"0"`
	Sadness   float64 `env:"TTS_SADNESS" envDefault:"0"`
	Disgust   float64 `env:"TTS_DISGUST" envDefault:"0"`
	Fear      float64 `env:"TTS_FEAR" envDefault:"0"`
	Surprise  float64 `env:"TTS_SURPRISE" envDefault:"0"`
	Anger     float64 `env:"TTS_ANGER" envDefault:"0"`
	Other     float64 `env:"TTS_OTHER" envDefault:"0"`
	Neutral   float64 `env:"TTS_NEUTRAL" envDefault:"1"`

	Debug bool `env:"TTS_DEBUG" envDefault:"false"`
}

// Load parses the environment into a validated Config.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks ranges the rest of the pipeline assumes.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("TTS_URL must not be empty")
	}
	if c.MaxUnitLen <= 0 {
		return fmt.Errorf("TTS_MAX_LEN must be positive, got %d", c.MaxUnitLen)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("TTS_SAMPLE_RATE must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("TTS_CHANNELS must be positive, got %d", c.Channels)
	}

	weights := map[string]float64{
		"TTS_HAPPINESS": c.Happiness,
		"TTS_SADNESS":   c.Sadness,
		"TTS_DISGUST":   c.Disgust,
		"TTS_FEAR":      c.Fear,
		"TTS_SURPRISE":  c.Surprise,
		"TTS_ANGER":     c.Anger,
		"TTS_OTHER":     c.Other,
		"TTS_NEUTRAL":   c.Neutral,
	}
	for name, w := range weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be in [0,1], got %g", name, w)
		}
	}
	return nil
}

// Emotion maps the configured weights onto the transport's type.
func (c Config) Emotion() zonos.Emotion {
	return zonos.Emotion{
		Happiness: c.Happiness,
		Sadness:   c.Sadness,
		Disgust:   c.Disgust,
		Fear:      c.Fear,
		Surprise:  c.Surprise,
		Anger:     c.Anger,
		Other:     c.Other,
		Neutral:   c.Neutral,
	}
}
