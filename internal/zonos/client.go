// Package zonos provides an HTTP client for the Zonos text-to-speech
// server. One call converts one piece of text into WAV audio bytes.
package zonos

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/voxpipe/voxpipe/internal/logger"
)

// DefaultURL points at a locally running Zonos server.
const DefaultURL = "http://localhost:6004/api/generate-audio/"

// DefaultVoice is the speaker sample name used when none is configured.
// Samples are uploaded to the server ahead of time.
const DefaultVoice = "default"

// Option configures the Zonos client.
type Option func(*Client)

// WithVoice sets the speaker sample name sent with every request.
func WithVoice(voice string) Option {
	return func(c *Client) {
		c.voice = voice
	}
}

// WithEmotion sets the emotion weights sent with every request.
func WithEmotion(e Emotion) Option {
	return func(c *Client) {
		c.emotion = e
	}
}

// WithQuality sets the audio quality parameters sent with every request.
func WithQuality(q Quality) Option {
	return func(c *Client) {
		c.quality = q
	}
}

// WithHTTPTimeout sets the HTTP client timeout for synthesis requests.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// Client handles text-to-speech synthesis against a Zonos server.
type Client struct {
	baseURL    string
	voice      string
	emotion    Emotion
	quality    Quality
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a Zonos client for the given base URL.
func NewClient(baseURL string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		voice:   DefaultVoice,
		emotion: NeutralEmotion(),
		quality: DefaultQuality(),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Voice returns the configured speaker sample name.
func (c *Client) Voice() string { return c.voice }

// Synthesize converts text to speech and returns the raw WAV bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	reqURL := c.requestURL(text)
	c.log.Debug("zonos: synthesizing %d chars (voice=%s)", len(text), c.voice)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("zonos error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading audio data: %w", err)
	}

	c.log.Debug("zonos: got %d bytes of audio", len(audio))
	return audio, nil
}

// requestURL builds the generate-audio URL. The server reads its inputs
// from query parameters; parameter order matches its documented API.
func (c *Client) requestURL(text string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("?text=")
	b.WriteString(url.QueryEscape(text))
	b.WriteString("&sample_name=")
	b.WriteString(url.QueryEscape(c.voice))

	e := c.emotion
	writeFloat(&b, "happiness", e.Happiness)
	writeFloat(&b, "sadness", e.Sadness)
	writeFloat(&b, "disgust", e.Disgust)
	writeFloat(&b, "fear", e.Fear)
	writeFloat(&b, "surprise", e.Surprise)
	writeFloat(&b, "anger", e.Anger)
	writeFloat(&b, "other", e.Other)
	writeFloat(&b, "neutral", e.Neutral)

	q := c.quality
	writeFloat(&b, "vq_score", q.VQScore)
	b.WriteString("&fmax=")
	b.WriteString(strconv.Itoa(q.FMax))
	writeFloat(&b, "pitch_std", q.PitchStd)
	writeFloat(&b, "speaking_rate", q.SpeakingRate)
	writeFloat(&b, "dnsmos_ovrl", q.DNSMOSOverall)
	b.WriteString("&speaker_noised=")
	b.WriteString(strconv.FormatBool(q.SpeakerNoised))

	return b.String()
}

func writeFloat(b *strings.Builder, name string, v float64) {
	b.WriteString("&")
	b.WriteString(name)
	b.WriteString("=")
	b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
}
