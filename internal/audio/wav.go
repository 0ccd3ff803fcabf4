// Package audio decodes WAV payloads into playable clips and drives the
// system audio device.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Sentinel decode errors.
var (
	ErrNotWAV      = errors.New("not a valid WAV file")
	ErrNoData      = errors.New("data chunk not found in WAV")
	ErrUnsupported = errors.New("unsupported WAV encoding")
)

const (
	riffHeaderLen = 12
	chunkHeadLen  = 8

	pcmFormat      = 1
	bytesPerSample = 2 // signed 16-bit
)

// Clip is decoded audio ready for the device: raw 16-bit little-endian
// PCM plus the format needed to play and time it.
type Clip struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// Duration returns the playback length of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}
	frames := len(c.PCM) / (bytesPerSample * c.Channels)
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// Decode parses a RIFF/WAVE container into a Clip. Only uncompressed
// 16-bit PCM is accepted, which is what the TTS server produces.
func Decode(wav []byte) (*Clip, error) {
	if len(wav) < riffHeaderLen || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	clip := &Clip{}
	haveFmt := false

	// Walk the chunk list for "fmt " and "data".
	pos := riffHeaderLen
	for pos+chunkHeadLen <= len(wav) {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		body := pos + chunkHeadLen

		if body+size > len(wav) {
			size = len(wav) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, ErrNotWAV
			}
			format := int(binary.LittleEndian.Uint16(wav[body : body+2]))
			bits := int(binary.LittleEndian.Uint16(wav[body+14 : body+16]))
			if format != pcmFormat || bits != bytesPerSample*8 {
				return nil, fmt.Errorf("%w: format=%d bits=%d", ErrUnsupported, format, bits)
			}
			clip.Channels = int(binary.LittleEndian.Uint16(wav[body+2 : body+4]))
			clip.SampleRate = int(binary.LittleEndian.Uint32(wav[body+4 : body+8]))
			haveFmt = true
		case "data":
			clip.PCM = wav[body : body+size]
		}

		pos = body + size
		// Chunks are word-aligned.
		if size%2 != 0 {
			pos++
		}
	}

	if !haveFmt {
		return nil, ErrNotWAV
	}
	if clip.PCM == nil {
		return nil, ErrNoData
	}
	return clip, nil
}
