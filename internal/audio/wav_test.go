package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

// wavFile builds a minimal RIFF/WAVE container around raw PCM.
func wavFile(sampleRate, channels int, pcm []byte) []byte {
	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+len(pcm)))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(len(pcm)))
	b.Write(pcm)
	return b.Bytes()
}

func TestDecode(t *testing.T) {
	pcm := make([]byte, 48000)
	clip, err := Decode(wavFile(24000, 1, pcm))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if clip.SampleRate != 24000 || clip.Channels != 1 {
		t.Errorf("got format %dHz/%dch, want 24000Hz/1ch", clip.SampleRate, clip.Channels)
	}
	if len(clip.PCM) != len(pcm) {
		t.Errorf("got %d PCM bytes, want %d", len(clip.PCM), len(pcm))
	}
	if clip.Duration() != time.Second {
		t.Errorf("got duration %s, want 1s", clip.Duration())
	}
}

func TestDecodeSkipsForeignChunks(t *testing.T) {
	// Insert a LIST chunk between fmt and data.
	wav := wavFile(44100, 2, []byte{1, 2, 3, 4})
	list := append([]byte("LIST"), 0x04, 0x00, 0x00, 0x00, 'I', 'N', 'F', 'O')
	withList := append(append(append([]byte{}, wav[:36]...), list...), wav[36:]...)

	clip, err := Decode(withList)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if clip.SampleRate != 44100 || clip.Channels != 2 || len(clip.PCM) != 4 {
		t.Errorf("unexpected clip: %+v", clip)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrNotWAV},
		{"too short", []byte("RIFF"), ErrNotWAV},
		{"wrong magic", append([]byte("OGGS"), make([]byte, 40)...), ErrNotWAV},
		{"missing data chunk", wavFile(24000, 1, nil)[:44-8], ErrNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeRejectsNonPCM(t *testing.T) {
	wav := wavFile(24000, 1, make([]byte, 16))
	// Patch the audio format field to IEEE float (3).
	wav[20] = 3
	_, err := Decode(wav)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("got %v, want ErrUnsupported", err)
	}
}

func TestClipDurationStereo(t *testing.T) {
	clip := &Clip{PCM: make([]byte, 44100*2*2), SampleRate: 44100, Channels: 2}
	if clip.Duration() != time.Second {
		t.Errorf("got %s, want 1s", clip.Duration())
	}
}
