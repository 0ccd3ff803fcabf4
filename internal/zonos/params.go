package zonos

// Emotion holds the eight emotion weights conditioning a synthesis
// request. Each weight lies in [0,1]; the weights are passed to the
// server as-is, no normalization happens client-side.
type Emotion struct {
	Happiness float64
	Sadness   float64
	Disgust   float64
	Fear      float64
	Surprise  float64
	Anger     float64
	Other     float64
	Neutral   float64
}

// NeutralEmotion returns the default weights: fully neutral.
func NeutralEmotion() Emotion {
	return Emotion{Neutral: 1}
}

// Quality holds the fixed audio tuning parameters of a synthesis request.
type Quality struct {
	VQScore       float64
	FMax          int
	PitchStd      float64
	SpeakingRate  float64
	DNSMOSOverall float64
	SpeakerNoised bool
}

// DefaultQuality returns the server's recommended tuning values.
func DefaultQuality() Quality {
	return Quality{
		VQScore:       0.78,
		FMax:          24000,
		PitchStd:      45,
		SpeakingRate:  15,
		DNSMOSOverall: 4,
		SpeakerNoised: false,
	}
}
