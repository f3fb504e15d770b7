package models

// Word is a single recognized word with optional timing, confidence and
// speaker label. Timing appears after alignment, speakers after diarization.
type Word struct {
	Word    string  `json:"word"`
	Start   float64 `json:"start,omitempty"`
	End     float64 `json:"end,omitempty"`
	Score   float64 `json:"score,omitempty"`
	Speaker string  `json:"speaker,omitempty"`
}

// Segment is one utterance-level span of the transcript.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
	Words   []Word  `json:"words,omitempty"`
}

// Transcript is the transcription result emitted to clients. It is built
// within a single request and never persisted.
type Transcript struct {
	Language     string    `json:"language"`
	Segments     []Segment `json:"segments"`
	WordSegments []Word    `json:"word_segments,omitempty"`
}

// SpeakerTurn is one speaker-labeled time range produced by diarization,
// independent of the transcription result.
type SpeakerTurn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}
