package speech

import (
	"context"
	"math"

	"github.com/medvoice/notetaker/internal/models"
)

// Provider is the speech recognition capability consumed by the
// transcription pipeline. Transcribe returns the decoded audio alongside
// the result so alignment and diarization never re-read the file.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string) (*models.Transcript, []byte, error)
	Align(ctx context.Context, t *models.Transcript, audio []byte) (*models.Transcript, error)
	Diarize(ctx context.Context, audio []byte) ([]models.SpeakerTurn, error)
	Close() error
}

// AssignWordSpeakers merges diarization turns into a transcript by
// nearest-in-time speaker assignment: each segment and word takes the
// speaker of the turn it overlaps most, falling back to the closest turn
// when nothing overlaps. The input transcript is not modified.
func AssignWordSpeakers(turns []models.SpeakerTurn, t *models.Transcript) *models.Transcript {
	if t == nil || len(turns) == 0 {
		return t
	}

	out := *t
	out.Segments = make([]models.Segment, len(t.Segments))
	copy(out.Segments, t.Segments)

	for i := range out.Segments {
		seg := &out.Segments[i]
		if sp := speakerFor(turns, seg.Start, seg.End); sp != "" {
			seg.Speaker = sp
		}
		if len(seg.Words) > 0 {
			seg.Words = assignWords(turns, seg.Words)
		}
	}

	if len(t.WordSegments) > 0 {
		out.WordSegments = assignWords(turns, t.WordSegments)
	}
	return &out
}

func assignWords(turns []models.SpeakerTurn, words []models.Word) []models.Word {
	out := make([]models.Word, len(words))
	copy(out, words)
	for i := range out {
		if sp := speakerFor(turns, out[i].Start, out[i].End); sp != "" {
			out[i].Speaker = sp
		}
	}
	return out
}

func speakerFor(turns []models.SpeakerTurn, start, end float64) string {
	var best string
	bestOverlap := 0.0
	var nearest string
	nearestDist := math.MaxFloat64

	for _, turn := range turns {
		overlap := math.Min(end, turn.End) - math.Max(start, turn.Start)
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = turn.Speaker
		}
		dist := math.Min(math.Abs(turn.Start-end), math.Abs(turn.End-start))
		if dist < nearestDist {
			nearestDist = dist
			nearest = turn.Speaker
		}
	}

	if best != "" {
		return best
	}
	return nearest
}
