package speech

import (
	"context"
	"fmt"
	"os"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/medvoice/notetaker/internal/models"
)

// GoogleSpeech adapts Cloud Speech to the three-stage pipeline contract:
// recognition for transcription, word time offsets for alignment, and the
// recognizer's diarization config for speaker turns.
type GoogleSpeech struct {
	c *speech.Client

	languageCode string
}

func NewGoogleSpeech(ctx context.Context, languageCode string) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &GoogleSpeech{c: c, languageCode: languageCode}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func (g *GoogleSpeech) Transcribe(ctx context.Context, audioPath string) (*models.Transcript, []byte, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read audio: %w", err)
	}

	resp, err := g.recognize(ctx, audio, &speechpb.RecognitionConfig{
		LanguageCode:               g.languageCode,
		EnableAutomaticPunctuation: true,
		EnableWordTimeOffsets:      true,
	})
	if err != nil {
		return nil, nil, err
	}

	t := &models.Transcript{Language: g.languageCode, Segments: []models.Segment{}}
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		if alt.Transcript == "" {
			continue
		}
		seg := models.Segment{Text: alt.Transcript}
		if n := len(alt.Words); n > 0 {
			seg.Start = alt.Words[0].StartTime.AsDuration().Seconds()
			seg.End = alt.Words[n-1].EndTime.AsDuration().Seconds()
		}
		t.Segments = append(t.Segments, seg)
		if r.LanguageCode != "" {
			t.Language = r.LanguageCode
		}
	}
	return t, audio, nil
}

func (g *GoogleSpeech) Align(ctx context.Context, t *models.Transcript, audio []byte) (*models.Transcript, error) {
	lang := t.Language
	if lang == "" {
		lang = g.languageCode
	}

	resp, err := g.recognize(ctx, audio, &speechpb.RecognitionConfig{
		LanguageCode:               lang,
		EnableAutomaticPunctuation: true,
		EnableWordTimeOffsets:      true,
	})
	if err != nil {
		return nil, err
	}

	aligned := &models.Transcript{Language: t.Language, Segments: []models.Segment{}}
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		if alt.Transcript == "" {
			continue
		}

		seg := models.Segment{Text: alt.Transcript}
		for _, w := range alt.Words {
			word := models.Word{
				Word:  w.Word,
				Start: w.StartTime.AsDuration().Seconds(),
				End:   w.EndTime.AsDuration().Seconds(),
			}
			seg.Words = append(seg.Words, word)
			aligned.WordSegments = append(aligned.WordSegments, word)
		}
		if n := len(seg.Words); n > 0 {
			seg.Start = seg.Words[0].Start
			seg.End = seg.Words[n-1].End
		}
		aligned.Segments = append(aligned.Segments, seg)
	}
	return aligned, nil
}

func (g *GoogleSpeech) Diarize(ctx context.Context, audio []byte) ([]models.SpeakerTurn, error) {
	resp, err := g.recognize(ctx, audio, &speechpb.RecognitionConfig{
		LanguageCode:          g.languageCode,
		EnableWordTimeOffsets: true,
		DiarizationConfig: &speechpb.SpeakerDiarizationConfig{
			EnableSpeakerDiarization: true,
			MinSpeakerCount:          2,
			MaxSpeakerCount:          6,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	// The recognizer accumulates speaker tags; the final result carries the
	// complete tagged word list.
	last := resp.Results[len(resp.Results)-1]
	if len(last.Alternatives) == 0 {
		return nil, nil
	}

	var turns []models.SpeakerTurn
	for _, w := range last.Alternatives[0].Words {
		start := w.StartTime.AsDuration().Seconds()
		end := w.EndTime.AsDuration().Seconds()
		label := fmt.Sprintf("SPEAKER_%02d", w.SpeakerTag-1)

		if n := len(turns); n > 0 && turns[n-1].Speaker == label {
			turns[n-1].End = end
			continue
		}
		turns = append(turns, models.SpeakerTurn{Start: start, End: end, Speaker: label})
	}
	return turns, nil
}

func (g *GoogleSpeech) recognize(ctx context.Context, audio []byte, cfg *speechpb.RecognitionConfig) (*speechpb.RecognizeResponse, error) {
	return g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
}
