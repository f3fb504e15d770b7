package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medvoice/notetaker/internal/models"
)

type fakeSpeech struct {
	calls []string

	transcribeErr error
	alignErr      error
	diarizeErr    error

	diarizeAudio []byte
}

func (f *fakeSpeech) Transcribe(_ context.Context, path string) (*models.Transcript, []byte, error) {
	f.calls = append(f.calls, "transcribe")
	if f.transcribeErr != nil {
		return nil, nil, f.transcribeErr
	}
	return &models.Transcript{
		Language: "en",
		Segments: []models.Segment{{Start: 0, End: 2, Text: "raw"}},
	}, []byte("decoded-audio"), nil
}

func (f *fakeSpeech) Align(_ context.Context, t *models.Transcript, audio []byte) (*models.Transcript, error) {
	f.calls = append(f.calls, "align")
	if f.alignErr != nil {
		return nil, f.alignErr
	}
	return &models.Transcript{
		Language: t.Language,
		Segments: []models.Segment{{
			Start: 0, End: 2, Text: "aligned",
			Words: []models.Word{{Word: "aligned", Start: 0.5, End: 1.5}},
		}},
	}, nil
}

func (f *fakeSpeech) Diarize(_ context.Context, audio []byte) ([]models.SpeakerTurn, error) {
	f.calls = append(f.calls, "diarize")
	f.diarizeAudio = audio
	if f.diarizeErr != nil {
		return nil, f.diarizeErr
	}
	return []models.SpeakerTurn{{Start: 0, End: 5, Speaker: "SPEAKER_00"}}, nil
}

func (f *fakeSpeech) Close() error { return nil }

func tempAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_TranscribeOnly(t *testing.T) {
	f := &fakeSpeech{}
	svc := NewTranscriptionService(f, nil)
	path := tempAudioFile(t)

	result, err := svc.Run(context.Background(), path, PipelineOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Language != "en" || result.Segments[0].Text != "raw" {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(f.calls) != 1 || f.calls[0] != "transcribe" {
		t.Errorf("unexpected call sequence: %v", f.calls)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected temp audio file to be removed after the pipeline")
	}
}

func TestRun_DiarizationOperatesOnAlignedResult(t *testing.T) {
	f := &fakeSpeech{}
	svc := NewTranscriptionService(f, nil)

	result, err := svc.Run(context.Background(), tempAudioFile(t), PipelineOptions{Align: true, Diarize: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"transcribe", "align", "diarize"}
	if len(f.calls) != len(want) {
		t.Fatalf("unexpected call sequence: %v", f.calls)
	}
	for i := range want {
		if f.calls[i] != want[i] {
			t.Fatalf("unexpected call sequence: %v", f.calls)
		}
	}

	// The speaker merge must see the aligned segments, not the raw ones.
	seg := result.Segments[0]
	if seg.Text != "aligned" {
		t.Errorf("expected merge on aligned result, got segment %+v", seg)
	}
	if seg.Speaker != "SPEAKER_00" {
		t.Errorf("expected speaker assigned, got %+v", seg)
	}
	if len(seg.Words) != 1 || seg.Words[0].Speaker != "SPEAKER_00" {
		t.Errorf("expected word-level speaker assignment, got %+v", seg.Words)
	}

	if string(f.diarizeAudio) != "decoded-audio" {
		t.Error("diarization must reuse the audio decoded during transcription")
	}
}

func TestRun_StageErrorsArePrefixedAndAbort(t *testing.T) {
	tests := []struct {
		name   string
		fake   *fakeSpeech
		opts   PipelineOptions
		prefix string
	}{
		{"transcription", &fakeSpeech{transcribeErr: errors.New("boom")}, PipelineOptions{}, "Transcription error"},
		{"alignment", &fakeSpeech{alignErr: errors.New("boom")}, PipelineOptions{Align: true}, "Alignment error"},
		{"diarization", &fakeSpeech{diarizeErr: errors.New("boom")}, PipelineOptions{Diarize: true}, "Diarization error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTranscriptionService(tt.fake, nil)
			path := tempAudioFile(t)

			_, err := svc.Run(context.Background(), path, tt.opts)
			if err == nil {
				t.Fatal("expected stage error")
			}
			if !strings.Contains(err.Error(), tt.prefix+": boom") {
				t.Errorf("expected %q prefix, got %v", tt.prefix, err)
			}
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				t.Error("expected temp audio file removed even on failure")
			}
		})
	}
}

func TestCleanup_MissingFileIsSilent(t *testing.T) {
	svc := NewTranscriptionService(&fakeSpeech{}, nil)
	svc.Cleanup(filepath.Join(os.TempDir(), "does-not-exist.wav"))
	svc.Cleanup("")
}
