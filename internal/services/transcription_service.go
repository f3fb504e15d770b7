package services

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/medvoice/notetaker/internal/models"
	"github.com/medvoice/notetaker/internal/providers/speech"
	"github.com/medvoice/notetaker/internal/utils"
)

// PipelineOptions selects the optional stages of the speech pipeline.
// Transcription itself is always performed.
type PipelineOptions struct {
	Align   bool
	Diarize bool
}

// TranscriptionService sequences raw transcription, optional alignment and
// optional diarization against a speech provider bound at construction.
// Stage failures are wrapped with a stage prefix and abort the pipeline;
// nothing is retried.
type TranscriptionService struct {
	provider speech.Provider
	log      *logrus.Logger
}

func NewTranscriptionService(provider speech.Provider, log *logrus.Logger) *TranscriptionService {
	if log == nil {
		log = logrus.New()
	}
	return &TranscriptionService{provider: provider, log: log}
}

// Run executes the full pipeline for the audio at path. Alignment runs on
// the audio decoded during transcription; diarization and the speaker merge
// operate on the aligned result when alignment was requested, otherwise on
// the raw one. The temp file is removed on every exit path.
func (s *TranscriptionService) Run(ctx context.Context, path string, opts PipelineOptions) (*models.Transcript, error) {
	defer s.Cleanup(path)

	result, audio, err := s.Transcribe(ctx, path)
	if err != nil {
		return nil, err
	}

	if opts.Align {
		result, err = s.Align(ctx, result, audio)
		if err != nil {
			return nil, err
		}
	}

	if opts.Diarize {
		turns, err := s.Diarize(ctx, audio)
		if err != nil {
			return nil, err
		}
		result = speech.AssignWordSpeakers(turns, result)
	}

	return result, nil
}

func (s *TranscriptionService) Transcribe(ctx context.Context, path string) (*models.Transcript, []byte, error) {
	const op = "TranscriptionService.Transcribe"

	result, audio, err := s.provider.Transcribe(ctx, path)
	if err != nil {
		return nil, nil, utils.E(utils.CodeUnavailable, op, "Transcription error", err)
	}
	return result, audio, nil
}

func (s *TranscriptionService) Align(ctx context.Context, t *models.Transcript, audio []byte) (*models.Transcript, error) {
	const op = "TranscriptionService.Align"

	aligned, err := s.provider.Align(ctx, t, audio)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "Alignment error", err)
	}
	return aligned, nil
}

func (s *TranscriptionService) Diarize(ctx context.Context, audio []byte) ([]models.SpeakerTurn, error) {
	const op = "TranscriptionService.Diarize"

	turns, err := s.provider.Diarize(ctx, audio)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "Diarization error", err)
	}
	return turns, nil
}

// Cleanup removes the request-scoped audio file. Deletion failures are
// logged and swallowed; they never surface as request errors.
func (s *TranscriptionService) Cleanup(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := os.Remove(path); err != nil {
		s.log.WithError(err).WithField("path", path).Warn("temp audio cleanup failed")
	}
}
