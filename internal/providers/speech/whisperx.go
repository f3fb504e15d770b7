package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/medvoice/notetaker/internal/models"
)

// WhisperXOptions configures the sidecar client. The model knobs are
// forwarded verbatim so the sidecar owns model loading and device
// placement.
type WhisperXOptions struct {
	BaseURL     string
	Model       string
	Device      string
	ComputeType string
	BatchSize   int

	// HFToken authenticates the diarization pipeline.
	HFToken string
}

// WhisperX is a speech Provider backed by a whisperX-compatible HTTP
// sidecar exposing /transcribe, /align and /diarize.
type WhisperX struct {
	opts   WhisperXOptions
	client *http.Client
}

func NewWhisperX(opts WhisperXOptions) *WhisperX {
	return &WhisperX{
		opts:   opts,
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

func (w *WhisperX) Close() error { return nil }

func (w *WhisperX) Transcribe(ctx context.Context, audioPath string) (*models.Transcript, []byte, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read audio: %w", err)
	}

	fields := map[string]string{
		"model":        w.opts.Model,
		"device":       w.opts.Device,
		"compute_type": w.opts.ComputeType,
		"batch_size":   strconv.Itoa(w.opts.BatchSize),
	}

	var result models.Transcript
	if err := w.postAudio(ctx, "/transcribe", filepath.Base(audioPath), audio, fields, "", &result); err != nil {
		return nil, nil, err
	}
	return &result, audio, nil
}

func (w *WhisperX) Align(ctx context.Context, t *models.Transcript, audio []byte) (*models.Transcript, error) {
	segments, err := json.Marshal(t.Segments)
	if err != nil {
		return nil, fmt.Errorf("marshal segments: %w", err)
	}

	fields := map[string]string{
		"language": t.Language,
		"device":   w.opts.Device,
		"segments": string(segments),
	}

	var aligned models.Transcript
	if err := w.postAudio(ctx, "/align", "audio.wav", audio, fields, "", &aligned); err != nil {
		return nil, err
	}
	if aligned.Language == "" {
		aligned.Language = t.Language
	}
	return &aligned, nil
}

func (w *WhisperX) Diarize(ctx context.Context, audio []byte) ([]models.SpeakerTurn, error) {
	fields := map[string]string{
		"device": w.opts.Device,
	}

	var out struct {
		Segments []models.SpeakerTurn `json:"segments"`
	}
	if err := w.postAudio(ctx, "/diarize", "audio.wav", audio, fields, w.opts.HFToken, &out); err != nil {
		return nil, err
	}
	return out.Segments, nil
}

func (w *WhisperX) postAudio(ctx context.Context, path, filename string, audio []byte, fields map[string]string, token string, out any) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	fw, err := mw.CreateFormFile("audio_file", filename)
	if err != nil {
		return err
	}
	if _, err := fw.Write(audio); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	url := strings.TrimRight(w.opts.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whisperx http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
