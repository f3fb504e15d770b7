package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/medvoice/notetaker/internal/models"
	"github.com/medvoice/notetaker/internal/providers/llm"
	"github.com/medvoice/notetaker/internal/providers/speech"
	"github.com/medvoice/notetaker/internal/services"
	"github.com/medvoice/notetaker/internal/utils"
)

// Provider factories: each request constructs (and closes) its own
// provider, so no model or client state is shared between requests.
type SpeechFactory func(ctx context.Context) (speech.Provider, error)
type LLMFactory func(ctx context.Context) (llm.Provider, error)

type NoteHandler struct {
	newSpeech SpeechFactory
	newLLM    LLMFactory
	log       *logrus.Logger
}

func NewNoteHandler(newSpeech SpeechFactory, newLLM LLMFactory, log *logrus.Logger) *NoteHandler {
	if log == nil {
		log = logrus.New()
	}
	return &NoteHandler{newSpeech: newSpeech, newLLM: newLLM, log: log}
}

var allowedAudioTypes = map[string]struct{}{
	"audio/mpeg":  {},
	"audio/wav":   {},
	"audio/x-wav": {},
	"audio/x-m4a": {},
}

// Transcribe handles POST /note/transcribe: an `audio_file` upload plus
// optional `align` and `perform_diarization` flags.
func (h *NoteHandler) Transcribe(c *gin.Context) {
	ctx := c.Request.Context()

	align := boolFlag(c, "align")
	diarize := boolFlag(c, "perform_diarization")

	fh, err := c.FormFile("audio_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing file part 'audio_file'."})
		return
	}
	if _, ok := allowedAudioTypes[fh.Header.Get("Content-Type")]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid file type. Accepted types are mp3, wav, m4a."})
		return
	}

	provider, err := h.newSpeech(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Transcription failed: " + utils.Detail(err)})
		return
	}
	defer provider.Close()

	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, tmpPath); err != nil {
		writeError(c, utils.E(utils.CodeInternal, "NoteHandler.Transcribe", "failed to store upload", err))
		return
	}

	svc := services.NewTranscriptionService(provider, h.log)
	result, err := svc.Run(ctx, tmpPath, services.PipelineOptions{Align: align, Diarize: diarize})
	if err != nil {
		h.log.WithError(err).Error("transcription pipeline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Transcription failed: " + utils.Detail(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcript": result})
}

// Summarize handles POST /note/summarize: a required `transcript` JSON
// field and an optional `format` query parameter. Unrecognized formats
// silently fall back to plain text.
func (h *NoteHandler) Summarize(c *gin.Context) {
	ctx := c.Request.Context()

	var body struct {
		Transcript any `json:"transcript"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}
	if body.Transcript == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Field 'transcript' is required."})
		return
	}

	format := models.ParseNoteFormat(c.Query("format"))

	var language string
	if m, ok := body.Transcript.(map[string]any); ok {
		if s, ok := m["language"].(string); ok {
			language = s
		}
	}

	provider, err := h.newLLM(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "An error occurred: " + utils.Detail(err)})
		return
	}
	defer provider.Close()

	note, err := services.NewSummarizationService(provider).Summarize(ctx, body.Transcript, format, language)
	if err != nil {
		h.log.WithError(err).Error("note synthesis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "An error occurred: " + utils.Detail(err)})
		return
	}
	if note == nil || note == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate a summary."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note})
}
