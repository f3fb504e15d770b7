package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/medvoice/notetaker/config"
	"github.com/medvoice/notetaker/internal/api/handlers"
	"github.com/medvoice/notetaker/internal/api/middleware"
	"github.com/medvoice/notetaker/internal/api/routes"
	"github.com/medvoice/notetaker/internal/logger"
	"github.com/medvoice/notetaker/internal/providers/llm"
	"github.com/medvoice/notetaker/internal/providers/speech"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	// Providers are built per request; expensive model loading belongs to
	// the capability backends, not this process.
	newSpeech := func(ctx context.Context) (speech.Provider, error) {
		if cfg.Speech.Provider == "google" {
			return speech.NewGoogleSpeech(ctx, cfg.Speech.LanguageCode)
		}
		return speech.NewWhisperX(speech.WhisperXOptions{
			BaseURL:     cfg.Speech.WhisperXURL,
			Model:       cfg.Speech.Model,
			Device:      cfg.Speech.Device,
			ComputeType: cfg.Speech.ComputeType,
			BatchSize:   cfg.Speech.BatchSize,
			HFToken:     cfg.Speech.HFToken,
		}), nil
	}

	newLLM := func(ctx context.Context) (llm.Provider, error) {
		if cfg.LLM.UseLocalModels {
			return llm.NewOllama(cfg.LLM.OllamaURL, cfg.LLM.Model), nil
		}
		return llm.NewVertexGemini(ctx, cfg.LLM.VertexProjectID, cfg.LLM.VertexLocation, cfg.LLM.Model)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.AllowedHosts(cfg.AllowedHosts))
	r.Use(middleware.CORS(cfg.CORS.AllowAll, cfg.CORS.Origins))

	routes.RegisterRoutes(r, cfg.APIPrefix, routes.Deps{
		Note: handlers.NewNoteHandler(newSpeech, newLLM, log),
	})

	log.WithField("port", cfg.Port).WithField("prefix", cfg.APIPrefix).
		Infof("%s %s listening", cfg.ProjectName, cfg.Version)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
