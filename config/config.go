package config

import (
	"os"
	"strconv"
	"strings"
)

// Settings carries all environment-driven configuration. It is loaded once
// in main and threaded explicitly into handlers and providers; nothing in
// the request path reads the environment.
type Settings struct {
	ProjectName string
	Version     string
	APIPrefix   string
	Port        string
	LogLevel    string

	AllowedHosts []string

	CORS   CORSSettings
	Speech SpeechSettings
	LLM    LLMSettings
}

type CORSSettings struct {
	AllowAll bool
	Origins  []string
}

// SpeechSettings configures the speech capability provider: which backend
// to use and the model/device knobs forwarded to it.
type SpeechSettings struct {
	Provider    string // "whisperx" or "google"
	WhisperXURL string

	Model       string
	Device      string
	ComputeType string
	BatchSize   int

	// HFToken authenticates the diarization pipeline.
	HFToken string

	// LanguageCode is the recognition hint used by the Google backend.
	LanguageCode string
}

// LLMSettings selects between a local Ollama endpoint and hosted Vertex
// generation, mirroring the USE_LOCAL_MODELS switch.
type LLMSettings struct {
	Model          string
	UseLocalModels bool
	OllamaURL      string

	VertexProjectID string
	VertexLocation  string
}

func Load() *Settings {
	return &Settings{
		ProjectName:  envOrDefault("PROJECT_NAME", "Notetaker AI"),
		Version:      envOrDefault("VERSION", "0.0.1"),
		APIPrefix:    envOrDefault("API_V1_STR", "/routes/v1"),
		Port:         envOrDefault("PORT", "8080"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		AllowedHosts: envOrDefaultList("ALLOWED_HOSTS", []string{"*"}),
		CORS: CORSSettings{
			AllowAll: envOrDefaultBool("BACKEND_CORS_ALLOW_ALL", false),
			Origins:  envOrDefaultList("BACKEND_CORS_ORIGINS", nil),
		},
		Speech: SpeechSettings{
			Provider:     envOrDefault("SPEECH_PROVIDER", "whisperx"),
			WhisperXURL:  envOrDefault("WHISPERX_URL", "http://localhost:9000"),
			Model:        envOrDefault("WHISPER_MODEL", "base"),
			Device:       envOrDefault("WHISPER_DEVICE", "cpu"),
			ComputeType:  envOrDefault("WHISPER_COMPUTE_TYPE", "int8"),
			BatchSize:    envOrDefaultInt("WHISPER_BATCH_SIZE", 8),
			HFToken:      envOrDefault("HF_API_KEY", ""),
			LanguageCode: envOrDefault("SPEECH_LANGUAGE_CODE", "en-US"),
		},
		LLM: LLMSettings{
			Model:           envOrDefault("LLM_MODEL", "gemini-1.5-flash"),
			UseLocalModels:  envOrDefaultBool("USE_LOCAL_MODELS", false),
			OllamaURL:       envOrDefault("OLLAMA_URL", "http://localhost:11434"),
			VertexProjectID: envOrDefault("VERTEX_PROJECT_ID", ""),
			VertexLocation:  envOrDefault("VERTEX_LOCATION", "us-central1"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
