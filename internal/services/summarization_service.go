package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/medvoice/notetaker/internal/models"
	"github.com/medvoice/notetaker/internal/providers/llm"
)

const summaryPrompt = `Create a concise clinical note from the transcript below. If a target language is
provided, respond in that language; otherwise, use the transcript's language.
Use only information explicitly present in the transcript. Do NOT invent details.
For structured outputs, return empty strings for missing fields.

---
Target Language: %s
---

Transcript:
%s`

// StructuredFormatAdvisory is returned as a successful payload when the
// model cannot honor a structured schema; it deliberately does not surface
// as a server error.
const StructuredFormatAdvisory = "Selected model cannot produce the requested structured format. " +
	"Try a different format or a stronger model."

var ratingMin, ratingMax = 1, 5

// noteSchemas maps each structured format to its schema descriptor.
var noteSchemas = map[models.NoteFormat]llm.Schema{
	models.FormatSOAP: {
		Name: "SOAPNote",
		Fields: []llm.Field{
			{Name: "subjective", Type: llm.TypeString, Description: "Patient-reported info"},
			{Name: "objective", Type: llm.TypeString, Description: "Observed findings"},
			{Name: "assessment", Type: llm.TypeString, Description: "Clinical assessment"},
			{Name: "plan", Type: llm.TypeString, Description: "Proposed plan"},
		},
	},
	models.FormatPKIHL7CDA: {
		Name: "PKIHL7CDANote",
		Fields: []llm.Field{
			{Name: "context_of_visit", Type: llm.TypeObject, Description: "Visit context"},
			{Name: "subjective_history", Type: llm.TypeObject, Description: "Patient history"},
			{Name: "physical_examination", Type: llm.TypeObject, Description: "Examination findings"},
			{Name: "diagnoses_and_problems", Type: llm.TypeObject, Description: "Diagnoses and problems"},
			{Name: "ordered_diagnostics", Type: llm.TypeObject, Description: "Ordered diagnostics"},
			{Name: "treatment_and_recommendations", Type: llm.TypeObject, Description: "Treatment and recommendations"},
			{Name: "follow_up_and_observation_plan", Type: llm.TypeObject, Description: "Follow-up plan"},
			{Name: "visit_summary", Type: llm.TypeObject, Description: "Visit summary"},
		},
	},
	models.FormatTherapyAssessment: {
		Name: "TherapyAssessmentNote",
		Fields: []llm.Field{
			{Name: "alliance", Type: llm.TypeInteger, Description: "Therapeutic alliance rating, 1 to 5", Minimum: &ratingMin, Maximum: &ratingMax},
			{Name: "communication", Type: llm.TypeInteger, Description: "Communication rating, 1 to 5", Minimum: &ratingMin, Maximum: &ratingMax},
			{Name: "ethics", Type: llm.TypeInteger, Description: "Ethics rating, 1 to 5", Minimum: &ratingMin, Maximum: &ratingMax},
			{Name: "effectiveness", Type: llm.TypeInteger, Description: "Effectiveness rating, 1 to 5", Minimum: &ratingMin, Maximum: &ratingMax},
			{Name: "strengths", Type: llm.TypeString, Description: "Observed strengths"},
			{Name: "improvements", Type: llm.TypeString, Description: "Suggested improvements"},
		},
	},
}

// SummarizationService builds the summarization prompt and runs plain or
// structured note synthesis against an LLM provider.
type SummarizationService struct {
	llm llm.Provider
}

func NewSummarizationService(provider llm.Provider) *SummarizationService {
	return &SummarizationService{llm: provider}
}

// NormalizeTranscript flattens any accepted transcript shape into plain
// text. It is total: unrecognized inputs are coerced to their string
// representation and an empty result is valid.
func NormalizeTranscript(transcript any) string {
	if transcript == nil {
		return ""
	}
	if m, ok := transcript.(map[string]any); ok {
		if text, ok := m["text"].(string); ok {
			return text
		}
		if segments, ok := m["segments"].([]any); ok {
			parts := make([]string, 0, len(segments))
			for _, s := range segments {
				text := ""
				if seg, ok := s.(map[string]any); ok {
					if v, ok := seg["text"]; ok && v != nil {
						text = fmt.Sprintf("%v", v)
					}
				}
				parts = append(parts, text)
			}
			return strings.TrimSpace(strings.Join(parts, " "))
		}
	}
	return fmt.Sprintf("%v", transcript)
}

// Summarize produces either a plain-text note or a schema-validated
// structured note, per format. A nil result means the provider produced
// nothing; the handler turns that into its fixed empty-result error.
func (s *SummarizationService) Summarize(ctx context.Context, transcript any, format models.NoteFormat, language string) (any, error) {
	text := NormalizeTranscript(transcript)
	prompt := fmt.Sprintf(summaryPrompt, language, text)

	if schema, structured := noteSchemas[format]; structured {
		payload, err := s.llm.CompleteStructured(ctx, prompt, schema)
		if err != nil {
			return map[string]any{"detail": StructuredFormatAdvisory}, nil
		}
		if payload == nil {
			return nil, nil
		}
		return decodeNote(format, payload)
	}

	out, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return out, nil
}

// decodeNote validates a raw structured payload against the typed note for
// its format, then rewrites every empty-string leaf to null. All schema
// keys are present in the result so callers can tell "not mentioned" from
// "empty".
func decodeNote(format models.NoteFormat, payload map[string]any) (any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal note payload: %w", err)
	}

	var note any
	switch format {
	case models.FormatSOAP:
		var n models.SOAPNote
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("validate %s note: %w", format, err)
		}
		note = n
	case models.FormatPKIHL7CDA:
		var n models.PKIHL7CDANote
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("validate %s note: %w", format, err)
		}
		note = n
	case models.FormatTherapyAssessment:
		var n models.TherapyAssessmentNote
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("validate %s note: %w", format, err)
		}
		if err := n.Validate(); err != nil {
			return nil, fmt.Errorf("validate %s note: %w", format, err)
		}
		note = n
	default:
		return nil, fmt.Errorf("no schema for format %q", format)
	}

	out, err := toMap(note)
	if err != nil {
		return nil, err
	}
	return nullifyEmptyStrings(out), nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal note: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal note: %w", err)
	}
	return m, nil
}

// nullifyEmptyStrings recursively replaces empty-string leaves with nil,
// including inside nested maps and slices. It is idempotent.
func nullifyEmptyStrings(data any) any {
	switch d := data.(type) {
	case map[string]any:
		out := make(map[string]any, len(d))
		for k, v := range d {
			out[k] = nullifyEmptyStrings(v)
		}
		return out
	case []any:
		out := make([]any, len(d))
		for i, v := range d {
			out[i] = nullifyEmptyStrings(v)
		}
		return out
	case string:
		if d == "" {
			return nil
		}
		return d
	default:
		return data
	}
}
