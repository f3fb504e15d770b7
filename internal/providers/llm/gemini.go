package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
)

type VertexGemini struct {
	client *vertexgenai.Client
	name   string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &VertexGemini{client: c, name: modelName}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Complete(ctx context.Context, prompt string) (string, error) {
	m := v.client.GenerativeModel(v.name)

	resp, err := m.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

func (v *VertexGemini) CompleteStructured(ctx context.Context, prompt string, schema Schema) (map[string]any, error) {
	m := v.client.GenerativeModel(v.name)
	m.GenerationConfig.ResponseMIMEType = "application/json"
	m.GenerationConfig.ResponseSchema = vertexSchema(schema)

	resp, err := m.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return nil, nil
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("decode structured response: %w", err)
	}
	return payload, nil
}

func responseText(resp *vertexgenai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}

// vertexSchema maps the generic schema descriptor onto Vertex controlled
// generation. All fields are nullable so the model can leave them out.
func vertexSchema(s Schema) *vertexgenai.Schema {
	props := make(map[string]*vertexgenai.Schema, len(s.Fields))
	for _, f := range s.Fields {
		p := &vertexgenai.Schema{
			Description: f.Description,
			Nullable:    true,
		}
		switch f.Type {
		case TypeInteger:
			p.Type = vertexgenai.TypeInteger
		case TypeObject:
			p.Type = vertexgenai.TypeObject
		default:
			p.Type = vertexgenai.TypeString
		}
		props[f.Name] = p
	}
	return &vertexgenai.Schema{
		Type:       vertexgenai.TypeObject,
		Properties: props,
	}
}
