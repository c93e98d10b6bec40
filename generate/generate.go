// Package generate asks a generative model for a form schema.
package generate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mbolis/formcraft/log"
	"github.com/mbolis/formcraft/model"
)

const DefaultModel = "gemini-1.5-flash"

var (
	ErrMissingKey      = errors.New("AI API key not configured")
	ErrInvalidRequest  = errors.New("invalid generation request")
	ErrEmptyResponse   = errors.New("empty response from model")
	ErrMalformedOutput = errors.New("malformed model output")
)

// RequestError is a generation request the caller must fix. Its message is
// meant for the caller.
type RequestError string

func (e RequestError) Error() string { return string(e) }

func (e RequestError) Is(target error) bool { return target == ErrInvalidRequest }

const (
	TypeText  = "text"
	TypeImage = "image"
)

type Request struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Description) == "" || r.Type == "" {
		return RequestError("Description and type are required")
	}
	switch r.Type {
	case TypeText:
	case TypeImage:
		if r.ImageBase64 == "" {
			return RequestError("Image data is required for image-based generation")
		}
	default:
		return RequestError(fmt.Sprintf("Unsupported generation type %q", r.Type))
	}
	return nil
}

// Model is the completion call of a generative model.
type Model interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Generator struct {
	model  Model
	name   string
	client *genai.Client
}

// NewGemini connects to the Gemini API. Answers are requested as JSON.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}
	m := client.GenerativeModel(modelName)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.4)

	g := New(m, modelName)
	g.client = client
	return g, nil
}

func New(m Model, name string) *Generator {
	return &Generator{model: m, name: name}
}

func (g *Generator) Name() string {
	return g.name
}

func (g *Generator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate produces a candidate form schema. Fields the model left without an
// id are numbered ai-field-1, ai-field-2, ... by position.
func (g *Generator) Generate(ctx context.Context, req Request) (model.Schema, error) {
	if err := req.Validate(); err != nil {
		return model.Schema{}, err
	}

	var parts []genai.Part
	switch req.Type {
	case TypeImage:
		format, data, err := decodeImage(req.ImageBase64)
		if err != nil {
			return model.Schema{}, err
		}
		parts = []genai.Part{genai.Text(imagePrompt(req.Description)), genai.ImageData(format, data)}
	default:
		parts = []genai.Part{genai.Text(textPrompt(req.Description))}
	}

	text, err := g.complete(ctx, parts...)
	if err != nil {
		return model.Schema{}, err
	}

	schema, err := parseSchema(text)
	if err != nil {
		log.With(log.Fields{"model": g.name}).Debugf("generate.parse: %s\n%s", err, text)
		return model.Schema{}, err
	}
	return schema, nil
}

// Ping runs a trivial completion to check the model is reachable.
func (g *Generator) Ping(ctx context.Context) (string, error) {
	return g.complete(ctx, genai.Text(pingPrompt))
}

func (g *Generator) complete(ctx context.Context, parts ...genai.Part) (string, error) {
	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// decodeImage accepts raw base64 or a data URL and returns the image format
// ("png", "jpeg", ...) with the decoded bytes.
func decodeImage(s string) (format string, data []byte, err error) {
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return "", nil, RequestError("Image data is not a valid data URL")
		}
		s = s[i+1:]
	}
	data, err = base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return "", nil, RequestError("Image data is not valid base64")
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", nil, RequestError(fmt.Sprintf("Image data has unsupported type %s", mime.String()))
	}
	return strings.TrimPrefix(mime.String(), "image/"), data, nil
}

func parseSchema(text string) (model.Schema, error) {
	var schema model.Schema
	if err := json.Unmarshal([]byte(stripFences(text)), &schema); err != nil {
		return model.Schema{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if strings.TrimSpace(schema.Title) == "" {
		return model.Schema{}, fmt.Errorf("%w: missing title", ErrMalformedOutput)
	}

	for i := range schema.Fields {
		if schema.Fields[i].ID == "" {
			schema.Fields[i].ID = fmt.Sprintf("ai-field-%d", i+1)
		}
	}
	if schema.Fields == nil {
		schema.Fields = []model.Field{}
	}
	if err := schema.Validate(); err != nil {
		return model.Schema{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return schema, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}
