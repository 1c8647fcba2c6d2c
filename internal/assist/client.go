package assist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"github.com/vovakirdan/term8/internal/cart"
)

// ErrNoAPIKey is returned when the client has no key to authenticate with.
var ErrNoAPIKey = errors.New("assist: API key not set")

// Client talks to the Gemini API through the genai SDK.
type Client struct {
	Endpoint string // Base URL; empty uses the SDK default
	Model    string
	APIKey   string
	HTTP     *http.Client
	Logger   *log.Logger
}

// NewClient creates a client with the given request timeout.
func NewClient(endpoint, model, apiKey string, timeout time.Duration) *Client {
	return &Client{
		Endpoint: endpoint,
		Model:    model,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// GenerateCode implements CodeGenerator. The reply is returned with any
// Markdown fences removed.
func (c *Client) GenerateCode(ctx context.Context, instruction, current string) (string, error) {
	prompt := fmt.Sprintf("Current code:\n%s\n\nRequest: %s", current, instruction)
	text, err := c.generate(ctx, prompt, &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(codeSystemPrompt),
	})
	if err != nil {
		return "", err
	}
	code := StripFences(text)
	if code == "" {
		return "", errors.New("assist: empty code response")
	}
	return code, nil
}

// GenerateSprite implements SpriteGenerator. A malformed reply is not an
// error: it yields a blank sprite, which is logged.
func (c *Client) GenerateSprite(ctx context.Context, description string) (cart.Sprite, error) {
	text, err := c.generate(ctx, "Create a sprite: "+description, &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(spriteSystemPrompt),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    spriteSchema,
	})
	if err != nil {
		return cart.Sprite{}, err
	}
	s, ok := ParseSprite([]byte(text))
	if !ok && c.Logger != nil {
		c.Logger.Warn("malformed sprite response, using blank sprite", "bytes", len(text))
	}
	return s, nil
}

func systemInstruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(text)}}
}

func (c *Client) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if c.APIKey == "" {
		return "", ErrNoAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:     c.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.HTTP,
	}
	if c.Endpoint != "" {
		cc.HTTPOptions.BaseURL = c.Endpoint
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("assist: create client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.Model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("assist: generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("assist: no candidates in response")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

var (
	_ CodeGenerator   = (*Client)(nil)
	_ SpriteGenerator = (*Client)(nil)
)
