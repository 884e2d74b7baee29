// Package provider holds the configured text-generation clients.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const defaultMaxOutputTokens = 4096

// OpenAI is the configured variant of the text-generation capability,
// backed by the Responses API. Each Generate call is a single attempt;
// failures are reported immediately and handled by the pipeline boundaries.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float64
}

// NewOpenAI builds a client for the given credential and model.
func NewOpenAI(apiKey, model string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{client: &client, model: model, temperature: 0.3}
}

// Available reports whether the client is configured.
func (p *OpenAI) Available() bool {
	return p != nil && p.client != nil && p.model != ""
}

// Generate sends instructions plus a user message and returns the output
// text.
func (p *OpenAI) Generate(ctx context.Context, instructions, input string) (string, error) {
	if !p.Available() {
		return "", errors.New("OpenAI.Generate: client is not configured")
	}

	params := responses.ResponseNewParams{
		Model:           p.model,
		MaxOutputTokens: openai.Int(defaultMaxOutputTokens),
		Temperature:     openai.Float(p.temperature),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
	}

	resp, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("OpenAI.Generate: %w", err)
	}
	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", errors.New("OpenAI.Generate: empty model output")
	}
	return text, nil
}
