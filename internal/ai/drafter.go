// Package ai generates phrase expansion drafts from free-text descriptions
// using Google's Gemini API.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// APIKeyEnv is the environment variable holding the API credential.
const APIKeyEnv = "GEMINI_API_KEY"

const draftPrompt = `You write reusable clinical note templates.
Given the description below, produce a plain-text template suitable for
insertion into a clinical note. Mark every fill-in point with the literal
sequence *** (three asterisks). Output only the template text, with no
surrounding explanation and no markdown fences.

Description: %s`

// Drafter turns a description into a plain-text template via a single
// synchronous model call. No streaming, no retry; a request in flight is not
// cancellable by a second one (the caller guards with a busy flag).
type Drafter struct {
	client *genai.Client
	model  string
}

// NewDrafter creates a Drafter with an explicit API key.
func NewDrafter(ctx context.Context, apiKey, model string) (*Drafter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Drafter{client: client, model: model}, nil
}

// NewFromEnv creates a Drafter using the GEMINI_API_KEY environment variable.
func NewFromEnv(ctx context.Context, model string) (*Drafter, error) {
	return NewDrafter(ctx, os.Getenv(APIKeyEnv), model)
}

// Draft requests a template for the given description. Failures of any kind
// (network, credential, empty response) surface as a single generic error.
func (d *Drafter) Draft(ctx context.Context, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("description is required")
	}

	prompt := fmt.Sprintf(draftPrompt, description)
	result, err := d.client.Models.GenerateContent(ctx, d.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("draft generation failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("draft generation returned no content")
	}
	return text, nil
}

// Model returns the configured model name.
func (d *Drafter) Model() string {
	return d.model
}
