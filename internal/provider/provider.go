// Package provider normalizes text generation across the heterogeneous LLM
// provider APIs behind one GenerateText contract. Each provider has its own
// endpoint and response envelope; dispatch between the completion, chat and
// chatty codecs is keyed on the catalog entry, not on provider-name switches,
// so a new chatty model needs no new cases.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"postforge/internal/catalog"
	"postforge/internal/core"
)

// responseStyle selects the request/response codec for a provider call.
type responseStyle int

const (
	// styleCompletion: prompt-in, {generations: [{text}]} out.
	styleCompletion responseStyle = iota
	// styleChat: messages-in, {choices: [{message: {content}}]} out.
	styleChat
	// styleChatty: messages-in, {message: {content: [{text}]}} out.
	styleChatty
)

// endpointSpec describes where and how a provider is called.
type endpointSpec struct {
	URL       string
	ChattyURL string // endpoint used when the model has the chatty capability
	Style     responseStyle
}

// defaultEndpoints is the production endpoint registry.
func defaultEndpoints() map[string]endpointSpec {
	return map[string]endpointSpec{
		catalog.ProviderCohere: {
			URL:       "https://api.cohere.ai/v1/generate",
			ChattyURL: "https://api.cohere.ai/v2/chat",
			Style:     styleCompletion,
		},
		catalog.ProviderOpenAI: {
			URL:   "https://api.openai.com/v1/chat/completions",
			Style: styleChat,
		},
		catalog.ProviderMistral: {
			URL:   "https://api.mistral.ai/v1/chat/completions",
			Style: styleChat,
		},
		catalog.ProviderDeepSeek: {
			URL:   "https://api.deepseek.com/v1/chat/completions",
			Style: styleChat,
		},
		catalog.ProviderGemini: {
			// Gemini's OpenAI-compatible surface, so it shares the chat codec.
			URL:   "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions",
			Style: styleChat,
		},
	}
}

// Options tunes a single generation call.
type Options struct {
	Temperature float64 // 0 means the default of 0.7
	MaxTokens   int     // 0 means the default of 2048
}

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
)

// CredentialSource resolves a user's stored secret for a provider.
type CredentialSource interface {
	GetAPIKey(ctx context.Context, userID, provider string) (string, error)
}

// Adapter dispatches generation requests to the provider a model belongs to.
type Adapter struct {
	client    *http.Client
	creds     CredentialSource
	endpoints map[string]endpointSpec
}

// New creates an adapter with the production endpoint registry and the given
// per-call timeout.
func New(creds CredentialSource, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Adapter{
		client:    &http.Client{Timeout: timeout},
		creds:     creds,
		endpoints: defaultEndpoints(),
	}
}

// SetEndpoints overrides a provider's endpoints. Intended for tests pointing
// the adapter at a local server.
func (a *Adapter) SetEndpoints(provider, url, chattyURL string) {
	spec, ok := a.endpoints[provider]
	if !ok {
		return
	}
	if url != "" {
		spec.URL = url
	}
	if chattyURL != "" {
		spec.ChattyURL = chattyURL
	}
	a.endpoints[provider] = spec
}

// HasCredential reports whether the user has a stored key for the provider
// behind modelID. Callers starting a multi-step pipeline should check this
// first so partial work isn't wasted on a key that's missing.
func (a *Adapter) HasCredential(ctx context.Context, userID, modelID string) error {
	model, err := catalog.ModelByID(modelID)
	if err != nil {
		return err
	}
	key, err := a.creds.GetAPIKey(ctx, userID, model.Provider)
	if err != nil {
		return fmt.Errorf("failed to resolve credential: %w", err)
	}
	if key == "" {
		return &core.MissingCredentialError{Provider: model.Provider}
	}
	return nil
}

// GenerateText sends one prompt to the provider behind modelID using the
// user's stored credential and returns the generated text. Non-2xx responses
// surface as *core.ProviderAPIError; there is no automatic retry.
func (a *Adapter) GenerateText(ctx context.Context, userID, prompt, modelID string, opts Options) (string, error) {
	model, err := catalog.ModelByID(modelID)
	if err != nil {
		return "", err
	}

	apiKey, err := a.creds.GetAPIKey(ctx, userID, model.Provider)
	if err != nil {
		return "", fmt.Errorf("failed to resolve credential: %w", err)
	}
	if apiKey == "" {
		return "", &core.MissingCredentialError{Provider: model.Provider}
	}

	spec, ok := a.endpoints[model.Provider]
	if !ok {
		return "", fmt.Errorf("provider %s not supported", model.Provider)
	}

	style := spec.Style
	endpoint := spec.URL
	if model.HasCapability(catalog.CapabilityChatty) && spec.ChattyURL != "" {
		style = styleChatty
		endpoint = spec.ChattyURL
	}

	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}

	body := buildRequestBody(style, catalog.APIModelName(model), prompt, opts)
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &core.ProviderAPIError{
			Provider: model.Provider,
			Message:  err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &core.ProviderAPIError{
			Provider:   model.Provider,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody, resp.Status),
		}
	}

	text, err := extractText(style, respBody)
	if err != nil {
		return "", fmt.Errorf("unexpected %s response shape: %w", model.Provider, err)
	}
	return text, nil
}

// buildRequestBody assembles the provider-specific JSON body for a prompt.
func buildRequestBody(style responseStyle, modelName, prompt string, opts Options) map[string]any {
	switch style {
	case styleCompletion:
		return map[string]any{
			"prompt":             prompt,
			"model":              modelName,
			"max_tokens":         opts.MaxTokens,
			"temperature":        opts.Temperature,
			"return_likelihoods": "NONE",
		}
	case styleChatty:
		return map[string]any{
			"model":       modelName,
			"messages":    []map[string]string{{"role": "user", "content": prompt}},
			"max_tokens":  opts.MaxTokens,
			"temperature": opts.Temperature,
		}
	default: // styleChat
		return map[string]any{
			"model":       modelName,
			"messages":    []map[string]string{{"role": "user", "content": prompt}},
			"temperature": opts.Temperature,
		}
	}
}

// extractText pulls the generated text out of the provider's response
// envelope.
func extractText(style responseStyle, body []byte) (string, error) {
	switch style {
	case styleCompletion:
		var resp struct {
			Generations []struct {
				Text string `json:"text"`
			} `json:"generations"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", err
		}
		if len(resp.Generations) == 0 {
			return "", fmt.Errorf("empty generations array")
		}
		return resp.Generations[0].Text, nil
	case styleChatty:
		var resp struct {
			Message struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"message"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", err
		}
		if len(resp.Message.Content) == 0 {
			return "", fmt.Errorf("empty message content")
		}
		return resp.Message.Content[0].Text, nil
	default: // styleChat
		var resp struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty choices array")
		}
		return resp.Choices[0].Message.Content, nil
	}
}

// errorMessage extracts the message field from a provider error body,
// falling back to the HTTP status line.
func errorMessage(body []byte, status string) string {
	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return status
}
