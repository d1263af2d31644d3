// Package catalog holds the static model and post-schema registries. Both are
// process-wide immutable configuration; nothing mutates them at runtime.
package catalog

import "postforge/internal/core"

// Provider identifiers. Each maps to a request builder in the provider
// package.
const (
	ProviderCohere   = "cohere"
	ProviderOpenAI   = "openai"
	ProviderMistral  = "mistral"
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
)

// Capability flags advertised by catalog entries.
const (
	CapabilityTextGeneration = "text-generation"
	CapabilityChainOfThought = "chain-of-thought"
	CapabilityMultimodal     = "multimodal"
	CapabilityReasoning      = "reasoning"
	CapabilityStreaming      = "streaming"
	// CapabilityChatty marks models served through a chat-style API whose
	// responses arrive as {message: {content: [{text}]}}. Dispatch keys on
	// this flag rather than the provider name.
	CapabilityChatty = "chatty"
)

// models is the full model registry.
var models = []core.AIModel{
	// Cohere
	{
		ID:           "cohere-command",
		Provider:     ProviderCohere,
		Name:         "Command",
		Description:  "Powerful general-purpose model",
		Capabilities: []string{CapabilityTextGeneration, CapabilityChainOfThought},
	},
	{
		ID:           "cohere-command-light",
		Provider:     ProviderCohere,
		Name:         "Command Light",
		Description:  "Faster, more efficient model",
		Capabilities: []string{CapabilityTextGeneration},
	},
	{
		ID:           "cohere-command-r",
		Provider:     ProviderCohere,
		Name:         "Command R",
		Description:  "Enhanced reasoning capabilities",
		Capabilities: []string{CapabilityTextGeneration, CapabilityChainOfThought},
	},
	{
		ID:           "cohere-command-r-plus",
		Provider:     ProviderCohere,
		Name:         "Command R+",
		Description:  "Most advanced reasoning model",
		Capabilities: []string{CapabilityTextGeneration, CapabilityChainOfThought},
	},
	{
		ID:           "cohere-command-a",
		Provider:     ProviderCohere,
		Name:         "Command A",
		Description:  "Latest generation model served through the v2 chat API",
		Capabilities: []string{CapabilityTextGeneration, CapabilityChainOfThought, CapabilityChatty},
	},
	// OpenAI
	{
		ID:           "openai-gpt-3.5-turbo",
		Provider:     ProviderOpenAI,
		Name:         "GPT-3.5 Turbo",
		Description:  "Fast and cost-effective model",
		Capabilities: []string{CapabilityTextGeneration, CapabilityChainOfThought},
	},
	{
		ID:           "openai-gpt-4",
		Provider:     ProviderOpenAI,
		Name:         "GPT-4",
		Description:  "Advanced reasoning and understanding",
		Capabilities: []string{CapabilityTextGeneration, CapabilityChainOfThought},
	},
	// Mistral
	{
		ID:           "mistral-7b",
		Provider:     ProviderMistral,
		Name:         "Mistral 7B",
		Description:  "Efficient open-source model",
		Capabilities: []string{CapabilityTextGeneration},
	},
	{
		ID:           "mistral-8x7b",
		Provider:     ProviderMistral,
		Name:         "Mixtral 8x7B",
		Description:  "Powerful mixture-of-experts model",
		Capabilities: []string{CapabilityTextGeneration, CapabilityChainOfThought},
	},
	// DeepSeek
	{
		ID:           "deepseek-chat",
		Provider:     ProviderDeepSeek,
		Name:         "DeepSeek Chat",
		Description:  "Classical chat model",
		Capabilities: []string{CapabilityTextGeneration},
	},
	// Gemini
	{
		ID:           "gemini-gemini-2.5-flash",
		Provider:     ProviderGemini,
		Name:         "Gemini 2.5 Flash",
		Description:  "Adaptive thinking and cost efficiency",
		Capabilities: []string{CapabilityTextGeneration, CapabilityMultimodal},
	},
	{
		ID:           "gemini-gemini-2.5-pro",
		Provider:     ProviderGemini,
		Name:         "Gemini 2.5 Pro",
		Description:  "Enhanced reasoning and multimodal understanding",
		Capabilities: []string{CapabilityTextGeneration, CapabilityMultimodal, CapabilityReasoning},
	},
	{
		ID:           "gemini-gemini-2.0-flash",
		Provider:     ProviderGemini,
		Name:         "Gemini 2.0 Flash",
		Description:  "Next-gen features, speed, real-time streaming",
		Capabilities: []string{CapabilityTextGeneration, CapabilityMultimodal, CapabilityStreaming},
	},
	{
		ID:           "gemini-gemini-1.5-flash",
		Provider:     ProviderGemini,
		Name:         "Gemini 1.5 Flash",
		Description:  "Fast, versatile performance for a wide range of tasks",
		Capabilities: []string{CapabilityTextGeneration, CapabilityMultimodal},
	},
	{
		ID:           "gemini-gemini-pro",
		Provider:     ProviderGemini,
		Name:         "Gemini Pro",
		Description:  "Google's advanced general-purpose model",
		Capabilities: []string{CapabilityTextGeneration, CapabilityChainOfThought},
	},
}

// DefaultModelID is used when a caller doesn't specify a model.
const DefaultModelID = "cohere-command"

// Models returns all catalog entries.
func Models() []core.AIModel {
	out := make([]core.AIModel, len(models))
	copy(out, models)
	return out
}

// ModelByID looks up a catalog entry. It returns core.ErrModelNotFound for
// unknown identifiers.
func ModelByID(id string) (core.AIModel, error) {
	for _, m := range models {
		if m.ID == id {
			return m, nil
		}
	}
	return core.AIModel{}, core.ErrModelNotFound
}

// Providers returns the provider identifiers known to the catalog.
func Providers() []string {
	return []string{ProviderCohere, ProviderOpenAI, ProviderMistral, ProviderDeepSeek, ProviderGemini}
}

// ValidProvider reports whether name is a known provider identifier.
func ValidProvider(name string) bool {
	for _, p := range Providers() {
		if p == name {
			return true
		}
	}
	return false
}

// APIModelName strips the catalog's provider prefix from a model id, yielding
// the name the provider API expects ("cohere-command-r" -> "command-r").
func APIModelName(m core.AIModel) string {
	prefix := m.Provider + "-"
	if len(m.ID) > len(prefix) && m.ID[:len(prefix)] == prefix {
		return m.ID[len(prefix):]
	}
	return m.ID
}
