// Package cost estimates the token usage and dollar cost of LLM provider
// calls. Estimates are logged alongside each generation call; they are
// informational only and never gate a request.
package cost

import (
	"math"
	"strings"
	"unicode/utf8"

	"postforge/internal/catalog"
)

// Pricing holds per-provider pricing in USD per 1M tokens.
type Pricing struct {
	Provider              string
	InputCostPer1MTokens  float64
	OutputCostPer1MTokens float64
}

// pricingTable carries representative per-provider pricing. Model-level
// pricing varies; provider-level numbers are close enough for the logged
// estimates.
var pricingTable = map[string]Pricing{
	catalog.ProviderCohere: {
		Provider:              catalog.ProviderCohere,
		InputCostPer1MTokens:  0.50,
		OutputCostPer1MTokens: 1.50,
	},
	catalog.ProviderOpenAI: {
		Provider:              catalog.ProviderOpenAI,
		InputCostPer1MTokens:  0.50,
		OutputCostPer1MTokens: 1.50,
	},
	catalog.ProviderMistral: {
		Provider:              catalog.ProviderMistral,
		InputCostPer1MTokens:  0.25,
		OutputCostPer1MTokens: 0.75,
	},
	catalog.ProviderDeepSeek: {
		Provider:              catalog.ProviderDeepSeek,
		InputCostPer1MTokens:  0.14,
		OutputCostPer1MTokens: 0.28,
	},
	catalog.ProviderGemini: {
		Provider:              catalog.ProviderGemini,
		InputCostPer1MTokens:  0.075,
		OutputCostPer1MTokens: 0.30,
	},
}

// EstimateTokenCount roughly estimates the token count of a text. The
// approximation is 1 token per ~3.5 characters, which slightly overestimates
// English prose to leave room for special tokens and formatting.
func EstimateTokenCount(text string) int {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\n", " ")

	charCount := utf8.RuneCountInString(text)
	return int(math.Ceil(float64(charCount) / 3.5))
}

// CallEstimate is the estimated size and cost of a single provider call.
type CallEstimate struct {
	Provider     string
	InputTokens  int
	OutputTokens int
	TotalCost    float64
}

// EstimateCall estimates the cost of sending a prompt to the given provider
// expecting up to maxTokens of output.
func EstimateCall(provider, prompt string, maxTokens int) CallEstimate {
	inputTokens := EstimateTokenCount(prompt)
	outputTokens := maxTokens
	if outputTokens <= 0 {
		outputTokens = 2048
	}

	estimate := CallEstimate{
		Provider:     provider,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}

	pricing, ok := pricingTable[provider]
	if !ok {
		return estimate
	}

	inputCost := float64(inputTokens) / 1_000_000 * pricing.InputCostPer1MTokens
	outputCost := float64(outputTokens) / 1_000_000 * pricing.OutputCostPer1MTokens
	estimate.TotalCost = inputCost + outputCost
	return estimate
}
