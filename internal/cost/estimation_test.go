package cost

import (
	"testing"

	"postforge/internal/catalog"
)

func TestEstimateTokenCount(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"1234567", 2},   // 7 chars / 3.5
		{"12345678", 3},  // 8 chars / 3.5, rounded up
		{"  spaced  ", 2}, // trimmed to 6 chars
	}

	for _, tc := range cases {
		if got := EstimateTokenCount(tc.text); got != tc.want {
			t.Errorf("EstimateTokenCount(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestEstimateCall(t *testing.T) {
	est := EstimateCall(catalog.ProviderDeepSeek, "a prompt of some length", 1000)

	if est.Provider != catalog.ProviderDeepSeek {
		t.Errorf("provider = %q", est.Provider)
	}
	if est.InputTokens <= 0 {
		t.Error("input tokens should be positive for a non-empty prompt")
	}
	if est.OutputTokens != 1000 {
		t.Errorf("output tokens = %d, want 1000", est.OutputTokens)
	}
	if est.TotalCost <= 0 {
		t.Error("cost should be positive for a priced provider")
	}
}

func TestEstimateCall_DefaultOutputTokens(t *testing.T) {
	est := EstimateCall(catalog.ProviderCohere, "prompt", 0)
	if est.OutputTokens != 2048 {
		t.Errorf("output tokens = %d, want the 2048 default", est.OutputTokens)
	}
}

func TestEstimateCall_UnknownProvider(t *testing.T) {
	est := EstimateCall("unknown", "prompt", 100)
	if est.TotalCost != 0 {
		t.Errorf("unknown provider should cost 0, got %f", est.TotalCost)
	}
}
