package provider

// DefaultModelPricing returns the built-in price table.
// Rates are USD per million tokens, as the providers publish them.
// Entries also serve as prefixes for dated or suffixed model ids.
// Sources:
//   - Anthropic: https://docs.anthropic.com/en/docs/about-claude/pricing
//   - OpenAI: https://openai.com/api/pricing/
//   - Google: https://ai.google.dev/gemini-api/docs/pricing
func DefaultModelPricing() []ModelCostRate {
	return []ModelCostRate{
		// ============================================
		// OpenAI GPT models
		// ============================================

		// GPT-5 Series
		{ModelID: "gpt-5", Provider: PricingOpenAI, InputRate: 1.25, OutputRate: 10},
		{ModelID: "gpt-5-mini", Provider: PricingOpenAI, InputRate: 0.25, OutputRate: 2},
		{ModelID: "gpt-5-nano", Provider: PricingOpenAI, InputRate: 0.05, OutputRate: 0.4},

		// GPT-4.1 Series
		{ModelID: "gpt-4.1", Provider: PricingOpenAI, InputRate: 2, OutputRate: 8},
		{ModelID: "gpt-4.1-mini", Provider: PricingOpenAI, InputRate: 0.4, OutputRate: 1.6},
		{ModelID: "gpt-4.1-nano", Provider: PricingOpenAI, InputRate: 0.1, OutputRate: 0.4},

		// GPT-4o Series
		{ModelID: "gpt-4o", Provider: PricingOpenAI, InputRate: 2.5, OutputRate: 10},
		{ModelID: "chatgpt-4o-latest", Provider: PricingOpenAI, InputRate: 5, OutputRate: 15},
		{ModelID: "gpt-4o-mini", Provider: PricingOpenAI, InputRate: 0.15, OutputRate: 0.6},

		// O-Series (reasoning models)
		{ModelID: "o1", Provider: PricingOpenAI, InputRate: 15, OutputRate: 60},
		{ModelID: "o1-mini", Provider: PricingOpenAI, InputRate: 1.1, OutputRate: 4.4},
		{ModelID: "o3", Provider: PricingOpenAI, InputRate: 2, OutputRate: 8},
		{ModelID: "o3-mini", Provider: PricingOpenAI, InputRate: 1.1, OutputRate: 4.4},
		{ModelID: "o4-mini", Provider: PricingOpenAI, InputRate: 1.1, OutputRate: 4.4},

		// GPT-4 Legacy
		{ModelID: "gpt-4-turbo", Provider: PricingOpenAI, InputRate: 10, OutputRate: 30},
		{ModelID: "gpt-4", Provider: PricingOpenAI, InputRate: 30, OutputRate: 60},
		{ModelID: "gpt-3.5-turbo", Provider: PricingOpenAI, InputRate: 0.5, OutputRate: 1.5},

		// ============================================
		// Anthropic Claude models
		// ============================================

		// Claude 4.5 Series
		{ModelID: "claude-opus-4-5", Provider: PricingAnthropic, InputRate: 5, OutputRate: 25},
		{ModelID: "claude-sonnet-4-5", Provider: PricingAnthropic, InputRate: 3, OutputRate: 15},
		{ModelID: "claude-haiku-4-5", Provider: PricingAnthropic, InputRate: 1, OutputRate: 5},

		// Claude 4 Series
		{ModelID: "claude-opus-4-1-20250805", Provider: PricingAnthropic, InputRate: 15, OutputRate: 75},
		{ModelID: "claude-opus-4-20250514", Provider: PricingAnthropic, InputRate: 15, OutputRate: 75},
		{ModelID: "claude-sonnet-4-20250514", Provider: PricingAnthropic, InputRate: 3, OutputRate: 15},

		// Claude 3.x Series
		{ModelID: "claude-3-7-sonnet", Provider: PricingAnthropic, InputRate: 3, OutputRate: 15},
		{ModelID: "claude-3-5-sonnet", Provider: PricingAnthropic, InputRate: 3, OutputRate: 15},
		{ModelID: "claude-3-5-haiku", Provider: PricingAnthropic, InputRate: 0.8, OutputRate: 4},
		{ModelID: "claude-3-opus", Provider: PricingAnthropic, InputRate: 15, OutputRate: 75},
		{ModelID: "claude-3-haiku", Provider: PricingAnthropic, InputRate: 0.25, OutputRate: 1.25},

		// ============================================
		// Google Gemini models
		// ============================================

		// Gemini 2.5 Series (prompts up to 200K tokens)
		{ModelID: "gemini-2.5-pro", Provider: PricingGoogle, InputRate: 1.25, OutputRate: 10},
		{ModelID: "gemini-2.5-flash", Provider: PricingGoogle, InputRate: 0.3, OutputRate: 2.5},
		{ModelID: "gemini-2.5-flash-lite", Provider: PricingGoogle, InputRate: 0.1, OutputRate: 0.4},

		// Gemini 2.0 Series
		{ModelID: "gemini-2.0-flash", Provider: PricingGoogle, InputRate: 0.1, OutputRate: 0.4},
		{ModelID: "gemini-2.0-flash-lite", Provider: PricingGoogle, InputRate: 0.075, OutputRate: 0.3},

		// Gemini 1.5 Series (legacy)
		{ModelID: "gemini-1.5-pro", Provider: PricingGoogle, InputRate: 1.25, OutputRate: 5},
		{ModelID: "gemini-1.5-flash", Provider: PricingGoogle, InputRate: 0.075, OutputRate: 0.3},
	}
}

// PopulateCostCalculator adds default model pricing to a CostCalculator.
func PopulateCostCalculator(calc *CostCalculator) {
	if calc == nil {
		return
	}
	calc.Merge(DefaultModelPricing())
}
