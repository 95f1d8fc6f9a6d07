package entity

// Usage is the token accounting attached to every inference call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// NewUsage clamps negative counts reported by a provider to zero.
func NewUsage(prompt, completion int) Usage {
	if prompt < 0 {
		prompt = 0
	}
	if completion < 0 {
		completion = 0
	}
	return Usage{PromptTokens: prompt, CompletionTokens: completion}
}

func (u Usage) Add(other Usage) Usage {
	return NewUsage(u.PromptTokens+other.PromptTokens, u.CompletionTokens+other.CompletionTokens)
}

func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

// Pricing holds per-million-token prices in USD and an exchange rate for
// a secondary reporting currency.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
	ExchangeRate     float64
	Currency         string
}

func DefaultPricing() Pricing {
	return Pricing{
		InputPerMillion:  1.10,
		OutputPerMillion: 4.40,
		ExchangeRate:     85.42,
		Currency:         "INR",
	}
}

type Cost struct {
	USD      float64
	Local    float64
	Currency string
}

func (u Usage) Cost(p Pricing) Cost {
	usd := float64(u.PromptTokens)/1e6*p.InputPerMillion +
		float64(u.CompletionTokens)/1e6*p.OutputPerMillion
	return Cost{
		USD:      usd,
		Local:    usd * p.ExchangeRate,
		Currency: p.Currency,
	}
}

// Completion is the raw provider answer plus its accounting.
type Completion struct {
	Text  string
	Usage Usage
}
