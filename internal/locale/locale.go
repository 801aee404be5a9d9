// Package locale is the single resolution point for the three languages the
// app ships in. Every component that needs locale-specific text goes through
// this package so the label tables cannot drift apart.
package locale

// Locale is one of the supported response languages.
type Locale string

const (
	Japanese Locale = "ja"
	Korean   Locale = "ko"
	English  Locale = "en"
)

// Default is the locale used when a request carries no locale or an
// unrecognized one. The app's primary market is Japan.
const Default = Japanese

// Resolve maps a raw locale code to a supported Locale, falling back to the
// default for anything unrecognized.
func Resolve(code string) Locale {
	switch code {
	case string(Korean):
		return Korean
	case string(English):
		return English
	default:
		return Default
	}
}

// PromptDirective returns the response-language instruction embedded in the
// user prompt. Prompts themselves are written in English for model
// stability; only the response language varies.
func (l Locale) PromptDirective() string {
	switch l {
	case Korean:
		return "Respond in Korean (한국어)"
	case English:
		return "Respond in English"
	default:
		return "Respond in Japanese (日本語)"
	}
}

// healthLabels maps each locale to its band labels, highest band first.
// Bands are [90,100], [70,89], [50,69], [0,49]. The model is instructed to
// pick from this exact table; the canned fallback and no-data documents use
// the same table so every path agrees on the strings.
var healthLabels = map[Locale][4]string{
	Japanese: {"とても健全", "良好", "要注意", "改善しましょう"},
	Korean:   {"매우 건강", "양호", "주의 필요", "개선이 필요해요"},
	English:  {"Excellent", "Good", "Needs Attention", "Let's Improve"},
}

// HealthLabel returns the exact label for a health score in this locale.
func (l Locale) HealthLabel(score int) string {
	labels, ok := healthLabels[l]
	if !ok {
		labels = healthLabels[Default]
	}
	switch {
	case score >= 90:
		return labels[0]
	case score >= 70:
		return labels[1]
	case score >= 50:
		return labels[2]
	default:
		return labels[3]
	}
}

// NoDataLabel is the health label used when a month has no transactions.
// It sits outside the score bands: a no-data document is not a scored one.
func (l Locale) NoDataLabel() string {
	switch l {
	case Korean:
		return "데이터 없음"
	case English:
		return "No Data"
	default:
		return "データなし"
	}
}
