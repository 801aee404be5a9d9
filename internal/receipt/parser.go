// Package receipt extracts structured transaction data from receipt text.
// Unlike the insight pipeline it makes a single model attempt and caches
// nothing: a failed parse is cheap for the caller to retry by hand.
package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hareru-app/backend/internal/genai"
	"github.com/hareru-app/backend/internal/model"
)

const (
	receiptMaxTokens   = 1024
	receiptTemperature = 0.1
)

// ErrUnparsable reports that the model produced output that is not a valid
// extraction document.
var ErrUnparsable = errors.New("receipt: model output is not valid JSON")

const systemPrompt = `You are a receipt parsing assistant for a Japanese household budgeting app.
You will receive the text of a store receipt, typically in Japanese. Extract the purchase details.

Rules:
- Amounts are in Japanese yen, integers only. Strip currency symbols and commas.
- Dates are formatted as YYYY-MM-DD. If the receipt shows a Japanese era year, convert it.
- Line items keep their printed names. Quantity defaults to 1 when not shown.
- Tax (消費税) and discount (値引き) amounts are listed separately when present.
- If a field is not present on the receipt, omit it from the output.
- The total is required. Use the amount actually paid (合計 or お買上げ).

Respond with ONLY valid JSON matching:
{
  "storeName": "string",
  "date": "YYYY-MM-DD",
  "items": [{"name": "string", "quantity": 1, "price": 0}],
  "total": 0,
  "tax": 0,
  "discount": 0,
  "paymentMethod": "string",
  "memo": "string"
}`

// Parser turns receipt text into a structured extraction via one model call.
type Parser struct {
	completer genai.Completer
	logger    *slog.Logger
}

func NewParser(completer genai.Completer, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{completer: completer, logger: logger}
}

// Parse extracts structured data from raw receipt text. Optional fields the
// model omits stay zero-valued; only output that fails to parse as JSON is
// an error. Model transport errors pass through unwrapped so callers can
// classify them.
func (p *Parser) Parse(ctx context.Context, text string) (*model.ReceiptExtraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("receipt: empty input text")
	}

	raw, err := p.completer.Complete(ctx, systemPrompt, text, receiptMaxTokens, receiptTemperature)
	if err != nil {
		return nil, err
	}

	var extraction model.ReceiptExtraction
	if err := json.Unmarshal([]byte(genai.StripCodeFences(raw)), &extraction); err != nil {
		p.logger.Warn("receipt extraction unparsable", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	return &extraction, nil
}
