// Package intent classifies inbound chat messages into storefront intents.
// Classification is keyword containment over the normalized text, with a
// fixed priority so a message matching several intent families always
// resolves the same way.
package intent

import (
	"strings"

	"tienda-gateway/internal/model"
)

// Keyword families, checked in priority order. A message like
// "hola, quiero ver el catalogo" matches both the catalog and greeting
// families; catalog wins because it is checked first.
var (
	catalogKeywords  = []string{"catalogo", "catálogo", "productos"}
	greetingKeywords = []string{"hola", "buenas"}
	orderKeywords    = []string{"pedido", "comprar"}
)

// Interpret classifies a raw inbound message. The text is lowercased and
// trimmed before matching; matching is substring containment, so "quiero
// comprar algo" carries an order intent.
func Interpret(raw string) model.Intent {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return model.Intent{Kind: model.IntentUnknown}
	}

	switch {
	case containsAny(text, catalogKeywords):
		return model.Intent{Kind: model.IntentCatalog}
	case containsAny(text, greetingKeywords):
		return model.Intent{Kind: model.IntentGreeting}
	case containsAny(text, orderKeywords):
		// Chat messages carry order intent only; the item lines are
		// collected in the follow-up conversation, not parsed from text.
		return model.Intent{Kind: model.IntentOrder}
	default:
		return model.Intent{Kind: model.IntentUnknown}
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
