package model

// IntentKind classifies the purpose of an inbound chat message.
type IntentKind string

const (
	IntentGreeting IntentKind = "greeting"
	IntentCatalog  IntentKind = "catalog"
	IntentOrder    IntentKind = "order"
	IntentUnknown  IntentKind = "unknown"
)

// Intent is the classified result of interpreting one inbound message.
// Produced fresh per message; it has no persistent identity.
type Intent struct {
	Kind IntentKind

	// Lines is populated only for order intents originated programmatically
	// (web "buy now" / "send cart"). Free-text order messages carry an empty
	// line list: the interpreter recognizes the intent, not the items.
	Lines []OrderLine
}

// OrderLine is one requested product/quantity pair within an order intent.
type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}
