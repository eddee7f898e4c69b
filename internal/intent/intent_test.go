package intent

import (
	"testing"

	"tienda-gateway/internal/model"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.IntentKind
	}{
		{"catalog keyword", "catalogo", model.IntentCatalog},
		{"catalog accented", "quiero ver el catálogo", model.IntentCatalog},
		{"catalog productos", "¿qué productos tienen?", model.IntentCatalog},
		{"greeting hola", "Hola", model.IntentGreeting},
		{"greeting buenas", "buenas tardes", model.IntentGreeting},
		{"order pedido", "quiero hacer un PEDIDO", model.IntentOrder},
		{"order comprar", "me interesa comprar algo", model.IntentOrder},
		{"unknown", "gracias", model.IntentUnknown},
		{"empty", "", model.IntentUnknown},
		{"whitespace only", "   \n  ", model.IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpret(tt.text)
			if got.Kind != tt.want {
				t.Errorf("Interpret(%q).Kind = %q, want %q", tt.text, got.Kind, tt.want)
			}
		})
	}
}

// Priority is fixed: catalog beats greeting beats order, regardless of
// keyword position in the message.
func TestInterpretPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.IntentKind
	}{
		{"greeting plus order resolves to greeting", "hola, quiero un pedido", model.IntentGreeting},
		{"catalog plus greeting resolves to catalog", "hola, muéstrame el catalogo", model.IntentCatalog},
		{"catalog plus order resolves to catalog", "pedido del catalogo por favor", model.IntentCatalog},
		{"all three resolves to catalog", "hola, pedido de productos", model.IntentCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpret(tt.text)
			if got.Kind != tt.want {
				t.Errorf("Interpret(%q).Kind = %q, want %q", tt.text, got.Kind, tt.want)
			}
		})
	}
}

func TestInterpretOrderHasNoLines(t *testing.T) {
	got := Interpret("pedido 1 2")
	if got.Kind != model.IntentOrder {
		t.Fatalf("Kind = %q, want order", got.Kind)
	}
	if len(got.Lines) != 0 {
		t.Errorf("free-text order should carry no lines, got %v", got.Lines)
	}
}
