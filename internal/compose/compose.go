// Package compose builds the outbound order messages. Message text is
// deterministic: the same cart against the same catalog snapshot always
// produces byte-identical output, so tests can assert on whole messages.
package compose

import (
	"fmt"
	"strings"

	"tienda-gateway/internal/cart"
	"tienda-gateway/internal/model"
)

// CartOrder renders a full cart as an order message. Unavailable lines are
// skipped; the total is the view's live-priced total. An empty cart (or one
// with only unavailable lines) returns model.ErrInvalidRequest.
func CartOrder(view cart.View) (model.OrderMessage, error) {
	available := 0
	for _, l := range view.Lines {
		if !l.Unavailable {
			available++
		}
	}
	if available == 0 {
		return model.OrderMessage{}, model.NewValidationError("cart", "no items to order")
	}

	var b strings.Builder
	b.WriteString("*NUEVO PEDIDO - TIENDA ONLINE*\n\n")
	b.WriteString("*Detalle del pedido:*\n")

	n := 0
	for _, l := range view.Lines {
		if l.Unavailable {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. %s\n", n, l.Name)
		fmt.Fprintf(&b, "   Cantidad: %d\n", l.Quantity)
		fmt.Fprintf(&b, "   Precio: %s\n", model.FormatAmount(l.UnitPrice))
		fmt.Fprintf(&b, "   Subtotal: %s\n\n", model.FormatAmount(l.Subtotal))
	}

	fmt.Fprintf(&b, "*TOTAL: %s*\n\n", model.FormatAmount(view.Total))

	// Customer block is left blank on purpose: the customer fills it in
	// before sending the chat message.
	b.WriteString("*Información del cliente:*\n")
	b.WriteString("Nombre: \n")
	b.WriteString("Teléfono: \n")
	b.WriteString("Dirección: \n")
	b.WriteString("Método de pago: ")

	return model.OrderMessage{Text: b.String(), Total: view.Total}, nil
}

// SingleProduct renders a direct-purchase inquiry for one product.
func SingleProduct(p model.Product) model.OrderMessage {
	var b strings.Builder
	b.WriteString("¡Hola! Estoy interesado en comprar:\n\n")
	fmt.Fprintf(&b, "*%s*\n", p.Name)
	fmt.Fprintf(&b, "Precio: %s\n\n", model.FormatAmount(p.Price))
	b.WriteString("¿Podrían darme más información?")

	return model.OrderMessage{Text: b.String(), Total: p.Price}
}
