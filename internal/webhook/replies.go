package webhook

import (
	"fmt"
	"strings"

	"tienda-gateway/internal/catalog"
	"tienda-gateway/internal/model"
)

// Chat replies sent by the bot. The catalog reply is rendered from the live
// snapshot; the rest are fixed text.

func welcomeReply(storeName string) string {
	name := "nuestra tienda"
	if storeName != "" {
		name = storeName
	}
	return fmt.Sprintf(`¡Hola! 👋 Bienvenido a %s.

Escribe:
📋 *CATALOGO* - Para ver nuestros productos
🛒 *PEDIDO* - Para hacer un pedido

¿En qué puedo ayudarte hoy?`, name)
}

func catalogReply(snap *catalog.Snapshot) string {
	var b strings.Builder
	b.WriteString("🛍️ *NUESTRO CATÁLOGO DE PRODUCTOS*\n\n")

	for i, p := range snap.Products {
		fmt.Fprintf(&b, "%d. *%s* - %s\n", i+1, p.Name, model.FormatAmount(p.Price))
		if p.Description != "" {
			fmt.Fprintf(&b, "   %s\n", p.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("Para ordenar, escribe *PEDIDO* y te indicamos los pasos.")
	return b.String()
}

func orderInfoReply() string {
	return `🛒 *REALIZAR PEDIDO*

Para hacer tu pedido, por favor envía la siguiente información:

*Producto:* (nombre o número del producto)
*Cantidad:*
*Dirección de envío:*

También puedes visitar nuestra tienda online para ver imágenes y hacer el pedido directamente.

¿Necesitas ayuda con algún producto?`
}

func menuReply() string {
	return `¿En qué más puedo ayudarte? 🤔

Escribe:
📋 *CATALOGO* - Ver productos
🛒 *PEDIDO* - Hacer pedido`
}
