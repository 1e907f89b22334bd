package order

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avdeevsm/mayorista-system/internal/cart"
	"github.com/avdeevsm/mayorista-system/internal/model"
	"github.com/avdeevsm/mayorista-system/internal/whatsapp"
)

// ErrEmptyCart возвращается при попытке оформить пустую корзину.
var ErrEmptyCart = errors.New("cart is empty")

// Compiler превращает текущую корзину в запись истории и ссылку wa.me
// с готовым текстом заказа.
type Compiler struct {
	carrito   *cart.Carrito
	historial *Historial
	links     *whatsapp.LinkBuilder

	// now подменяется в тестах.
	now func() time.Time
}

// NewCompiler создаёт компилятор заказов.
func NewCompiler(carrito *cart.Carrito, historial *Historial, links *whatsapp.LinkBuilder) *Compiler {
	return &Compiler{
		carrito:   carrito,
		historial: historial,
		links:     links,
		now:       time.Now,
	}
}

// Compile собирает заказ из корзины: записывает его в историю и возвращает
// запись вместе со ссылкой передачи в мессенджер. Отказ локальной записи
// не препятствует формированию ссылки. Корзина не очищается: это решение
// остаётся за вызывающей стороной после фактической отправки.
func (c *Compiler) Compile() (model.Pedido, string, error) {
	items := c.carrito.Items()
	if len(items) == 0 {
		return model.Pedido{}, "", ErrEmptyCart
	}

	now := c.now()

	// Итоги считаются по снимку, а не по живой корзине: заказ должен быть
	// согласованной копией одного состояния, даже если корзина мутирует
	// во время компиляции.
	total := decimal.Zero
	snapshot := make([]model.ItemPedido, 0, len(items))
	for _, it := range items {
		snapshot = append(snapshot, model.ItemPedido{
			Nombre:        it.Nombre,
			TipoCurva:     it.TipoCurva,
			CantidadPares: it.CantidadPares,
			TotalItem:     it.TotalLinea,
			Color:         it.Color,
		})
		total = total.Add(it.TotalLinea)
	}

	pedido := model.Pedido{
		ID:     strconv.FormatInt(now.UnixMilli(), 10),
		Fecha:  now,
		Items:  snapshot,
		Total:  total,
		Estado: model.EstadoEnviado,
	}

	c.historial.Append(pedido)

	mensaje := componerMensaje(pedido, len(snapshot))

	return pedido, c.links.Link(mensaje), nil
}

// componerMensaje строит детерминированный текст заказа: перечень позиций,
// итоговая сумма и число бультов.
func componerMensaje(p model.Pedido, bultos int) string {
	var b strings.Builder

	b.WriteString("¡Hola! Quiero hacer el siguiente pedido:\n\n")

	for i, it := range p.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it.Nombre)
		fmt.Fprintf(&b, "   Curva: %s\n", it.TipoCurva)
		if it.Color != "" {
			fmt.Fprintf(&b, "   Color: %s\n", it.Color)
		}
		fmt.Fprintf(&b, "   Pack: %s (%d pares)\n", model.EtiquetaPack(it.CantidadPares), it.CantidadPares)
		fmt.Fprintf(&b, "   Subtotal: $%s\n\n", it.TotalItem)
	}

	fmt.Fprintf(&b, "Total: $%s\n", p.Total)
	fmt.Fprintf(&b, "Bultos: %d", bultos)

	return b.String()
}
