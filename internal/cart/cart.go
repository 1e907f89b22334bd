// Package cart реализует агрегат корзины с синхронной записью в локальное хранилище.
package cart

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avdeevsm/mayorista-system/internal/model"
	"github.com/avdeevsm/mayorista-system/internal/store"
)

// Carrito — упорядоченный список позиций заказа. Позиции только добавляются
// и удаляются целиком, существующая позиция никогда не изменяется.
// Все мутации одного экземпляра упорядочены мьютексом.
type Carrito struct {
	mu     sync.Mutex
	items  []model.ItemCarrito
	st     store.Store
	logger *zap.Logger
	subs   []func()
}

// New создаёт корзину, восстанавливая состояние из хранилища.
// Повреждённый или отсутствующий блоб читается как пустая корзина:
// порча локального состояния не фатальна и лечится следующей записью.
func New(st store.Store, logger *zap.Logger) *Carrito {
	c := &Carrito{
		items:  make([]model.ItemCarrito, 0),
		st:     st,
		logger: logger,
	}

	raw, err := st.Get(store.KeyCarrito)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("cart read error, starting empty", zap.Error(err))
		}
		return c
	}

	var items []model.ItemCarrito
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("cart blob malformed, starting empty", zap.Error(err))
		return c
	}
	if items != nil {
		c.items = items
	}

	return c
}

// Subscribe регистрирует обработчик, вызываемый после каждой мутации корзины.
func (c *Carrito) Subscribe(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subs = append(c.subs, fn)
}

// Add добавляет позицию в конец корзины. Одинаковые товары не сливаются:
// два добавления дают две независимые позиции. TotalLinea фиксируется здесь
// и не пересчитывается при изменении цен каталога.
func (c *Carrito) Add(item model.ItemCarrito) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item.TotalLinea = item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.CantidadPares)))
	c.items = append(c.items, item)

	c.persistLocked()
	c.notifyLocked()
}

// Remove удаляет позицию по индексу. Индекс вне диапазона трактуется как
// уже удалённая позиция: операция молча игнорируется.
func (c *Carrito) Remove(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.items) {
		return
	}

	c.items = append(c.items[:index], c.items[index+1:]...)

	c.persistLocked()
	c.notifyLocked()
}

// Clear опустошает корзину.
func (c *Carrito) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]model.ItemCarrito, 0)

	c.persistLocked()
	c.notifyLocked()
}

// Items возвращает копию текущих позиций в порядке добавления.
func (c *Carrito) Items() []model.ItemCarrito {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.ItemCarrito, len(c.items))
	copy(out, c.items)
	return out
}

// Total возвращает сумму total_linea всех позиций.
func (c *Carrito) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.TotalLinea)
	}
	return total
}

// Count возвращает число позиций (упаковок), не пар.
func (c *Carrito) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// TotalPairs возвращает суммарное количество пар по всем позициям.
func (c *Carrito) TotalPairs() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	pairs := 0
	for _, it := range c.items {
		pairs += it.CantidadPares
	}
	return pairs
}

// persistLocked записывает всё содержимое корзины в хранилище.
// Ошибка записи логируется и не прерывает операцию: доступность корзины
// важнее долговечности локального состояния.
func (c *Carrito) persistLocked() {
	raw, err := json.Marshal(c.items)
	if err != nil {
		c.logger.Error("cart marshal error", zap.Error(err))
		return
	}

	if err := c.st.Set(store.KeyCarrito, raw); err != nil {
		c.logger.Error("cart persist error", zap.Error(err))
	}
}

func (c *Carrito) notifyLocked() {
	for _, fn := range c.subs {
		fn()
	}
}
