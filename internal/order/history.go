// Package order реализует компиляцию заказа из корзины и локальную историю заказов.
package order

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/avdeevsm/mayorista-system/internal/model"
	"github.com/avdeevsm/mayorista-system/internal/store"
)

// Historial — локальный журнал оформленных заказов. Записи неизменяемы,
// поддерживается только добавление и полная очистка.
type Historial struct {
	mu     sync.Mutex
	st     store.Store
	logger *zap.Logger
}

// NewHistorial создаёт доступ к истории заказов поверх хранилища.
func NewHistorial(st store.Store, logger *zap.Logger) *Historial {
	return &Historial{st: st, logger: logger}
}

// List возвращает заказы, отсортированные по дате по убыванию.
// Повреждённый блоб читается как пустая история.
func (h *Historial) List() []model.Pedido {
	h.mu.Lock()
	defer h.mu.Unlock()

	pedidos := h.readLocked()

	sort.SliceStable(pedidos, func(i, j int) bool {
		return pedidos[i].Fecha.After(pedidos[j].Fecha)
	})

	return pedidos
}

// Clear удаляет всю историю заказов.
func (h *Historial) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.st.Delete(store.KeyHistorial); err != nil {
		h.logger.Error("history clear error", zap.Error(err))
	}
}

// Append дописывает заказ в конец журнала (read-modify-write).
// Ошибка записи логируется и не возвращается: потеря записи истории
// не должна блокировать оформление заказа.
func (h *Historial) Append(p model.Pedido) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pedidos := append(h.readLocked(), p)

	raw, err := json.Marshal(pedidos)
	if err != nil {
		h.logger.Error("history marshal error", zap.Error(err))
		return
	}

	if err := h.st.Set(store.KeyHistorial, raw); err != nil {
		h.logger.Error("history persist error", zap.Error(err))
	}
}

func (h *Historial) readLocked() []model.Pedido {
	raw, err := h.st.Get(store.KeyHistorial)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Warn("history read error, treating as empty", zap.Error(err))
		}
		return make([]model.Pedido, 0)
	}

	var pedidos []model.Pedido
	if err := json.Unmarshal(raw, &pedidos); err != nil {
		h.logger.Warn("history blob malformed, treating as empty", zap.Error(err))
		return make([]model.Pedido, 0)
	}
	if pedidos == nil {
		pedidos = make([]model.Pedido, 0)
	}

	return pedidos
}
