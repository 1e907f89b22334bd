// Package favorites реализует список избранных товаров с семантикой множества.
package favorites

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/avdeevsm/mayorista-system/internal/model"
	"github.com/avdeevsm/mayorista-system/internal/store"
)

// Favoritos — множество карточек товаров с ключом по id.
// Порядок добавления сохраняется для отображения.
type Favoritos struct {
	mu      sync.Mutex
	entries []model.Favorito
	st      store.Store
	logger  *zap.Logger
}

// New создаёт список избранного, восстанавливая состояние из хранилища.
// Повреждённый блоб читается как пустой список.
func New(st store.Store, logger *zap.Logger) *Favoritos {
	f := &Favoritos{
		entries: make([]model.Favorito, 0),
		st:      st,
		logger:  logger,
	}

	raw, err := st.Get(store.KeyFavoritos)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("favorites read error, starting empty", zap.Error(err))
		}
		return f
	}

	var entries []model.Favorito
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Warn("favorites blob malformed, starting empty", zap.Error(err))
		return f
	}
	if entries != nil {
		f.entries = entries
	}

	return f
}

// Toggle переключает членство товара: существующий id удаляется,
// новый добавляется в конец. Возвращает итоговое членство.
func (f *Favoritos) Toggle(entry model.Favorito) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, e := range f.entries {
		if e.ID == entry.ID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			f.persistLocked()
			return false
		}
	}

	f.entries = append(f.entries, entry)
	f.persistLocked()
	return true
}

// IsFavorite сообщает, находится ли товар в избранном.
func (f *Favoritos) IsFavorite(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range f.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// List возвращает копию списка в порядке добавления.
func (f *Favoritos) List() []model.Favorito {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Favorito, len(f.entries))
	copy(out, f.entries)
	return out
}

func (f *Favoritos) persistLocked() {
	raw, err := json.Marshal(f.entries)
	if err != nil {
		f.logger.Error("favorites marshal error", zap.Error(err))
		return
	}

	if err := f.st.Set(store.KeyFavoritos, raw); err != nil {
		f.logger.Error("favorites persist error", zap.Error(err))
	}
}
