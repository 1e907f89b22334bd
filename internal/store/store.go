// Package store реализует локальное персистентное хранилище ключ-значение
// для корзины, избранного и истории заказов.
package store

import (
	"errors"
	"sync"
)

// Логические ключи хранилища. Формат значений — JSON-массивы записей,
// структурно идентичные коллекциям в памяти.
const (
	KeyCarrito   = "wholesale_cart"
	KeyHistorial = "historial_pedidos"
	KeyFavoritos = "user_favorites"
)

// ErrNotFound возвращается, если по ключу ничего не сохранено.
var ErrNotFound = errors.New("key not found")

// Store абстрагирует бэкенд локального хранилища.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// MemStore — потокобезопасное хранилище в памяти, используется в тестах.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore создаёт пустое хранилище в памяти.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *MemStore) Close() error { return nil }
