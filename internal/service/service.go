// Package service реализует бизнес-логику витрины.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avdeevsm/mayorista-system/internal/authclient"
	"github.com/avdeevsm/mayorista-system/internal/cart"
	"github.com/avdeevsm/mayorista-system/internal/favorites"
	"github.com/avdeevsm/mayorista-system/internal/model"
	"github.com/avdeevsm/mayorista-system/internal/order"
	"github.com/avdeevsm/mayorista-system/internal/repository"
	"github.com/avdeevsm/mayorista-system/internal/validation"
)

// ErrInvalidPackCount возвращается, если размер упаковки не полдюжины и не дюжина.
var (
	ErrInvalidPackCount = errors.New("invalid pack count")
	// ErrInvalidCurva возвращается, если метка курвы вне закрытого набора.
	ErrInvalidCurva = errors.New("invalid size curve")
)

// Repository описывает контракт доступа к каталогу и таксономии.
type Repository interface {
	Close() error
	ListProductos(ctx context.Context, f repository.FiltroProductos) ([]model.Producto, error)
	GetProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	CreateProducto(ctx context.Context, p model.Producto) (uuid.UUID, error)
	UpdateProducto(ctx context.Context, p model.Producto) error
	DeleteProducto(ctx context.Context, id uuid.UUID) error
	ListGeneros(ctx context.Context) ([]model.Genero, error)
	CreateGenero(ctx context.Context, nombre string) (int64, error)
	UpdateGenero(ctx context.Context, id int64, nombre string) error
	DeleteGenero(ctx context.Context, id int64) error
	ListGruposTalle(ctx context.Context) ([]model.GrupoTalle, error)
	CreateGrupoTalle(ctx context.Context, nombre, rango string) (int64, error)
	UpdateGrupoTalle(ctx context.Context, id int64, nombre, rango string) error
	DeleteGrupoTalle(ctx context.Context, id int64) error
}

// ResumenCarrito — корзина вместе с производными итогами.
type ResumenCarrito struct {
	Items      []model.ItemCarrito `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	Cantidad   int                 `json:"cantidad"`
	TotalPares int                 `json:"total_pares"`
}

// Service содержит бизнес-логику витрины: каталог из удалённой БД,
// локальные корзина/избранное/история и оформление заказа.
type Service struct {
	repo       Repository
	carrito    *cart.Carrito
	favoritos  *favorites.Favoritos
	historial  *order.Historial
	compiler   *order.Compiler
	authClient *authclient.Client
}

// NewService создаёт сервис витрины.
func NewService(repo Repository, carrito *cart.Carrito, favoritos *favorites.Favoritos,
	historial *order.Historial, compiler *order.Compiler, authClient *authclient.Client) *Service {
	return &Service{
		repo:       repo,
		carrito:    carrito,
		favoritos:  favoritos,
		historial:  historial,
		compiler:   compiler,
		authClient: authClient,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// ListProductos возвращает товары каталога по фильтру.
func (s *Service) ListProductos(ctx context.Context, f repository.FiltroProductos) ([]model.Producto, error) {
	return s.repo.ListProductos(ctx, f)
}

// GetProducto возвращает товар по идентификатору.
func (s *Service) GetProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	return s.repo.GetProducto(ctx, id)
}

// AddToCart валидирует позицию и добавляет её в корзину.
func (s *Service) AddToCart(item model.ItemCarrito) error {
	if !validation.IsValidPackCount(item.CantidadPares) {
		return ErrInvalidPackCount
	}
	if !validation.IsValidCurva(item.TipoCurva) {
		return ErrInvalidCurva
	}

	s.carrito.Add(item)
	return nil
}

// RemoveFromCart удаляет позицию по индексу; несуществующий индекс игнорируется.
func (s *Service) RemoveFromCart(index int) {
	s.carrito.Remove(index)
}

// ClearCart опустошает корзину.
func (s *Service) ClearCart() {
	s.carrito.Clear()
}

// GetCart возвращает корзину с производными итогами.
func (s *Service) GetCart() ResumenCarrito {
	return ResumenCarrito{
		Items:      s.carrito.Items(),
		Total:      s.carrito.Total(),
		Cantidad:   s.carrito.Count(),
		TotalPares: s.carrito.TotalPairs(),
	}
}

// ToggleFavorito переключает членство товара в избранном.
func (s *Service) ToggleFavorito(entry model.Favorito) bool {
	return s.favoritos.Toggle(entry)
}

// ListFavoritos возвращает избранное в порядке добавления.
func (s *Service) ListFavoritos() []model.Favorito {
	return s.favoritos.List()
}

// Checkout компилирует заказ из корзины: записывает его в историю и
// возвращает ссылку передачи в мессенджер.
func (s *Service) Checkout() (model.Pedido, string, error) {
	return s.compiler.Compile()
}

// GetHistorial возвращает историю заказов от новых к старым.
func (s *Service) GetHistorial() []model.Pedido {
	return s.historial.List()
}

// ClearHistorial удаляет всю историю заказов.
func (s *Service) ClearHistorial() {
	s.historial.Clear()
}

// AdminLogin проверяет токен у удалённого сервиса аутентификации.
func (s *Service) AdminLogin(ctx context.Context, token string) (bool, error) {
	if s.authClient == nil {
		return false, errors.New("auth service not configured")
	}
	return s.authClient.CheckSession(ctx, token)
}

// CreateGenero создаёт элемент таксономии «пол/аудитория».
func (s *Service) CreateGenero(ctx context.Context, nombre string) (int64, error) {
	return s.repo.CreateGenero(ctx, nombre)
}

// ListGeneros возвращает таксономию «пол/аудитория».
func (s *Service) ListGeneros(ctx context.Context) ([]model.Genero, error) {
	return s.repo.ListGeneros(ctx)
}

// UpdateGenero переименовывает элемент таксономии.
func (s *Service) UpdateGenero(ctx context.Context, id int64, nombre string) error {
	return s.repo.UpdateGenero(ctx, id, nombre)
}

// DeleteGenero удаляет элемент таксономии.
func (s *Service) DeleteGenero(ctx context.Context, id int64) error {
	return s.repo.DeleteGenero(ctx, id)
}

// ListGruposTalle возвращает размерные группы.
func (s *Service) ListGruposTalle(ctx context.Context) ([]model.GrupoTalle, error) {
	return s.repo.ListGruposTalle(ctx)
}

// CreateGrupoTalle создаёт размерную группу.
func (s *Service) CreateGrupoTalle(ctx context.Context, nombre, rango string) (int64, error) {
	return s.repo.CreateGrupoTalle(ctx, nombre, rango)
}

// UpdateGrupoTalle обновляет размерную группу.
func (s *Service) UpdateGrupoTalle(ctx context.Context, id int64, nombre, rango string) error {
	return s.repo.UpdateGrupoTalle(ctx, id, nombre, rango)
}

// DeleteGrupoTalle удаляет размерную группу.
func (s *Service) DeleteGrupoTalle(ctx context.Context, id int64) error {
	return s.repo.DeleteGrupoTalle(ctx, id)
}

// CreateProducto создаёт товар каталога.
func (s *Service) CreateProducto(ctx context.Context, p model.Producto) (uuid.UUID, error) {
	return s.repo.CreateProducto(ctx, p)
}

// UpdateProducto обновляет товар каталога.
func (s *Service) UpdateProducto(ctx context.Context, p model.Producto) error {
	return s.repo.UpdateProducto(ctx, p)
}

// DeleteProducto удаляет товар каталога.
func (s *Service) DeleteProducto(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProducto(ctx, id)
}
