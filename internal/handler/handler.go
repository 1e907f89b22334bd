// Package handler содержит HTTP-обработчики API витрины.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avdeevsm/mayorista-system/internal/middleware"
	"github.com/avdeevsm/mayorista-system/internal/model"
	"github.com/avdeevsm/mayorista-system/internal/order"
	"github.com/avdeevsm/mayorista-system/internal/repository"
	"github.com/avdeevsm/mayorista-system/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ListProductos(ctx context.Context, f repository.FiltroProductos) ([]model.Producto, error)
	GetProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	CreateProducto(ctx context.Context, p model.Producto) (uuid.UUID, error)
	UpdateProducto(ctx context.Context, p model.Producto) error
	DeleteProducto(ctx context.Context, id uuid.UUID) error

	AddToCart(item model.ItemCarrito) error
	RemoveFromCart(index int)
	ClearCart()
	GetCart() service.ResumenCarrito

	ToggleFavorito(entry model.Favorito) bool
	ListFavoritos() []model.Favorito

	Checkout() (model.Pedido, string, error)
	GetHistorial() []model.Pedido
	ClearHistorial()

	AdminLogin(ctx context.Context, token string) (bool, error)
	ListGeneros(ctx context.Context) ([]model.Genero, error)
	CreateGenero(ctx context.Context, nombre string) (int64, error)
	UpdateGenero(ctx context.Context, id int64, nombre string) error
	DeleteGenero(ctx context.Context, id int64) error
	ListGruposTalle(ctx context.Context) ([]model.GrupoTalle, error)
	CreateGrupoTalle(ctx context.Context, nombre, rango string) (int64, error)
	UpdateGrupoTalle(ctx context.Context, id int64, nombre, rango string) error
	DeleteGrupoTalle(ctx context.Context, id int64) error
}

// Handler реализует HTTP-обработчики API витрины.
type Handler struct {
	service   Service
	logger    *zap.Logger
	adminAuth *middleware.AdminAuth
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, adminAuth *middleware.AdminAuth) *Handler {
	return &Handler{
		service:   s,
		logger:    logger,
		adminAuth: adminAuth,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

// GetProductos возвращает товары каталога по фильтрам из query-параметров.
func (h *Handler) GetProductos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filtro := repository.FiltroProductos{
		Genero:          q.Get("genero"),
		GrupoTalle:      q.Get("grupo"),
		Marca:           q.Get("marca"),
		Nombre:          q.Get("q"),
		SoloDisponibles: q.Get("disponible") == "true" || q.Get("disponible") == "1",
	}

	productos, err := h.service.ListProductos(r.Context(), filtro)
	if err != nil {
		// Отказ удалённой БД показывается клиенту, в отличие от локального хранилища.
		h.logger.Error("list productos error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if productos == nil {
		productos = make([]model.Producto, 0)
	}

	h.writeJSON(w, http.StatusOK, productos)
}

// GetProducto возвращает один товар каталога.
func (h *Handler) GetProducto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	producto, err := h.service.GetProducto(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("get producto error", zap.Error(err), zap.String("id", id.String()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, producto)
}

// GetCarrito возвращает корзину с производными итогами.
func (h *Handler) GetCarrito(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.GetCart())
}

// AddCarrito добавляет позицию в корзину.
func (h *Handler) AddCarrito(w http.ResponseWriter, r *http.Request) {
	var item model.ItemCarrito
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if item.Nombre == "" || item.PrecioUnitario.IsNegative() {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.AddToCart(item); err != nil {
		if errors.Is(err, service.ErrInvalidPackCount) || errors.Is(err, service.ErrInvalidCurva) {
			http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("add to cart error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, h.service.GetCart())
}

// RemoveCarrito удаляет позицию по индексу. Устаревший индекс трактуется
// как уже удалённая позиция, ответ тот же.
func (h *Handler) RemoveCarrito(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.service.RemoveFromCart(index)
	w.WriteHeader(http.StatusNoContent)
}

// ClearCarrito опустошает корзину.
func (h *Handler) ClearCarrito(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCart()
	w.WriteHeader(http.StatusNoContent)
}

type checkoutResponse struct {
	Pedido model.Pedido `json:"pedido"`
	Link   string       `json:"link"`
}

// Checkout компилирует заказ и возвращает ссылку передачи в мессенджер.
// Пустая корзина — не ошибка: заказ просто не создаётся.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	pedido, link, err := h.service.Checkout()
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.logger.Error("checkout error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, checkoutResponse{Pedido: pedido, Link: link})
}

// GetFavoritos возвращает список избранного.
func (h *Handler) GetFavoritos(w http.ResponseWriter, r *http.Request) {
	favoritos := h.service.ListFavoritos()
	if favoritos == nil {
		favoritos = make([]model.Favorito, 0)
	}
	h.writeJSON(w, http.StatusOK, favoritos)
}

type toggleResponse struct {
	Favorito bool `json:"favorito"`
}

// ToggleFavorito переключает членство товара в избранном.
func (h *Handler) ToggleFavorito(w http.ResponseWriter, r *http.Request) {
	var entry model.Favorito
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if entry.ID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, toggleResponse{Favorito: h.service.ToggleFavorito(entry)})
}

// GetPedidos возвращает историю заказов от новых к старым.
// Пустая или повреждённая история — валидный пустой список.
func (h *Handler) GetPedidos(w http.ResponseWriter, r *http.Request) {
	pedidos := h.service.GetHistorial()
	if pedidos == nil {
		pedidos = make([]model.Pedido, 0)
	}
	h.writeJSON(w, http.StatusOK, pedidos)
}

// ClearPedidos удаляет всю историю заказов.
func (h *Handler) ClearPedidos(w http.ResponseWriter, r *http.Request) {
	h.service.ClearHistorial()
	w.WriteHeader(http.StatusNoContent)
}

type loginRequest struct {
	Token string `json:"token"`
}

// AdminLogin проверяет токен у удалённого сервиса и устанавливает cookie сессии.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Token == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	ok, err := h.service.AdminLogin(r.Context(), req.Token)
	if err != nil {
		h.logger.Error("admin login error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	h.adminAuth.SetSessionCookie(w, "admin")
	w.WriteHeader(http.StatusOK)
}
