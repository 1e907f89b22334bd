package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avdeevsm/mayorista-system/internal/middleware"
	"github.com/avdeevsm/mayorista-system/internal/model"
	"github.com/avdeevsm/mayorista-system/internal/order"
	"github.com/avdeevsm/mayorista-system/internal/repository"
	"github.com/avdeevsm/mayorista-system/internal/service"
)

type stubService struct {
	productos    []model.Producto
	productosErr error

	addToCartErr error
	removed      []int
	cleared      bool
	resumen      service.ResumenCarrito

	toggleResult bool
	favoritos    []model.Favorito

	checkoutPedido model.Pedido
	checkoutLink   string
	checkoutErr    error

	historial        []model.Pedido
	historialCleared bool

	adminOK  bool
	adminErr error

	generos         []model.Genero
	createGeneroErr error
}

func (s *stubService) ListProductos(ctx context.Context, f repository.FiltroProductos) ([]model.Producto, error) {
	return s.productos, s.productosErr
}

func (s *stubService) GetProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	for i := range s.productos {
		if s.productos[i].ID == id {
			return &s.productos[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubService) CreateProducto(ctx context.Context, p model.Producto) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (s *stubService) UpdateProducto(ctx context.Context, p model.Producto) error { return nil }
func (s *stubService) DeleteProducto(ctx context.Context, id uuid.UUID) error     { return nil }

func (s *stubService) AddToCart(item model.ItemCarrito) error { return s.addToCartErr }

func (s *stubService) RemoveFromCart(index int) { s.removed = append(s.removed, index) }
func (s *stubService) ClearCart()               { s.cleared = true }

func (s *stubService) GetCart() service.ResumenCarrito { return s.resumen }

func (s *stubService) ToggleFavorito(entry model.Favorito) bool { return s.toggleResult }
func (s *stubService) ListFavoritos() []model.Favorito          { return s.favoritos }

func (s *stubService) Checkout() (model.Pedido, string, error) {
	return s.checkoutPedido, s.checkoutLink, s.checkoutErr
}

func (s *stubService) GetHistorial() []model.Pedido { return s.historial }
func (s *stubService) ClearHistorial()              { s.historialCleared = true }

func (s *stubService) AdminLogin(ctx context.Context, token string) (bool, error) {
	return s.adminOK, s.adminErr
}

func (s *stubService) ListGeneros(ctx context.Context) ([]model.Genero, error) {
	return s.generos, nil
}

func (s *stubService) CreateGenero(ctx context.Context, nombre string) (int64, error) {
	return 7, s.createGeneroErr
}

func (s *stubService) UpdateGenero(ctx context.Context, id int64, nombre string) error { return nil }
func (s *stubService) DeleteGenero(ctx context.Context, id int64) error                { return nil }

func (s *stubService) ListGruposTalle(ctx context.Context) ([]model.GrupoTalle, error) {
	return nil, nil
}

func (s *stubService) CreateGrupoTalle(ctx context.Context, nombre, rango string) (int64, error) {
	return 0, nil
}

func (s *stubService) UpdateGrupoTalle(ctx context.Context, id int64, nombre, rango string) error {
	return nil
}

func (s *stubService) DeleteGrupoTalle(ctx context.Context, id int64) error { return nil }

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	return NewHandler(svc, logger, middleware.NewAdminAuth("test-secret"))
}

func TestAddCarrito_PackInvalido(t *testing.T) {
	svc := &stubService{addToCartErr: service.ErrInvalidPackCount}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(model.ItemCarrito{
		Nombre:         "Runner X",
		PrecioUnitario: decimal.NewFromInt(120),
		TipoCurva:      model.CurvaAdulto,
		CantidadPares:  10,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/carrito", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AddCarrito(rec, req)

	if rec.Result().StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestAddCarrito_Creado(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(model.ItemCarrito{
		Nombre:         "Runner X",
		PrecioUnitario: decimal.NewFromInt(120),
		TipoCurva:      model.CurvaAdulto,
		CantidadPares:  12,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/carrito", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AddCarrito(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q, want application/json", ct)
	}
}

func TestRemoveCarrito_ViaRouter(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	// Индекс за пределами корзины — тоже 204: позиция считается уже удалённой.
	req := httptest.NewRequest(http.MethodDelete, "/api/carrito/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusNoContent)
	}
	if len(svc.removed) != 1 || svc.removed[0] != 5 {
		t.Fatalf("removed = %v, want [5]", svc.removed)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/carrito/abc", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestCheckout_CarritoVacio(t *testing.T) {
	svc := &stubService{checkoutErr: order.ErrEmptyCart}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/carrito/checkout", nil)
	rec := httptest.NewRecorder()

	h.Checkout(rec, req)

	if rec.Result().StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusNoContent)
	}
}

func TestCheckout_DevuelveLink(t *testing.T) {
	svc := &stubService{
		checkoutPedido: model.Pedido{ID: "1762182245000", Estado: model.EstadoEnviado},
		checkoutLink:   "https://wa.me/5491122334455?text=pedido",
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/carrito/checkout", nil)
	rec := httptest.NewRecorder()

	h.Checkout(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var resp checkoutResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Link != svc.checkoutLink {
		t.Fatalf("link = %q, want %q", resp.Link, svc.checkoutLink)
	}
	if resp.Pedido.ID != "1762182245000" {
		t.Fatalf("pedido id = %q", resp.Pedido.ID)
	}
}

func TestGetPedidos_ListaVaciaRenderizable(t *testing.T) {
	svc := &stubService{historial: nil}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/pedidos", nil)
	rec := httptest.NewRecorder()

	h.GetPedidos(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(res.Body)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("body = %q, want []", string(body))
	}
}

func TestGetProductos_ErrorRemotoVisible(t *testing.T) {
	svc := &stubService{productosErr: context.DeadlineExceeded}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/productos", nil)
	rec := httptest.NewRecorder()

	h.GetProductos(rec, req)

	if rec.Result().StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusInternalServerError)
	}
}

func TestAdminLogin_TokenRechazado(t *testing.T) {
	svc := &stubService{adminOK: false}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(loginRequest{Token: "bad"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AdminLogin(rec, req)

	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAdminCRUD_RequiereSesion(t *testing.T) {
	svc := &stubService{generos: []model.Genero{{ID: 1, Nombre: "Hombre"}}}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/generos", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status without cookie = %d, want %d", rec.Result().StatusCode, http.StatusUnauthorized)
	}

	// С валидной cookie сессии тот же маршрут отвечает данными.
	cookieRec := httptest.NewRecorder()
	h.adminAuth.SetSessionCookie(cookieRec, "admin")
	cookie := cookieRec.Result().Cookies()[0]

	req = httptest.NewRequest(http.MethodGet, "/api/admin/generos", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("status with cookie = %d, want %d", rec.Result().StatusCode, http.StatusOK)
	}
}

func TestCreateGenero_Conflicto(t *testing.T) {
	svc := &stubService{createGeneroErr: repository.ErrGeneroExists}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(generoRequest{Nombre: "Hombre"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/generos", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateGenero(rec, req)

	if rec.Result().StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusConflict)
	}
}
